package domain

import "context"

// PersistenceGateway defines durable storage for the user, the design
// collection and the device identifier. Absent records are not errors:
// User returns nil, Designs returns an empty collection and DeviceID an
// empty string.
type PersistenceGateway interface {
	User(ctx context.Context) (*User, error)
	SaveUser(ctx context.Context, user User) error
	ClearUser(ctx context.Context) error

	Designs(ctx context.Context) ([]GeneratedDesign, error)
	SaveDesigns(ctx context.Context, designs []GeneratedDesign) error
	ClearDesigns(ctx context.Context) error

	DeviceID(ctx context.Context) (string, error)
	SaveDeviceID(ctx context.Context, deviceID string) error

	Migrate(ctx context.Context) (bool, error)
	ClearAll(ctx context.Context) error
}
