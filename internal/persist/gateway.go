// Package persist maps the application records onto a key-value store.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"interiorai/internal/domain"
	"interiorai/internal/storage"
)

// Keys under which the records are stored.
const (
	KeyUser     = "interior_app_user"
	KeyDesigns  = "interior_app_designs"
	KeyDeviceID = "interior_app_device_id"
)

// ErrFutureSchema is returned when a record was written by a newer schema
// than this build understands.
var ErrFutureSchema = errors.New("persist: record written by a newer schema version")

type designsRecord struct {
	SchemaVersion int                      `json:"schemaVersion"`
	Designs       []domain.GeneratedDesign `json:"designs"`
}

// Gateway implements domain.PersistenceGateway over a storage.KV.
type Gateway struct {
	kv storage.KV
}

func New(kv storage.KV) *Gateway {
	return &Gateway{kv: kv}
}

func (g *Gateway) User(ctx context.Context) (*domain.User, error) {
	raw, ok, err := g.kv.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("persist: get user: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("persist: decode user: %w", err)
	}
	return &user, nil
}

func (g *Gateway) SaveUser(ctx context.Context, user domain.User) error {
	user.SchemaVersion = domain.SchemaVersion
	user.LastReset = user.LastReset.UTC()
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("persist: encode user: %w", err)
	}
	if err := g.kv.Set(ctx, KeyUser, string(data)); err != nil {
		return fmt.Errorf("persist: save user: %w", err)
	}
	return nil
}

func (g *Gateway) ClearUser(ctx context.Context) error {
	if err := g.kv.Delete(ctx, KeyUser); err != nil {
		return fmt.Errorf("persist: clear user: %w", err)
	}
	return nil
}

func (g *Gateway) Designs(ctx context.Context) ([]domain.GeneratedDesign, error) {
	rec, _, err := g.loadDesigns(ctx)
	if err != nil {
		return []domain.GeneratedDesign{}, err
	}
	return rec.Designs, nil
}

// loadDesigns decodes the stored collection. Legacy records are a bare JSON
// array; they decode with schema version 0.
func (g *Gateway) loadDesigns(ctx context.Context) (designsRecord, bool, error) {
	rec := designsRecord{Designs: []domain.GeneratedDesign{}}
	raw, ok, err := g.kv.Get(ctx, KeyDesigns)
	if err != nil {
		return rec, false, fmt.Errorf("persist: get designs: %w", err)
	}
	if !ok {
		return rec, false, nil
	}
	data := bytes.TrimSpace([]byte(raw))
	if bytes.HasPrefix(data, []byte("[")) {
		if err := json.Unmarshal(data, &rec.Designs); err != nil {
			return designsRecord{Designs: []domain.GeneratedDesign{}}, true, fmt.Errorf("persist: decode designs: %w", err)
		}
		return rec, true, nil
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return designsRecord{Designs: []domain.GeneratedDesign{}}, true, fmt.Errorf("persist: decode designs: %w", err)
	}
	if rec.Designs == nil {
		rec.Designs = []domain.GeneratedDesign{}
	}
	return rec, true, nil
}

func (g *Gateway) SaveDesigns(ctx context.Context, designs []domain.GeneratedDesign) error {
	rec := designsRecord{SchemaVersion: domain.SchemaVersion, Designs: make([]domain.GeneratedDesign, len(designs))}
	for i, d := range designs {
		d.CreatedAt = d.CreatedAt.UTC()
		rec.Designs[i] = d
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("persist: encode designs: %w", err)
	}
	if err := g.kv.Set(ctx, KeyDesigns, string(data)); err != nil {
		return fmt.Errorf("persist: save designs: %w", err)
	}
	return nil
}

// AddDesign prepends d to the stored collection.
func (g *Gateway) AddDesign(ctx context.Context, d domain.GeneratedDesign) error {
	designs, err := g.Designs(ctx)
	if err != nil {
		return err
	}
	return g.SaveDesigns(ctx, domain.Prepend(designs, d))
}

// RemoveDesign drops the first stored design with id. Missing ids are not an error.
func (g *Gateway) RemoveDesign(ctx context.Context, id string) error {
	designs, err := g.Designs(ctx)
	if err != nil {
		return err
	}
	next, removed := domain.Without(designs, id)
	if !removed {
		return nil
	}
	return g.SaveDesigns(ctx, next)
}

func (g *Gateway) ClearDesigns(ctx context.Context) error {
	if err := g.kv.Delete(ctx, KeyDesigns); err != nil {
		return fmt.Errorf("persist: clear designs: %w", err)
	}
	return nil
}

func (g *Gateway) DeviceID(ctx context.Context) (string, error) {
	v, _, err := g.kv.Get(ctx, KeyDeviceID)
	if err != nil {
		return "", fmt.Errorf("persist: get device id: %w", err)
	}
	return v, nil
}

func (g *Gateway) SaveDeviceID(ctx context.Context, deviceID string) error {
	if err := g.kv.Set(ctx, KeyDeviceID, deviceID); err != nil {
		return fmt.Errorf("persist: save device id: %w", err)
	}
	return nil
}

// ClearAll removes every record owned by the application.
func (g *Gateway) ClearAll(ctx context.Context) error {
	if err := g.kv.Delete(ctx, KeyUser, KeyDesigns, KeyDeviceID); err != nil {
		return fmt.Errorf("persist: clear all: %w", err)
	}
	return nil
}

// Size returns the number of bytes held by the store, keys included.
func (g *Gateway) Size(ctx context.Context) (int64, error) {
	keys, err := g.kv.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("persist: list keys: %w", err)
	}
	var total int64
	for _, k := range keys {
		v, ok, err := g.kv.Get(ctx, k)
		if err != nil {
			return 0, fmt.Errorf("persist: size of %s: %w", k, err)
		}
		if ok {
			total += int64(len(k) + len(v))
		}
	}
	return total, nil
}

// Migrate rewrites records older than domain.SchemaVersion in the current
// format and reports whether anything was rewritten.
func (g *Gateway) Migrate(ctx context.Context) (bool, error) {
	changed := false

	user, err := g.User(ctx)
	if err != nil {
		return false, err
	}
	if user != nil {
		switch {
		case user.SchemaVersion > domain.SchemaVersion:
			return false, fmt.Errorf("%w: user v%d", ErrFutureSchema, user.SchemaVersion)
		case user.SchemaVersion < domain.SchemaVersion:
			if user.Subscription == "" {
				user.Subscription = domain.SubscriptionFree
			}
			if err := g.SaveUser(ctx, *user); err != nil {
				return false, err
			}
			changed = true
		}
	}

	rec, ok, err := g.loadDesigns(ctx)
	if err != nil {
		return changed, err
	}
	if ok {
		switch {
		case rec.SchemaVersion > domain.SchemaVersion:
			return changed, fmt.Errorf("%w: designs v%d", ErrFutureSchema, rec.SchemaVersion)
		case rec.SchemaVersion < domain.SchemaVersion:
			if err := g.SaveDesigns(ctx, rec.Designs); err != nil {
				return changed, err
			}
			changed = true
		}
	}

	return changed, nil
}

var _ domain.PersistenceGateway = (*Gateway)(nil)
