package domain

import "time"

// Subscription enumerates billing tiers.
type Subscription string

const (
	SubscriptionFree    Subscription = "free"
	SubscriptionPremium Subscription = "premium"
)

// SchemaVersion is the current version written into every persisted record.
const SchemaVersion = 1

// User represents the single active account of an installation. Guests are
// created locally and keyed by the device identifier.
type User struct {
	SchemaVersion   int          `json:"schemaVersion"`
	ID              string       `json:"id"`
	DeviceID        string       `json:"deviceId"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	Subscription    Subscription `json:"subscription"`
	UsageCount      int          `json:"usageCount"`
	LastReset       time.Time    `json:"lastReset"`
}

// NewGuest builds a fresh, unauthenticated free-tier user.
func NewGuest(id, deviceID string, now time.Time) User {
	return User{
		SchemaVersion: SchemaVersion,
		ID:            id,
		DeviceID:      deviceID,
		Subscription:  SubscriptionFree,
		LastReset:     now.UTC(),
	}
}

// IsFree reports whether the user is on the free tier.
func (u User) IsFree() bool {
	return u.Subscription != SubscriptionPremium
}

// LimitReached reports whether a free-tier user has consumed the daily allowance.
func (u User) LimitReached(limit int) bool {
	return u.IsFree() && u.UsageCount >= limit
}

// QuotaDue reports whether the quota window has elapsed since the last reset.
func (u User) QuotaDue(now time.Time, window time.Duration) bool {
	return now.Sub(u.LastReset) >= window
}

// WithUsageReset returns a copy with the usage counter cleared at now.
func (u User) WithUsageReset(now time.Time) User {
	u.UsageCount = 0
	u.LastReset = now.UTC()
	return u
}

// WithUsageIncrement returns a copy with one more generation consumed.
func (u User) WithUsageIncrement() User {
	u.UsageCount++
	return u
}
