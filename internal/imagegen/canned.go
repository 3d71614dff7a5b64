package imagegen

import (
	"context"
	"time"

	"github.com/google/uuid"

	"interiorai/internal/domain"
)

// CannedImageURL is the result every canned generation returns.
const CannedImageURL = "https://images.unsplash.com/photo-1618221195710-dd6b41faaea6?w=400&h=300&fit=crop"

// CannedOptions configures the deterministic client.
type CannedOptions struct {
	// Latency simulates service delay for image generation; style lookups
	// take a quarter of it.
	Latency time.Duration
	NewID   func() string
}

// CannedClient answers from local tables without any network traffic. It is
// used in development and by the dev proxy.
type CannedClient struct {
	latency time.Duration
	newID   func() string
}

func NewCannedClient(opts CannedOptions) *CannedClient {
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return "design_" + uuid.NewString() }
	}
	return &CannedClient{latency: opts.Latency, newID: newID}
}

func (c *CannedClient) GenerateImage(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := sleep(ctx, c.latency); err != nil {
		return nil, err
	}
	return &GenerateResponse{ImageURL: CannedImageURL, ID: c.newID()}, nil
}

// StyleInfo returns the catalog description for style, or a generic
// description for styles outside the catalog.
func (c *CannedClient) StyleInfo(ctx context.Context, style string) (*StyleInfo, error) {
	if err := (StyleInfoRequest{Style: style}).Validate(); err != nil {
		return nil, err
	}
	if err := sleep(ctx, c.latency/4); err != nil {
		return nil, err
	}
	s, ok := domain.LookupStyle(style)
	if !ok {
		s = domain.FallbackStyleInfo
	}
	return &StyleInfo{Description: s.Description, Tips: append([]string(nil), s.Tips...)}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return networkError(err)
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return networkError(ctx.Err())
	case <-timer.C:
		return nil
	}
}

var _ Generator = (*CannedClient)(nil)
