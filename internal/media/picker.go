// Package media acquires room photos from the photo library or the camera.
package media

import (
	"context"
	"fmt"
	"strings"

	"interiorai/internal/domain"
)

// Source selects where an image is acquired from.
type Source string

const (
	SourceLibrary Source = "library"
	SourceCamera  Source = "camera"
)

// ParseSource accepts the user-facing source names.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SourceLibrary), "gallery", "photos":
		return SourceLibrary, nil
	case string(SourceCamera):
		return SourceCamera, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, s)
	}
}

// Picker abstracts the platform permission prompt and picker UI. Pick returns
// ok=false when the user cancelled.
type Picker interface {
	RequestPermission(ctx context.Context, source Source) (bool, error)
	Pick(ctx context.Context, source Source) (ref string, ok bool, err error)
}
