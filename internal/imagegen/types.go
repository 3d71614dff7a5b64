package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"interiorai/internal/domain"
)

// GenerateRequest asks the service to redesign Image in Style. Image is a
// reference understood by the client: a remote URL, a file:// URI or a path.
type GenerateRequest struct {
	Image string `json:"image" validate:"required"`
	Style string `json:"style" validate:"required,max=64"`
}

// GenerateResponse carries the produced image reference and its identifier.
type GenerateResponse struct {
	ImageURL string `json:"imageUrl"`
	ID       string `json:"id"`
}

// StyleInfoRequest is the body of a style metadata request.
type StyleInfoRequest struct {
	Style string `json:"style" validate:"required,max=64"`
}

// StyleInfo is the descriptive metadata for a style.
type StyleInfo struct {
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
}

// Generator is the contract implemented by every generation client.
type Generator interface {
	GenerateImage(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	StyleInfo(ctx context.Context, style string) (*StyleInfo, error)
}

// APIError reports a failed call with the HTTP status the service answered,
// or 500 when no response was received.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("imagegen: http %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusOf extracts the status code carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func networkError(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: "Network error occurred", Err: err}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request fields before any network traffic.
func (r GenerateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

// Validate checks the request fields before any network traffic.
func (r StyleInfoRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}
