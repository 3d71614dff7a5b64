package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrQuotaExceeded     = errors.New("quota exceeded")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInitFailed        = errors.New("initialization failed")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnsupportedSource = errors.New("unsupported media source")
	ErrAcquisitionFailed = errors.New("image acquisition failed")
	ErrGuestBootstrap    = errors.New("guest bootstrap failed")
)

// User-facing messages surfaced through the application status.
const (
	MsgInitFailed        = "Failed to initialize app"
	MsgGuestFailed       = "Failed to create user account"
	MsgLimitReached      = "Daily limit reached. Upgrade to premium for unlimited designs."
	MsgGenerationFailed  = "Failed to generate design. Please try again."
	MsgLibraryPermission = "Permission to access camera roll is required!"
	MsgCameraPermission  = "Permission to access camera is required!"
	MsgLibraryFailed     = "Failed to upload image"
	MsgCameraFailed      = "Failed to take photo"
)
