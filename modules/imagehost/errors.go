package imagehost

import "errors"

var (
	// ErrUploadFailed is returned when the image host rejects or fails an upload.
	ErrUploadFailed = errors.New("image upload failed")
	// ErrNotConfigured is returned when no API key is configured for the image host.
	ErrNotConfigured = errors.New("image host API key not configured")
)
