package imagehost

import "context"

// UploadImageRequest is the request for uploading an image.
// Data is raw image bytes; JSON encoding handles base64 transparently.
type UploadImageRequest struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

// UploadImageResponse is the response for a successful upload.
type UploadImageResponse struct {
	URL string `json:"url"`
}

// ImagePort defines the interface for image hosting operations.
// Modules that attach images to their entities depend on this port.
type ImagePort interface {
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}
