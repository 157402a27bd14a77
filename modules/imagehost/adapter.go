package imagehost

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// imageAdapter wraps ServiceContainer for type-safe cross-module communication.
// It implements the ImagePort interface.
type imageAdapter struct {
	container mono.ServiceContainer
}

// NewImageAdapter creates a new adapter for image hosting services.
// container is the ServiceContainer received via SetDependencyServiceContainer.
func NewImageAdapter(container mono.ServiceContainer) ImagePort {
	if container == nil {
		panic("image adapter requires non-nil ServiceContainer")
	}
	return &imageAdapter{container: container}
}

// UploadImage uploads an image via the upload-image service.
func (a *imageAdapter) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	req := UploadImageRequest{Filename: filename, Data: data}
	var resp UploadImageResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"upload-image",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", fmt.Errorf("upload-image service call failed: %w", err)
	}
	return resp.URL, nil
}
