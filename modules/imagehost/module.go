package imagehost

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// defaultEndpoint is the imgbb upload API.
const defaultEndpoint = "https://api.imgbb.com/1/upload"

// ImageHostModule exposes image uploads as a request-reply service so the
// external hosting provider stays behind a single module boundary.
type ImageHostModule struct {
	client *HostClient
}

var _ mono.Module = (*ImageHostModule)(nil)
var _ mono.ServiceProviderModule = (*ImageHostModule)(nil)
var _ mono.HealthCheckableModule = (*ImageHostModule)(nil)

// NewModule creates a new ImageHostModule configured from the environment.
func NewModule() *ImageHostModule {
	endpoint := os.Getenv("IMAGE_HOST_URL")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &ImageHostModule{
		client: NewHostClient(endpoint, os.Getenv("IMAGE_HOST_API_KEY")),
	}
}

// Name returns the module name.
func (m *ImageHostModule) Name() string {
	return "imagehost"
}

// RegisterServices registers request-reply services in the service container.
func (m *ImageHostModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "upload-image", json.Unmarshal, json.Marshal, m.handleUpload,
	); err != nil {
		return fmt.Errorf("failed to register upload-image service: %w", err)
	}

	log.Printf("[imagehost] Registered services: upload-image")
	return nil
}

// handleUpload handles the upload-image service request.
func (m *ImageHostModule) handleUpload(ctx context.Context, req UploadImageRequest, _ *mono.Msg) (UploadImageResponse, error) {
	url, err := m.client.Upload(ctx, req.Filename, req.Data)
	if err != nil {
		return UploadImageResponse{}, err
	}
	return UploadImageResponse{URL: url}, nil
}

// Start initializes the module.
func (m *ImageHostModule) Start(_ context.Context) error {
	if m.client.apiKey == "" {
		log.Println("[imagehost] Warning: IMAGE_HOST_API_KEY not set, uploads will fail")
	}
	log.Printf("[imagehost] Module started (endpoint: %s)", m.client.endpoint)
	return nil
}

// Stop shuts down the module.
func (m *ImageHostModule) Stop(_ context.Context) error {
	log.Println("[imagehost] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *ImageHostModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"endpoint":   m.client.endpoint,
			"configured": m.client.apiKey != "",
		},
	}
}
