package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const defaultTimeout = 30 * time.Second

// hostResponse is the relevant subset of the image host's upload response.
type hostResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
}

// HostClient uploads images to an external image hosting service.
// The host expects a multipart form with a single base64-encoded "image"
// field and authenticates via a "key" query parameter.
type HostClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHostClient creates a client for the given upload endpoint.
func NewHostClient(endpoint, apiKey string) *HostClient {
	return &HostClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

// Upload stores the image bytes on the host and returns the public URL.
// The incoming bytes are staged in a temp file which is removed on every
// exit path; removal failures are ignored.
func (c *HostClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	staged, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read temp file: %w", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("image", base64.StdEncoding.EncodeToString(staged)); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	uploadURL := c.endpoint + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: host returned status %d", ErrUploadFailed, resp.StatusCode)
	}

	var parsed hostResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: invalid host response: %v", ErrUploadFailed, err)
	}
	if !parsed.Success || parsed.Data.URL == "" {
		return "", fmt.Errorf("%w: host reported failure", ErrUploadFailed)
	}

	return parsed.Data.URL, nil
}
