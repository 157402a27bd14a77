// Package client is a typed HTTP façade over the task API. Every method
// performs a single request attempt and surfaces the server-supplied error
// message on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	taskdomain "github.com/example/taskhub/domain/task"
)

// TaskInput carries the form fields for create and update calls. Tags is the
// raw comma-separated string exactly as entered; the server splits it.
type TaskInput struct {
	Name            string
	Assignee        string
	Tags            string
	Deadline        string
	Description     string
	Project         string
	Priority        string
	Status          string
	UserID          string
	CurrentImageURL string
	ImageName       string
	ImageData       []byte
}

// Filters narrows a fetched task collection. Empty fields match everything.
type Filters struct {
	Status   string
	Priority string
	Project  string
}

// Client talks to the task API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a Client for the given server base URL, e.g. "http://localhost:3000".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// SetToken sets the Bearer token sent on every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// CreateTask creates a task from the given input.
func (c *Client) CreateTask(ctx context.Context, input *TaskInput) (*taskdomain.Task, error) {
	body, contentType, err := encodeTaskForm(input, false)
	if err != nil {
		return nil, err
	}

	var created taskdomain.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, contentType, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetTasks fetches all tasks, optionally scoped to a user.
func (c *Client) GetTasks(ctx context.Context, userID string) ([]taskdomain.Task, error) {
	path := "/api/tasks"
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}

	var tasks []taskdomain.Task
	if err := c.do(ctx, http.MethodGet, path, nil, "", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, taskID string) (*taskdomain.Task, error) {
	var found taskdomain.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(taskID), nil, "", &found); err != nil {
		return nil, err
	}
	return &found, nil
}

// UpdateTask replaces a task's fields with the given input.
func (c *Client) UpdateTask(ctx context.Context, taskID string, input *TaskInput) (*taskdomain.Task, error) {
	body, contentType, err := encodeTaskForm(input, true)
	if err != nil {
		return nil, err
	}

	var updated taskdomain.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(taskID), body, contentType, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTask deletes a single task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(taskID), nil, "", nil)
}

// GetTasksWithFilters fetches the user's tasks and applies the filters
// locally. The server only understands the userId scope.
func (c *Client) GetTasksWithFilters(ctx context.Context, userID string, filters Filters) ([]taskdomain.Task, error) {
	tasks, err := c.GetTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := make([]taskdomain.Task, 0, len(tasks))
	for _, t := range tasks {
		if filters.Status != "" && string(t.Status) != filters.Status {
			continue
		}
		if filters.Priority != "" && string(t.Priority) != filters.Priority {
			continue
		}
		if filters.Project != "" && t.Project != filters.Project {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}

// UpdateTaskStatus changes only the status of a task.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, status string) (*taskdomain.Task, error) {
	payload, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return nil, err
	}

	var updated taskdomain.Task
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(taskID)+"/status",
		bytes.NewReader(payload), "application/json", &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// BulkDeleteTasks deletes the given tasks and returns the number removed.
func (c *Client) BulkDeleteTasks(ctx context.Context, taskIDs []string) (int, error) {
	payload, err := json.Marshal(map[string][]string{"taskIds": taskIDs})
	if err != nil {
		return 0, err
	}

	var result struct {
		Deleted int `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/tasks/bulk-delete",
		bytes.NewReader(payload), "application/json", &result); err != nil {
		return 0, err
	}
	return result.Deleted, nil
}

// encodeTaskForm builds the multipart body shared by create and update.
func encodeTaskForm(input *TaskInput, includeCurrentImage bool) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fields := map[string]string{
		"name":        input.Name,
		"assignee":    input.Assignee,
		"tags":        input.Tags,
		"deadline":    input.Deadline,
		"description": input.Description,
		"project":     input.Project,
		"priority":    input.Priority,
		"status":      input.Status,
		"userId":      input.UserID,
	}
	if includeCurrentImage {
		fields["currentImageUrl"] = input.CurrentImageURL
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to encode form field %s: %w", name, err)
		}
	}

	if len(input.ImageData) > 0 {
		fw, err := form.CreateFormFile("image", input.ImageName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode image: %w", err)
		}
		if _, err := fw.Write(input.ImageData); err != nil {
			return nil, "", fmt.Errorf("failed to encode image: %w", err)
		}
	}

	if err := form.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return body, form.FormDataContentType(), nil
}

// do performs one request and decodes the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiError extracts the server's {error} message, falling back to a generic
// message when the body is not parseable.
func apiError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s", payload.Error)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
