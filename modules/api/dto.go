package api

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON body for operations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the HTTP response for the health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// CredentialsRequest is the HTTP request body for register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the HTTP request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateStatusRequest is the HTTP request body for a status-only change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// BulkDeleteRequest is the HTTP request body for bulk deletion.
type BulkDeleteRequest struct {
	TaskIDs []string `json:"taskIds"`
}

// BulkDeleteResponse reports how many tasks were removed.
type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}
