package models

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
}

// MessageResponse is returned by operations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// VerifyResponse is the body of the existence probe.
type VerifyResponse struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}
