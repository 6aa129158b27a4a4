package response

type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// UpstreamErrorResponse reports a failed lookup against the Portal API.
// Status is the status the Portal answered with, 0 when it was unreachable.
type UpstreamErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
	Codigo string `json:"codigo"`
}
