package models

// APIResponse is the uniform success envelope for every endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// APIError is the uniform failure envelope. It doubles as an error value so
// request validation can return it directly.
type APIError struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds a failure envelope with Success pinned to false.
func NewAPIError(message string, errs ...string) *APIError {
	return &APIError{
		Success: false,
		Message: message,
		Errors:  errs,
	}
}
