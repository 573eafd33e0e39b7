package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the resource server, preserved intact
// so upstream logic can interpret domain-specific error bodies. The
// dispatcher never retries these (401 excepted).
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Body       string `json:"-"`
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Body: string(body)}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("resource server returned %d: %s", e.StatusCode, e.Message)
}
