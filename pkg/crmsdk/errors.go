package crmsdk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string // machine-readable "error" field from the body, if any
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("crmsdk: %s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("crmsdk: HTTP %d", e.StatusCode)
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Code = body.Error
	}
	return apiErr
}
