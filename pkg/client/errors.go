package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-orderdesk/pkg/order"
)

// APIError is a non-2xx response from the orders service. Message carries
// the service's "message" field verbatim when the body had one.
type APIError struct {
	StatusCode int
	Label      string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("client: %d %s: %s", e.StatusCode, e.label(), e.Message)
	}
	return fmt.Sprintf("client: %d %s", e.StatusCode, e.label())
}

func (e *APIError) label() string {
	if e.Label != "" {
		return e.Label
	}
	return http.StatusText(e.StatusCode)
}

type errorBody struct {
	Status  order.Text `json:"status"`
	Error   order.Text `json:"error"`
	Message order.Text `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload errorBody
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Label = strings.TrimSpace(string(payload.Error))
		apiErr.Message = strings.TrimSpace(string(payload.Message))
	}
	return apiErr
}
