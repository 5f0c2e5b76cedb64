package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ModelError is returned for every failed model call.
type ModelError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *ModelError) Error() string {
	if e == nil {
		return "model error"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

var rateLimitMarkers = []string{"429", "quota exceeded", "resource_exhausted"}

// IsRateLimited reports whether err signals that the provider throttled us,
// either through a 429 status or through the quota wording in the message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var merr *ModelError
	if errors.As(err, &merr) && merr.StatusCode == http.StatusTooManyRequests {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
