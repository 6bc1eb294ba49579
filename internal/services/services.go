package services

import (
	"fmt"
	"net/http"

	"github.com/desertthunder/waslerr/internal/shared"
)

// DefaultBaseURL is the hosted auth API.
const DefaultBaseURL = "https://waslerrfields-backend.vercel.app/api/auth"

// TransportError is a failed request: the network call failed, the status
// was not 2xx or the body did not have the expected shape.
type TransportError struct {
	// StatusCode is zero when no response was received.
	StatusCode int
	// Message is the server's message field, if any.
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%v: HTTP %d: %s", shared.ErrAPIRequest, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: HTTP %d: %s", shared.ErrAPIRequest, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", shared.ErrAPIRequest, e.Err)
	default:
		return shared.ErrAPIRequest.Error()
	}
}

// Unwrap exposes both [shared.ErrAPIRequest] and the underlying cause.
func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrAPIRequest}
	}
	return []error{shared.ErrAPIRequest, e.Err}
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
