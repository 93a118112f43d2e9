package backend

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Kind classifies a backend failure.
type Kind int

const (
	// KindTransport covers network failures and timeouts: no response was received.
	KindTransport Kind = iota + 1
	// KindStatus means the backend answered with a non-success HTTP status.
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation that fails.
// StatusCode 0 = network/connection error, >0 = HTTP response received.
//
// Message holds the backend's own explanation when it sent one; it is meant
// for logs, pages show a generic message instead.
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		msg := fmt.Sprintf("backend %s %s: status %d", e.Method, e.Path, e.StatusCode)
		if e.Message != "" {
			msg += " - " + e.Message
		}
		return msg
	default:
		return fmt.Sprintf("backend %s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call failed because a deadline passed.
func (e *Error) Timeout() bool {
	if e.Kind != KindTransport {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// newStatusError builds an Error from a non-success response. The backend
// reports problems as {"status": "error", "error": ..., "message": ...}.
func newStatusError(res *resty.Response, path string) *Error {
	body := res.Body()

	message := gjson.GetBytes(body, "message").String()
	if message == "" {
		message = gjson.GetBytes(body, "error").String()
	}

	return &Error{
		Kind:       KindStatus,
		Method:     res.Request.Method,
		Path:       path,
		StatusCode: res.StatusCode(),
		Message:    message,
	}
}

// asError converts whatever resty returned into an *Error.
func asError(method, path string, err error) *Error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}

	// resty wraps failures in a ResponseError before handing them to error hooks
	var re *resty.ResponseError
	if errors.As(err, &re) && re.Err != nil {
		err = re.Err
	}

	return &Error{
		Kind:   KindTransport,
		Method: method,
		Path:   path,
		Err:    err,
	}
}
