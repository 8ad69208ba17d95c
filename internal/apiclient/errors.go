package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/edvin/mitra-admin/internal/model"
)

// ConnectivityMessage is reported when no response was received at all.
const ConnectivityMessage = "cannot reach server, check your internet connection"

// Kind classifies a normalized failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindConnectivity
	KindServer
	KindMalformed
	KindValidation
	KindNotFound
	KindUnauthorized
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindServer:
		return "server"
	case KindMalformed:
		return "malformed"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindCanceled:
		return "canceled"
	default:
		return "unexpected"
	}
}

// Error is the single error type returned by every client in this package.
// Op names the attempted operation ("deleting product #42"); Message is what
// a user should see.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Message    string
	Fields     []model.FieldError
	Err        error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fallbackMessage(op string) string {
	return fmt.Sprintf("failed %s", op)
}

// Normalize turns a failure that happened before or instead of an HTTP
// response into an *Error. Errors that are already normalized pass through.
func Normalize(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Op == "" {
			apiErr.Op = op
		}
		return apiErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Op: op, Kind: KindCanceled, Message: "request canceled", Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Error{Op: op, Kind: KindMalformed, Message: fallbackMessage(op), Err: err}
	}

	return &Error{
		Op:      op,
		Kind:    KindUnexpected,
		Message: fmt.Sprintf("unexpected error while %s", op),
		Err:     err,
	}
}

// connectivityError reports a request that got no response.
func connectivityError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConnectivity, Message: ConnectivityMessage, Err: err}
}

// FromResponse normalizes a non-2xx response. The server's message is passed
// through verbatim when the body carries one.
func FromResponse(op string, status int, body []byte) *Error {
	e := &Error{
		Op:         op,
		StatusCode: status,
		Kind:       kindForStatus(status),
		Err:        fmt.Errorf("status %d", status),
	}

	var resp model.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		e.Message = resp.Message
		e.Fields = resp.Errors
	}
	if e.Message == "" {
		e.Message = fallbackMessage(op)
	}
	return e
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServer
	}
}

func isKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

func IsNotFound(err error) bool     { return isKind(err, KindNotFound) }
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }
func IsValidation(err error) bool   { return isKind(err, KindValidation) }
func IsConnectivity(err error) bool { return isKind(err, KindConnectivity) }
func IsCanceled(err error) bool     { return isKind(err, KindCanceled) }
