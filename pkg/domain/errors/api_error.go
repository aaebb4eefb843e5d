package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure categories a caller can observe.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindUnauthorized
	KindPaymentRequired
	KindForbidden
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindInternal:        "internal",
	KindInvalidArgument: "invalid_argument",
	KindUnauthorized:    "unauthorized",
	KindPaymentRequired: "payment_required",
	KindForbidden:       "forbidden",
	KindRateLimited:     "rate_limited",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInternal]
}

// Status is the HTTP status a caller receives for this kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPaymentRequired:
		return http.StatusPaymentRequired
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the only error type that reaches callers. Code is an upstream
// error code (1001-1011) when one applies, otherwise the HTTP status of the
// general error type. Cause is kept for logging and never rendered.
type APIError struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

func (e *APIError) Status() int {
	return e.Kind.Status()
}

func newGeneral(kind Kind, message string) *APIError {
	return &APIError{Kind: kind, Code: kind.Status(), Message: message}
}

func InvalidArgument(message string) *APIError {
	return newGeneral(KindInvalidArgument, message)
}

func Internal(message string, cause error) *APIError {
	e := newGeneral(KindInternal, message)
	e.Cause = cause
	return e
}

// Unexpected hides cause behind the generic internal message.
func Unexpected(cause error) *APIError {
	return Internal(genericInternalMessage, cause)
}

func MissingAPIKey() *APIError {
	return FromCode(CodeAPIKeyMissing, "")
}

// FromCode builds the error for a documented upstream code. An empty message
// takes the documented default.
func FromCode(code Code, message string) *APIError {
	info, ok := codeTable[code]
	if !ok {
		return Internal(genericInternalMessage, fmt.Errorf("undocumented upstream code %d: %s", code, message))
	}
	if message == "" {
		message = info.message
	}
	return &APIError{Kind: info.kind, Code: int(code), Message: message}
}

// FromStatus classifies an upstream failure. A documented upstream code wins
// over the HTTP status; statuses outside the closed set become internal.
func FromStatus(status int, upstreamCode int, message string) *APIError {
	if info, ok := codeTable[Code(upstreamCode)]; ok {
		if message == "" {
			message = info.message
		}
		return &APIError{Kind: info.kind, Code: upstreamCode, Message: message}
	}

	var kind Kind
	switch status {
	case http.StatusBadRequest:
		kind = KindInvalidArgument
	case http.StatusUnauthorized:
		kind = KindUnauthorized
	case http.StatusPaymentRequired:
		kind = KindPaymentRequired
	case http.StatusForbidden:
		kind = KindForbidden
	case http.StatusTooManyRequests:
		kind = KindRateLimited
	default:
		return Internal(genericInternalMessage, fmt.Errorf("upstream status %d: %s", status, message))
	}
	if message == "" {
		message = defaultMessages[kind]
	}
	return &APIError{Kind: kind, Code: kind.Status(), Message: message}
}

// AsAPIError unwraps err into an *APIError; anything else is internal.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Unexpected(err)
}
