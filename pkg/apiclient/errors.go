package apiclient

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a failed call.
type ErrorKind uint8

const (
	// KindTransport covers network failures and unreadable responses.
	KindTransport ErrorKind = iota + 1
	// KindHTTP is a response outside the 2xx range.
	KindHTTP
	// KindDecode is a 2xx response whose body is not valid JSON.
	KindDecode
	// KindEncode is a request body that could not be encoded.
	KindEncode
	// KindStore is a TokenStore failure.
	KindStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is returned by every failed call. Error() yields Message alone, so a
// backend {"detail": "Invalid credentials"} surfaces as "Invalid credentials".
type Error struct {
	Kind     ErrorKind
	Status   int // HTTP status, zero when no response was received
	Message  string
	Method   string
	Endpoint string
	Cause    error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// KindOf returns the kind of an *Error in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsUnauthorized reports whether the backend rejected the credentials.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindHTTP && StatusCode(err) == http.StatusUnauthorized
}
