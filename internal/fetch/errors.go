package fetch

import (
	"context"
	"errors"
)

// Fetch errors. Transport failures are passed through unchanged.
var (
	// ErrInvalidResponse means the transport returned no HTTP response
	ErrInvalidResponse = errors.New("invalid response")

	// ErrInvalidStatusCode means the server answered with a status other than 200
	ErrInvalidStatusCode = errors.New("invalid status code")

	// ErrInvalidData means a local file could not be read or was empty
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidContentLength means fewer bytes arrived than the response declared
	ErrInvalidContentLength = errors.New("invalid content length")

	// ErrConversion means the bytes could not be decoded into an image
	ErrConversion = errors.New("conversion error")

	// ErrTooLarge means the payload exceeded the configured byte limit
	ErrTooLarge = errors.New("image too large")
)

// Error kinds returned by Kind
const (
	KindNone                 = ""
	KindInvalidResponse      = "invalid_response"
	KindInvalidStatusCode    = "invalid_status_code"
	KindInvalidData          = "invalid_data"
	KindInvalidContentLength = "invalid_content_length"
	KindConversion           = "conversion_error"
	KindCancelled            = "cancelled"
	KindTransport            = "transport_error"
)

// Kind maps an error reported by a fetch to a short label for logs and CLI output.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidResponse):
		return KindInvalidResponse
	case errors.Is(err, ErrInvalidStatusCode):
		return KindInvalidStatusCode
	case errors.Is(err, ErrInvalidData):
		return KindInvalidData
	case errors.Is(err, ErrInvalidContentLength):
		return KindInvalidContentLength
	case errors.Is(err, ErrConversion):
		return KindConversion
	case errors.Is(err, context.Canceled):
		return KindCancelled
	}
	return KindTransport
}
