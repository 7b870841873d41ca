package recommender

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyCatalog = errors.New("catalog is empty")
)

type UpstreamKind string

const (
	UpstreamTransport   UpstreamKind = "transport"
	UpstreamAuth        UpstreamKind = "auth"
	UpstreamRateLimit   UpstreamKind = "rate_limit"
	UpstreamEmpty       UpstreamKind = "empty"
	UpstreamTimeout     UpstreamKind = "timeout"
	UpstreamCanceled    UpstreamKind = "canceled"
	UpstreamUnavailable UpstreamKind = "unavailable"
	UpstreamProvider    UpstreamKind = "provider"
)

// UpstreamError is a failure of the generation service. Only UpstreamTransport
// is retried.
type UpstreamError struct {
	Kind UpstreamKind
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation service %s error: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Retryable() bool {
	return e.Kind == UpstreamTransport
}

// FormatError means the generated text could not be parsed as a list of
// recommendations. Offset is the byte offset reported by the parser, or -1.
type FormatError struct {
	Msg    string
	Offset int64
	Err    error
}

func newFormatError(err error) *FormatError {
	fe := &FormatError{Msg: err.Error(), Offset: -1, Err: err}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		fe.Offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		fe.Offset = typeErr.Offset
	}

	return fe
}

func (e *FormatError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("malformed generated response at offset %d: %s", e.Offset, e.Msg)
	}

	return fmt.Sprintf("malformed generated response: %s", e.Msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
