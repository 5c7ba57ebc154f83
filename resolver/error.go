package resolver

import (
	"errors"
	"fmt"

	"github.com/reel-cli/reel/stream"
)

// Kind classifies a resolution failure.
type Kind int

const (
	// Network covers transport failures and non-success statuses.
	Network Kind = iota + 1
	// NoOutput means the endpoint answered but has nothing playable for the identifier.
	NoOutput
	// Malformed means the response could not be understood.
	Malformed
	// Timeout is reported when the attempt outlives its deadline.
	Timeout
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case NoOutput:
		return "no output"
	case Malformed:
		return "malformed"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is returned for every failed resolution.
type Error struct {
	Kind   Kind
	Source stream.SourceID
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("resolve %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrTimeout is wrapped by Timeout errors.
var ErrTimeout = errors.New("resolution timed out")

// ErrNoOutput is wrapped by NoOutput errors.
var ErrNoOutput = errors.New("no playable output")

// NewTimeout builds the error reported when an attempt exceeds its deadline.
func NewTimeout(id stream.SourceID) *Error {
	return &Error{Kind: Timeout, Source: id, Err: ErrTimeout}
}

// KindOf extracts the kind from err. Errors not produced by this package are Network.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Network
}

// Retryable reports whether asking again could produce a different outcome.
func Retryable(err error) bool {
	return err != nil && KindOf(err) != NoOutput
}
