package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
)

type Kind int

const (
	KindUnavailable Kind = iota
	KindTimeout
	KindCircuitOpen
	KindMalformed
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindCircuitOpen:
		return "circuit_open"
	case KindMalformed:
		return "malformed"
	case KindCanceled:
		return "canceled"
	default:
		return "unavailable"
	}
}

// Error is a collaborator failure tagged with what went wrong.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is the outcome of a guarded call. Err is nil on success.
type Result[T any] struct {
	Value T
	Err   *Error
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Fail[T any](op string, kind Kind, err error) Result[T] {
	return Result[T]{Err: &Error{Kind: kind, Op: op, Err: err}}
}

// Classify maps a raw error to a Kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return KindCircuitOpen
	default:
		var be *Error
		if errors.As(err, &be) {
			return be.Kind
		}
		return KindUnavailable
	}
}
