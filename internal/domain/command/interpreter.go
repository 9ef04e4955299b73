// internal/domain/command/interpreter.go
package command

import (
	"context"
	"errors"
	"fmt"
)

// Interpreter converts raw command text into a structured proposal using the
// contextual snapshot. Implementations live behind this boundary; the core
// treats their output as untrusted input requiring full validation.
type Interpreter interface {
	Interpret(ctx context.Context, commandText string, snapshot *Snapshot) (*Proposal, error)
}

// Classification errors for the interpreter boundary. Callers use these to
// pick the right backoff behavior; everything else is a generic upstream
// failure.
var (
	// ErrRateLimited signals the upstream interpreter throttled the request;
	// the caller can retry after backing off.
	ErrRateLimited = errors.New("interpreter rate limited")
	// ErrUnavailable signals the upstream interpreter could not be reached
	ErrUnavailable = errors.New("interpreter unavailable")
)

// UpstreamError is the distinct envelope-level failure for infrastructure
// problems (interpreter or store unreachable). It maps to a 5xx-style
// response, or 429 when the upstream throttled us.
type UpstreamError struct {
	RateLimited bool
	Err         error
}

func (e *UpstreamError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("upstream rate limited: %v", e.Err)
	}
	return fmt.Sprintf("upstream failure: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
