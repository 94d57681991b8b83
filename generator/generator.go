package generator

import (
	"context"
	"errors"
)

// Provider failure classes the caller can distinguish. Rate limits are
// transient; exhausted quota needs operator attention. Anything else from a
// provider surfaces as a plain transport error.
var (
	ErrRateLimited    = errors.New("completion provider rate limited")
	ErrQuotaExhausted = errors.New("completion provider quota exhausted")
)

type Generator interface {
	Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)
}
