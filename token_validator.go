package auth

import "context"

// Verifier resolves a presented token to an identity without tying callers
// to a specific signing implementation.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// VerifierFunc adapts a function into a Verifier.
type VerifierFunc func(ctx context.Context, token string) (Identity, error)

// Verify satisfies the Verifier interface.
func (f VerifierFunc) Verify(ctx context.Context, token string) (Identity, error) {
	if f == nil {
		return Identity{}, ErrMalformedToken
	}
	return f(ctx, token)
}
