package auth

import (
	"context"

	"github.com/fixmate/fixmate/internal/domain"
)

// Identity is the authenticated caller of an operation.
type Identity struct {
	UserID string
}

// Verifier validates a bearer token and resolves the caller identity. Token
// issuing belongs to the external identity provider; deployments plug their
// own implementation here.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// StaticVerifier resolves tokens from a fixed map. Meant for self-hosted and
// test deployments.
type StaticVerifier struct {
	tokens map[string]string
}

func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	return &StaticVerifier{tokens: tokens}
}

func (v *StaticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	uid, ok := v.tokens[token]
	if !ok || uid == "" {
		return Identity{}, domain.ErrUnauthenticated
	}
	return Identity{UserID: uid}, nil
}
