// Package auth carries the authenticated principal through request contexts
// and adapts it to the port.AuthProvider contract the upload pipeline uses.
package auth

import (
	"context"

	"studylink/internal/domain"
)

type principalKey struct{}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the principal set by the auth middleware.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}

// ContextProvider resolves the principal from the request context.
type ContextProvider struct{}

// GetUser implements port.AuthProvider.
func (ContextProvider) GetUser(ctx context.Context) (*domain.Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	return p, nil
}
