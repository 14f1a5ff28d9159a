package port

import (
	"context"

	"studylink/internal/domain"
)

// AuthProvider resolves the authenticated principal for the current request.
// The upload pipeline consults it exactly once per upload, before any byte
// transfer.
type AuthProvider interface {
	GetUser(ctx context.Context) (*domain.Principal, error)
}
