package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"studylink/internal/domain"
)

// MockAuthProvider is a mock implementation of port.AuthProvider.
type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) GetUser(ctx context.Context) (*domain.Principal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Principal), args.Error(1)
}
