package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"studylink/internal/config"
	"studylink/internal/domain"
	"studylink/mocks"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-please-rotate",
		Issuer:             "studylink-test",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	}
}

func testUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "student@example.com",
		PasswordHash: string(hash),
		DisplayName:  "Student",
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t, "correct horse")
	repo := new(mocks.MockUserRepository)
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := NewAuthService(repo, jwtTestConfig())
	pair, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "correct horse"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	user := testUser(t, "correct horse")
	repo := new(mocks.MockUserRepository)
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := NewAuthService(repo, jwtTestConfig())
	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "battery staple"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	svc := NewAuthService(repo, jwtTestConfig())
	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	user := testUser(t, "correct horse")
	user.IsActive = false
	repo := new(mocks.MockUserRepository)
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := NewAuthService(repo, jwtTestConfig())
	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	user := testUser(t, "correct horse")
	repo := new(mocks.MockUserRepository)
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	svc := NewAuthService(repo, jwtTestConfig())
	pair, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "correct horse"})
	require.NoError(t, err)

	renewed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)
}

func TestAccessTokenCannotRefresh(t *testing.T) {
	user := testUser(t, "correct horse")
	repo := new(mocks.MockUserRepository)
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := NewAuthService(repo, jwtTestConfig())
	pair, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "correct horse"})
	require.NoError(t, err)

	// Audience check: an access token is not a refresh token, and vice versa.
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(new(mocks.MockUserRepository), jwtTestConfig())
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
