package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/forms-api/internal/domain/entity"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
	"github.com/yourusername/forms-api/pkg/auth"
)

func newTestAuthService(t *testing.T, userRepo *MockUserRepository, tokenRepo *MockRefreshTokenRepository) *AuthService {
	t.Helper()

	jwtService, err := auth.NewJWTService("test-secret-key-for-auth-service", 1)
	require.NoError(t, err, "JWTService должен инициализироваться")

	service, err := NewAuthService(userRepo, tokenRepo, jwtService, 24)
	require.NoError(t, err, "AuthService должен инициализироваться")
	return service
}

func hashedTestUser(t *testing.T, id uint, email, password string) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	return &entity.User{
		ID:       id,
		Username: "tester",
		Email:    email,
		Password: string(hash),
	}
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	// Act
	user, err := service.Register("newuser", "new@example.com", "short", "", "")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "короткий пароль должен давать ошибку валидации")
	assert.Nil(t, user)
	userRepo.AssertNotCalled(t, "Create")
}

func TestAuthService_Register_EmptyUsername(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	// Act
	user, err := service.Register("   ", "new@example.com", "password123", "", "")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, user)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	userRepo.On("Create", mock.AnythingOfType("*entity.User")).
		Return(apperrors.ErrConflict)

	// Act
	user, err := service.Register("newuser", "taken@example.com", "password123", "", "")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "занятый email должен давать конфликт")
	assert.Nil(t, user)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	userRepo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "new@example.com" && u.Username == "newuser"
	})).Return(nil)

	// Act
	user, err := service.Register("  newuser  ", "  New@Example.COM ", "password123", "Jane", "Doe")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new@example.com", user.Email, "email должен нормализоваться к нижнему регистру")
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	// Act
	user, pair, err := service.Login("ghost@example.com", "whatever1")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "несуществующий email не должен раскрываться")
	assert.Nil(t, user)
	assert.Nil(t, pair)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	stored := hashedTestUser(t, 1, "user@example.com", "correct-password")
	userRepo.On("GetByEmail", "user@example.com").Return(stored, nil)

	// Act
	user, pair, err := service.Login("user@example.com", "wrong-password")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, user)
	assert.Nil(t, pair)
	tokenRepo.AssertNotCalled(t, "CreateToken")
}

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	stored := hashedTestUser(t, 7, "user@example.com", "correct-password")
	userRepo.On("GetByEmail", "user@example.com").Return(stored, nil)
	tokenRepo.On("CreateToken", mock.MatchedBy(func(rt *entity.RefreshToken) bool {
		return rt.UserID == 7 && rt.Token != "" && rt.ExpiresAt.After(time.Now())
	})).Return(nil)

	// Act
	user, pair, err := service.Login("user@example.com", "correct-password")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, pair)
	assert.Equal(t, uint(7), user.ID)
	assert.NotEmpty(t, pair.AccessToken, "access-токен должен быть выдан")
	assert.NotEmpty(t, pair.RefreshToken, "refresh-токен должен быть выдан")
	userRepo.AssertExpectations(t)
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	tokenRepo.On("GetTokenByValue", "missing").Return(nil, apperrors.ErrNotFound)

	// Act
	pair, err := service.Refresh("missing")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, pair)
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	expired := &entity.RefreshToken{
		UserID:    3,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	tokenRepo.On("GetTokenByValue", "expired-token").Return(expired, nil)
	tokenRepo.On("DeleteToken", "expired-token").Return(nil)

	// Act
	pair, err := service.Refresh("expired-token")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken, "истекший токен должен давать ErrExpiredToken")
	assert.Nil(t, pair)
	tokenRepo.AssertCalled(t, "DeleteToken", "expired-token")
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	stored := &entity.RefreshToken{
		UserID:    5,
		Token:     "old-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	user := hashedTestUser(t, 5, "user@example.com", "password123")

	tokenRepo.On("GetTokenByValue", "old-token").Return(stored, nil)
	userRepo.On("GetByID", uint(5)).Return(user, nil)
	tokenRepo.On("DeleteToken", "old-token").Return(nil)
	tokenRepo.On("CreateToken", mock.AnythingOfType("*entity.RefreshToken")).Return(nil)

	// Act
	pair, err := service.Refresh("old-token")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, "old-token", pair.RefreshToken, "refresh-токен должен ротироваться")
	tokenRepo.AssertCalled(t, "DeleteToken", "old-token")
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Logout_Everywhere(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	tokenRepo.On("DeleteAllForUser", uint(9)).Return(nil)

	// Act
	err := service.Logout(9, "some-token", true)

	// Assert
	require.NoError(t, err)
	tokenRepo.AssertCalled(t, "DeleteAllForUser", uint(9))
	tokenRepo.AssertNotCalled(t, "DeleteToken")
}

func TestAuthService_Logout_SingleToken(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	tokenRepo.On("DeleteToken", "some-token").Return(nil)

	// Act
	err := service.Logout(9, "some-token", false)

	// Assert
	require.NoError(t, err)
	tokenRepo.AssertCalled(t, "DeleteToken", "some-token")
	tokenRepo.AssertNotCalled(t, "DeleteAllForUser")
}

func TestAuthService_Refresh_DeleteFails(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := newTestAuthService(t, userRepo, tokenRepo)

	stored := &entity.RefreshToken{
		UserID:    5,
		Token:     "old-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	user := hashedTestUser(t, 5, "user@example.com", "password123")
	dbErr := errors.New("db unavailable")

	tokenRepo.On("GetTokenByValue", "old-token").Return(stored, nil)
	userRepo.On("GetByID", uint(5)).Return(user, nil)
	tokenRepo.On("DeleteToken", "old-token").Return(dbErr)

	// Act
	pair, err := service.Refresh("old-token")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, pair)
	tokenRepo.AssertNotCalled(t, "CreateToken")
}
