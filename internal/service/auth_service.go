package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/forms-api/internal/domain/entity"
	"github.com/yourusername/forms-api/internal/domain/repository"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
	"github.com/yourusername/forms-api/pkg/auth"
)

// TokenPair — пара access/refresh токенов, выдаваемая при логине
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService предоставляет методы регистрации и аутентификации
type AuthService struct {
	userRepo             repository.UserRepository
	refreshTokenRepo     repository.RefreshTokenRepository
	jwtService           *auth.JWTService
	refreshTokenLifetime time.Duration
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtService *auth.JWTService,
	refreshTokenLifetimeHrs int,
) (*AuthService, error) {
	if userRepo == nil || refreshTokenRepo == nil || jwtService == nil {
		return nil, fmt.Errorf("all dependencies are required for AuthService")
	}
	if refreshTokenLifetimeHrs <= 0 {
		refreshTokenLifetimeHrs = 24 * 30
	}
	return &AuthService{
		userRepo:             userRepo,
		refreshTokenRepo:     refreshTokenRepo,
		jwtService:           jwtService,
		refreshTokenLifetime: time.Duration(refreshTokenLifetimeHrs) * time.Hour,
	}, nil
}

// Register создает нового пользователя. Пароль хешируется в entity.User.BeforeSave.
func (s *AuthService) Register(username, email, password, firstName, lastName string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", apperrors.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	user := &entity.User{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: username or email already taken", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login проверяет учетные данные и выдает пару токенов
func (s *AuthService) Login(email, password string) (*entity.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Не раскрываем, существует ли email
			return nil, nil, apperrors.ErrUnauthorized
		}
		return nil, nil, err
	}

	if !user.CheckPassword(password) {
		return nil, nil, apperrors.ErrUnauthorized
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh обменивает действующий refresh-токен на новую пару токенов (ротация)
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	stored, err := s.refreshTokenRepo.GetTokenByValue(refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if stored.IsExpired() {
		// Чистим истекший токен сразу, не дожидаясь фоновой очистки
		if delErr := s.refreshTokenRepo.DeleteToken(refreshToken); delErr != nil {
			log.Printf("[AuthService] Ошибка при удалении истекшего refresh-токена: %v", delErr)
		}
		return nil, apperrors.ErrExpiredToken
	}

	user, err := s.userRepo.GetByID(stored.UserID)
	if err != nil {
		return nil, err
	}

	// Ротация: старый токен удаляется, выдается новый
	if err := s.refreshTokenRepo.DeleteToken(refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokenPair(user)
}

// Logout удаляет refresh-токен; при everywhere=true — все токены пользователя
func (s *AuthService) Logout(userID uint, refreshToken string, everywhere bool) error {
	if everywhere {
		return s.refreshTokenRepo.DeleteAllForUser(userID)
	}
	if refreshToken == "" {
		return nil
	}
	return s.refreshTokenRepo.DeleteToken(refreshToken)
}

// CleanupExpiredTokens удаляет просроченные refresh-токены (вызывается периодически)
func (s *AuthService) CleanupExpiredTokens() (int64, error) {
	return s.refreshTokenRepo.CleanupExpiredTokens()
}

func (s *AuthService) issueTokenPair(user *entity.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshValue, err := generateRefreshTokenValue()
	if err != nil {
		return nil, err
	}

	refreshToken := &entity.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: time.Now().Add(s.refreshTokenLifetime),
	}
	if err := s.refreshTokenRepo.CreateToken(refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
	}, nil
}

// generateRefreshTokenValue генерирует криптостойкое значение refresh-токена
func generateRefreshTokenValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
