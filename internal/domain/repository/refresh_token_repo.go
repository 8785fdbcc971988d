package repository

import (
	"github.com/yourusername/forms-api/internal/domain/entity"
)

// RefreshTokenRepository интерфейс для работы с refresh-токенами
type RefreshTokenRepository interface {
	// CreateToken создает новый refresh-токен
	CreateToken(refreshToken *entity.RefreshToken) error

	// GetTokenByValue находит refresh-токен по его значению
	GetTokenByValue(token string) (*entity.RefreshToken, error)

	// DeleteToken физически удаляет токен по его значению
	DeleteToken(token string) error

	// DeleteAllForUser удаляет все токены пользователя (logout everywhere)
	DeleteAllForUser(userID uint) error

	// CleanupExpiredTokens удаляет все просроченные токены
	CleanupExpiredTokens() (int64, error)
}
