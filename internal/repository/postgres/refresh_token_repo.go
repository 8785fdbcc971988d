package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/forms-api/internal/domain/entity"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
)

// RefreshTokenRepo реализует repository.RefreshTokenRepository
type RefreshTokenRepo struct {
	db *gorm.DB
}

// NewRefreshTokenRepo создает новый репозиторий refresh-токенов
func NewRefreshTokenRepo(db *gorm.DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

// CreateToken создает новый refresh-токен
func (r *RefreshTokenRepo) CreateToken(refreshToken *entity.RefreshToken) error {
	return r.db.Create(refreshToken).Error
}

// GetTokenByValue находит refresh-токен по его значению
func (r *RefreshTokenRepo) GetTokenByValue(token string) (*entity.RefreshToken, error) {
	var refreshToken entity.RefreshToken
	err := r.db.Where("token = ?", token).First(&refreshToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &refreshToken, nil
}

// DeleteToken физически удаляет токен по его значению
func (r *RefreshTokenRepo) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&entity.RefreshToken{}).Error
}

// DeleteAllForUser удаляет все токены пользователя
func (r *RefreshTokenRepo) DeleteAllForUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&entity.RefreshToken{}).Error
}

// CleanupExpiredTokens удаляет все просроченные токены
func (r *RefreshTokenRepo) CleanupExpiredTokens() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&entity.RefreshToken{})
	return result.RowsAffected, result.Error
}
