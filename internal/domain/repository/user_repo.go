package repository

import (
	"github.com/yourusername/forms-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	// UpdateDarkMode точечно обновляет предпочтение тёмной темы
	UpdateDarkMode(userID uint, darkMode bool) error
}
