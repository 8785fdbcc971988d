package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/forms-api/internal/domain/entity"
)

// FormWithCount — форма вместе с количеством собранных ответов (для дашборда)
type FormWithCount struct {
	entity.Form
	ResponseCount int64 `json:"response_count"`
}

// DashboardStats — сводная статистика дашборда владельца
type DashboardStats struct {
	TotalForms     int64 `json:"total_forms"`
	PublishedForms int64 `json:"published_forms"`
	TotalResponses int64 `json:"total_responses"`
}

// FormRepository определяет методы для работы с формами
type FormRepository interface {
	Create(form *entity.Form) error
	// GetByID возвращает форму по внутреннему ID
	GetByID(formID uint) (*entity.Form, error)
	// GetByUUID возвращает форму по публичному UUID
	GetByUUID(formUUID uuid.UUID) (*entity.Form, error)
	// GetByUUIDForOwner возвращает форму только если она принадлежит userID
	GetByUUIDForOwner(formUUID uuid.UUID, userID uint) (*entity.Form, error)
	// GetPublishedByUUID возвращает только опубликованную форму (публичный доступ)
	GetPublishedByUUID(formUUID uuid.UUID) (*entity.Form, error)
	// GetWithQuestions возвращает форму вместе с вопросами и их опциями,
	// отсортированными по display_order
	GetWithQuestions(formUUID uuid.UUID) (*entity.Form, error)
	// ListByOwner возвращает формы владельца с количеством ответов, с пагинацией
	ListByOwner(userID uint, limit, offset int) ([]FormWithCount, int64, error)
	// GetDashboardStats возвращает сводную статистику по формам владельца
	GetDashboardStats(userID uint) (*DashboardStats, error)
	Update(form *entity.Form) error
	// SetPublished точечно обновляет флаг публикации
	SetPublished(formID uint, published bool) error
	// Delete удаляет форму; каскад до вопросов/опций/ответов обеспечивает схема БД
	Delete(formID uint) error
}
