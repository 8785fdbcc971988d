package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/forms-api/internal/domain/entity"
	"github.com/yourusername/forms-api/internal/domain/repository"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
)

// FormRepo реализует repository.FormRepository
type FormRepo struct {
	db *gorm.DB
}

// NewFormRepo создает новый репозиторий форм
func NewFormRepo(db *gorm.DB) *FormRepo {
	return &FormRepo{db: db}
}

// Create создает новую форму
func (r *FormRepo) Create(form *entity.Form) error {
	err := r.db.Create(form).Error
	if err != nil && isUniqueViolation(err) {
		// Коллизия UUID крайне маловероятна, но обрабатываем единообразно
		return apperrors.ErrConflict
	}
	return err
}

// GetByID возвращает форму по внутреннему ID
func (r *FormRepo) GetByID(formID uint) (*entity.Form, error) {
	var form entity.Form
	err := r.db.First(&form, formID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetByUUID возвращает форму по публичному UUID
func (r *FormRepo) GetByUUID(formUUID uuid.UUID) (*entity.Form, error) {
	var form entity.Form
	err := r.db.Where("uuid = ?", formUUID).First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetByUUIDForOwner возвращает форму только если она принадлежит userID.
// Чужая форма неотличима от несуществующей (generic not found).
func (r *FormRepo) GetByUUIDForOwner(formUUID uuid.UUID, userID uint) (*entity.Form, error) {
	var form entity.Form
	err := r.db.Where("uuid = ? AND user_id = ?", formUUID, userID).First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetPublishedByUUID возвращает только опубликованную форму
func (r *FormRepo) GetPublishedByUUID(formUUID uuid.UUID) (*entity.Form, error) {
	var form entity.Form
	err := r.db.Where("uuid = ? AND is_published = ?", formUUID, true).First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetWithQuestions возвращает форму вместе с вопросами и опциями по display_order
func (r *FormRepo) GetWithQuestions(formUUID uuid.UUID) (*entity.Form, error) {
	var form entity.Form
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.display_order ASC")
		}).
		Where("uuid = ?", formUUID).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// ListByOwner возвращает формы владельца с количеством ответов, по убыванию created_at
func (r *FormRepo) ListByOwner(userID uint, limit, offset int) ([]repository.FormWithCount, int64, error) {
	var total int64
	if err := r.db.Model(&entity.Form{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var forms []repository.FormWithCount
	err := r.db.Model(&entity.Form{}).
		Select("forms.*, COUNT(responses.id) AS response_count").
		Joins("LEFT JOIN responses ON responses.form_id = forms.id").
		Where("forms.user_id = ?", userID).
		Group("forms.id").
		Order("forms.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&forms).Error
	if err != nil {
		return nil, 0, err
	}
	return forms, total, nil
}

// GetDashboardStats возвращает сводную статистику по формам владельца
func (r *FormRepo) GetDashboardStats(userID uint) (*repository.DashboardStats, error) {
	stats := &repository.DashboardStats{}

	if err := r.db.Model(&entity.Form{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalForms).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&entity.Form{}).
		Where("user_id = ? AND is_published = ?", userID, true).
		Count(&stats.PublishedForms).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&entity.Response{}).
		Joins("JOIN forms ON forms.id = responses.form_id").
		Where("forms.user_id = ?", userID).
		Count(&stats.TotalResponses).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// Update обновляет форму
func (r *FormRepo) Update(form *entity.Form) error {
	return r.db.Save(form).Error
}

// SetPublished точечно обновляет флаг публикации без full Save
func (r *FormRepo) SetPublished(formID uint, published bool) error {
	return r.db.Model(&entity.Form{}).
		Where("id = ?", formID).
		Update("is_published", published).
		Error
}

// Delete удаляет форму; каскад до вопросов и ответов обеспечен FK в схеме
func (r *FormRepo) Delete(formID uint) error {
	return r.db.Delete(&entity.Form{}, formID).Error
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
