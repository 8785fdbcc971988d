package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/forms-api/internal/domain/entity"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос (вместе с вложенными опциями, если заданы)
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByIDWithOptions возвращает вопрос вместе с опциями
func (r *QuestionRepo) GetByIDWithOptions(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.display_order ASC")
		}).
		First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByFormID возвращает вопросы формы с опциями, по display_order
func (r *QuestionRepo) GetByFormID(formID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.display_order ASC")
		}).
		Where("form_id = ?", formID).
		Order("display_order ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// NextOrder возвращает следующий номер в последовательности порядка вопросов формы
func (r *QuestionRepo) NextOrder(formID uint) (int, error) {
	var maxOrder *int
	err := r.db.Model(&entity.Question{}).
		Where("form_id = ?", formID).
		Select("MAX(display_order)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	if maxOrder == nil {
		return 1, nil
	}
	return *maxOrder + 1, nil
}

// Update обновляет вопрос
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete удаляет вопрос; опции и ответы удаляются каскадом в схеме
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Question{}, id).Error
}

// OptionRepo реализует repository.OptionRepository
type OptionRepo struct {
	db *gorm.DB
}

// NewOptionRepo создает новый репозиторий опций
func NewOptionRepo(db *gorm.DB) *OptionRepo {
	return &OptionRepo{db: db}
}

// CreateBatch создает набор опций
func (r *OptionRepo) CreateBatch(options []entity.Option) error {
	if len(options) == 0 {
		return nil
	}
	return r.db.Create(&options).Error
}

// GetByQuestionID возвращает опции вопроса по display_order
func (r *OptionRepo) GetByQuestionID(questionID uint) ([]entity.Option, error) {
	var options []entity.Option
	err := r.db.
		Where("question_id = ?", questionID).
		Order("display_order ASC").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

// ReplaceForQuestion заменяет весь набор опций вопроса новым в одной транзакции
func (r *OptionRepo) ReplaceForQuestion(questionID uint, options []entity.Option) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&entity.Option{}).Error; err != nil {
			return err
		}
		if len(options) == 0 {
			return nil
		}
		for i := range options {
			options[i].QuestionID = questionID
		}
		return tx.Create(&options).Error
	})
}

// DeleteByQuestionID удаляет все опции вопроса
func (r *OptionRepo) DeleteByQuestionID(questionID uint) error {
	return r.db.Where("question_id = ?", questionID).Delete(&entity.Option{}).Error
}
