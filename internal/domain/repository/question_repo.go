package repository

import (
	"github.com/yourusername/forms-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetByIDWithOptions возвращает вопрос вместе с опциями
	GetByIDWithOptions(id uint) (*entity.Question, error)
	// GetByFormID возвращает вопросы формы с опциями, по display_order
	GetByFormID(formID uint) ([]entity.Question, error)
	// NextOrder возвращает следующий номер в плотной последовательности порядка
	NextOrder(formID uint) (int, error)
	Update(question *entity.Question) error
	Delete(id uint) error
}

// OptionRepository определяет методы для работы с опциями вопросов
type OptionRepository interface {
	CreateBatch(options []entity.Option) error
	GetByQuestionID(questionID uint) ([]entity.Option, error)
	// ReplaceForQuestion заменяет весь набор опций вопроса новым
	ReplaceForQuestion(questionID uint, options []entity.Option) error
	DeleteByQuestionID(questionID uint) error
}
