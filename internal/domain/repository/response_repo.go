package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/forms-api/internal/domain/entity"
)

// ResponseRepository определяет методы для работы с отправками и ответами
type ResponseRepository interface {
	// CreateInTx создает отправку в рамках переданной транзакции
	CreateInTx(tx *gorm.DB, response *entity.Response) error
	// CreateAnswerInTx создает ответ (с выбранными опциями) в рамках транзакции
	CreateAnswerInTx(tx *gorm.DB, answer *entity.Answer) error
	GetByID(id uint) (*entity.Response, error)
	// GetWithAnswers возвращает отправку вместе с ответами и выбранными опциями
	GetWithAnswers(id uint) (*entity.Response, error)
	// ListByFormID возвращает отправки формы по убыванию submitted_at, с пагинацией
	ListByFormID(formID uint, limit, offset int) ([]entity.Response, int64, error)
	// ListAllByFormID возвращает все отправки формы с ответами (для экспорта)
	ListAllByFormID(formID uint) ([]entity.Response, error)
	// CountByFormID возвращает количество отправок формы
	CountByFormID(formID uint) (int64, error)
	// HasResponseFromIP проверяет, отправлял ли данный IP ответ на форму
	// (для форм с allow_multiple_responses=false)
	HasResponseFromIP(formID uint, ip string) (bool, error)
	// GetAnswersByQuestionID возвращает все ответы на вопрос с выбранными опциями
	GetAnswersByQuestionID(questionID uint) ([]entity.Answer, error)
	// CountAnswersByOption возвращает количество ответов, выбравших опцию
	CountAnswersByOption(optionID uint) (int64, error)
	// CountAnswersByText возвращает количество ответов на вопрос с данным текстом
	CountAnswersByText(questionID uint, text string) (int64, error)
	// GetTextAnswers возвращает до limit непустых текстовых ответов на вопрос
	GetTextAnswers(questionID uint, limit int) ([]string, error)
}

// ChangeRepository определяет методы для аудит-записей отправок
type ChangeRepository interface {
	CreateInTx(tx *gorm.DB, change *entity.Change) error
	ListByFormID(formID uint) ([]entity.Change, error)
}
