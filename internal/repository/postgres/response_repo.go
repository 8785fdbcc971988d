package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/forms-api/internal/domain/entity"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
)

// ResponseRepo реализует repository.ResponseRepository
type ResponseRepo struct {
	db *gorm.DB
}

// NewResponseRepo создает новый репозиторий отправок
func NewResponseRepo(db *gorm.DB) *ResponseRepo {
	return &ResponseRepo{db: db}
}

// CreateInTx создает отправку в рамках переданной транзакции
func (r *ResponseRepo) CreateInTx(tx *gorm.DB, response *entity.Response) error {
	return tx.Create(response).Error
}

// CreateAnswerInTx создает ответ вместе со связями выбранных опций
func (r *ResponseRepo) CreateAnswerInTx(tx *gorm.DB, answer *entity.Answer) error {
	return tx.Create(answer).Error
}

// GetByID возвращает отправку по ID
func (r *ResponseRepo) GetByID(id uint) (*entity.Response, error) {
	var response entity.Response
	err := r.db.First(&response, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &response, nil
}

// GetWithAnswers возвращает отправку вместе с ответами и выбранными опциями
func (r *ResponseRepo) GetWithAnswers(id uint) (*entity.Response, error) {
	var response entity.Response
	err := r.db.
		Preload("Answers").
		Preload("Answers.SelectedOptions").
		First(&response, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &response, nil
}

// ListByFormID возвращает отправки формы по убыванию submitted_at, с пагинацией
func (r *ResponseRepo) ListByFormID(formID uint, limit, offset int) ([]entity.Response, int64, error) {
	var total int64
	if err := r.db.Model(&entity.Response{}).Where("form_id = ?", formID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var responses []entity.Response
	err := r.db.
		Preload("Answers").
		Preload("Answers.SelectedOptions").
		Where("form_id = ?", formID).
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&responses).Error
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// ListAllByFormID возвращает все отправки формы с ответами (для экспорта)
func (r *ResponseRepo) ListAllByFormID(formID uint) ([]entity.Response, error) {
	var responses []entity.Response
	err := r.db.
		Preload("Answers").
		Preload("Answers.SelectedOptions").
		Where("form_id = ?", formID).
		Order("submitted_at DESC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// CountByFormID возвращает количество отправок формы
func (r *ResponseRepo) CountByFormID(formID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Response{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

// HasResponseFromIP проверяет, отправлял ли данный IP ответ на форму
func (r *ResponseRepo) HasResponseFromIP(formID uint, ip string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Response{}).
		Where("form_id = ? AND ip_address = ?", formID, ip).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetAnswersByQuestionID возвращает все ответы на вопрос с выбранными опциями
func (r *ResponseRepo) GetAnswersByQuestionID(questionID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.
		Preload("SelectedOptions").
		Where("question_id = ?", questionID).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// CountAnswersByOption возвращает количество ответов, выбравших опцию
func (r *ResponseRepo) CountAnswersByOption(optionID uint) (int64, error) {
	var count int64
	err := r.db.Table("answer_selected_options").
		Where("option_id = ?", optionID).
		Count(&count).Error
	return count, err
}

// CountAnswersByText возвращает количество ответов на вопрос с данным текстом
func (r *ResponseRepo) CountAnswersByText(questionID uint, text string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Answer{}).
		Where("question_id = ? AND answer_text = ?", questionID, text).
		Count(&count).Error
	return count, err
}

// GetTextAnswers возвращает до limit непустых текстовых ответов на вопрос
func (r *ResponseRepo) GetTextAnswers(questionID uint, limit int) ([]string, error) {
	var texts []string
	err := r.db.Model(&entity.Answer{}).
		Where("question_id = ? AND answer_text <> ''", questionID).
		Limit(limit).
		Pluck("answer_text", &texts).Error
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// ChangeRepo реализует repository.ChangeRepository
type ChangeRepo struct {
	db *gorm.DB
}

// NewChangeRepo создает новый репозиторий аудит-записей
func NewChangeRepo(db *gorm.DB) *ChangeRepo {
	return &ChangeRepo{db: db}
}

// CreateInTx создает аудит-запись в рамках транзакции отправки
func (r *ChangeRepo) CreateInTx(tx *gorm.DB, change *entity.Change) error {
	return tx.Create(change).Error
}

// ListByFormID возвращает аудит-записи формы по убыванию даты
func (r *ChangeRepo) ListByFormID(formID uint) ([]entity.Change, error) {
	var changes []entity.Change
	err := r.db.
		Where("form_id = ?", formID).
		Order("change_date DESC").
		Find(&changes).Error
	if err != nil {
		return nil, err
	}
	return changes, nil
}
