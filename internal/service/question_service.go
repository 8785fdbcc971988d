package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yourusername/forms-api/internal/domain/entity"
	"github.com/yourusername/forms-api/internal/domain/repository"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
	"github.com/yourusername/forms-api/internal/service/formengine"
)

// QuestionInput — данные на создание/обновление вопроса.
// Options заменяют весь набор опций; nil означает "не трогать" при обновлении.
type QuestionInput struct {
	Text          string   `json:"text"`
	HelpText      string   `json:"help_text"`
	Type          string   `json:"question_type"`
	IsRequired    *bool    `json:"is_required,omitempty"`
	ScaleMin      *int     `json:"scale_min,omitempty"`
	ScaleMax      *int     `json:"scale_max,omitempty"`
	ScaleMinLabel string   `json:"scale_min_label"`
	ScaleMaxLabel string   `json:"scale_max_label"`
	Options       []string `json:"options,omitempty"`
}

// QuestionService предоставляет методы для работы с вопросами форм
type QuestionService struct {
	formRepo     repository.FormRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.OptionRepository
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	formRepo repository.FormRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.OptionRepository,
) *QuestionService {
	return &QuestionService{
		formRepo:     formRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
	}
}

// AddQuestion добавляет вопрос в конец формы владельца
func (s *QuestionService) AddQuestion(formUUID uuid.UUID, userID uint, input QuestionInput) (*entity.Question, error) {
	form, err := s.formRepo.GetByUUIDForOwner(formUUID, userID)
	if err != nil {
		return nil, err
	}

	questionType := input.Type
	if questionType == "" {
		questionType = entity.QuestionTypeShortText
	}
	if !formengine.IsValidQuestionType(questionType) {
		return nil, fmt.Errorf("%w: unknown question type %q", apperrors.ErrValidation, questionType)
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		text = "Untitled Question"
	}

	nextOrder, err := s.questionRepo.NextOrder(form.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute question order: %w", err)
	}

	isRequired := true
	if input.IsRequired != nil {
		isRequired = *input.IsRequired
	}

	question := &entity.Question{
		FormID:        form.ID,
		Text:          text,
		HelpText:      strings.TrimSpace(input.HelpText),
		Type:          questionType,
		IsRequired:    isRequired,
		Order:         nextOrder,
		ScaleMin:      input.ScaleMin,
		ScaleMax:      input.ScaleMax,
		ScaleMinLabel: input.ScaleMinLabel,
		ScaleMaxLabel: input.ScaleMaxLabel,
		Options:       buildOptions(questionType, input.Options),
	}

	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	return question, nil
}

// UpdateQuestion обновляет вопрос владельца; Options != nil заменяет весь набор опций
func (s *QuestionService) UpdateQuestion(questionID uint, userID uint, input QuestionInput) (*entity.Question, error) {
	question, err := s.getOwnedQuestion(questionID, userID)
	if err != nil {
		return nil, err
	}

	if text := strings.TrimSpace(input.Text); text != "" {
		question.Text = text
	}
	question.HelpText = strings.TrimSpace(input.HelpText)

	if input.Type != "" {
		if !formengine.IsValidQuestionType(input.Type) {
			return nil, fmt.Errorf("%w: unknown question type %q", apperrors.ErrValidation, input.Type)
		}
		question.Type = input.Type
	}
	if input.IsRequired != nil {
		question.IsRequired = *input.IsRequired
	}
	if input.ScaleMin != nil {
		question.ScaleMin = input.ScaleMin
	}
	if input.ScaleMax != nil {
		question.ScaleMax = input.ScaleMax
	}
	if input.ScaleMinLabel != "" {
		question.ScaleMinLabel = input.ScaleMinLabel
	}
	if input.ScaleMaxLabel != "" {
		question.ScaleMaxLabel = input.ScaleMaxLabel
	}

	// Options сохраняются отдельно, чтобы Save не пересоздал ассоциации
	question.Options = nil
	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	if input.Options != nil {
		options := buildOptions(question.Type, input.Options)
		if err := s.optionRepo.ReplaceForQuestion(question.ID, options); err != nil {
			return nil, fmt.Errorf("failed to replace options: %w", err)
		}
	}

	return s.questionRepo.GetByIDWithOptions(question.ID)
}

// DeleteQuestion удаляет вопрос владельца
func (s *QuestionService) DeleteQuestion(questionID uint, userID uint) error {
	question, err := s.getOwnedQuestion(questionID, userID)
	if err != nil {
		return err
	}
	return s.questionRepo.Delete(question.ID)
}

// getOwnedQuestion возвращает вопрос, только если его форма принадлежит userID.
// Чужой вопрос неотличим от несуществующего.
func (s *QuestionService) getOwnedQuestion(questionID uint, userID uint) (*entity.Question, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}

	form, err := s.formRepo.GetByID(question.FormID)
	if err != nil {
		return nil, err
	}
	if form.UserID != userID {
		return nil, apperrors.ErrNotFound
	}

	return question, nil
}

// buildOptions превращает тексты опций в сущности, отбрасывая пустые.
// Для типов без опций всегда возвращает nil.
func buildOptions(questionType string, texts []string) []entity.Option {
	if !formengine.HasOptions(questionType) {
		return nil
	}
	options := make([]entity.Option, 0, len(texts))
	order := 0
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		options = append(options, entity.Option{Text: text, Order: order})
		order++
	}
	if len(options) == 0 {
		return nil
	}
	return options
}
