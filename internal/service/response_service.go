package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/forms-api/internal/domain/entity"
	"github.com/yourusername/forms-api/internal/domain/repository"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
	"github.com/yourusername/forms-api/internal/service/formengine"
	ws "github.com/yourusername/forms-api/internal/websocket"
)

// Сколько времени даётся фоновой отправке email-уведомления
const emailNotifyTimeout = 15 * time.Second

// PublicForm — публичное представление формы для респондента:
// сама форма и синтезированные описания полей.
type PublicForm struct {
	Form   *entity.Form       `json:"form"`
	Fields []formengine.Field `json:"fields"`
	IsOpen bool               `json:"is_open"`
}

// SubmitInput — данные одной публичной отправки
type SubmitInput struct {
	RespondentName  string
	RespondentEmail string
	IPAddress       string
	UserAgent       string
	Submission      formengine.Submission
}

// ResponseService обрабатывает публичные отправки и доступ владельца к ответам
type ResponseService struct {
	db           *gorm.DB
	formRepo     repository.FormRepository
	userRepo     repository.UserRepository
	responseRepo repository.ResponseRepository
	changeRepo   repository.ChangeRepository
	cacheRepo    repository.CacheRepository
	emailService EmailService
	hub          *ws.Hub
	baseURL      string
}

// NewResponseService создает новый сервис ответов
func NewResponseService(
	db *gorm.DB,
	formRepo repository.FormRepository,
	userRepo repository.UserRepository,
	responseRepo repository.ResponseRepository,
	changeRepo repository.ChangeRepository,
	cacheRepo repository.CacheRepository,
	emailService EmailService,
	hub *ws.Hub,
	baseURL string,
) *ResponseService {
	return &ResponseService{
		db:           db,
		formRepo:     formRepo,
		userRepo:     userRepo,
		responseRepo: responseRepo,
		changeRepo:   changeRepo,
		cacheRepo:    cacheRepo,
		emailService: emailService,
		hub:          hub,
		baseURL:      baseURL,
	}
}

// GetPublicForm возвращает опубликованную форму с описаниями полей.
// Неопубликованная форма неотличима от несуществующей. Закрытая форма
// возвращается с IsOpen=false; отказ в приёме решает SubmitResponse.
func (s *ResponseService) GetPublicForm(formUUID uuid.UUID) (*PublicForm, error) {
	form, err := s.formRepo.GetWithQuestions(formUUID)
	if err != nil {
		return nil, err
	}
	if !form.IsPublished {
		return nil, apperrors.ErrNotFound
	}

	return &PublicForm{
		Form:   form,
		Fields: formengine.BuildFields(form.Questions),
		IsOpen: form.IsOpen(),
	}, nil
}

// SubmitResponse принимает публичную отправку формы.
// Отправка, её ответы и аудит-запись создаются в одной транзакции;
// уведомления (email, websocket) и сброс кеша аналитики — после коммита.
func (s *ResponseService) SubmitResponse(formUUID uuid.UUID, input SubmitInput) (*entity.Response, error) {
	form, err := s.formRepo.GetWithQuestions(formUUID)
	if err != nil {
		return nil, err
	}
	if !form.IsPublished {
		return nil, apperrors.ErrNotFound
	}
	if !form.IsOpen() {
		return nil, apperrors.ErrFormClosed
	}

	if form.CollectEmail && input.RespondentEmail == "" {
		return nil, fmt.Errorf("%w: respondent email is required for this form", apperrors.ErrValidation)
	}

	if !form.AllowMultipleResponses && input.IPAddress != "" {
		alreadySubmitted, err := s.responseRepo.HasResponseFromIP(form.ID, input.IPAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to check previous submissions: %w", err)
		}
		if alreadySubmitted {
			return nil, fmt.Errorf("%w: this form accepts one response per respondent", apperrors.ErrConflict)
		}
	}

	answers := formengine.Decode(form.Questions, input.Submission)
	now := time.Now()

	response := &entity.Response{
		FormID:          form.ID,
		SubmittedAt:     now,
		RespondentName:  input.RespondentName,
		RespondentEmail: input.RespondentEmail,
		IPAddress:       input.IPAddress,
		UserAgent:       input.UserAgent,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.responseRepo.CreateInTx(tx, response); err != nil {
			return fmt.Errorf("failed to create response: %w", err)
		}
		for i := range answers {
			answers[i].ResponseID = response.ID
			if err := s.responseRepo.CreateAnswerInTx(tx, &answers[i]); err != nil {
				return fmt.Errorf("failed to create answer: %w", err)
			}
		}
		change := &entity.Change{
			FormID:     form.ID,
			ResponseID: response.ID,
			ChangeDate: now.Truncate(24 * time.Hour),
		}
		if err := s.changeRepo.CreateInTx(tx, change); err != nil {
			return fmt.Errorf("failed to create change record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	response.Answers = answers

	s.afterSubmit(form)

	return response, nil
}

// afterSubmit выполняет пост-коммитные побочные эффекты отправки.
// Их сбои логируются, но не влияют на результат отправки.
func (s *ResponseService) afterSubmit(form *entity.Form) {
	if err := s.cacheRepo.Delete(analyticsCacheKey(form.ID)); err != nil {
		log.Printf("[ResponseService] Не удалось сбросить кеш аналитики формы %d: %v", form.ID, err)
	}

	count, err := s.responseRepo.CountByFormID(form.ID)
	if err != nil {
		log.Printf("[ResponseService] Не удалось посчитать ответы формы %d: %v", form.ID, err)
		count = 0
	}
	if s.hub != nil {
		s.hub.NotifyResponseReceived(form.UUID.String(), count)
	}

	if form.SendEmailNotifications && s.emailService != nil {
		go s.notifyOwner(form)
	}
}

// notifyOwner отправляет владельцу email о новой отправке (fire-and-forget)
func (s *ResponseService) notifyOwner(form *entity.Form) {
	ctx, cancel := context.WithTimeout(context.Background(), emailNotifyTimeout)
	defer cancel()

	owner, err := s.userRepo.GetByID(form.UserID)
	if err != nil {
		log.Printf("[ResponseService] Не удалось найти владельца формы %d: %v", form.ID, err)
		return
	}

	responsesURL := fmt.Sprintf("%s/forms/%s/responses", s.baseURL, form.UUID)
	if err := s.emailService.SendNewResponseNotification(ctx, owner.Email, form.Title, responsesURL); err != nil {
		log.Printf("[ResponseService] Не удалось отправить уведомление владельцу %s: %v", owner.Email, err)
	}
}

// ListResponses возвращает отправки формы владельца, по убыванию submitted_at
func (s *ResponseService) ListResponses(formUUID uuid.UUID, userID uint, page, pageSize int) ([]entity.Response, int64, error) {
	form, err := s.formRepo.GetByUUIDForOwner(formUUID, userID)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	return s.responseRepo.ListByFormID(form.ID, pageSize, (page-1)*pageSize)
}

// GetResponse возвращает одну отправку с ответами; доступна только владельцу формы
func (s *ResponseService) GetResponse(formUUID uuid.UUID, userID uint, responseID uint) (*entity.Response, error) {
	form, err := s.formRepo.GetByUUIDForOwner(formUUID, userID)
	if err != nil {
		return nil, err
	}

	response, err := s.responseRepo.GetWithAnswers(responseID)
	if err != nil {
		return nil, err
	}
	if response.FormID != form.ID {
		// Ответ другой формы неотличим от несуществующего
		return nil, apperrors.ErrNotFound
	}

	return response, nil
}

// ExportData возвращает форму с вопросами и все её отправки для экспорта
func (s *ResponseService) ExportData(formUUID uuid.UUID, userID uint) (*entity.Form, []entity.Response, error) {
	form, err := s.formRepo.GetByUUIDForOwner(formUUID, userID)
	if err != nil {
		return nil, nil, err
	}

	withQuestions, err := s.formRepo.GetWithQuestions(formUUID)
	if err != nil {
		return nil, nil, err
	}

	responses, err := s.responseRepo.ListAllByFormID(form.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load responses: %w", err)
	}

	return withQuestions, responses, nil
}
