package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/forms-api/internal/domain/repository"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
	"github.com/yourusername/forms-api/internal/service/formengine"
)

// TTL кеша агрегатов аналитики
const analyticsCacheTTL = 5 * time.Minute

// analyticsCacheKey строит ключ кеша агрегатов для формы
func analyticsCacheKey(formID uint) string {
	return fmt.Sprintf("analytics:form:%d", formID)
}

// FormAnalytics — агрегированная аналитика одной формы
type FormAnalytics struct {
	FormUUID      uuid.UUID                      `json:"form_uuid"`
	Title         string                         `json:"title"`
	ResponseCount int64                          `json:"response_count"`
	Questions     []formengine.QuestionAggregate `json:"questions"`
}

// AnalyticsService строит агрегаты по ответам формы с кешированием в Redis
type AnalyticsService struct {
	formRepo     repository.FormRepository
	responseRepo repository.ResponseRepository
	cacheRepo    repository.CacheRepository
}

// NewAnalyticsService создает новый сервис аналитики
func NewAnalyticsService(
	formRepo repository.FormRepository,
	responseRepo repository.ResponseRepository,
	cacheRepo repository.CacheRepository,
) *AnalyticsService {
	return &AnalyticsService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		cacheRepo:    cacheRepo,
	}
}

// GetFormAnalytics возвращает агрегаты по всем вопросам формы владельца.
// Результат кешируется; кеш сбрасывается при каждой новой отправке.
func (s *AnalyticsService) GetFormAnalytics(formUUID uuid.UUID, userID uint) (*FormAnalytics, error) {
	form, err := s.formRepo.GetByUUIDForOwner(formUUID, userID)
	if err != nil {
		return nil, err
	}

	cacheKey := analyticsCacheKey(form.ID)
	var cached FormAnalytics
	if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		// Недоступный Redis не должен ломать аналитику
		log.Printf("[AnalyticsService] Ошибка чтения кеша аналитики формы %d: %v", form.ID, err)
	}

	withQuestions, err := s.formRepo.GetWithQuestions(formUUID)
	if err != nil {
		return nil, err
	}

	aggregates, err := formengine.Tabulate(withQuestions.Questions, s.responseRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to tabulate answers: %w", err)
	}

	count, err := s.responseRepo.CountByFormID(form.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	analytics := &FormAnalytics{
		FormUUID:      form.UUID,
		Title:         form.Title,
		ResponseCount: count,
		Questions:     aggregates,
	}

	if err := s.cacheRepo.SetJSON(cacheKey, analytics, analyticsCacheTTL); err != nil {
		log.Printf("[AnalyticsService] Ошибка записи кеша аналитики формы %d: %v", form.ID, err)
	}

	return analytics, nil
}
