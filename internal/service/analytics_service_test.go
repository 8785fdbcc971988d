package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/forms-api/internal/domain/entity"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
)

func TestAnalyticsService_CacheHit(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	responseRepo := new(MockResponseRepository)
	cacheRepo := new(MockCacheRepository)
	service := NewAnalyticsService(formRepo, responseRepo, cacheRepo)

	formUUID := uuid.New()
	form := &entity.Form{ID: 10, UUID: formUUID, UserID: 1, Title: "Survey"}
	formRepo.On("GetByUUIDForOwner", formUUID, uint(1)).Return(form, nil)

	cacheRepo.On("GetJSON", "analytics:form:10", mock.AnythingOfType("*service.FormAnalytics")).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*FormAnalytics)
			*dest = FormAnalytics{FormUUID: formUUID, Title: "Survey", ResponseCount: 42}
		}).
		Return(nil)

	// Act
	analytics, err := service.GetFormAnalytics(formUUID, 1)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, analytics)
	assert.Equal(t, int64(42), analytics.ResponseCount, "при попадании в кеш агрегаты не пересчитываются")
	formRepo.AssertNotCalled(t, "GetWithQuestions")
	responseRepo.AssertNotCalled(t, "CountByFormID")
}

func TestAnalyticsService_CacheMiss(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	responseRepo := new(MockResponseRepository)
	cacheRepo := new(MockCacheRepository)
	service := NewAnalyticsService(formRepo, responseRepo, cacheRepo)

	formUUID := uuid.New()
	form := &entity.Form{ID: 10, UUID: formUUID, UserID: 1, Title: "Survey"}
	formRepo.On("GetByUUIDForOwner", formUUID, uint(1)).Return(form, nil)
	cacheRepo.On("GetJSON", "analytics:form:10", mock.Anything).Return(apperrors.ErrNotFound)
	formRepo.On("GetWithQuestions", formUUID).Return(form, nil)
	responseRepo.On("CountByFormID", uint(10)).Return(int64(7), nil)
	cacheRepo.On("SetJSON", "analytics:form:10", mock.Anything, 5*time.Minute).Return(nil)

	// Act
	analytics, err := service.GetFormAnalytics(formUUID, 1)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, analytics)
	assert.Equal(t, int64(7), analytics.ResponseCount)
	assert.Equal(t, formUUID, analytics.FormUUID)
	cacheRepo.AssertExpectations(t)
}

func TestAnalyticsService_CacheUnavailable(t *testing.T) {
	// Arrange: Redis недоступен, аналитика всё равно считается
	formRepo := new(MockFormRepository)
	responseRepo := new(MockResponseRepository)
	cacheRepo := new(MockCacheRepository)
	service := NewAnalyticsService(formRepo, responseRepo, cacheRepo)

	formUUID := uuid.New()
	form := &entity.Form{ID: 10, UUID: formUUID, UserID: 1, Title: "Survey"}
	redisDown := errors.New("connection refused")

	formRepo.On("GetByUUIDForOwner", formUUID, uint(1)).Return(form, nil)
	cacheRepo.On("GetJSON", "analytics:form:10", mock.Anything).Return(redisDown)
	formRepo.On("GetWithQuestions", formUUID).Return(form, nil)
	responseRepo.On("CountByFormID", uint(10)).Return(int64(0), nil)
	cacheRepo.On("SetJSON", "analytics:form:10", mock.Anything, 5*time.Minute).Return(redisDown)

	// Act
	analytics, err := service.GetFormAnalytics(formUUID, 1)

	// Assert
	require.NoError(t, err, "сбой кеша не должен ломать аналитику")
	require.NotNil(t, analytics)
	assert.Equal(t, int64(0), analytics.ResponseCount)
}

func TestAnalyticsService_ForeignForm(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	service := NewAnalyticsService(formRepo, new(MockResponseRepository), new(MockCacheRepository))

	formUUID := uuid.New()
	formRepo.On("GetByUUIDForOwner", formUUID, uint(1)).Return(nil, apperrors.ErrNotFound)

	// Act
	analytics, err := service.GetFormAnalytics(formUUID, 1)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, analytics)
}
