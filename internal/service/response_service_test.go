package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/forms-api/internal/domain/entity"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
	"github.com/yourusername/forms-api/internal/service/formengine"
)

// newGuardedResponseService собирает сервис без БД: тестируются только
// проверки до транзакции, сама транзакция в этих сценариях не достигается.
func newGuardedResponseService(formRepo *MockFormRepository, responseRepo *MockResponseRepository) *ResponseService {
	return NewResponseService(
		nil, formRepo, new(MockUserRepository), responseRepo,
		new(MockChangeRepository), new(MockCacheRepository),
		&NoopEmailService{}, nil, "http://localhost:8080",
	)
}

func publishedForm(formUUID uuid.UUID) *entity.Form {
	return &entity.Form{
		ID:                     10,
		UUID:                   formUUID,
		UserID:                 1,
		Title:                  "Survey",
		IsPublished:            true,
		AllowMultipleResponses: true,
		Questions: []entity.Question{
			{ID: 100, FormID: 10, Text: "Name?", Type: entity.QuestionTypeShortText, Order: 0},
		},
	}
}

func TestResponseService_GetPublicForm_Unpublished(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	service := newGuardedResponseService(formRepo, new(MockResponseRepository))

	formUUID := uuid.New()
	draft := publishedForm(formUUID)
	draft.IsPublished = false
	formRepo.On("GetWithQuestions", formUUID).Return(draft, nil)

	// Act
	public, err := service.GetPublicForm(formUUID)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "неопубликованная форма неотличима от несуществующей")
	assert.Nil(t, public)
}

func TestResponseService_GetPublicForm_ClosedStillVisible(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	service := newGuardedResponseService(formRepo, new(MockResponseRepository))

	formUUID := uuid.New()
	form := publishedForm(formUUID)
	closed := time.Now().Add(-time.Hour)
	form.CloseDate = &closed
	formRepo.On("GetWithQuestions", formUUID).Return(form, nil)

	// Act
	public, err := service.GetPublicForm(formUUID)

	// Assert: закрытая форма отдаётся для просмотра, но помечена закрытой
	require.NoError(t, err)
	require.NotNil(t, public)
	assert.False(t, public.IsOpen)
	assert.Len(t, public.Fields, 1)
	assert.Equal(t, "question_100", public.Fields[0].ID)
}

func TestResponseService_SubmitResponse_Closed(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	service := newGuardedResponseService(formRepo, new(MockResponseRepository))

	formUUID := uuid.New()
	form := publishedForm(formUUID)
	closed := time.Now().Add(-time.Hour)
	form.CloseDate = &closed
	formRepo.On("GetWithQuestions", formUUID).Return(form, nil)

	// Act
	response, err := service.SubmitResponse(formUUID, SubmitInput{
		Submission: formengine.Submission{Values: map[string][]string{"question_100": {"Alice"}}},
	})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFormClosed, "закрытая форма не должна принимать отправки")
	assert.Nil(t, response)
}

func TestResponseService_SubmitResponse_NotYetOpen(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	service := newGuardedResponseService(formRepo, new(MockResponseRepository))

	formUUID := uuid.New()
	form := publishedForm(formUUID)
	opens := time.Now().Add(time.Hour)
	form.OpenDate = &opens
	formRepo.On("GetWithQuestions", formUUID).Return(form, nil)

	// Act
	response, err := service.SubmitResponse(formUUID, SubmitInput{})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFormClosed)
	assert.Nil(t, response)
}

func TestResponseService_SubmitResponse_MissingRequiredEmail(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	service := newGuardedResponseService(formRepo, new(MockResponseRepository))

	formUUID := uuid.New()
	form := publishedForm(formUUID)
	form.CollectEmail = true
	formRepo.On("GetWithQuestions", formUUID).Return(form, nil)

	// Act
	response, err := service.SubmitResponse(formUUID, SubmitInput{RespondentName: "Alice"})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "форма с collect_email требует email респондента")
	assert.Nil(t, response)
}

func TestResponseService_SubmitResponse_DuplicateIP(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	responseRepo := new(MockResponseRepository)
	service := newGuardedResponseService(formRepo, responseRepo)

	formUUID := uuid.New()
	form := publishedForm(formUUID)
	form.AllowMultipleResponses = false
	formRepo.On("GetWithQuestions", formUUID).Return(form, nil)
	responseRepo.On("HasResponseFromIP", uint(10), "192.0.2.1").Return(true, nil)

	// Act
	response, err := service.SubmitResponse(formUUID, SubmitInput{IPAddress: "192.0.2.1"})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "повторная отправка с того же IP должна отклоняться")
	assert.Nil(t, response)
	responseRepo.AssertExpectations(t)
}

func TestResponseService_GetResponse_ForeignResponse(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	responseRepo := new(MockResponseRepository)
	service := newGuardedResponseService(formRepo, responseRepo)

	formUUID := uuid.New()
	form := publishedForm(formUUID)
	formRepo.On("GetByUUIDForOwner", formUUID, uint(1)).Return(form, nil)
	// Отправка принадлежит другой форме
	responseRepo.On("GetWithAnswers", uint(55)).Return(&entity.Response{ID: 55, FormID: 99}, nil)

	// Act
	response, err := service.GetResponse(formUUID, 1, 55)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "ответ другой формы неотличим от несуществующего")
	assert.Nil(t, response)
}

func TestResponseService_ListResponses_ClampsPagination(t *testing.T) {
	// Arrange
	formRepo := new(MockFormRepository)
	responseRepo := new(MockResponseRepository)
	service := newGuardedResponseService(formRepo, responseRepo)

	formUUID := uuid.New()
	form := publishedForm(formUUID)
	formRepo.On("GetByUUIDForOwner", formUUID, uint(1)).Return(form, nil)
	// pageSize=500 обрезается до 100
	responseRepo.On("ListByFormID", uint(10), 100, 0).
		Return([]entity.Response{{ID: 1, FormID: 10}}, int64(1), nil)

	// Act
	responses, total, err := service.ListResponses(formUUID, 1, 0, 500)

	// Assert
	require.NoError(t, err)
	assert.Len(t, responses, 1)
	assert.Equal(t, int64(1), total)
	responseRepo.AssertExpectations(t)
}
