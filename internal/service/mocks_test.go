package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/yourusername/forms-api/internal/domain/entity"
	"github.com/yourusername/forms-api/internal/domain/repository"
)

// ============================================================================
// Моки репозиториев для тестирования сервисов
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateDarkMode(userID uint, darkMode bool) error {
	args := m.Called(userID, darkMode)
	return args.Error(0)
}

// MockFormRepository реализует repository.FormRepository
type MockFormRepository struct {
	mock.Mock
}

func (m *MockFormRepository) Create(form *entity.Form) error {
	args := m.Called(form)
	return args.Error(0)
}

func (m *MockFormRepository) GetByID(formID uint) (*entity.Form, error) {
	args := m.Called(formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockFormRepository) GetByUUID(formUUID uuid.UUID) (*entity.Form, error) {
	args := m.Called(formUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockFormRepository) GetByUUIDForOwner(formUUID uuid.UUID, userID uint) (*entity.Form, error) {
	args := m.Called(formUUID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockFormRepository) GetPublishedByUUID(formUUID uuid.UUID) (*entity.Form, error) {
	args := m.Called(formUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockFormRepository) GetWithQuestions(formUUID uuid.UUID) (*entity.Form, error) {
	args := m.Called(formUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Form), args.Error(1)
}

func (m *MockFormRepository) ListByOwner(userID uint, limit, offset int) ([]repository.FormWithCount, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]repository.FormWithCount), args.Get(1).(int64), args.Error(2)
}

func (m *MockFormRepository) GetDashboardStats(userID uint) (*repository.DashboardStats, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DashboardStats), args.Error(1)
}

func (m *MockFormRepository) Update(form *entity.Form) error {
	args := m.Called(form)
	return args.Error(0)
}

func (m *MockFormRepository) SetPublished(formID uint, published bool) error {
	args := m.Called(formID, published)
	return args.Error(0)
}

func (m *MockFormRepository) Delete(formID uint) error {
	args := m.Called(formID)
	return args.Error(0)
}

// MockQuestionRepository реализует repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDWithOptions(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByFormID(formID uint) ([]entity.Question, error) {
	args := m.Called(formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) NextOrder(formID uint) (int, error) {
	args := m.Called(formID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockOptionRepository реализует repository.OptionRepository
type MockOptionRepository struct {
	mock.Mock
}

func (m *MockOptionRepository) CreateBatch(options []entity.Option) error {
	args := m.Called(options)
	return args.Error(0)
}

func (m *MockOptionRepository) GetByQuestionID(questionID uint) ([]entity.Option, error) {
	args := m.Called(questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Option), args.Error(1)
}

func (m *MockOptionRepository) ReplaceForQuestion(questionID uint, options []entity.Option) error {
	args := m.Called(questionID, options)
	return args.Error(0)
}

func (m *MockOptionRepository) DeleteByQuestionID(questionID uint) error {
	args := m.Called(questionID)
	return args.Error(0)
}

// MockResponseRepository реализует repository.ResponseRepository
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) CreateInTx(tx *gorm.DB, response *entity.Response) error {
	args := m.Called(tx, response)
	return args.Error(0)
}

func (m *MockResponseRepository) CreateAnswerInTx(tx *gorm.DB, answer *entity.Answer) error {
	args := m.Called(tx, answer)
	return args.Error(0)
}

func (m *MockResponseRepository) GetByID(id uint) (*entity.Response, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Response), args.Error(1)
}

func (m *MockResponseRepository) GetWithAnswers(id uint) (*entity.Response, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Response), args.Error(1)
}

func (m *MockResponseRepository) ListByFormID(formID uint, limit, offset int) ([]entity.Response, int64, error) {
	args := m.Called(formID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Response), args.Get(1).(int64), args.Error(2)
}

func (m *MockResponseRepository) ListAllByFormID(formID uint) ([]entity.Response, error) {
	args := m.Called(formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Response), args.Error(1)
}

func (m *MockResponseRepository) CountByFormID(formID uint) (int64, error) {
	args := m.Called(formID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResponseRepository) HasResponseFromIP(formID uint, ip string) (bool, error) {
	args := m.Called(formID, ip)
	return args.Bool(0), args.Error(1)
}

func (m *MockResponseRepository) GetAnswersByQuestionID(questionID uint) ([]entity.Answer, error) {
	args := m.Called(questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *MockResponseRepository) CountAnswersByOption(optionID uint) (int64, error) {
	args := m.Called(optionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResponseRepository) CountAnswersByText(questionID uint, text string) (int64, error) {
	args := m.Called(questionID, text)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResponseRepository) GetTextAnswers(questionID uint, limit int) ([]string, error) {
	args := m.Called(questionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockChangeRepository реализует repository.ChangeRepository
type MockChangeRepository struct {
	mock.Mock
}

func (m *MockChangeRepository) CreateInTx(tx *gorm.DB, change *entity.Change) error {
	args := m.Called(tx, change)
	return args.Error(0)
}

func (m *MockChangeRepository) ListByFormID(formID uint) ([]entity.Change, error) {
	args := m.Called(formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Change), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

// MockRefreshTokenRepository реализует repository.RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) CreateToken(refreshToken *entity.RefreshToken) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetTokenByValue(token string) (*entity.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteAllForUser(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) CleanupExpiredTokens() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNewResponseNotification(ctx context.Context, toEmail, formTitle, responsesURL string) error {
	args := m.Called(ctx, toEmail, formTitle, responsesURL)
	return args.Error(0)
}
