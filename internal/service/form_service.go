package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/forms-api/internal/domain/entity"
	"github.com/yourusername/forms-api/internal/domain/repository"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
)

// FormSettings — изменяемые настройки формы. nil-поля не трогаются.
type FormSettings struct {
	Title                  *string    `json:"title,omitempty"`
	Description            *string    `json:"description,omitempty"`
	CollectEmail           *bool      `json:"collect_email,omitempty"`
	AllowMultipleResponses *bool      `json:"allow_multiple_responses,omitempty"`
	SendEmailNotifications *bool      `json:"send_email_notifications,omitempty"`
	ThemeColor             *string    `json:"theme_color,omitempty"`
	CustomColor            *string    `json:"custom_color,omitempty"`
	OpenDate               *time.Time `json:"open_date,omitempty"`
	CloseDate              *time.Time `json:"close_date,omitempty"`
}

// FormService предоставляет методы для работы с формами
type FormService struct {
	formRepo repository.FormRepository
}

// NewFormService создает новый сервис форм
func NewFormService(formRepo repository.FormRepository) *FormService {
	return &FormService{
		formRepo: formRepo,
	}
}

// CreateForm создает новую форму для владельца userID
func (s *FormService) CreateForm(userID uint, title, description, themeColor string) (*entity.Form, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled Form"
	}
	if themeColor == "" {
		themeColor = entity.ThemeBlue
	}
	if !entity.IsValidTheme(themeColor) {
		return nil, fmt.Errorf("%w: unknown theme color %q", apperrors.ErrValidation, themeColor)
	}

	form := &entity.Form{
		UserID:                 userID,
		Title:                  title,
		Description:            strings.TrimSpace(description),
		ThemeColor:             themeColor,
		AllowMultipleResponses: true,
		SendEmailNotifications: true,
	}

	if err := s.formRepo.Create(form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	return form, nil
}

// GetOwnedForm возвращает форму владельца; чужая форма = not found
func (s *FormService) GetOwnedForm(formUUID uuid.UUID, userID uint) (*entity.Form, error) {
	return s.formRepo.GetByUUIDForOwner(formUUID, userID)
}

// GetOwnedFormWithQuestions возвращает форму владельца вместе с вопросами
func (s *FormService) GetOwnedFormWithQuestions(formUUID uuid.UUID, userID uint) (*entity.Form, error) {
	form, err := s.formRepo.GetWithQuestions(formUUID)
	if err != nil {
		return nil, err
	}
	if form.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return form, nil
}

// Dashboard возвращает формы владельца с пагинацией и сводную статистику
func (s *FormService) Dashboard(userID uint, page, pageSize int) ([]repository.FormWithCount, int64, *repository.DashboardStats, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 12
	} else if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	forms, total, err := s.formRepo.ListByOwner(userID, pageSize, offset)
	if err != nil {
		return nil, 0, nil, err
	}

	stats, err := s.formRepo.GetDashboardStats(userID)
	if err != nil {
		return nil, 0, nil, err
	}

	return forms, total, stats, nil
}

// UpdateSettings применяет частичное обновление настроек формы
func (s *FormService) UpdateSettings(formUUID uuid.UUID, userID uint, settings FormSettings) (*entity.Form, error) {
	form, err := s.formRepo.GetByUUIDForOwner(formUUID, userID)
	if err != nil {
		return nil, err
	}

	if settings.Title != nil {
		title := strings.TrimSpace(*settings.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
		}
		form.Title = title
	}
	if settings.Description != nil {
		form.Description = strings.TrimSpace(*settings.Description)
	}
	if settings.CollectEmail != nil {
		form.CollectEmail = *settings.CollectEmail
	}
	if settings.AllowMultipleResponses != nil {
		form.AllowMultipleResponses = *settings.AllowMultipleResponses
	}
	if settings.SendEmailNotifications != nil {
		form.SendEmailNotifications = *settings.SendEmailNotifications
	}
	if settings.ThemeColor != nil {
		if !entity.IsValidTheme(*settings.ThemeColor) {
			return nil, fmt.Errorf("%w: unknown theme color %q", apperrors.ErrValidation, *settings.ThemeColor)
		}
		form.ThemeColor = *settings.ThemeColor
	}
	if settings.CustomColor != nil {
		form.CustomColor = *settings.CustomColor
	}
	if settings.OpenDate != nil {
		form.OpenDate = settings.OpenDate
	}
	if settings.CloseDate != nil {
		form.CloseDate = settings.CloseDate
	}

	if form.OpenDate != nil && form.CloseDate != nil && form.CloseDate.Before(*form.OpenDate) {
		return nil, fmt.Errorf("%w: close_date is before open_date", apperrors.ErrValidation)
	}

	if err := s.formRepo.Update(form); err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	return form, nil
}

// TogglePublish переключает состояние публикации и возвращает новое значение
func (s *FormService) TogglePublish(formUUID uuid.UUID, userID uint) (bool, error) {
	form, err := s.formRepo.GetByUUIDForOwner(formUUID, userID)
	if err != nil {
		return false, err
	}

	newState := !form.IsPublished
	if err := s.formRepo.SetPublished(form.ID, newState); err != nil {
		return false, err
	}
	return newState, nil
}

// DeleteForm удаляет форму владельца вместе с вопросами и ответами
func (s *FormService) DeleteForm(formUUID uuid.UUID, userID uint) error {
	form, err := s.formRepo.GetByUUIDForOwner(formUUID, userID)
	if err != nil {
		return err
	}
	return s.formRepo.Delete(form.ID)
}
