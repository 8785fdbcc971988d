package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/forms-api/internal/handler/dto"
	apperrors "github.com/yourusername/forms-api/internal/pkg/errors"
	"github.com/yourusername/forms-api/internal/service"
)

// FormHandler обрабатывает запросы владельца, связанные с формами
type FormHandler struct {
	formService *service.FormService
}

// NewFormHandler создает новый обработчик форм
func NewFormHandler(formService *service.FormService) *FormHandler {
	return &FormHandler{
		formService: formService,
	}
}

// CreateFormRequest представляет запрос на создание формы
type CreateFormRequest struct {
	Title       string `json:"title" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	ThemeColor  string `json:"theme_color" binding:"omitempty,max=20"`
}

// CreateForm обрабатывает запрос на создание формы
func (h *FormHandler) CreateForm(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.formService.CreateForm(userID, req.Title, req.Description, req.ThemeColor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewFormResponse(form, false))
}

// Dashboard возвращает формы владельца с количеством ответов и сводной статистикой
func (h *FormHandler) Dashboard(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	page, pageSize := paginationParams(c, 12)

	forms, total, stats, err := h.formService.Dashboard(userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDashboardResponse(forms, total, page, pageSize, stats))
}

// GetForm возвращает форму владельца вместе с вопросами
func (h *FormHandler) GetForm(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	form, err := h.formService.GetOwnedFormWithQuestions(formUUID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewFormResponse(form, true))
}

// UpdateForm применяет частичное обновление настроек формы
func (h *FormHandler) UpdateForm(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	var settings service.FormSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.formService.UpdateSettings(formUUID, userID, settings)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewFormResponse(form, false))
}

// TogglePublish переключает состояние публикации формы
func (h *FormHandler) TogglePublish(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	published, err := h.formService.TogglePublish(formUUID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_published": published})
}

// DeleteForm удаляет форму владельца вместе с вопросами и ответами
func (h *FormHandler) DeleteForm(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	if err := h.formService.DeleteForm(formUUID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form deleted successfully"})
}

// paginationParams извлекает параметры пагинации из query
func paginationParams(c *gin.Context, defaultSize int) (page, pageSize int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultSize
	} else if pageSize > 100 {
		pageSize = 100
	}

	return page, pageSize
}

// handleServiceError преобразует ошибки сервисов в HTTP-ответ
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrFormClosed) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "error_type": "form_closed"})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
