package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/forms-api/internal/handler/dto"
	"github.com/yourusername/forms-api/internal/service"
	"github.com/yourusername/forms-api/internal/service/formengine"
	"github.com/yourusername/forms-api/pkg/filestore"
)

// Максимальный суммарный размер multipart-формы в памяти
const maxMultipartMemory = 32 << 20

// PublicHandler обрабатывает анонимные запросы респондентов
type PublicHandler struct {
	responseService *service.ResponseService
	fileStore       *filestore.Store
}

// NewPublicHandler создает новый обработчик публичных запросов
func NewPublicHandler(responseService *service.ResponseService, fileStore *filestore.Store) *PublicHandler {
	return &PublicHandler{
		responseService: responseService,
		fileStore:       fileStore,
	}
}

// GetForm возвращает опубликованную форму с синтезированными полями
func (h *PublicHandler) GetForm(c *gin.Context) {
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	publicForm, err := h.responseService.GetPublicForm(formUUID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	form := publicForm.Form
	c.JSON(http.StatusOK, dto.PublicFormResponse{
		UUID:         form.UUID,
		Title:        form.Title,
		Description:  form.Description,
		ThemeColor:   form.ThemeColor,
		CustomColor:  form.CustomColor,
		CollectEmail: form.CollectEmail,
		IsOpen:       publicForm.IsOpen,
		Fields:       publicForm.Fields,
	})
}

// SubmitForm принимает отправку формы (multipart или urlencoded)
func (h *PublicHandler) SubmitForm(c *gin.Context) {
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	submission, respondentName, respondentEmail, ok := h.parseSubmission(c)
	if !ok {
		return
	}

	input := service.SubmitInput{
		RespondentName:  respondentName,
		RespondentEmail: respondentEmail,
		IPAddress:       c.ClientIP(),
		UserAgent:       c.Request.UserAgent(),
		Submission:      submission,
	}

	response, err := h.responseService.SubmitResponse(formUUID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Response submitted successfully",
		"response_id": response.ID,
	})
}

// parseSubmission извлекает значения и файлы из тела запроса.
// Файлы сохраняются на диск до декодирования; при ошибке отвечает сам.
func (h *PublicHandler) parseSubmission(c *gin.Context) (formengine.Submission, string, string, bool) {
	sub := formengine.Submission{
		Values: map[string][]string{},
		Files:  map[string]string{},
	}

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return sub, "", "", false
		}

		mf := c.Request.MultipartForm
		for field, values := range mf.Value {
			sub.Values[field] = values
		}
		for field, files := range mf.File {
			if len(files) == 0 {
				continue
			}
			name, err := h.fileStore.Save(files[0])
			if err != nil {
				log.Printf("[PublicHandler] Ошибка сохранения файла поля %s: %v", field, err)
				c.JSON(http.StatusBadRequest, gin.H{"error": "File upload failed"})
				return sub, "", "", false
			}
			sub.Files[field] = name
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
			return sub, "", "", false
		}
		for field, values := range c.Request.PostForm {
			sub.Values[field] = values
		}
	}

	respondentName := firstValue(sub.Values, "respondent_name")
	respondentEmail := firstValue(sub.Values, "respondent_email")
	delete(sub.Values, "respondent_name")
	delete(sub.Values, "respondent_email")

	return sub, respondentName, respondentEmail, true
}

func firstValue(values map[string][]string, key string) string {
	if vals, ok := values[key]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}
