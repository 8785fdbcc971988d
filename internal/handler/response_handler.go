package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/forms-api/internal/domain/entity"
	"github.com/yourusername/forms-api/internal/handler/dto"
	"github.com/yourusername/forms-api/internal/service"
	"github.com/yourusername/forms-api/pkg/filestore"
)

// ResponseHandler обрабатывает запросы владельца к собранным ответам
type ResponseHandler struct {
	responseService  *service.ResponseService
	analyticsService *service.AnalyticsService
	fileStore        *filestore.Store
}

// NewResponseHandler создает новый обработчик ответов
func NewResponseHandler(
	responseService *service.ResponseService,
	analyticsService *service.AnalyticsService,
	fileStore *filestore.Store,
) *ResponseHandler {
	return &ResponseHandler{
		responseService:  responseService,
		analyticsService: analyticsService,
		fileStore:        fileStore,
	}
}

// ListResponses возвращает пагинированный список отправок формы
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	page, pageSize := paginationParams(c, 20)

	responses, total, err := h.responseService.ListResponses(formUUID, userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedSubmissionsResponse(responses, total, page, pageSize))
}

// GetResponse возвращает одну отправку с ответами
func (h *ResponseHandler) GetResponse(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	formUUID := c.MustGet("formUUID").(uuid.UUID)
	responseID := c.MustGet("responseID").(uint)

	response, err := h.responseService.GetResponse(formUUID, userID, responseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSubmissionResponse(response))
}

// GetAnalytics возвращает агрегаты по всем вопросам формы
func (h *ResponseHandler) GetAnalytics(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	analytics, err := h.analyticsService.GetFormAnalytics(formUUID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// ExportResponses экспортирует отправки формы в CSV или Excel формате
// GET /api/forms/:uuid/responses/export?format=csv|xlsx
func (h *ResponseHandler) ExportResponses(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	formUUID := c.MustGet("formUUID").(uuid.UUID)
	format := c.DefaultQuery("format", "csv")

	form, responses, err := h.responseService.ExportData(formUUID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("form_%s_responses_%s", form.UUID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, form, responses, filename)
	default:
		h.exportCSV(c, form, responses, filename)
	}
}

// DownloadFile отдает загруженный респондентом файл владельцу формы
func (h *ResponseHandler) DownloadFile(c *gin.Context) {
	name := c.Param("name")

	f, err := h.fileStore.Open(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/octet-stream")
	http.ServeContent(c.Writer, c.Request, name, time.Time{}, f)
}

// exportRow строит одну строку экспорта: метаданные отправки + ответ на каждый вопрос
func exportRow(r *entity.Response, questions []entity.Question) []string {
	byQuestion := make(map[uint]*entity.Answer, len(r.Answers))
	for i := range r.Answers {
		byQuestion[r.Answers[i].QuestionID] = &r.Answers[i]
	}

	row := []string{
		r.SubmittedAt.Format("2006-01-02 15:04:05"),
		sanitizeForExcel(r.RespondentName),
		sanitizeForExcel(r.RespondentEmail),
	}
	for i := range questions {
		answer := byQuestion[questions[i].ID]
		if answer == nil {
			row = append(row, "")
			continue
		}
		row = append(row, sanitizeForExcel(answer.DisplayAnswer()))
	}
	return row
}

// exportHeader строит строку заголовков экспорта
func exportHeader(questions []entity.Question) []string {
	header := []string{"Submitted At", "Respondent Name", "Respondent Email"}
	for i := range questions {
		header = append(header, questions[i].Text)
	}
	return header
}

// exportCSV экспортирует отправки в CSV с правильным экранированием спецсимволов
func (h *ResponseHandler) exportCSV(c *gin.Context, form *entity.Form, responses []entity.Response, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeader(form.Questions))
	for i := range responses {
		writer.Write(exportRow(&responses[i], form.Questions))
	}
}

// exportXLSX экспортирует отправки в Excel с использованием StreamWriter
func (h *ResponseHandler) exportXLSX(c *gin.Context, form *entity.Form, responses []entity.Response, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Responses"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ResponseHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	header := exportHeader(form.Questions)
	headerRow := make([]interface{}, len(header))
	for i, v := range header {
		headerRow[i] = v
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		log.Printf("[ResponseHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range responses {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		values := exportRow(&responses[i], form.Questions)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ResponseHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ResponseHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ResponseHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
