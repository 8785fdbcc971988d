package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/forms-api/internal/handler/dto"
	"github.com/yourusername/forms-api/internal/service"
)

// QuestionHandler обрабатывает запросы владельца, связанные с вопросами форм
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// AddQuestion добавляет вопрос в конец формы
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	var input service.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.questionService.AddQuestion(formUUID, userID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuestionResponse(question))
}

// UpdateQuestion обновляет вопрос; переданный набор опций заменяет существующий
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	questionID := c.MustGet("questionID").(uint)

	var input service.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.questionService.UpdateQuestion(questionID, userID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// DeleteQuestion удаляет вопрос
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	questionID := c.MustGet("questionID").(uint)

	if err := h.questionService.DeleteQuestion(questionID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}
