package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/forms-api/internal/service"
	"github.com/yourusername/forms-api/internal/websocket"
	"github.com/yourusername/forms-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket-подключения владельца к live-ленте формы
type WSHandler struct {
	hub         *websocket.Hub
	formService *service.FormService
	jwtService  *auth.JWTService
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(hub *websocket.Hub, formService *service.FormService, jwtService *auth.JWTService) *WSHandler {
	return &WSHandler{
		hub:         hub,
		formService: formService,
		jwtService:  jwtService,
	}
}

// HandleConnection апгрейдит соединение и подписывает владельца на события формы.
// Браузерный WebSocket не умеет ставить заголовки, поэтому токен принимается
// также через query-параметр ?token=.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	formUUID := c.MustGet("formUUID").(uuid.UUID)

	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication token"})
		return
	}

	claims, err := h.jwtService.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	// Подписка разрешена только владельцу формы
	if _, err := h.formService.GetOwnedForm(formUUID, claims.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	if err := websocket.ServeClient(h.hub, c.Writer, c.Request, claims.UserID, formUUID.String()); err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения user=%d: %v", claims.UserID, err)
	}
}
