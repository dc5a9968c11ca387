package handler

import (
	"net/http"
	"strconv"

	"bookcrossing-backend/internal/domains/chat/model"
	"bookcrossing-backend/internal/domains/chat/service"
	"bookcrossing-backend/internal/shared/middleware"
	"bookcrossing-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// Send posts a message from the authenticated user.
func (h *ChatHandler) Send(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		response.FieldError(c, http.StatusUnauthorized, "token", "Требуется авторизация")
		return
	}

	var dto model.MessageDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.FieldError(c, http.StatusBadRequest, "message", "Некорректное тело запроса")
		return
	}
	if err := dto.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), login, dto)
	if model.HandleChatError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, message.ToResponse(0))
}

// Correspondence returns the history with another user. The zone query
// parameter is the reader's UTC offset in hours and shifts the rendered
// timestamps; it defaults to UTC.
func (h *ChatHandler) Correspondence(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		response.FieldError(c, http.StatusUnauthorized, "token", "Требуется авторизация")
		return
	}

	otherID, err := strconv.Atoi(c.Query("userId"))
	if err != nil || otherID <= 0 {
		response.FieldError(c, http.StatusBadRequest, "userId", "Некорректный идентификатор пользователя")
		return
	}

	zone := 0
	if z := c.Query("zone"); z != "" {
		zone, err = strconv.Atoi(z)
		if err != nil || zone < -12 || zone > 14 {
			response.FieldError(c, http.StatusBadRequest, "zone", "Некорректный часовой пояс")
			return
		}
	}

	messages, err := h.service.Correspondence(c.Request.Context(), login, otherID, zone)
	if model.HandleChatError(c, err) {
		return
	}
	c.JSON(http.StatusOK, messages)
}
