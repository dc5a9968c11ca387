package model

import (
	"errors"
	"net/http"

	"bookcrossing-backend/internal/shared/response"
	"bookcrossing-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

var (
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrReceiverNotEnabled = errors.New("receiver account is not enabled")
	ErrSelfMessage        = errors.New("cannot message yourself")
)

var chatErrorTable = []struct {
	Err     error
	Status  int
	Field   string
	Message string
}{
	{ErrReceiverNotFound, http.StatusNotFound, "user", "Получатель не найден"},
	{ErrReceiverNotEnabled, http.StatusForbidden, "user", "Учётная запись получателя не подтверждена"},
	{ErrSelfMessage, http.StatusBadRequest, "user", "Нельзя отправить сообщение самому себе"},
}

// HandleChatError renders a known chat error and reports whether err was
// handled. Unknown errors become an opaque 500.
func HandleChatError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, entry := range chatErrorTable {
		if errors.Is(err, entry.Err) {
			response.FieldError(c, entry.Status, entry.Field, entry.Message)
			return true
		}
	}

	logger.Error("unhandled chat error", err)
	response.InternalError(c)
	return true
}
