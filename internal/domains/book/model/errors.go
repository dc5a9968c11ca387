package model

import (
	"errors"
	"net/http"

	"bookcrossing-backend/internal/infrastructure/storage"
	"bookcrossing-backend/internal/shared/response"
	"bookcrossing-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserNotEnabled = errors.New("user account is not enabled")
	ErrUserIsNotOwner = errors.New("user does not own the book")
	ErrEmptyFileName  = errors.New("attachment file name is empty")
)

// bookErrorTable maps domain errors to the HTTP contract: status code plus
// the field the localized message is keyed under.
var bookErrorTable = []struct {
	Err     error
	Status  int
	Field   string
	Message string
}{
	{ErrBookNotFound, http.StatusNotFound, "book", "Книга не найдена"},
	{ErrUserNotFound, http.StatusNotFound, "user", "Пользователь не найден"},
	{ErrUserNotEnabled, http.StatusForbidden, "user", "Аккаунт не подтверждён"},
	{ErrUserIsNotOwner, http.StatusForbidden, "user", "Пользователь не является владельцем книги"},
	{ErrEmptyFileName, http.StatusBadRequest, "attachment", "Имя файла должно содержать расширение"},
	{storage.ErrTooLarge, http.StatusBadRequest, "attachment", "Вложение превышает допустимый размер 3 Мб"},
	{storage.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, "attachment", "Недопустимый формат вложения"},
}

// HandleBookError renders a known domain error and reports whether err was
// handled. Unknown errors become an opaque 500.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, entry := range bookErrorTable {
		if errors.Is(err, entry.Err) {
			response.FieldError(c, entry.Status, entry.Field, entry.Message)
			return true
		}
	}

	logger.Error("unhandled book error", err)
	response.InternalError(c)
	return true
}
