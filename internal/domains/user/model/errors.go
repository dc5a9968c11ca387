package model

import (
	"errors"
	"net/http"

	"bookcrossing-backend/internal/shared/response"
	"bookcrossing-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

var (
	ErrLoginTaken      = errors.New("login already taken")
	ErrEmailTaken      = errors.New("email already taken")
	ErrPasswordsDiffer = errors.New("passwords do not match")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrAccountLocked   = errors.New("account not confirmed")
	ErrTokenNotFound   = errors.New("confirmation token not found")
)

var userErrorTable = []struct {
	Err     error
	Status  int
	Field   string
	Message string
}{
	{ErrLoginTaken, http.StatusConflict, "login", "Пользователь с таким логином уже существует"},
	{ErrEmailTaken, http.StatusConflict, "email", "Пользователь с такой почтой уже существует"},
	{ErrPasswordsDiffer, http.StatusConflict, "password", "Пароли не совпадают"},
	{ErrUserNotFound, http.StatusNotFound, "user", "Пользователь не найден"},
	{ErrInvalidPassword, http.StatusForbidden, "password", "Неверный пароль"},
	{ErrAccountLocked, http.StatusForbidden, "user", "Учётная запись не подтверждена"},
	{ErrTokenNotFound, http.StatusNotFound, "token", "Ссылка подтверждения недействительна"},
}

// HandleUserError writes the HTTP mapping for a known user error and reports
// whether err was handled. Unknown errors become a logged 500.
func HandleUserError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, entry := range userErrorTable {
		if errors.Is(err, entry.Err) {
			response.FieldError(c, entry.Status, entry.Field, entry.Message)
			return true
		}
	}

	logger.Error("unhandled user error", err)
	response.InternalError(c)
	return true
}
