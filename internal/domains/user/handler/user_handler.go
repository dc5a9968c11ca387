package handler

import (
	"net/http"

	"bookcrossing-backend/internal/domains/user/model"
	"bookcrossing-backend/internal/domains/user/service"
	"bookcrossing-backend/internal/shared/middleware"
	"bookcrossing-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Register creates a new account and mails the confirmation link.
func (h *UserHandler) Register(c *gin.Context) {
	var dto model.UserRegistrationDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.FieldError(c, http.StatusBadRequest, "user", "Некорректное тело запроса")
		return
	}
	if err := dto.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), dto)
	if model.HandleUserError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, user.ToProfile())
}

// Confirm enables the account behind the mailed token.
func (h *UserHandler) Confirm(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.FieldError(c, http.StatusBadRequest, "token", "Токен подтверждения отсутствует")
		return
	}

	_, err := h.service.Confirm(c.Request.Context(), token)
	if model.HandleUserError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": "Учётная запись подтверждена"})
}

// Login exchanges credentials for a token pair.
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FieldError(c, http.StatusBadRequest, "user", "Некорректное тело запроса")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	pair, err := h.service.Login(c.Request.Context(), req)
	if model.HandleUserError(c, err) {
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh issues a fresh token pair for a valid refresh token.
func (h *UserHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.FieldError(c, http.StatusBadRequest, "token", "Токен обновления отсутствует")
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if model.HandleUserError(c, err) {
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Profile returns the authenticated user's own data.
func (h *UserHandler) Profile(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		response.FieldError(c, http.StatusUnauthorized, "token", "Требуется авторизация")
		return
	}

	user, err := h.service.Profile(c.Request.Context(), login)
	if model.HandleUserError(c, err) {
		return
	}
	c.JSON(http.StatusOK, user.ToProfile())
}
