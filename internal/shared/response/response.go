package response

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

// Error bodies are flat field-to-message objects, e.g.
//
//	{"book": "Книга не найдена"}
//
// The field names the part of the request the message is about. Clients
// key their UI messages off the field, so the shape is part of the API
// contract.

// FieldError writes a single field-to-message error body.
func FieldError(c *gin.Context, status int, field, message string) {
	c.JSON(status, gin.H{field: message})
}

// Fields writes an error body with several field messages at once.
func Fields(c *gin.Context, status int, fields map[string]string) {
	body := gin.H{}
	for field, message := range fields {
		body[field] = message
	}
	c.JSON(status, body)
}

// ValidationError renders ozzo-validation errors as a field-to-message
// body with status 400. validation.Errors already marshals as a flat
// object, so it is passed through as-is.
func ValidationError(c *gin.Context, err error) {
	if ve, ok := err.(validation.Errors); ok {
		c.JSON(http.StatusBadRequest, ve)
		return
	}
	FieldError(c, http.StatusBadRequest, "request", err.Error())
}

// InternalError hides internals behind a generic message.
func InternalError(c *gin.Context) {
	FieldError(c, http.StatusInternalServerError, "server", "Внутренняя ошибка сервера")
}
