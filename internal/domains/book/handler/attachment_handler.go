package handler

import (
	"io"
	"net/http"
	"strconv"

	"bookcrossing-backend/internal/domains/book/model"
	"bookcrossing-backend/internal/domains/book/service"
	"bookcrossing-backend/internal/infrastructure/storage"
	"bookcrossing-backend/internal/shared/middleware"
	"bookcrossing-backend/internal/shared/response"
	"bookcrossing-backend/pkg/cache"

	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	service service.AttachmentService
	cache   cache.Cache
}

func NewAttachmentHandler(svc service.AttachmentService, c cache.Cache) *AttachmentHandler {
	return &AttachmentHandler{service: svc, cache: c}
}

// Save accepts a multipart form with the book id and the image file and
// attaches the image as the book's cover.
func (h *AttachmentHandler) Save(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		response.FieldError(c, http.StatusUnauthorized, "token", "Требуется авторизация")
		return
	}

	bookID, err := strconv.Atoi(c.PostForm("bookId"))
	if err != nil || bookID <= 0 {
		response.FieldError(c, http.StatusBadRequest, "bookId", "Некорректный идентификатор книги")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.FieldError(c, http.StatusBadRequest, "attachment", "Файл вложения отсутствует")
		return
	}

	// Size is checked from the header before the file is read, then again
	// on the decoded bytes. The header is advisory, the byte count is not.
	if fileHeader.Size > storage.MaxAttachmentSize {
		response.FieldError(c, http.StatusBadRequest, "attachment", "Вложение превышает допустимый размер 3 Мб")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.FieldError(c, http.StatusBadRequest, "attachment", "Не удалось прочитать файл")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxAttachmentSize+1))
	if err != nil {
		response.FieldError(c, http.StatusBadRequest, "attachment", "Не удалось прочитать файл")
		return
	}

	attach, err := h.service.SaveAttachment(c.Request.Context(), bookID, fileHeader.Filename, data, login)
	if model.HandleBookError(c, err) {
		return
	}

	h.invalidate(c, bookID)
	c.JSON(http.StatusCreated, gin.H{
		"attachId":  attach.AttachID,
		"expansion": attach.Expansion,
		"thumbUrl":  attach.ThumbURL,
	})
}

// Delete removes the book's cover. Removing an absent cover succeeds.
// The book id comes from the path.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		response.FieldError(c, http.StatusUnauthorized, "token", "Требуется авторизация")
		return
	}

	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	if model.HandleBookError(c, h.service.DeleteAttachment(c.Request.Context(), bookID, login)) {
		return
	}

	h.invalidate(c, bookID)
	c.JSON(http.StatusOK, gin.H{"attachment": "Вложение удалено"})
}

func (h *AttachmentHandler) invalidate(c *gin.Context, bookID int) {
	// Cache failures only delay freshness, they never fail the request.
	_ = h.cache.Delete(c.Request.Context(), bookInfoKey(bookID))
}
