package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"bookcrossing-backend/internal/domains/book/model"
	"bookcrossing-backend/internal/domains/book/service"
	"bookcrossing-backend/internal/shared/middleware"
	"bookcrossing-backend/internal/shared/response"
	"bookcrossing-backend/pkg/cache"
	"bookcrossing-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const bookInfoTTL = 10 * time.Minute

type BookHandler struct {
	service service.BookService
	cache   cache.Cache
}

func NewBookHandler(svc service.BookService, c cache.Cache) *BookHandler {
	return &BookHandler{service: svc, cache: c}
}

func bookInfoKey(id int) string {
	return fmt.Sprintf("book:info:%d", id)
}

// parseBookID reads the bookId query parameter. It writes the error body
// itself so callers just return on failure.
func parseBookID(c *gin.Context) (int, bool) {
	return checkBookID(c, c.Query("bookId"))
}

// parseBookIDParam does the same for routes carrying the id in the path.
func parseBookIDParam(c *gin.Context) (int, bool) {
	return checkBookID(c, c.Param("bookId"))
}

func checkBookID(c *gin.Context, raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		response.FieldError(c, http.StatusBadRequest, "bookId", "Некорректный идентификатор книги")
		return 0, false
	}
	return id, true
}

func toModels(books []model.Book) []model.BookModelDto {
	dtos := make([]model.BookModelDto, 0, len(books))
	for i := range books {
		dtos = append(dtos, books[i].ToModel())
	}
	return dtos
}

// All returns the whole catalog as a bare JSON array.
func (h *BookHandler) All(c *gin.Context) {
	books, err := h.service.FindAll(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}
	c.JSON(http.StatusOK, toModels(books))
}

// Info returns a single book by id. Responses are cached briefly since the
// info page is the hottest read.
func (h *BookHandler) Info(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	key := bookInfoKey(id)

	var cached model.BookModelDto
	if hit, err := h.cache.Get(ctx, key, &cached); err == nil && hit {
		c.JSON(http.StatusOK, cached)
		return
	}

	book, err := h.service.FindByID(ctx, id)
	if model.HandleBookError(c, err) {
		return
	}

	dto := book.ToModel()
	if err := h.cache.Set(ctx, key, dto, bookInfoTTL); err != nil {
		logger.Warn("failed to cache book info", map[string]interface{}{
			"book_id": id,
			"error":   err.Error(),
		})
	}
	c.JSON(http.StatusOK, dto)
}

// SearchByTitle returns every book whose title contains the query string,
// duplicates included.
func (h *BookHandler) SearchByTitle(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		response.FieldError(c, http.StatusBadRequest, "title", "Название для поиска не может быть пустым")
		return
	}

	books, err := h.service.FindByTitle(c.Request.Context(), title)
	if model.HandleBookError(c, err) {
		return
	}
	c.JSON(http.StatusOK, toModels(books))
}

// SearchWithFilters accepts a JSON body of optional filters combined with
// AND. An absent or empty body means no constraint at all.
func (h *BookHandler) SearchWithFilters(c *gin.Context) {
	var filters model.BookFiltersRequest
	if err := c.ShouldBindJSON(&filters); err != nil && !errors.Is(err, io.EOF) {
		response.FieldError(c, http.StatusBadRequest, "filters", "Некорректное тело запроса")
		return
	}

	if err := filters.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	books, err := h.service.FilterSearch(c.Request.Context(), filters)
	if model.HandleBookError(c, err) {
		return
	}
	c.JSON(http.StatusOK, toModels(books))
}

// Save creates a book owned by the authenticated user.
func (h *BookHandler) Save(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		response.FieldError(c, http.StatusUnauthorized, "token", "Требуется авторизация")
		return
	}

	var dto model.BookDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.FieldError(c, http.StatusBadRequest, "book", "Некорректное тело запроса")
		return
	}
	if err := dto.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	book, err := h.service.SaveBook(c.Request.Context(), dto, login)
	if model.HandleBookError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, book.ToModel())
}

// Own lists the caller's books.
func (h *BookHandler) Own(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		response.FieldError(c, http.StatusUnauthorized, "token", "Требуется авторизация")
		return
	}

	books, err := h.service.OwnBooks(c.Request.Context(), login)
	if model.HandleBookError(c, err) {
		return
	}
	c.JSON(http.StatusOK, toModels(books))
}

// Update edits a book the caller owns.
func (h *BookHandler) Update(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		response.FieldError(c, http.StatusUnauthorized, "token", "Требуется авторизация")
		return
	}

	id, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	var dto model.BookDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.FieldError(c, http.StatusBadRequest, "book", "Некорректное тело запроса")
		return
	}
	if err := dto.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, dto, login)
	if model.HandleBookError(c, err) {
		return
	}

	h.invalidate(c, id)
	c.JSON(http.StatusOK, book.ToModel())
}

// Delete removes a book the caller owns, cover included.
func (h *BookHandler) Delete(c *gin.Context) {
	login, ok := middleware.CallerLogin(c)
	if !ok {
		response.FieldError(c, http.StatusUnauthorized, "token", "Требуется авторизация")
		return
	}

	id, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	err := h.service.DeleteBook(c.Request.Context(), id, login)
	if model.HandleBookError(c, err) {
		return
	}

	h.invalidate(c, id)
	c.JSON(http.StatusOK, gin.H{"book": "Книга удалена"})
}

func (h *BookHandler) invalidate(c *gin.Context, id int) {
	if err := h.cache.Delete(c.Request.Context(), bookInfoKey(id)); err != nil {
		logger.Warn("failed to invalidate book cache", map[string]interface{}{
			"book_id": id,
			"error":   err.Error(),
		})
	}
}
