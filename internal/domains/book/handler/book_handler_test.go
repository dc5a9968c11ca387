package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookcrossing-backend/internal/domains/book/model"
	"bookcrossing-backend/internal/domains/book/service"
	usermodel "bookcrossing-backend/internal/domains/user/model"
	"bookcrossing-backend/internal/infrastructure/storage"
	"bookcrossing-backend/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

type testEnv struct {
	books    *fakeBookRepo
	attaches *fakeAttachRepo
	store    *fakeStorage
	cache    *fakeCache
	router   *gin.Engine
}

// newTestEnv wires real services over in-memory repositories, so the tests
// exercise the whole request path below the transport.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	owners := &fakeOwners{users: map[string]*usermodel.User{
		"alex": {UserID: 1, Name: "Алексей", Login: "alex", City: "Новосибирск", Enabled: true},
		"mike": {UserID: 2, Name: "Михаил", Login: "mike", City: "Москва", Enabled: true},
	}}

	env := &testEnv{
		books:    newFakeBookRepo(),
		attaches: newFakeAttachRepo(),
		store:    newFakeStorage(),
		cache:    newFakeCache(),
	}

	bookSvc := service.NewBookService(env.books, owners, env.store)
	attachSvc := service.NewAttachmentService(env.books, env.attaches, env.store, storage.NewImageProcessor())

	bookHandler := NewBookHandler(bookSvc, env.cache)
	attachHandler := NewAttachmentHandler(attachSvc, env.cache)

	router := gin.New()
	books := router.Group("/books")
	{
		books.GET("/all", bookHandler.All)
		books.GET("/info", bookHandler.Info)
		books.GET("/searchByTitle", bookHandler.SearchByTitle)
		books.GET("/searchWithFilters", bookHandler.SearchWithFilters)
	}
	user := router.Group("/user", testAuth())
	{
		user.POST("/books", bookHandler.Save)
		user.GET("/books", bookHandler.Own)
		user.PUT("/books/:bookId", bookHandler.Update)
		user.DELETE("/books/:bookId", bookHandler.Delete)
		user.POST("/books/attachment", attachHandler.Save)
		user.DELETE("/books/attachment/:bookId", attachHandler.Delete)
	}

	env.router = router
	return env
}

// testAuth replaces the JWT middleware: the caller identifies itself with a
// plain header.
func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if login := c.GetHeader(testUserHeader); login != "" {
			c.Set(middleware.LoginKey, login)
		}
		c.Next()
	}
}

func strPtr(s string) *string { return &s }

// seedShelf loads the three-book fixture: two from Novosibirsk, one from
// Moscow, with distinct genres and years.
func (e *testEnv) seedShelf(t *testing.T) {
	t.Helper()
	fixtures := []model.Book{
		{Title: "Портрет Дориана Грея", Author: "Оскар Уайльд", Year: 2000,
			PublishingHouse: "Эксмо", City: "Новосибирск", OwnerID: 1, OwnerLogin: "alex"},
		{Title: "Ведьмак", Author: "Анджей Сапковский", Genre: strPtr("роман"), Year: 2020,
			PublishingHouse: "АСТ", City: "Москва", OwnerID: 2, OwnerLogin: "mike"},
		{Title: "Волки", Author: "Сергей Петров", Genre: strPtr("повесть"), Year: 2000,
			PublishingHouse: "Азбука", City: "Новосибирск", OwnerID: 1, OwnerLogin: "alex"},
	}
	for i := range fixtures {
		_, err := e.books.Save(context.Background(), &fixtures[i])
		require.NoError(t, err)
	}
}

func (e *testEnv) do(method, target, login string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if login != "" {
		req.Header.Set(testUserHeader, login)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []model.BookModelDto {
	t.Helper()
	var list []model.BookModelDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	return list
}

func TestAllBooks(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	w := env.do(http.MethodGet, "/books/all", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(w.Body.String()), "["),
		"catalog must be a bare JSON array")

	list := decodeList(t, w)
	require.Len(t, list, 3)
	assert.Equal(t, "Портрет Дориана Грея", list[0].Title)
	assert.Nil(t, list[0].Genre)
	assert.Equal(t, "Волки", list[2].Title)
}

func TestAllBooksEmptyShelf(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/books/all", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestBookInfo(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	w := env.do(http.MethodGet, "/books/info?bookId=2", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var dto model.BookModelDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, 2, dto.BookID)
	assert.Equal(t, "Ведьмак", dto.Title)
	assert.Equal(t, "роман", *dto.Genre)
}

func TestBookInfoNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	w := env.do(http.MethodGet, "/books/info?bookId=99", "", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"book":"Книга не найдена"}`, w.Body.String())
}

func TestBookInfoBadID(t *testing.T) {
	env := newTestEnv(t)

	for _, raw := range []string{"abc", "-1", ""} {
		w := env.do(http.MethodGet, "/books/info?bookId="+raw, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "bookId=%q", raw)
	}
}

func TestBookInfoServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	first := env.do(http.MethodGet, "/books/info?bookId=1", "", nil)
	require.Equal(t, http.StatusOK, first.Code)

	// Mutate behind the cache: the second read must not notice.
	require.NoError(t, env.books.Delete(context.Background(), 1))

	second := env.do(http.MethodGet, "/books/info?bookId=1", "", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestSearchByTitleDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	// A second copy of the same title from another owner. Both copies are
	// distinct physical books and both must come back.
	dup := model.Book{Title: "Ведьмак", Author: "Анджей Сапковский", Genre: strPtr("роман"),
		Year: 2020, PublishingHouse: "АСТ", City: "Новосибирск", OwnerID: 1, OwnerLogin: "alex"}
	_, err := env.books.Save(context.Background(), &dup)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/books/searchByTitle?title=Ведьмак", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 2)
	assert.NotEqual(t, list[0].BookID, list[1].BookID)
}

func TestSearchByTitleNoMatch(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	w := env.do(http.MethodGet, "/books/searchByTitle?title=Гамлет", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 0)
}

func TestSearchByTitleEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/books/searchByTitle", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchWithFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	tests := []struct {
		name    string
		filters model.BookFiltersRequest
		want    []string
	}{
		{
			name: "all filters pin one book",
			filters: model.BookFiltersRequest{
				City: "Новосибирск", Genre: "повесть", Author: "Сергей Петров",
				Title: "Волки", PublishingHouse: "Азбука", MinYear: 2000,
			},
			want: []string{"Волки"},
		},
		{
			name:    "city only",
			filters: model.BookFiltersRequest{City: "Новосибирск"},
			want:    []string{"Портрет Дориана Грея", "Волки"},
		},
		{
			name:    "min year",
			filters: model.BookFiltersRequest{MinYear: 2010},
			want:    []string{"Ведьмак"},
		},
		{
			name:    "no filters lists everything",
			filters: model.BookFiltersRequest{},
			want:    []string{"Портрет Дориана Грея", "Ведьмак", "Волки"},
		},
		{
			name:    "conflicting filters match nothing",
			filters: model.BookFiltersRequest{City: "Москва", Genre: "повесть"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/books/searchWithFilters", "", tt.filters)
			require.Equal(t, http.StatusOK, w.Code)

			list := decodeList(t, w)
			titles := make([]string, 0, len(list))
			for _, b := range list {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestSearchWithFiltersEmptyBody(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	w := env.do(http.MethodGet, "/books/searchWithFilters", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 3)
}

func TestSaveBook(t *testing.T) {
	env := newTestEnv(t)

	dto := model.BookDto{Title: "Мастер и Маргарита", Author: "Михаил Булгаков",
		Genre: strPtr("роман"), Year: 1967, PublishingHouse: "АСТ"}
	w := env.do(http.MethodPost, "/user/books", "alex", dto)

	require.Equal(t, http.StatusCreated, w.Code)
	var saved model.BookModelDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, 1, saved.BookID)
	// City comes from the owner's profile, not the request.
	assert.Equal(t, "Новосибирск", saved.City)
}

func TestSaveBookValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		dto   model.BookDto
		field string
	}{
		{"empty title", model.BookDto{Author: "Автор", Year: 2000}, "title"},
		{"empty author", model.BookDto{Title: "Книга", Year: 2000}, "author"},
		{"year too old", model.BookDto{Title: "Книга", Author: "Автор", Year: 1200}, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/user/books", "alex", tt.dto)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body, tt.field)
		})
	}
}

func TestSaveBookUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	dto := model.BookDto{Title: "Книга", Author: "Автор", Year: 2000}
	w := env.do(http.MethodPost, "/user/books", "", dto)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnBooks(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	w := env.do(http.MethodGet, "/user/books", "alex", nil)

	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 2)
	for _, b := range list {
		assert.Equal(t, "Новосибирск", b.City)
	}
}

func TestUpdateBook(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	dto := model.BookDto{Title: "Волки и овцы", Author: "Сергей Петров",
		Genre: strPtr("пьеса"), Year: 2001, PublishingHouse: "Азбука"}
	w := env.do(http.MethodPut, "/user/books/3", "alex", dto)

	require.Equal(t, http.StatusOK, w.Code)

	updated, err := env.books.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Волки и овцы", updated.Title)
	assert.Equal(t, 2001, updated.Year)
}

func TestUpdateBookNotOwner(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)

	dto := model.BookDto{Title: "Чужая книга", Author: "Автор", Year: 2000}
	w := env.do(http.MethodPut, "/user/books/3", "mike", dto)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"user":"Пользователь не является владельцем книги"}`, w.Body.String())
}

func TestDeleteBook(t *testing.T) {
	env := newTestEnv(t)
	env.seedShelf(t)
	env.store.Upload(context.Background(), "books/3/cover.jpg", []byte("img"), "image/jpeg")
	env.store.Upload(context.Background(), "books/3/thumb.jpg", []byte("img"), "image/jpeg")

	w := env.do(http.MethodDelete, "/user/books/3", "alex", nil)

	require.Equal(t, http.StatusOK, w.Code)
	_, err := env.books.FindByID(context.Background(), 3)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
	assert.Empty(t, env.store.keys(), "stored cover objects must be removed with the book")
}

func TestDeleteBookNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodDelete, "/user/books/5", "alex", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"book":"Книга не найдена"}`, w.Body.String())
}
