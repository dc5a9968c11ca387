package handler

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"bookcrossing-backend/internal/domains/book/model"
	usermodel "bookcrossing-backend/internal/domains/user/model"
)

// In-memory doubles for the repositories and infrastructure the handlers
// sit on. They mimic the SQL behavior closely enough for contract tests.

type fakeBookRepo struct {
	mu     sync.Mutex
	books  []model.Book
	nextID int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{nextID: 1}
}

func (r *fakeBookRepo) Save(_ context.Context, book *model.Book) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book.BookID = r.nextID
	r.nextID++
	r.books = append(r.books, *book)
	return book.BookID, nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id int) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.books {
		if r.books[i].BookID == id {
			b := r.books[i]
			return &b, nil
		}
	}
	return nil, model.ErrBookNotFound
}

func (r *fakeBookRepo) FindAll(_ context.Context) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Book, len(r.books))
	copy(out, r.books)
	return out, nil
}

func (r *fakeBookRepo) FindByTitle(_ context.Context, title string) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Book, 0)
	for _, b := range r.books {
		if strings.Contains(strings.ToLower(b.Title), strings.ToLower(title)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) FindWithFilters(_ context.Context, f model.BookFiltersRequest) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Book, 0)
	for _, b := range r.books {
		if f.City != "" && b.City != f.City {
			continue
		}
		if f.Genre != "" && (b.Genre == nil || *b.Genre != f.Genre) {
			continue
		}
		if f.Author != "" && b.Author != f.Author {
			continue
		}
		if f.Title != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(f.Title)) {
			continue
		}
		if f.PublishingHouse != "" && b.PublishingHouse != f.PublishingHouse {
			continue
		}
		if f.MinYear > 0 && b.Year < f.MinYear {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookRepo) FindByOwnerLogin(_ context.Context, login string) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Book, 0)
	for _, b := range r.books {
		if b.OwnerLogin == login {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) Update(_ context.Context, book *model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.books {
		if r.books[i].BookID == book.BookID {
			r.books[i] = *book
			return nil
		}
	}
	return model.ErrBookNotFound
}

func (r *fakeBookRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.books {
		if r.books[i].BookID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return nil
		}
	}
	return model.ErrBookNotFound
}

// setAttachment mirrors the repository join that fills Book.Attachment.
func (r *fakeBookRepo) setAttachment(bookID int, info *model.AttachmentInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.books {
		if r.books[i].BookID == bookID {
			r.books[i].Attachment = info
		}
	}
}

type fakeAttachRepo struct {
	mu   sync.Mutex
	rows map[int]model.Attachment
}

func newFakeAttachRepo() *fakeAttachRepo {
	return &fakeAttachRepo{rows: make(map[int]model.Attachment)}
}

func (r *fakeAttachRepo) Upsert(_ context.Context, attach *model.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[attach.AttachID] = *attach
	return nil
}

func (r *fakeAttachRepo) Delete(_ context.Context, bookID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[bookID]
	delete(r.rows, bookID)
	return ok, nil
}

type fakeOwners struct {
	users map[string]*usermodel.User
}

func (f *fakeOwners) FindByLogin(_ context.Context, login string) (*usermodel.User, error) {
	u, ok := f.users[login]
	if !ok {
		return nil, usermodel.ErrUserNotFound
	}
	return u, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "http://storage.local/covers/" + key, nil
}

func (s *fakeStorage) Download(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[key], nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
		}
	}
	return nil
}

func (s *fakeStorage) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	return out
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }
