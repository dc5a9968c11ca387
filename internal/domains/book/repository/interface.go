package repository

import (
	"context"

	"bookcrossing-backend/internal/domains/book/model"
)

// BookRepository is the catalog data access contract.
type BookRepository interface {
	Save(ctx context.Context, book *model.Book) (int, error)
	FindByID(ctx context.Context, id int) (*model.Book, error)
	FindAll(ctx context.Context) ([]model.Book, error)
	FindByTitle(ctx context.Context, title string) ([]model.Book, error)
	FindWithFilters(ctx context.Context, filters model.BookFiltersRequest) ([]model.Book, error)
	FindByOwnerLogin(ctx context.Context, login string) ([]model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id int) error
}

// AttachmentRepository manages the cover rows keyed by book id.
type AttachmentRepository interface {
	// Upsert inserts or replaces the attachment row in one statement.
	Upsert(ctx context.Context, attachment *model.Attachment) error
	// Delete removes the row; deleted reports whether one existed.
	Delete(ctx context.Context, bookID int) (deleted bool, err error)
}
