package service

import (
	"context"

	"bookcrossing-backend/internal/domains/book/model"
	usermodel "bookcrossing-backend/internal/domains/user/model"
)

// BookService holds the catalog use cases.
type BookService interface {
	SaveBook(ctx context.Context, dto model.BookDto, ownerLogin string) (*model.Book, error)
	FindAll(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id int) (*model.Book, error)
	FindByTitle(ctx context.Context, title string) ([]model.Book, error)
	FilterSearch(ctx context.Context, filters model.BookFiltersRequest) ([]model.Book, error)
	OwnBooks(ctx context.Context, login string) ([]model.Book, error)
	UpdateBook(ctx context.Context, id int, dto model.BookDto, login string) (*model.Book, error)
	DeleteBook(ctx context.Context, id int, login string) error
}

// AttachmentService manages the cover life cycle.
type AttachmentService interface {
	SaveAttachment(ctx context.Context, bookID int, fileName string, data []byte, login string) (*model.Attachment, error)
	DeleteAttachment(ctx context.Context, bookID int, login string) error
}

// OwnerProvider is the narrow slice of the user domain the catalog needs:
// resolving a login to an account to check existence and confirmation.
type OwnerProvider interface {
	FindByLogin(ctx context.Context, login string) (*usermodel.User, error)
}
