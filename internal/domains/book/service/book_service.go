package service

import (
	"context"
	"errors"
	"fmt"

	"bookcrossing-backend/internal/domains/book/model"
	"bookcrossing-backend/internal/domains/book/repository"
	usermodel "bookcrossing-backend/internal/domains/user/model"
	"bookcrossing-backend/internal/infrastructure/storage"
	"bookcrossing-backend/pkg/logger"
)

type bookService struct {
	repo    repository.BookRepository
	owners  OwnerProvider
	storage storage.ObjectStorage
}

func NewBookService(repo repository.BookRepository, owners OwnerProvider, objStorage storage.ObjectStorage) BookService {
	return &bookService{
		repo:    repo,
		owners:  owners,
		storage: objStorage,
	}
}

// resolveOwner loads the account behind login and rejects it when the
// account was never confirmed. Only confirmed users place books.
func (s *bookService) resolveOwner(ctx context.Context, login string) (*usermodel.User, error) {
	owner, err := s.owners.FindByLogin(ctx, login)
	if errors.Is(err, usermodel.ErrUserNotFound) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}
	if !owner.Enabled {
		return nil, model.ErrUserNotEnabled
	}
	return owner, nil
}

func (s *bookService) SaveBook(ctx context.Context, dto model.BookDto, ownerLogin string) (*model.Book, error) {
	owner, err := s.resolveOwner(ctx, ownerLogin)
	if err != nil {
		return nil, err
	}

	// City is denormalized from the owner so catalog search by city
	// works without touching the user table.
	book := &model.Book{
		Title:           dto.Title,
		Author:          dto.Author,
		Genre:           dto.Genre,
		Year:            dto.Year,
		PublishingHouse: dto.PublishingHouse,
		City:            owner.City,
		OwnerID:         owner.UserID,
		OwnerLogin:      owner.Login,
	}

	if _, err := s.repo.Save(ctx, book); err != nil {
		return nil, err
	}

	logger.Info("book saved", map[string]interface{}{
		"book_id": book.BookID,
		"owner":   owner.Login,
	})
	return book, nil
}

func (s *bookService) FindAll(ctx context.Context) ([]model.Book, error) {
	return s.repo.FindAll(ctx)
}

func (s *bookService) FindByID(ctx context.Context, id int) (*model.Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *bookService) FindByTitle(ctx context.Context, title string) ([]model.Book, error) {
	return s.repo.FindByTitle(ctx, title)
}

// FilterSearch combines the supplied filters with AND. An empty filter set
// degrades to the full listing.
func (s *bookService) FilterSearch(ctx context.Context, filters model.BookFiltersRequest) ([]model.Book, error) {
	if filters.Empty() {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindWithFilters(ctx, filters)
}

func (s *bookService) OwnBooks(ctx context.Context, login string) ([]model.Book, error) {
	if _, err := s.resolveOwner(ctx, login); err != nil {
		return nil, err
	}
	return s.repo.FindByOwnerLogin(ctx, login)
}

// mustOwn loads the book and verifies login is its owner.
func (s *bookService) mustOwn(ctx context.Context, id int, login string) (*model.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.OwnerLogin != login {
		return nil, model.ErrUserIsNotOwner
	}
	return book, nil
}

func (s *bookService) UpdateBook(ctx context.Context, id int, dto model.BookDto, login string) (*model.Book, error) {
	book, err := s.mustOwn(ctx, id, login)
	if err != nil {
		return nil, err
	}

	book.Title = dto.Title
	book.Author = dto.Author
	book.Genre = dto.Genre
	book.Year = dto.Year
	book.PublishingHouse = dto.PublishingHouse

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id int, login string) error {
	if _, err := s.mustOwn(ctx, id, login); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Stored cover objects are keyed under the book prefix; removing the
	// prefix clears both the original and the thumbnail. Failure here
	// only leaks orphaned objects, the catalog row is already gone.
	if err := s.storage.DeleteByPrefix(ctx, attachmentPrefix(id)); err != nil {
		logger.Warn("failed to delete book objects", map[string]interface{}{
			"book_id": id,
			"error":   err.Error(),
		})
	}
	return nil
}
