package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"bookcrossing-backend/internal/domains/book/model"
	"bookcrossing-backend/internal/domains/book/repository"
	"bookcrossing-backend/internal/infrastructure/storage"
	"bookcrossing-backend/pkg/logger"
)

type attachmentService struct {
	books     repository.BookRepository
	attaches  repository.AttachmentRepository
	storage   storage.ObjectStorage
	processor *storage.ImageProcessor
}

func NewAttachmentService(
	books repository.BookRepository,
	attaches repository.AttachmentRepository,
	objStorage storage.ObjectStorage,
	processor *storage.ImageProcessor,
) AttachmentService {
	return &attachmentService{
		books:     books,
		attaches:  attaches,
		storage:   objStorage,
		processor: processor,
	}
}

// attachmentPrefix is the object key prefix all cover objects of a book
// live under.
func attachmentPrefix(bookID int) string {
	return fmt.Sprintf("books/%d/", bookID)
}

func coverKey(bookID int, ext string) string {
	return fmt.Sprintf("books/%d/cover.%s", bookID, ext)
}

func thumbKey(bookID int) string {
	return fmt.Sprintf("books/%d/thumb.jpg", bookID)
}

// SaveAttachment validates the uploaded image and stores it as the book's
// cover. A book holds a single cover, so the object keys are fixed per
// book and a second upload replaces the first in place.
func (s *attachmentService) SaveAttachment(ctx context.Context, bookID int, fileName string, data []byte, login string) (*model.Attachment, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerLogin != login {
		return nil, model.ErrUserIsNotOwner
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ext == "" {
		return nil, model.ErrEmptyFileName
	}

	format, err := s.processor.Validate(data)
	if err != nil {
		return nil, err
	}

	thumb, err := s.processor.Thumbnail(data)
	if err != nil {
		return nil, fmt.Errorf("failed to build thumbnail: %w", err)
	}

	coverURL, err := s.storage.Upload(ctx, coverKey(bookID, ext), data, "image/"+format)
	if err != nil {
		return nil, fmt.Errorf("failed to store cover: %w", err)
	}

	thumbURL, err := s.storage.Upload(ctx, thumbKey(bookID), thumb, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	attach := &model.Attachment{
		AttachID:  bookID,
		Expansion: ext,
		SizeBytes: int64(len(data)),
		CoverURL:  coverURL,
		ThumbURL:  thumbURL,
	}
	if err := s.attaches.Upsert(ctx, attach); err != nil {
		return nil, err
	}

	logger.Info("attachment saved", map[string]interface{}{
		"book_id": bookID,
		"format":  format,
		"size":    len(data),
	})
	return attach, nil
}

// DeleteAttachment removes the cover. Deleting a book without one is not
// an error: the end state is the same either way.
func (s *attachmentService) DeleteAttachment(ctx context.Context, bookID int, login string) error {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book.OwnerLogin != login {
		return model.ErrUserIsNotOwner
	}

	deleted, err := s.attaches.Delete(ctx, bookID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteByPrefix(ctx, attachmentPrefix(bookID)); err != nil {
		logger.Warn("failed to delete attachment objects", map[string]interface{}{
			"book_id": bookID,
			"error":   err.Error(),
		})
	}

	if deleted {
		logger.Info("attachment deleted", map[string]interface{}{"book_id": bookID})
	}
	return nil
}
