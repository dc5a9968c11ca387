package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Book is the catalog entity. City is denormalized from the owner at save
// time so catalog filtering never joins through the user table.
type Book struct {
	BookID          int     `db:"book_id"`
	Title           string  `db:"title"`
	Author          string  `db:"author"`
	Genre           *string `db:"genre"`
	Year            int     `db:"year"`
	PublishingHouse string  `db:"publishing_house"`
	City            string  `db:"city"`
	OwnerID         int     `db:"owner_id"`
	OwnerLogin      string  `db:"owner_login"`

	// Attachment is populated by the repository join; nil when the book
	// has no cover.
	Attachment *AttachmentInfo
}

// AttachmentInfo is the joined slice of the attachment row a catalog
// response needs.
type AttachmentInfo struct {
	Expansion string
	ThumbURL  string
}

/// Attachment is the cover row. AttachID equals the owning book's id: the
// relation is strictly one-to-one by shared key, and deleting the book
// cascades the row away.
type Attachment struct {
	AttachID  int    `db:"attach_id"`
	Expansion string `db:"expansion"`
	SizeBytes int64  `db:"size_bytes"`
	CoverURL  string `db:"cover_url"`
	ThumbURL  string `db:"thumb_url"`
}

// BookDto is the save/edit request payload.
type BookDto struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Genre           *string `json:"genre"`
	Year            int     `json:"year"`
	PublishingHouse string  `json:"publishingHouse"`
}

func (d BookDto) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title,
			validation.Required.Error("Название книги не может быть пустым"),
			validation.Length(1, 200),
		),
		validation.Field(&d.Author,
			validation.Required.Error("Автор книги не может быть пустым"),
			validation.Length(1, 100),
		),
		validation.Field(&d.Genre, validation.Length(0, 50)),
		validation.Field(&d.Year,
			validation.Min(1400).Error("Некорректный год издания"),
		),
		validation.Field(&d.PublishingHouse, validation.Length(0, 100)),
	)
}

// BookModelDto is the catalog response shape.
type BookModelDto struct {
	BookID          int            `json:"bookId"`
	Title           string         `json:"title"`
	Author          string         `json:"author"`
	Genre           *string        `json:"genre"`
	Year            int            `json:"year"`
	PublishingHouse string         `json:"publishingHouse"`
	City            string         `json:"city"`
	Attachment      *AttachmentDto `json:"attachment"`
}

// AttachmentDto carries the catalog thumbnail reference.
type AttachmentDto struct {
	ThumbURL  string `json:"thumbUrl"`
	Expansion string `json:"expansion"`
}

// ToModel converts the entity to the response shape.
func (b *Book) ToModel() BookModelDto {
	dto := BookModelDto{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		Year:            b.Year,
		PublishingHouse: b.PublishingHouse,
		City:            b.City,
	}
	if b.Attachment != nil {
		dto.Attachment = &AttachmentDto{
			ThumbURL:  b.Attachment.ThumbURL,
			Expansion: b.Attachment.Expansion,
		}
	}
	return dto
}

// BookFiltersRequest is the filter-search payload. Every field is
// optional; a zero value imposes no constraint. Supplied filters are
// combined with AND.
type BookFiltersRequest struct {
	City            string `json:"city"`
	Genre           string `json:"genre"`
	Author          string `json:"author"`
	Title           string `json:"title"`
	PublishingHouse string `json:"publishingHouse"`
	MinYear         int    `json:"minYear"`
}

func (f BookFiltersRequest) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.MinYear, validation.Min(0).Error("Год не может быть отрицательным")),
		validation.Field(&f.Title, validation.Length(0, 200)),
	)
}

// Empty reports whether no filter was supplied, which makes the search
// equivalent to listing everything.
func (f BookFiltersRequest) Empty() bool {
	return f.City == "" && f.Genre == "" && f.Author == "" &&
		f.Title == "" && f.PublishingHouse == "" && f.MinYear == 0
}
