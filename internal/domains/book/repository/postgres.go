package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookcrossing-backend/internal/domains/book/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresRepository implements BookRepository with raw SQL on pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) BookRepository {
	return &postgresRepository{pool: pool}
}

// bookColumns is the shared projection: the book row, the owner login and
// the joined attachment slice. Every lookup selects the same shape so one
// scanner serves them all.
const bookColumns = `
	b.book_id, b.title, b.author, b.genre, b.year, b.publishing_house,
	b.city, b.owner_id, u.login,
	a.expansion, a.thumb_url
`

const bookFrom = `
	FROM t_book b
	JOIN t_user u ON u.user_id = b.owner_id
	LEFT JOIN t_attach a ON a.attach_id = b.book_id
`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	var expansion, thumbURL *string

	err := row.Scan(
		&b.BookID, &b.Title, &b.Author, &b.Genre, &b.Year, &b.PublishingHouse,
		&b.City, &b.OwnerID, &b.OwnerLogin,
		&expansion, &thumbURL,
	)
	if err != nil {
		return nil, err
	}

	if expansion != nil && thumbURL != nil {
		b.Attachment = &model.AttachmentInfo{Expansion: *expansion, ThumbURL: *thumbURL}
	}
	return &b, nil
}

func (r *postgresRepository) collectBooks(ctx context.Context, query string, args ...interface{}) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("book query failed: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("book scan failed: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("book rows error: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) Save(ctx context.Context, book *model.Book) (int, error) {
	query := `
		INSERT INTO t_book (title, author, genre, year, publishing_house, city, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING book_id
	`

	var id int
	err := r.pool.QueryRow(ctx, query,
		book.Title, book.Author, book.Genre, book.Year,
		book.PublishingHouse, book.City, book.OwnerID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert book: %w", err)
	}

	book.BookID = id
	return id, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int) (*model.Book, error) {
	query := `SELECT ` + bookColumns + bookFrom + ` WHERE b.book_id = $1`

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// FindAll returns the whole catalog in book_id order, which keeps the
// listing stable across identical stored state.
func (r *postgresRepository) FindAll(ctx context.Context) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + bookFrom + ` ORDER BY b.book_id`
	return r.collectBooks(ctx, query)
}

// FindByTitle matches by case-insensitive substring.
func (r *postgresRepository) FindByTitle(ctx context.Context, title string) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + bookFrom + `
		WHERE b.title ILIKE '%' || $1 || '%'
		ORDER BY b.book_id`
	return r.collectBooks(ctx, query, title)
}

// FindWithFilters builds the WHERE clause from the supplied filters only;
// absent filters impose no constraint.
func (r *postgresRepository) FindWithFilters(ctx context.Context, filters model.BookFiltersRequest) ([]model.Book, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filters.City != "" {
		conditions = append(conditions, fmt.Sprintf("b.city = $%d", argIndex))
		args = append(args, filters.City)
		argIndex++
	}

	if filters.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("b.genre = $%d", argIndex))
		args = append(args, filters.Genre)
		argIndex++
	}

	if filters.Author != "" {
		conditions = append(conditions, fmt.Sprintf("b.author = $%d", argIndex))
		args = append(args, filters.Author)
		argIndex++
	}

	if filters.Title != "" {
		conditions = append(conditions, fmt.Sprintf("b.title ILIKE '%%' || $%d || '%%'", argIndex))
		args = append(args, filters.Title)
		argIndex++
	}

	if filters.PublishingHouse != "" {
		conditions = append(conditions, fmt.Sprintf("b.publishing_house = $%d", argIndex))
		args = append(args, filters.PublishingHouse)
		argIndex++
	}

	if filters.MinYear > 0 {
		conditions = append(conditions, fmt.Sprintf("b.year >= $%d", argIndex))
		args = append(args, filters.MinYear)
		argIndex++
	}

	query := `SELECT ` + bookColumns + bookFrom
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY b.book_id"

	return r.collectBooks(ctx, query, args...)
}

func (r *postgresRepository) FindByOwnerLogin(ctx context.Context, login string) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + bookFrom + `
		WHERE u.login = $1
		ORDER BY b.book_id`
	return r.collectBooks(ctx, query, login)
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE t_book
		SET title = $1, author = $2, genre = $3, year = $4, publishing_house = $5
		WHERE book_id = $6
	`

	result, err := r.pool.Exec(ctx, query,
		book.Title, book.Author, book.Genre, book.Year, book.PublishingHouse,
		book.BookID,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

// Delete removes the book; the attachment row goes with it through the
// ON DELETE CASCADE on t_attach.
func (r *postgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM t_book WHERE book_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
