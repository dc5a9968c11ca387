package repository

import (
	"context"
	"fmt"

	"bookcrossing-backend/internal/domains/book/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type attachmentPostgresRepository struct {
	pool *pgxpool.Pool
}

func NewAttachmentPostgresRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentPostgresRepository{pool: pool}
}

// Upsert writes the attachment row keyed by the book id. A book carries at
// most one attachment, so a repeated upload replaces the previous row.
func (r *attachmentPostgresRepository) Upsert(ctx context.Context, attach *model.Attachment) error {
	query := `
		INSERT INTO t_attach (attach_id, expansion, size_bytes, cover_url, thumb_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (attach_id) DO UPDATE
		SET expansion = EXCLUDED.expansion,
		    size_bytes = EXCLUDED.size_bytes,
		    cover_url = EXCLUDED.cover_url,
		    thumb_url = EXCLUDED.thumb_url
	`

	_, err := r.pool.Exec(ctx, query,
		attach.AttachID, attach.Expansion, attach.SizeBytes,
		attach.CoverURL, attach.ThumbURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert attachment: %w", err)
	}
	return nil
}

func (r *attachmentPostgresRepository) Delete(ctx context.Context, bookID int) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM t_attach WHERE attach_id = $1`, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to delete attachment: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
