package repository

import (
	"context"
	"fmt"

	"bookcrossing-backend/internal/domains/chat/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) MessageRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Save(ctx context.Context, message *model.Message) (int64, error) {
	query := `
		INSERT INTO t_messages (sender_id, receiver_id, text, departure_date, declaim)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING message_id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		message.SenderID, message.ReceiverID, message.Text,
		message.DepartureDate, message.Declaim,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}

	message.MessageID = id
	return id, nil
}

func (r *postgresRepository) FindCorrespondence(ctx context.Context, firstID, secondID int) ([]model.Message, error) {
	query := `
		SELECT message_id, sender_id, receiver_id, text, departure_date, declaim
		FROM t_messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY departure_date, message_id
	`

	rows, err := r.pool.Query(ctx, query, firstID, secondID)
	if err != nil {
		return nil, fmt.Errorf("correspondence query failed: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		err := rows.Scan(&m.MessageID, &m.SenderID, &m.ReceiverID, &m.Text,
			&m.DepartureDate, &m.Declaim)
		if err != nil {
			return nil, fmt.Errorf("message scan failed: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("message rows error: %w", err)
	}

	return messages, nil
}

func (r *postgresRepository) MarkDeclaimed(ctx context.Context, readerID, senderID int) error {
	query := `
		UPDATE t_messages
		SET declaim = true
		WHERE receiver_id = $1 AND sender_id = $2 AND declaim = false
	`

	if _, err := r.pool.Exec(ctx, query, readerID, senderID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
