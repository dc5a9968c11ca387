package repository

import (
	"context"

	"bookcrossing-backend/internal/domains/chat/model"
)

// MessageRepository is the chat persistence contract.
type MessageRepository interface {
	Save(ctx context.Context, message *model.Message) (int64, error)
	// FindCorrespondence returns the full two-way history between the two
	// users, oldest first.
	FindCorrespondence(ctx context.Context, firstID, secondID int) ([]model.Message, error)
	// MarkDeclaimed flags every message sent to readerID by senderID as read.
	MarkDeclaimed(ctx context.Context, readerID, senderID int) error
}
