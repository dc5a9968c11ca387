package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookcrossing-backend/internal/domains/chat/model"
	"bookcrossing-backend/internal/domains/chat/repository"
	usermodel "bookcrossing-backend/internal/domains/user/model"
)

// UserProvider resolves chat participants.
type UserProvider interface {
	FindByLogin(ctx context.Context, login string) (*usermodel.User, error)
	FindByID(ctx context.Context, id int) (*usermodel.User, error)
}

// ChatService holds the direct-message use cases.
type ChatService interface {
	SendMessage(ctx context.Context, senderLogin string, dto model.MessageDto) (*model.Message, error)
	// Correspondence returns the history with the other user rendered in
	// the reader's zone, marking the incoming side as read.
	Correspondence(ctx context.Context, readerLogin string, otherID, zone int) ([]model.MessageResponse, error)
}

type chatService struct {
	repo  repository.MessageRepository
	users UserProvider
	now   func() time.Time
}

func NewChatService(repo repository.MessageRepository, users UserProvider) ChatService {
	return &chatService{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

func (s *chatService) resolveReceiver(ctx context.Context, id int) (*usermodel.User, error) {
	receiver, err := s.users.FindByID(ctx, id)
	if errors.Is(err, usermodel.ErrUserNotFound) {
		return nil, model.ErrReceiverNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve receiver: %w", err)
	}
	if !receiver.Enabled {
		return nil, model.ErrReceiverNotEnabled
	}
	return receiver, nil
}

func (s *chatService) SendMessage(ctx context.Context, senderLogin string, dto model.MessageDto) (*model.Message, error) {
	sender, err := s.users.FindByLogin(ctx, senderLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender: %w", err)
	}

	if dto.UserID == sender.UserID {
		return nil, model.ErrSelfMessage
	}

	if _, err := s.resolveReceiver(ctx, dto.UserID); err != nil {
		return nil, err
	}

	message := &model.Message{
		SenderID:      sender.UserID,
		ReceiverID:    dto.UserID,
		Text:          dto.Text,
		DepartureDate: s.now().Unix(),
		Declaim:       false,
	}

	if _, err := s.repo.Save(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *chatService) Correspondence(ctx context.Context, readerLogin string, otherID, zone int) ([]model.MessageResponse, error) {
	reader, err := s.users.FindByLogin(ctx, readerLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reader: %w", err)
	}

	if _, err := s.resolveReceiver(ctx, otherID); err != nil {
		return nil, err
	}

	messages, err := s.repo.FindCorrespondence(ctx, reader.UserID, otherID)
	if err != nil {
		return nil, err
	}

	// Opening the conversation counts as reading the other side's
	// messages. The response still shows the pre-read declaim flags so
	// the reader can see what was new.
	if err := s.repo.MarkDeclaimed(ctx, reader.UserID, otherID); err != nil {
		return nil, err
	}

	responses := make([]model.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, messages[i].ToResponse(zone))
	}
	return responses, nil
}
