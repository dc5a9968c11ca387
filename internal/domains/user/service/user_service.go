package service

import (
	"context"
	"encoding/json"
	"fmt"

	"bookcrossing-backend/internal/domains/user/model"
	"bookcrossing-backend/internal/domains/user/repository"
	"bookcrossing-backend/internal/shared"
	"bookcrossing-backend/pkg/jwt"
	"bookcrossing-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Enqueuer is the slice of asynq.Client the service uses, kept narrow so
// tests can fake it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// UserService holds the account use cases.
type UserService interface {
	Register(ctx context.Context, dto model.UserRegistrationDto) (*model.User, error)
	Confirm(ctx context.Context, token string) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error)
	Profile(ctx context.Context, login string) (*model.User, error)
}

type userService struct {
	repo     repository.UserRepository
	tokens   *jwt.Manager
	enqueuer Enqueuer
}

func NewUserService(repo repository.UserRepository, tokens *jwt.Manager, enqueuer Enqueuer) UserService {
	return &userService{
		repo:     repo,
		tokens:   tokens,
		enqueuer: enqueuer,
	}
}

// Register creates a disabled account and queues the confirmation mail.
// The account stays unusable until the mailed link is followed.
func (s *userService) Register(ctx context.Context, dto model.UserRegistrationDto) (*model.User, error) {
	if dto.Password != dto.PasswordConfirm {
		return nil, model.ErrPasswordsDiffer
	}

	taken, err := s.repo.ExistsByLogin(ctx, dto.Login)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrLoginTaken
	}

	taken, err = s.repo.ExistsByEmail(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token := uuid.NewString()
	user := &model.User{
		Name:              dto.Name,
		Login:             dto.Login,
		PasswordHash:      string(hash),
		Email:             dto.Email,
		City:              dto.City,
		Enabled:           false,
		ConfirmationToken: &token,
	}

	if _, err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.enqueueConfirmation(ctx, user, token)

	logger.Info("user registered", map[string]interface{}{
		"user_id": user.UserID,
		"login":   user.Login,
	})
	return user, nil
}

// enqueueConfirmation hands the mail off to the worker. A queue outage must
// not lose the registration, so failures are only logged; the cleanup job
// will eventually drop accounts that never confirm.
func (s *userService) enqueueConfirmation(ctx context.Context, user *model.User, token string) {
	payload, err := json.Marshal(shared.ConfirmationEmailPayload{
		Email: user.Email,
		Name:  user.Name,
		Token: token,
	})
	if err != nil {
		logger.Error("failed to marshal confirmation payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeSendConfirmationEmail, payload)
	if _, err := s.enqueuer.EnqueueContext(ctx, task, asynq.Queue(shared.QueueMail), asynq.MaxRetry(5)); err != nil {
		logger.Error("failed to enqueue confirmation email", err)
	}
}

func (s *userService) Confirm(ctx context.Context, token string) (*model.User, error) {
	user, err := s.repo.Confirm(ctx, token)
	if err != nil {
		return nil, err
	}

	logger.Info("user confirmed", map[string]interface{}{"login": user.Login})
	return user, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.TokenPair, error) {
	user, err := s.repo.FindByLogin(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		return nil, model.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidPassword
	}

	return s.issueTokens(user.Login)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.ErrInvalidPassword
	}

	// The account may have been deleted since the token was issued.
	user, err := s.repo.FindByLogin(ctx, claims.Login)
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		return nil, model.ErrAccountLocked
	}

	return s.issueTokens(user.Login)
}

func (s *userService) issueTokens(login string) (*model.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(login)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(login)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *userService) Profile(ctx context.Context, login string) (*model.User, error) {
	return s.repo.FindByLogin(ctx, login)
}
