package repository

import (
	"context"
	"time"

	"bookcrossing-backend/internal/domains/user/model"
)

// UserRepository is the persistence contract for accounts.
type UserRepository interface {
	Save(ctx context.Context, user *model.User) (int, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Confirm(ctx context.Context, token string) (*model.User, error)
	DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
