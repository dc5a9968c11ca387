package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookcrossing-backend/internal/domains/user/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresRepository{pool: pool}
}

const userColumns = `
	user_id, name, login, password_hash, email, city, enabled,
	confirmation_token, created_at
`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.UserID, &u.Name, &u.Login, &u.PasswordHash, &u.Email, &u.City,
		&u.Enabled, &u.ConfirmationToken, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) Save(ctx context.Context, user *model.User) (int, error) {
	query := `
		INSERT INTO t_user (name, login, password_hash, email, city, enabled, confirmation_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.Name, user.Login, user.PasswordHash, user.Email, user.City,
		user.Enabled, user.ConfirmationToken,
	).Scan(&user.UserID, &user.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return user.UserID, nil
}

func (r *postgresRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM t_user WHERE login = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, login))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM t_user WHERE user_id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *postgresRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM t_user WHERE login = $1)`, login).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check login: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM t_user WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// Confirm enables the account holding the token and clears it. A token that
// matches nothing means the link is stale or already used.
func (r *postgresRepository) Confirm(ctx context.Context, token string) (*model.User, error) {
	query := `
		UPDATE t_user
		SET enabled = true, confirmation_token = NULL
		WHERE confirmation_token = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to confirm user: %w", err)
	}
	return user, nil
}

// DeleteUnconfirmedBefore drops accounts that never followed their
// confirmation link. Used by the nightly cleanup job.
func (r *postgresRepository) DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM t_user WHERE enabled = false AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unconfirmed users: %w", err)
	}
	return int(result.RowsAffected()), nil
}
