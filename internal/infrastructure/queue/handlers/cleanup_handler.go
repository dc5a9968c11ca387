package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookcrossing-backend/internal/domains/user/repository"
	"bookcrossing-backend/internal/shared"
	"bookcrossing-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// CleanupHandler removes accounts whose confirmation link was never used.
type CleanupHandler struct {
	users repository.UserRepository
}

func NewCleanupHandler(users repository.UserRepository) *CleanupHandler {
	return &CleanupHandler{users: users}
}

func (h *CleanupHandler) HandleCleanupUnconfirmed(ctx context.Context, t *asynq.Task) error {
	var payload shared.CleanupUnconfirmedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid cleanup payload: %v: %w", err, asynq.SkipRetry)
	}

	days := payload.OlderThanDays
	if days <= 0 {
		days = 7
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := h.users.DeleteUnconfirmedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cleanup of unconfirmed users failed: %w", err)
	}

	logger.Info("unconfirmed users cleaned up", map[string]interface{}{
		"removed": removed,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
	return nil
}
