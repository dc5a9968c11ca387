package job

import (
	"context"
	"encoding/json"
	"fmt"

	"bookcrossing-backend/internal/infrastructure/email"
	"bookcrossing-backend/internal/shared"
	"bookcrossing-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// EmailJobHandler consumes mail tasks from the queue.
type EmailJobHandler struct {
	service email.EmailService
}

func NewEmailJobHandler(service email.EmailService) *EmailJobHandler {
	return &EmailJobHandler{service: service}
}

// HandleSendConfirmationEmail processes a queued confirmation mail. Errors
// are returned so asynq retries with backoff.
func (h *EmailJobHandler) HandleSendConfirmationEmail(ctx context.Context, t *asynq.Task) error {
	var payload shared.ConfirmationEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid confirmation payload: %v: %w", err, asynq.SkipRetry)
	}

	err := h.service.SendConfirmationEmail(ctx, email.ConfirmationEmailData{
		Email: payload.Email,
		Name:  payload.Name,
		Token: payload.Token,
	})
	if err != nil {
		logger.Error("confirmation email delivery failed", err)
		return err
	}

	logger.Info("confirmation email sent", map[string]interface{}{"email": payload.Email})
	return nil
}
