package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"bookcrossing-backend/internal/config"
	"bookcrossing-backend/internal/shared"
	"bookcrossing-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// Scheduler registers the periodic jobs with asynq's cron scheduler.
type Scheduler struct {
	scheduler *asynq.Scheduler
	mail      config.MailConfig
}

func NewScheduler(redis config.RedisConfig, mail config.MailConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redis.Host,
			Password: redis.Password,
			DB:       redis.DB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler, mail: mail}
}

// RegisterJobs wires every periodic task. Currently this is the nightly
// sweep of accounts that never confirmed their email.
func (s *Scheduler) RegisterJobs() error {
	payload, err := json.Marshal(shared.CleanupUnconfirmedPayload{
		OlderThanDays: s.mail.UnconfirmedTTLDays,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cleanup payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeCleanupUnconfirmedUser, payload)
	entryID, err := s.scheduler.Register("0 3 * * *", task, asynq.Queue(shared.QueueUser))
	if err != nil {
		return fmt.Errorf("failed to register cleanup job: %w", err)
	}

	logger.Info("cleanup job registered", map[string]interface{}{"entry_id": entryID})
	return nil
}

func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
