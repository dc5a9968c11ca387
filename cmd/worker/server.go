package main

import (
	"bookcrossing-backend/internal/config"
	emailjob "bookcrossing-backend/internal/infrastructure/email/job"
	"bookcrossing-backend/internal/infrastructure/queue/handlers"
	"bookcrossing-backend/internal/shared"

	"github.com/hibiken/asynq"
)

type workerHandlers struct {
	email   *emailjob.EmailJobHandler
	cleanup *handlers.CleanupHandler
}

type workerServer struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// newWorkerServer builds the asynq consumer. Mail outweighs maintenance,
// so the mail queue gets more of the concurrency budget.
func newWorkerServer(cfg *config.Config, h workerHandlers) *workerServer {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				shared.QueueMail: 7,
				shared.QueueUser: 3,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(shared.TypeSendConfirmationEmail, h.email.HandleSendConfirmationEmail)
	mux.HandleFunc(shared.TypeCleanupUnconfirmedUser, h.cleanup.HandleCleanupUnconfirmed)

	return &workerServer{srv: srv, mux: mux}
}

func (w *workerServer) Start() error {
	return w.srv.Start(w.mux)
}

func (w *workerServer) Shutdown() {
	w.srv.Shutdown()
}
