package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookcrossing-backend/internal/config"
	"bookcrossing-backend/internal/domains/user/repository"
	"bookcrossing-backend/internal/infrastructure/database"
	"bookcrossing-backend/internal/infrastructure/email"
	emailjob "bookcrossing-backend/internal/infrastructure/email/job"
	"bookcrossing-backend/internal/infrastructure/queue"
	"bookcrossing-backend/internal/infrastructure/queue/handlers"
	"bookcrossing-backend/pkg/logger"

	"github.com/joho/godotenv"
)

// The worker process consumes background tasks: confirmation mail delivery
// and the nightly sweep of unconfirmed accounts. It shares configuration
// and storage with the API but runs and scales separately.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.Environment)

	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatalf("failed to load database configuration: %v", err)
	}
	db := database.NewPostgresDB(dbCfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Connect(ctx)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	users := repository.NewPostgresRepository(db.Pool)
	mailer := email.NewSMTPEmailService(cfg.SMTP, cfg.Mail)

	srv := newWorkerServer(cfg, workerHandlers{
		email:   emailjob.NewEmailJobHandler(mailer),
		cleanup: handlers.NewCleanupHandler(users),
	})

	scheduler := queue.NewScheduler(cfg.Redis, cfg.Mail)
	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("failed to register scheduled jobs: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("failed to start worker server: %v", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	logger.Info("worker started", map[string]interface{}{"env": cfg.App.Environment})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down", nil)
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("worker stopped", nil)
}
