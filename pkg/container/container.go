package container

import (
	"context"
	"fmt"

	"bookcrossing-backend/internal/config"
	bookhandler "bookcrossing-backend/internal/domains/book/handler"
	bookrepo "bookcrossing-backend/internal/domains/book/repository"
	bookservice "bookcrossing-backend/internal/domains/book/service"
	chathandler "bookcrossing-backend/internal/domains/chat/handler"
	chatrepo "bookcrossing-backend/internal/domains/chat/repository"
	chatservice "bookcrossing-backend/internal/domains/chat/service"
	userhandler "bookcrossing-backend/internal/domains/user/handler"
	userrepo "bookcrossing-backend/internal/domains/user/repository"
	userservice "bookcrossing-backend/internal/domains/user/service"
	"bookcrossing-backend/internal/infrastructure/cache"
	"bookcrossing-backend/internal/infrastructure/database"
	"bookcrossing-backend/internal/infrastructure/storage"
	"bookcrossing-backend/pkg/jwt"
	"bookcrossing-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// Container wires every component of the API process. Construction order
// follows the dependency direction: infrastructure, repositories, services,
// handlers.
type Container struct {
	Config *config.Config

	DB          *database.PostgresDB
	Cache       *cache.RedisCache
	Storage     *storage.MinIOStorage
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	BookHandler       *bookhandler.BookHandler
	AttachmentHandler *bookhandler.AttachmentHandler
	UserHandler       *userhandler.UserHandler
	ChatHandler       *chathandler.ChatHandler
}

func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("database config failed: %w", err)
	}
	c.DB = database.NewPostgresDB(dbCfg)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	c.Cache = cache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	c.Storage, err = storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pool := c.DB.Pool
	users := userrepo.NewPostgresRepository(pool)
	books := bookrepo.NewPostgresRepository(pool)
	attaches := bookrepo.NewAttachmentPostgresRepository(pool)
	messages := chatrepo.NewPostgresRepository(pool)

	processor := storage.NewImageProcessor()

	userSvc := userservice.NewUserService(users, c.JWTManager, c.AsynqClient)
	bookSvc := bookservice.NewBookService(books, users, c.Storage)
	attachSvc := bookservice.NewAttachmentService(books, attaches, c.Storage, processor)
	chatSvc := chatservice.NewChatService(messages, users)

	c.UserHandler = userhandler.NewUserHandler(userSvc)
	c.BookHandler = bookhandler.NewBookHandler(bookSvc, c.Cache)
	c.AttachmentHandler = bookhandler.NewAttachmentHandler(attachSvc, c.Cache)
	c.ChatHandler = chathandler.NewChatHandler(chatSvc)

	logger.Info("container initialized", map[string]interface{}{
		"env": cfg.App.Environment,
	})
	return c, nil
}

// Cleanup releases every held connection. Safe to call on a partially
// constructed container.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
