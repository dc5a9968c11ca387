package main

import (
	"context"
	"net/http"
	"time"

	"bookcrossing-backend/internal/shared/middleware"
	"bookcrossing-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	router.GET("/health", healthCheckHandler(c))

	setupBookRoutes(router, c)
	setupRegistrationRoutes(router, c)
	setupAuthRoutes(router, c)
	setupUserRoutes(router, c)

	return router
}

// Public catalog. Reading the shelf requires no account.
func setupBookRoutes(router *gin.Engine, c *container.Container) {
	books := router.Group("/books")
	{
		books.GET("/all", c.BookHandler.All)
		books.GET("/info", c.BookHandler.Info)
		books.GET("/searchByTitle", c.BookHandler.SearchByTitle)
		// GET with a JSON body in the contract the mobile clients already
		// speak. gin reads the body regardless of the method.
		books.GET("/searchWithFilters", c.BookHandler.SearchWithFilters)
	}
}

func setupRegistrationRoutes(router *gin.Engine, c *container.Container) {
	reg := router.Group("/registration")
	{
		reg.POST("", c.UserHandler.Register)
		reg.GET("/confirmation", c.UserHandler.Confirm)
	}
}

func setupAuthRoutes(router *gin.Engine, c *container.Container) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
	}
}

// Everything under /user belongs to the authenticated owner.
func setupUserRoutes(router *gin.Engine, c *container.Container) {
	user := router.Group("/user", middleware.Auth(c.JWTManager))
	{
		user.GET("/profile", c.UserHandler.Profile)

		user.POST("/books", c.BookHandler.Save)
		user.GET("/books", c.BookHandler.Own)
		user.PUT("/books/:bookId", c.BookHandler.Update)
		user.DELETE("/books/:bookId", c.BookHandler.Delete)

		user.POST("/books/attachment", c.AttachmentHandler.Save)
		user.DELETE("/books/attachment/:bookId", c.AttachmentHandler.Delete)

		user.POST("/correspondence/message", c.ChatHandler.Send)
		user.GET("/correspondence", c.ChatHandler.Correspondence)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "up"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "down"
		}

		cacheStatus := "up"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		ctx.JSON(status, gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
