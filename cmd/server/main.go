package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/todocollab/backend/internal/config"
	"github.com/todocollab/backend/internal/database"
	"github.com/todocollab/backend/internal/handlers"
	"github.com/todocollab/backend/internal/middleware"
	"github.com/todocollab/backend/internal/realtime"
	"github.com/todocollab/backend/internal/repository"
	"github.com/todocollab/backend/internal/services"
	"github.com/todocollab/backend/internal/storage"
	"github.com/todocollab/backend/internal/token"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.Migrate(); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	blobs, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize upload storage")
	}

	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	tokens := token.NewManager(cfg.JWTSecret, tokenTTL)

	hub := realtime.NewHub()
	go hub.Run()
	wsHandler := realtime.NewHandler(hub, tokens)

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, attachmentRepo, notificationRepo, hub, blobs)
	notificationService := services.NewNotificationService(notificationRepo)
	adminService := services.NewAdminService(userRepo)

	secureCookie := cfg.GinMode == "release"
	authHandler := handlers.NewAuthHandler(authService, tokens, tokenTTL, secureCookie)
	userHandler := handlers.NewUserHandler(authService, blobs)
	taskHandler := handlers.NewTaskHandler(taskService)
	fileHandler := handlers.NewFileHandler(taskService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", wsHandler.HandleConnection)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(tokens), authHandler.GetCurrentUser)
		}

		api.GET("/uploads/avatars/:filename", userHandler.ServeAvatar)

		authed := api.Group("", middleware.RequireAuth(tokens))
		{
			users := authed.Group("/users")
			{
				users.GET("", userHandler.ListUsers)
				users.POST("/me/avatar", userHandler.UploadAvatar)
			}

			todos := authed.Group("/todos")
			{
				todos.POST("", taskHandler.CreateTask)
				todos.GET("/my", taskHandler.ListMyTasks)
				todos.GET("/assigned", taskHandler.ListAssignedTasks)
				todos.PATCH("/order", taskHandler.ReorderTasks)
				todos.GET("/status", taskHandler.ListTaskStatuses)
				todos.GET("/status/:id", taskHandler.GetTaskStatus)
				todos.GET("/files/:id/download", taskHandler.DownloadAttachment)
				todos.GET("/:id", taskHandler.GetTask)
				todos.PATCH("/:id/status", taskHandler.UpdateStatus)
			}

			authed.GET("/files", fileHandler.ListFiles)

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", notificationHandler.ListNotifications)
				notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			}

			admin := authed.Group("/admin", middleware.RequireAdmin())
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.PATCH("/users/:id/status", adminHandler.SetUserStatus)
			}
		}
	}

	logrus.WithField("port", cfg.Port).Info("Starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Server exited")
	}
}
