package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/vidhub/backend/internal/config"
	"github.com/vidhub/backend/internal/database"
	"github.com/vidhub/backend/internal/handlers"
	"github.com/vidhub/backend/internal/middleware"
	"github.com/vidhub/backend/internal/storage"
	"github.com/vidhub/backend/pkg/logger"
	"github.com/vidhub/backend/pkg/utils"
)

func main() {
	logger.Init()

	cfg := config.Load()

	if cfg.JWT.Secret == config.DefaultJWTSecret {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET still has the placeholder value; refusing to start in production")
		}
		logger.Warn("jwt_secret_placeholder", map[string]interface{}{
			"env": cfg.Server.Env,
		})
	}
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	var store storage.Store
	var localStore *storage.LocalStore
	switch cfg.Storage.Backend {
	case "minio":
		minioStore, err := storage.NewMinIOStore(cfg.MinIO)
		if err != nil {
			log.Fatalf("minio initialization failed: %v", err)
		}
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			log.Fatalf("failed ensuring minio bucket: %v", err)
		}
		store = minioStore
	default:
		localStore, err = storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			log.Fatalf("upload directory initialization failed: %v", err)
		}
		store = localStore
	}

	authHandler := handlers.NewAuthHandler(db)
	usersHandler := handlers.NewUsersHandler(db, store, cfg.Storage.MaxAvatarSize)
	videosHandler := handlers.NewVideosHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.Storage.MaxAvatarSize) + 1024*1024,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())

	if localStore != nil {
		app.Static(storage.PublicPrefix, localStore.Root())
	}

	app.Get("/health", handlers.Health)
	app.Get("/", handlers.Index)

	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	userRoutes := app.Group("/users", authMiddleware.RequireAuth)
	userRoutes.Get("/", usersHandler.List)
	userRoutes.Get("/:id", usersHandler.Get)
	userRoutes.Put("/:id", usersHandler.Update)
	userRoutes.Delete("/:id", usersHandler.Delete)
	userRoutes.Post("/:id/avatar", usersHandler.UploadAvatar)

	videoRoutes := app.Group("/videos")
	videoRoutes.Post("/", authMiddleware.RequireAuth, videosHandler.Create)
	videoRoutes.Get("/", videosHandler.List)
	videoRoutes.Get("/:id", videosHandler.Get)
	videoRoutes.Put("/:id", authMiddleware.RequireAuth, videosHandler.Update)
	videoRoutes.Delete("/:id", authMiddleware.RequireAuth, videosHandler.Delete)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"env":     cfg.Server.Env,
		"storage": cfg.Storage.Backend,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
		if err := database.Close(db); err != nil {
			log.Printf("closing database: %v", err)
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}

// errorHandler is the single funnel for errors no handler dealt with; it
// keeps the response envelope consistent even for panics and bad routes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code == fiber.StatusNotFound {
			message = "Route not found"
		} else {
			message = fiberErr.Message
		}
	}

	if code == fiber.StatusInternalServerError {
		logger.Error("unhandled_error", err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		})
	}

	return utils.Error(c, code, message)
}
