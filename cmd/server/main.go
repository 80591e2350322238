package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/config"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/database"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/repository"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/routes"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/services"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// 2. Connect to Database
	pool, err := database.Connect(ctx, cfg.DBUrl, cfg.DBMaxConns, logger.Named("db"))
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := services.EnsureDefaultAdmin(
		ctx,
		repository.NewUserRepository(pool),
		cfg.DefaultAdminEmail,
		cfg.DefaultAdminPassword,
		logger.Named("seed"),
	); err != nil {
		return err
	}

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:               "strength-checkin",
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(ctx, app, cfg, pool, logger); err != nil {
		return err
	}

	// 4. Start Server
	listenErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
