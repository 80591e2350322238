package routes

import (
	"context"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/config"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/handlers"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/middleware"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/repository"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/services"
	rosterws "github.com/prof-ashleyevans/os-strength-checkin-app/internal/websocket"
	"go.uber.org/zap"
)

// RegisterRoutes wires repositories, services and handlers onto app. The
// roster hub runs until ctx is cancelled.
func RegisterRoutes(
	ctx context.Context,
	app *fiber.App,
	cfg *config.Config,
	db *pgxpool.Pool,
	logger *zap.Logger,
) error {
	userRepo := repository.NewUserRepository(db)
	programRepo := repository.NewProgramRepository(db)
	athleteRepo := repository.NewAthleteRepository(db)

	hub := rosterws.NewHub(logger.Named("roster_hub"))
	go hub.Run(ctx)

	programService := services.NewProgramService(programRepo, athleteRepo, hub, logger.Named("programs"))
	athleteService := services.NewAthleteService(athleteRepo, programRepo, hub, logger.Named("athletes"), cfg.Location)
	assignmentService := services.NewAssignmentService(
		athleteRepo,
		programRepo,
		hub,
		logger.Named("assignments"),
		cfg.BulkAssignConcurrency,
		cfg.Location,
	)
	checkInService := services.NewCheckInService(athleteRepo, hub, logger.Named("checkin"), cfg.Location)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	programHandler := handlers.NewProgramHandler(programService, logger)
	athleteHandler := handlers.NewAthleteHandler(athleteService, logger)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, logger)
	checkInHandler := handlers.NewCheckInHandler(checkInService, logger)
	rosterFeedHandler := handlers.NewRosterFeedHandler(hub, cfg.JWTSecret)

	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	// The websocket route authenticates itself from the query string, so it
	// is registered before the header-based admin group.
	api.Use("/v1/admin/ws", rosterFeedHandler.WebSocketAuth)
	api.Get("/v1/admin/ws", websocket.New(rosterFeedHandler.HandleWebSocket))

	admin := api.Group(
		"/v1/admin",
		middleware.AuthRequired(cfg.JWTSecret),
		middleware.RequireRole(models.RoleAdmin),
	)
	admin.Get("/roster", athleteHandler.ListRoster)

	programs := admin.Group("/programs")
	programs.Get("", programHandler.ListPrograms)
	programs.Post("", programHandler.CreateProgram)
	programs.Get("/:id", programHandler.GetProgram)
	programs.Put("/:id", programHandler.UpdateProgram)
	programs.Delete("/:id", programHandler.DeleteProgram)

	athletes := admin.Group("/athletes")
	athletes.Post("", athleteHandler.CreateAthlete)
	athletes.Get("/:id", athleteHandler.GetAthlete)
	athletes.Put("/:id", athleteHandler.UpdateAthlete)
	athletes.Delete("/:id", athleteHandler.DeleteAthlete)

	admin.Post("/assignments", assignmentHandler.BulkAssign)

	checkin := api.Group("/v1/checkin")
	checkin.Get("/athletes", checkInHandler.ListAthletes)
	checkin.Get("/athletes/:id", checkInHandler.Propose)
	checkin.Post("/athletes/:id/confirm", checkInHandler.Confirm)
	checkin.Post("/athletes/:id/adjust", checkInHandler.Adjust)

	return nil
}
