package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/services"
	"go.uber.org/zap"
)

type athleteApplicationService interface {
	ListRoster(ctx context.Context) ([]models.RosterEntry, error)
	GetAthlete(ctx context.Context, athleteID uuid.UUID) (*models.RosterEntry, error)
	CreateAthlete(ctx context.Context, input services.CreateAthleteInput) (*models.Athlete, error)
	UpdateAthlete(ctx context.Context, athleteID uuid.UUID, input services.UpdateAthleteInput) (*models.Athlete, error)
	DeleteAthlete(ctx context.Context, athleteID uuid.UUID) error
}

type athleteRequest struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	ProgramID    *string `json:"program_id"`
	AssignedDate *string `json:"assigned_date"`
	CurrentWeek  *int    `json:"current_week"`
}

type AthleteHandler struct {
	service athleteApplicationService
	logger  *zap.Logger
}

func NewAthleteHandler(service athleteApplicationService, logger *zap.Logger) *AthleteHandler {
	return &AthleteHandler{service: service, logger: logging.OrNop(logger)}
}

func (h *AthleteHandler) ListRoster(c *fiber.Ctx) error {
	roster, err := h.service.ListRoster(c.Context())
	if err != nil {
		return h.mapAthleteError(c, err)
	}
	return c.JSON(fiber.Map{"athletes": roster})
}

func (h *AthleteHandler) GetAthlete(c *fiber.Ctx) error {
	athleteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete id"})
	}

	entry, err := h.service.GetAthlete(c.Context(), athleteID)
	if err != nil {
		return h.mapAthleteError(c, err)
	}
	return c.JSON(fiber.Map{"athlete": entry})
}

func (h *AthleteHandler) CreateAthlete(c *fiber.Ctx) error {
	var req athleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	programID, err := parseOptionalUUID(req.ProgramID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "program_id must be a uuid"})
	}
	assignedDate, err := parseOptionalDate(req.AssignedDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "assigned_date must be YYYY-MM-DD"})
	}

	athlete, err := h.service.CreateAthlete(c.Context(), services.CreateAthleteInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		ProgramID:    programID,
		AssignedDate: assignedDate,
	})
	if err != nil {
		return h.mapAthleteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"athlete": athlete})
}

func (h *AthleteHandler) UpdateAthlete(c *fiber.Ctx) error {
	athleteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete id"})
	}

	var req athleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CurrentWeek == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "current_week is required"})
	}

	programID, err := parseOptionalUUID(req.ProgramID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "program_id must be a uuid"})
	}
	assignedDate, err := parseOptionalDate(req.AssignedDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "assigned_date must be YYYY-MM-DD"})
	}

	athlete, err := h.service.UpdateAthlete(c.Context(), athleteID, services.UpdateAthleteInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		ProgramID:    programID,
		AssignedDate: assignedDate,
		CurrentWeek:  *req.CurrentWeek,
	})
	if err != nil {
		return h.mapAthleteError(c, err)
	}
	return c.JSON(fiber.Map{"athlete": athlete})
}

func (h *AthleteHandler) DeleteAthlete(c *fiber.Ctx) error {
	athleteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete id"})
	}

	if err := h.service.DeleteAthlete(c.Context(), athleteID); err != nil {
		return h.mapAthleteError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AthleteHandler) mapAthleteError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "first_name, last_name and a valid email are required"})
	case errors.Is(err, services.ErrWeekOutOfRange):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "current_week must be between 1 and the program duration"})
	case errors.Is(err, services.ErrProgramRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please select a program"})
	case errors.Is(err, services.ErrAssignedDateRequired):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "assigned_date is required when a program is assigned"})
	case errors.Is(err, services.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Athlete or program not found"})
	default:
		h.logger.Error("athlete request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process athlete request"})
	}
}
