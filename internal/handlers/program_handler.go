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

type programApplicationService interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, programID uuid.UUID) (*models.Program, error)
	CreateProgram(ctx context.Context, input services.ProgramInput) (*models.Program, error)
	UpdateProgram(ctx context.Context, programID uuid.UUID, input services.ProgramInput) (*models.Program, error)
	DeleteProgram(ctx context.Context, programID uuid.UUID) error
}

type programRequest struct {
	Name          string `json:"name"`
	DurationWeeks int    `json:"duration_weeks"`
}

type ProgramHandler struct {
	service programApplicationService
	logger  *zap.Logger
}

func NewProgramHandler(service programApplicationService, logger *zap.Logger) *ProgramHandler {
	return &ProgramHandler{service: service, logger: logging.OrNop(logger)}
}

func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	programs, err := h.service.ListPrograms(c.Context())
	if err != nil {
		return h.mapProgramError(c, err)
	}
	return c.JSON(fiber.Map{"programs": programs})
}

func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	programID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	program, err := h.service.GetProgram(c.Context(), programID)
	if err != nil {
		return h.mapProgramError(c, err)
	}
	return c.JSON(fiber.Map{"program": program})
}

func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var req programRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	program, err := h.service.CreateProgram(c.Context(), services.ProgramInput{
		Name:          req.Name,
		DurationWeeks: req.DurationWeeks,
	})
	if err != nil {
		return h.mapProgramError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"program": program})
}

func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	programID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	var req programRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	program, err := h.service.UpdateProgram(c.Context(), programID, services.ProgramInput{
		Name:          req.Name,
		DurationWeeks: req.DurationWeeks,
	})
	if err != nil {
		return h.mapProgramError(c, err)
	}
	return c.JSON(fiber.Map{"program": program})
}

func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	programID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	if err := h.service.DeleteProgram(c.Context(), programID); err != nil {
		return h.mapProgramError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProgramHandler) mapProgramError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "name is required and duration_weeks must be at least 1"})
	case errors.Is(err, services.ErrProgramInUse):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"error": "Program is still assigned to athletes"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
	default:
		h.logger.Error("program request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process program request"})
	}
}
