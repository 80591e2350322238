package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/services"
	"go.uber.org/zap"
)

type assignmentApplicationService interface {
	BulkAssign(
		ctx context.Context,
		selection *services.Selection,
		input services.BulkAssignInput,
	) (*services.BulkAssignResult, error)
}

type assignmentRequest struct {
	AthleteIDs []string `json:"athlete_ids"`
	ProgramID  string   `json:"program_id"`
	StartDate  string   `json:"start_date"`
}

type AssignmentHandler struct {
	service assignmentApplicationService
	logger  *zap.Logger
}

func NewAssignmentHandler(service assignmentApplicationService, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{service: service, logger: logging.OrNop(logger)}
}

func (h *AssignmentHandler) BulkAssign(c *fiber.Ctx) error {
	var req assignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	selection := services.NewSelection()
	for _, raw := range req.AthleteIDs {
		athleteID, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "athlete_ids must contain uuids"})
		}
		selection.Select(athleteID)
	}

	var programID uuid.UUID
	if trimmed := strings.TrimSpace(req.ProgramID); trimmed != "" {
		parsed, err := uuid.Parse(trimmed)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "program_id must be a uuid"})
		}
		programID = parsed
	}

	var startDate models.Date
	if trimmed := strings.TrimSpace(req.StartDate); trimmed != "" {
		parsed, err := models.ParseDate(trimmed)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be YYYY-MM-DD"})
		}
		startDate = parsed
	}

	result, err := h.service.BulkAssign(c.Context(), selection, services.BulkAssignInput{
		ProgramID: programID,
		StartDate: startDate,
	})
	if err != nil {
		return h.mapAssignmentError(c, result, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Programming assigned",
		"assignment": result,
	})
}

func (h *AssignmentHandler) mapAssignmentError(
	c *fiber.Ctx,
	result *services.BulkAssignResult,
	err error,
) error {
	switch {
	case errors.Is(err, services.ErrEmptySelection):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Select at least one athlete"})
	case errors.Is(err, services.ErrProgramRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please select a program"})
	case errors.Is(err, services.ErrPartialAssignment) && result != nil:
		status := fiber.StatusMultiStatus
		if len(result.Updated) == 0 {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{
			"error":      "Some athletes could not be assigned",
			"assignment": result,
		})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
	default:
		h.logger.Error("bulk assignment failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to assign programming"})
	}
}
