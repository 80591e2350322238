package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/services"
	"go.uber.org/zap"
)

type checkInApplicationService interface {
	ListAthletes(ctx context.Context) ([]services.CheckInCandidate, error)
	Propose(ctx context.Context, athleteID uuid.UUID) (*services.CheckInProposal, error)
	Confirm(ctx context.Context, athleteID uuid.UUID) (*services.CheckInResult, error)
	Adjust(ctx context.Context, athleteID uuid.UUID, week int) (*services.CheckInResult, error)
}

type adjustCheckInRequest struct {
	Week int `json:"week"`
}

type CheckInHandler struct {
	service checkInApplicationService
	logger  *zap.Logger
}

func NewCheckInHandler(service checkInApplicationService, logger *zap.Logger) *CheckInHandler {
	return &CheckInHandler{service: service, logger: logging.OrNop(logger)}
}

func (h *CheckInHandler) ListAthletes(c *fiber.Ctx) error {
	athletes, err := h.service.ListAthletes(c.Context())
	if err != nil {
		return h.mapCheckInError(c, err)
	}
	return c.JSON(fiber.Map{"athletes": athletes})
}

func (h *CheckInHandler) Propose(c *fiber.Ctx) error {
	athleteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete id"})
	}

	proposal, err := h.service.Propose(c.Context(), athleteID)
	if err != nil {
		return h.mapCheckInError(c, err)
	}
	return c.JSON(fiber.Map{"checkin": proposal})
}

func (h *CheckInHandler) Confirm(c *fiber.Ctx) error {
	athleteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete id"})
	}

	result, err := h.service.Confirm(c.Context(), athleteID)
	if err != nil {
		return h.mapCheckInError(c, err)
	}
	return c.JSON(fiber.Map{"checkin": result})
}

func (h *CheckInHandler) Adjust(c *fiber.Ctx) error {
	athleteID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete id"})
	}

	var req adjustCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.Adjust(c.Context(), athleteID, req.Week)
	if err != nil {
		return h.mapCheckInError(c, err)
	}
	return c.JSON(fiber.Map{"checkin": result})
}

func (h *CheckInHandler) mapCheckInError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrWeekOutOfRange):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Week is out of range"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Check-in cannot move to that step"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Athlete not found"})
	default:
		h.logger.Error("check-in request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Check-in failed, please try again"})
	}
}
