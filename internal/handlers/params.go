package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
)

var errBadID = errors.New("invalid id")

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errBadID
	}
	return id, nil
}

// parseOptionalUUID treats nil and blank strings as "not set".
func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil || id == uuid.Nil {
		return nil, errBadID
	}
	return &id, nil
}

func parseOptionalDate(raw *string) (*models.Date, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	date, err := models.ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
