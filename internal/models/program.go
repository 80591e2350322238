package models

import (
	"time"

	"github.com/google/uuid"
)

type Program struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	DurationWeeks int       `json:"duration_weeks"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProgramSummary is the slice of a program joined onto athlete reads.
type ProgramSummary struct {
	Name          string `json:"name"`
	DurationWeeks int    `json:"duration_weeks"`
}
