package models

import (
	"time"

	"github.com/google/uuid"
)

type Athlete struct {
	ID           uuid.UUID       `json:"id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	CurrentWeek  int             `json:"current_week"`
	LastCheckin  *Date           `json:"last_checkin"`
	AssignedDate *Date           `json:"assigned_date"`
	ProgramID    *uuid.UUID      `json:"program_id,omitempty"`
	Program      *ProgramSummary `json:"program,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProgramDuration returns nil when no program is joined.
func (a *Athlete) ProgramDuration() *int {
	if a == nil || a.Program == nil {
		return nil
	}
	duration := a.Program.DurationWeeks
	return &duration
}

func (a *Athlete) FullName() string {
	return a.FirstName + " " + a.LastName
}

// RosterEntry is an athlete with the scheduling fields derived at read time.
type RosterEntry struct {
	Athlete
	ExpectedWeek *int `json:"expected_week"`
	EndingSoon   bool `json:"ending_soon"`
	NotStarted   bool `json:"not_started"`
}
