package services

import (
	"time"

	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
)

const (
	EventAthleteCreated   = "athlete.created"
	EventAthleteUpdated   = "athlete.updated"
	EventAthleteDeleted   = "athlete.deleted"
	EventAthleteCheckedIn = "athlete.checked_in"
	EventProgramCreated   = "program.created"
	EventProgramUpdated   = "program.updated"
	EventProgramDeleted   = "program.deleted"

	// EventRosterResync tells dashboards that events were lost and the
	// roster should be fetched again.
	EventRosterResync = "roster.resync"
)

// RosterEvent is the delta pushed to dashboards after a successful write.
// Seq is set by the hub and increases by one per delivered event.
type RosterEvent struct {
	Seq       uint64          `json:"seq"`
	Type      string          `json:"type"`
	ID        string          `json:"id"`
	Athlete   *models.Athlete `json:"athlete,omitempty"`
	Program   *models.Program `json:"program,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type RosterPublisher interface {
	Publish(event RosterEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(RosterEvent) {}

func publisherOrNop(publisher RosterPublisher) RosterPublisher {
	if publisher == nil {
		return nopPublisher{}
	}
	return publisher
}

func athleteEvent(eventType string, athlete *models.Athlete, at time.Time) RosterEvent {
	return RosterEvent{
		Type:      eventType,
		ID:        athlete.ID.String(),
		Athlete:   athlete,
		Timestamp: at.UTC(),
	}
}

func programEvent(eventType string, program *models.Program, at time.Time) RosterEvent {
	return RosterEvent{
		Type:      eventType,
		ID:        program.ID.String(),
		Program:   program,
		Timestamp: at.UTC(),
	}
}
