package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
)

func newTestAssignmentService(
	athletes *memAthleteRepo,
	programs *memProgramRepo,
	publisher RosterPublisher,
	now time.Time,
) *AssignmentService {
	service := NewAssignmentService(athletes, programs, publisher, nil, 2, testLoc)
	service.clock = fixedClock(now)
	return service
}

func TestBulkAssignResetsEverySelectedAthlete(t *testing.T) {
	program := models.Program{ID: uuid.New(), Name: "P1", DurationWeeks: 6}
	oldProgram := models.Program{ID: uuid.New(), Name: "Old", DurationWeeks: 12}
	programs := newMemProgramRepo(program, oldProgram)

	a := models.Athlete{ID: uuid.New(), FirstName: "Ana", LastName: "A", CurrentWeek: 5, ProgramID: &oldProgram.ID, AssignedDate: datePtr("2023-11-01")}
	b := models.Athlete{ID: uuid.New(), FirstName: "Ben", LastName: "B", CurrentWeek: 3}
	c := models.Athlete{ID: uuid.New(), FirstName: "Cy", LastName: "C", CurrentWeek: 9}
	untouched := models.Athlete{ID: uuid.New(), FirstName: "Dee", LastName: "D", CurrentWeek: 7}
	athletes := newMemAthleteRepo(programs, a, b, c, untouched)
	publisher := &recordingPublisher{}

	service := newTestAssignmentService(athletes, programs, publisher, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	selection := NewSelection(a.ID, b.ID, c.ID)

	result, err := service.BulkAssign(context.Background(), selection, BulkAssignInput{
		ProgramID: program.ID,
		StartDate: mustDate("2024-03-01"),
	})
	if err != nil {
		t.Fatalf("BulkAssign: %v", err)
	}

	if len(result.Updated) != 3 || len(result.Failed) != 0 {
		t.Fatalf("expected 3 updated and no failures, got %+v", result)
	}
	for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
		got := athletes.stored(id)
		if got.ProgramID == nil || *got.ProgramID != program.ID {
			t.Fatalf("athlete %s: expected program P1, got %v", id, got.ProgramID)
		}
		if got.AssignedDate == nil || got.AssignedDate.String() != "2024-03-01" {
			t.Fatalf("athlete %s: expected assigned 2024-03-01, got %v", id, got.AssignedDate)
		}
		if got.CurrentWeek != 1 {
			t.Fatalf("athlete %s: expected week 1, got %d", id, got.CurrentWeek)
		}
	}
	if got := athletes.stored(untouched.ID); got.CurrentWeek != 7 || got.ProgramID != nil {
		t.Fatalf("expected unselected athlete untouched, got %+v", got)
	}
	if selection.Len() != 0 {
		t.Fatalf("expected selection cleared, got %d", selection.Len())
	}
	if events := publisher.types(); len(events) != 3 {
		t.Fatalf("expected 3 events, got %v", events)
	}
}

func TestBulkAssignDefaultsStartDateToToday(t *testing.T) {
	program := models.Program{ID: uuid.New(), Name: "P1", DurationWeeks: 6}
	programs := newMemProgramRepo(program)
	athlete := models.Athlete{ID: uuid.New(), CurrentWeek: 4}
	athletes := newMemAthleteRepo(programs, athlete)

	service := newTestAssignmentService(athletes, programs, nil, time.Date(2024, 4, 2, 18, 0, 0, 0, time.UTC))
	result, err := service.BulkAssign(context.Background(), NewSelection(athlete.ID), BulkAssignInput{ProgramID: program.ID})
	if err != nil {
		t.Fatalf("BulkAssign: %v", err)
	}
	if result.StartDate.String() != "2024-04-02" {
		t.Fatalf("expected start date today, got %s", result.StartDate)
	}
}

func TestBulkAssignValidatesBeforeWriting(t *testing.T) {
	program := models.Program{ID: uuid.New(), Name: "P1", DurationWeeks: 6}
	programs := newMemProgramRepo(program)
	athlete := models.Athlete{ID: uuid.New(), CurrentWeek: 4}
	athletes := newMemAthleteRepo(programs, athlete)
	service := newTestAssignmentService(athletes, programs, nil, time.Now())

	if _, err := service.BulkAssign(context.Background(), NewSelection(), BulkAssignInput{ProgramID: program.ID}); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if _, err := service.BulkAssign(context.Background(), nil, BulkAssignInput{ProgramID: program.ID}); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection for nil selection, got %v", err)
	}

	selection := NewSelection(athlete.ID)
	if _, err := service.BulkAssign(context.Background(), selection, BulkAssignInput{}); !errors.Is(err, ErrProgramRequired) {
		t.Fatalf("expected ErrProgramRequired, got %v", err)
	}
	if _, err := service.BulkAssign(context.Background(), selection, BulkAssignInput{ProgramID: uuid.New()}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows for unknown program, got %v", err)
	}

	if got := athletes.stored(athlete.ID); got.CurrentWeek != 4 || got.ProgramID != nil {
		t.Fatalf("expected no writes, got %+v", got)
	}
	if selection.Len() != 1 {
		t.Fatalf("expected selection kept after validation errors")
	}
}

func TestBulkAssignReportsPartialFailure(t *testing.T) {
	program := models.Program{ID: uuid.New(), Name: "P1", DurationWeeks: 6}
	programs := newMemProgramRepo(program)
	ok := models.Athlete{ID: uuid.New(), CurrentWeek: 2}
	broken := models.Athlete{ID: uuid.New(), CurrentWeek: 3}
	missing := uuid.New()
	athletes := newMemAthleteRepo(programs, ok, broken)
	athletes.failOn[broken.ID] = errors.New("connection reset")
	publisher := &recordingPublisher{}

	service := newTestAssignmentService(athletes, programs, publisher, time.Now())
	selection := NewSelection(ok.ID, broken.ID, missing)

	result, err := service.BulkAssign(context.Background(), selection, BulkAssignInput{
		ProgramID: program.ID,
		StartDate: mustDate("2024-03-01"),
	})
	if !errors.Is(err, ErrPartialAssignment) {
		t.Fatalf("expected ErrPartialAssignment, got %v", err)
	}
	if result == nil || len(result.Updated) != 1 || result.Updated[0].ID != ok.ID {
		t.Fatalf("expected only the healthy athlete updated, got %+v", result)
	}

	reasons := map[uuid.UUID]string{}
	for _, failure := range result.Failed {
		reasons[failure.AthleteID] = failure.Reason
	}
	if reasons[broken.ID] != "update failed" || reasons[missing] != "athlete not found" {
		t.Fatalf("unexpected failure reasons: %+v", result.Failed)
	}
	if selection.Len() != 3 {
		t.Fatalf("expected selection kept for retry, got %d", selection.Len())
	}
	if got := athletes.stored(broken.ID); got.CurrentWeek != 3 {
		t.Fatalf("expected failed athlete unchanged, got week %d", got.CurrentWeek)
	}
	if events := publisher.types(); len(events) != 1 {
		t.Fatalf("expected one event for the successful write, got %v", events)
	}
}
