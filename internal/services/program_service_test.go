package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
)

func TestCreateProgramValidation(t *testing.T) {
	programs := newMemProgramRepo()
	service := NewProgramService(programs, newMemAthleteRepo(programs), nil, nil)

	for _, input := range []ProgramInput{
		{Name: "", DurationWeeks: 4},
		{Name: "   ", DurationWeeks: 4},
		{Name: "Base", DurationWeeks: 0},
	} {
		if _, err := service.CreateProgram(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}

	program, err := service.CreateProgram(context.Background(), ProgramInput{Name: " Base ", DurationWeeks: 4})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if program.Name != "Base" || program.DurationWeeks != 4 {
		t.Fatalf("unexpected program %+v", program)
	}
}

func TestUpdateProgramUnknownID(t *testing.T) {
	programs := newMemProgramRepo()
	service := NewProgramService(programs, newMemAthleteRepo(programs), nil, nil)

	_, err := service.UpdateProgram(context.Background(), uuid.New(), ProgramInput{Name: "Base", DurationWeeks: 4})
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestDeleteProgramBlockedWhileAssigned(t *testing.T) {
	program := models.Program{ID: uuid.New(), Name: "Base", DurationWeeks: 6}
	programs := newMemProgramRepo(program)
	athletes := newMemAthleteRepo(programs, models.Athlete{
		ID: uuid.New(), CurrentWeek: 2, ProgramID: &program.ID, AssignedDate: datePtr("2024-01-01"),
	})
	publisher := &recordingPublisher{}
	service := NewProgramService(programs, athletes, publisher, nil)

	if err := service.DeleteProgram(context.Background(), program.ID); !errors.Is(err, ErrProgramInUse) {
		t.Fatalf("expected ErrProgramInUse, got %v", err)
	}
	if len(programs.deleted) != 0 {
		t.Fatalf("expected program kept")
	}
	if len(publisher.types()) != 0 {
		t.Fatalf("expected no events")
	}
}

func TestDeleteProgramMapsForeignKeyViolation(t *testing.T) {
	program := models.Program{ID: uuid.New(), Name: "Base", DurationWeeks: 6}
	programs := newMemProgramRepo(program)
	programs.deleteErr = &pgconn.PgError{Code: pgForeignKeyViolation}
	service := NewProgramService(programs, newMemAthleteRepo(programs), nil, nil)

	if err := service.DeleteProgram(context.Background(), program.ID); !errors.Is(err, ErrProgramInUse) {
		t.Fatalf("expected ErrProgramInUse, got %v", err)
	}
}

func TestDeleteProgramUnused(t *testing.T) {
	program := models.Program{ID: uuid.New(), Name: "Base", DurationWeeks: 6}
	programs := newMemProgramRepo(program)
	publisher := &recordingPublisher{}
	service := NewProgramService(programs, newMemAthleteRepo(programs), publisher, nil)

	if err := service.DeleteProgram(context.Background(), program.ID); err != nil {
		t.Fatalf("DeleteProgram: %v", err)
	}
	if _, err := service.GetProgram(context.Background(), program.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected program gone, got %v", err)
	}
	if events := publisher.types(); len(events) != 1 || events[0] != EventProgramDeleted {
		t.Fatalf("expected deleted event, got %v", events)
	}
	if err := service.DeleteProgram(context.Background(), program.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}
