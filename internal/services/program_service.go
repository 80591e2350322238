package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/repository"
	"go.uber.org/zap"
)

const pgForeignKeyViolation = "23503"

type programStore interface {
	Create(ctx context.Context, input repository.ProgramInput) (*models.Program, error)
	List(ctx context.Context) ([]models.Program, error)
	GetByID(ctx context.Context, programID uuid.UUID) (*models.Program, error)
	Update(ctx context.Context, programID uuid.UUID, input repository.ProgramInput) (*models.Program, error)
	Delete(ctx context.Context, programID uuid.UUID) error
}

type programUsageCounter interface {
	CountByProgramID(ctx context.Context, programID uuid.UUID) (int, error)
}

type ProgramService struct {
	programRepo programStore
	athleteRepo programUsageCounter
	publisher   RosterPublisher
	logger      *zap.Logger
	clock       func() time.Time
}

type ProgramInput struct {
	Name          string
	DurationWeeks int
}

func NewProgramService(
	programRepo programStore,
	athleteRepo programUsageCounter,
	publisher RosterPublisher,
	logger *zap.Logger,
) *ProgramService {
	return &ProgramService{
		programRepo: programRepo,
		athleteRepo: athleteRepo,
		publisher:   publisherOrNop(publisher),
		logger:      logging.OrNop(logger),
		clock:       time.Now,
	}
}

func (s *ProgramService) ListPrograms(ctx context.Context) ([]models.Program, error) {
	return s.programRepo.List(ctx)
}

func (s *ProgramService) GetProgram(ctx context.Context, programID uuid.UUID) (*models.Program, error) {
	return s.programRepo.GetByID(ctx, programID)
}

func (s *ProgramService) CreateProgram(ctx context.Context, input ProgramInput) (*models.Program, error) {
	normalized, err := normalizeProgramInput(input)
	if err != nil {
		return nil, err
	}

	program, err := s.programRepo.Create(ctx, normalized)
	if err != nil {
		return nil, err
	}

	s.logger.Info("program created", zap.String("program_id", program.ID.String()))
	s.publisher.Publish(programEvent(EventProgramCreated, program, s.clock()))
	return program, nil
}

// UpdateProgram may shrink a program below an athlete's current week;
// expected weeks are clamped on read.
func (s *ProgramService) UpdateProgram(
	ctx context.Context,
	programID uuid.UUID,
	input ProgramInput,
) (*models.Program, error) {
	normalized, err := normalizeProgramInput(input)
	if err != nil {
		return nil, err
	}

	program, err := s.programRepo.Update(ctx, programID, normalized)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(programEvent(EventProgramUpdated, program, s.clock()))
	return program, nil
}

// DeleteProgram refuses while any athlete still references the program.
func (s *ProgramService) DeleteProgram(ctx context.Context, programID uuid.UUID) error {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return err
	}

	inUse, err := s.athleteRepo.CountByProgramID(ctx, programID)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrProgramInUse
	}

	if err := s.programRepo.Delete(ctx, programID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrProgramInUse
		}
		return err
	}

	s.logger.Info("program deleted", zap.String("program_id", programID.String()))
	s.publisher.Publish(programEvent(EventProgramDeleted, program, s.clock()))
	return nil
}

func normalizeProgramInput(input ProgramInput) (repository.ProgramInput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.DurationWeeks < 1 {
		return repository.ProgramInput{}, ErrInvalidInput
	}
	return repository.ProgramInput{Name: name, DurationWeeks: input.DurationWeeks}, nil
}
