package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultAssignConcurrency = 8

type athleteAssigner interface {
	AssignProgram(
		ctx context.Context,
		athleteID uuid.UUID,
		programID uuid.UUID,
		startDate models.Date,
	) (*models.Athlete, error)
}

type AssignmentService struct {
	athleteRepo athleteAssigner
	programRepo programReader
	publisher   RosterPublisher
	logger      *zap.Logger
	concurrency int
	clock       func() time.Time
	loc         *time.Location
}

type BulkAssignInput struct {
	ProgramID uuid.UUID
	// StartDate defaults to today when zero.
	StartDate models.Date
}

type BulkAssignFailure struct {
	AthleteID uuid.UUID `json:"athlete_id"`
	Reason    string    `json:"reason"`
}

type BulkAssignResult struct {
	Program   *models.Program     `json:"program"`
	StartDate models.Date         `json:"start_date"`
	Updated   []models.Athlete    `json:"updated"`
	Failed    []BulkAssignFailure `json:"failed"`
}

func NewAssignmentService(
	athleteRepo athleteAssigner,
	programRepo programReader,
	publisher RosterPublisher,
	logger *zap.Logger,
	concurrency int,
	loc *time.Location,
) *AssignmentService {
	if concurrency <= 0 {
		concurrency = defaultAssignConcurrency
	}
	if loc == nil {
		loc = time.Local
	}
	return &AssignmentService{
		athleteRepo: athleteRepo,
		programRepo: programRepo,
		publisher:   publisherOrNop(publisher),
		logger:      logging.OrNop(logger),
		concurrency: concurrency,
		clock:       time.Now,
		loc:         loc,
	}
}

// BulkAssign puts every selected athlete on the program from week one.
// Each athlete is a separate write; there is no transaction across them.
// When every write succeeds the selection is cleared. Otherwise the
// selection is kept and ErrPartialAssignment is returned alongside the
// result so the caller can report the failed athletes.
func (s *AssignmentService) BulkAssign(
	ctx context.Context,
	selection *Selection,
	input BulkAssignInput,
) (*BulkAssignResult, error) {
	if selection == nil || selection.Len() == 0 {
		return nil, ErrEmptySelection
	}
	if input.ProgramID == uuid.Nil {
		return nil, ErrProgramRequired
	}

	program, err := s.programRepo.GetByID(ctx, input.ProgramID)
	if err != nil {
		return nil, err
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = models.Today(s.clock(), s.loc)
	}

	ids := selection.IDs()
	updated := make([]*models.Athlete, len(ids))
	failures := make([]error, len(ids))

	var group errgroup.Group
	group.SetLimit(s.concurrency)
	for i, athleteID := range ids {
		group.Go(func() error {
			athlete, err := s.athleteRepo.AssignProgram(ctx, athleteID, program.ID, startDate)
			updated[i] = athlete
			failures[i] = err
			return nil
		})
	}
	_ = group.Wait()

	result := &BulkAssignResult{
		Program:   program,
		StartDate: startDate,
		Updated:   make([]models.Athlete, 0, len(ids)),
		Failed:    make([]BulkAssignFailure, 0),
	}
	now := s.clock()
	for i, athleteID := range ids {
		if failures[i] != nil {
			s.logger.Warn("program assignment failed",
				zap.String("athlete_id", athleteID.String()),
				zap.String("program_id", program.ID.String()),
				zap.Error(failures[i]),
			)
			result.Failed = append(result.Failed, BulkAssignFailure{
				AthleteID: athleteID,
				Reason:    assignmentFailureReason(failures[i]),
			})
			continue
		}
		result.Updated = append(result.Updated, *updated[i])
		s.publisher.Publish(athleteEvent(EventAthleteUpdated, updated[i], now))
	}

	s.logger.Info("bulk program assignment finished",
		zap.String("program_id", program.ID.String()),
		zap.String("start_date", startDate.String()),
		zap.Int("updated", len(result.Updated)),
		zap.Int("failed", len(result.Failed)),
	)

	if len(result.Failed) > 0 {
		return result, ErrPartialAssignment
	}

	selection.Clear()
	return result, nil
}

func assignmentFailureReason(err error) string {
	if errors.Is(err, pgx.ErrNoRows) {
		return "athlete not found"
	}
	return "update failed"
}
