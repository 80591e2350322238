package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/repository"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

type athleteStore interface {
	Create(ctx context.Context, input repository.CreateAthleteInput) (*models.Athlete, error)
	List(ctx context.Context) ([]models.Athlete, error)
	GetByID(ctx context.Context, athleteID uuid.UUID) (*models.Athlete, error)
	Update(ctx context.Context, athleteID uuid.UUID, input repository.UpdateAthleteInput) (*models.Athlete, error)
	Delete(ctx context.Context, athleteID uuid.UUID) error
}

type programReader interface {
	GetByID(ctx context.Context, programID uuid.UUID) (*models.Program, error)
}

type AthleteService struct {
	athleteRepo athleteStore
	programRepo programReader
	publisher   RosterPublisher
	logger      *zap.Logger
	clock       func() time.Time
	loc         *time.Location
}

type CreateAthleteInput struct {
	FirstName    string
	LastName     string
	Email        string
	ProgramID    *uuid.UUID
	AssignedDate *models.Date
}

type UpdateAthleteInput struct {
	FirstName    string
	LastName     string
	Email        string
	ProgramID    *uuid.UUID
	AssignedDate *models.Date
	CurrentWeek  int
}

func NewAthleteService(
	athleteRepo athleteStore,
	programRepo programReader,
	publisher RosterPublisher,
	logger *zap.Logger,
	loc *time.Location,
) *AthleteService {
	if loc == nil {
		loc = time.Local
	}
	return &AthleteService{
		athleteRepo: athleteRepo,
		programRepo: programRepo,
		publisher:   publisherOrNop(publisher),
		logger:      logging.OrNop(logger),
		clock:       time.Now,
		loc:         loc,
	}
}

// ListRoster returns every athlete, ordered by last name, with the
// scheduling fields derived against the current clock.
func (s *AthleteService) ListRoster(ctx context.Context) ([]models.RosterEntry, error) {
	athletes, err := s.athleteRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	entries := make([]models.RosterEntry, 0, len(athletes))
	for i := range athletes {
		entries = append(entries, buildRosterEntry(athletes[i], now, s.loc))
	}
	return entries, nil
}

func (s *AthleteService) GetAthlete(ctx context.Context, athleteID uuid.UUID) (*models.RosterEntry, error) {
	athlete, err := s.athleteRepo.GetByID(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	entry := buildRosterEntry(*athlete, s.clock(), s.loc)
	return &entry, nil
}

// CreateAthlete adds an athlete on week one of a program. Without a start
// date the program starts today.
func (s *AthleteService) CreateAthlete(ctx context.Context, input CreateAthleteInput) (*models.Athlete, error) {
	firstName, lastName, email, err := normalizeIdentity(input.FirstName, input.LastName, input.Email)
	if err != nil {
		return nil, err
	}
	if input.ProgramID == nil || *input.ProgramID == uuid.Nil {
		return nil, ErrProgramRequired
	}

	if _, err := s.programRepo.GetByID(ctx, *input.ProgramID); err != nil {
		return nil, err
	}
	assignedDate := input.AssignedDate
	if assignedDate == nil || assignedDate.IsZero() {
		today := models.Today(s.clock(), s.loc)
		assignedDate = &today
	}

	athlete, err := s.athleteRepo.Create(ctx, repository.CreateAthleteInput{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		ProgramID:    input.ProgramID,
		AssignedDate: assignedDate,
	})
	if err != nil {
		return nil, mapAthleteWriteError(err)
	}

	s.logger.Info("athlete created", zap.String("athlete_id", athlete.ID.String()))
	s.publisher.Publish(athleteEvent(EventAthleteCreated, athlete, s.clock()))
	return athlete, nil
}

// UpdateAthlete writes an admin edit. Changing the program here keeps the
// submitted current week; only assignments restart at week one.
func (s *AthleteService) UpdateAthlete(
	ctx context.Context,
	athleteID uuid.UUID,
	input UpdateAthleteInput,
) (*models.Athlete, error) {
	firstName, lastName, email, err := normalizeIdentity(input.FirstName, input.LastName, input.Email)
	if err != nil {
		return nil, err
	}
	if input.CurrentWeek < 1 {
		return nil, ErrWeekOutOfRange
	}

	if input.ProgramID != nil {
		if input.AssignedDate == nil || input.AssignedDate.IsZero() {
			return nil, ErrAssignedDateRequired
		}
		program, err := s.programRepo.GetByID(ctx, *input.ProgramID)
		if err != nil {
			return nil, err
		}
		if input.CurrentWeek > program.DurationWeeks {
			return nil, ErrWeekOutOfRange
		}
	}

	athlete, err := s.athleteRepo.Update(ctx, athleteID, repository.UpdateAthleteInput{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		ProgramID:    input.ProgramID,
		AssignedDate: input.AssignedDate,
		CurrentWeek:  input.CurrentWeek,
	})
	if err != nil {
		return nil, mapAthleteWriteError(err)
	}

	s.publisher.Publish(athleteEvent(EventAthleteUpdated, athlete, s.clock()))
	return athlete, nil
}

func (s *AthleteService) DeleteAthlete(ctx context.Context, athleteID uuid.UUID) error {
	if err := s.athleteRepo.Delete(ctx, athleteID); err != nil {
		return err
	}

	s.logger.Info("athlete deleted", zap.String("athlete_id", athleteID.String()))
	s.publisher.Publish(RosterEvent{
		Type:      EventAthleteDeleted,
		ID:        athleteID.String(),
		Timestamp: s.clock().UTC(),
	})
	return nil
}

func buildRosterEntry(athlete models.Athlete, now time.Time, loc *time.Location) models.RosterEntry {
	entry := models.RosterEntry{
		Athlete:    athlete,
		EndingSoon: EndingSoon(athlete.CurrentWeek, athlete.ProgramDuration()),
	}
	if athlete.Program == nil || athlete.AssignedDate == nil {
		return entry
	}

	duration := athlete.Program.DurationWeeks
	raw := ExpectedWeek(*athlete.AssignedDate, duration, now, loc)
	expected := ClampWeek(raw, duration)
	entry.ExpectedWeek = &expected
	entry.NotStarted = raw < 1
	return entry
}

func normalizeIdentity(firstName, lastName, email string) (string, string, string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return "", "", "", ErrInvalidInput
	}

	parsed, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", "", "", ErrInvalidInput
	}
	return firstName, lastName, strings.ToLower(parsed.Address), nil
}

func mapAthleteWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateEmail
		case pgForeignKeyViolation:
			// The program vanished between validation and the write.
			return pgx.ErrNoRows
		}
	}
	return err
}
