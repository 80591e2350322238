package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	"go.uber.org/zap"
)

type checkInStore interface {
	List(ctx context.Context) ([]models.Athlete, error)
	GetByID(ctx context.Context, athleteID uuid.UUID) (*models.Athlete, error)
	CheckInCommitter
}

type CheckInService struct {
	athleteRepo checkInStore
	publisher   RosterPublisher
	logger      *zap.Logger
	clock       func() time.Time
	loc         *time.Location
}

// CheckInCandidate is what the name picker needs to show.
type CheckInCandidate struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type CheckInProposal struct {
	State        CheckInState    `json:"state"`
	Athlete      *models.Athlete `json:"athlete"`
	ProposedWeek int             `json:"proposed_week"`
	WeekOptions  []int           `json:"week_options"`
}

type CheckInResult struct {
	State       CheckInState    `json:"state"`
	Athlete     *models.Athlete `json:"athlete"`
	Week        int             `json:"week"`
	CheckedInOn models.Date     `json:"checked_in_on"`
}

func NewCheckInService(
	athleteRepo checkInStore,
	publisher RosterPublisher,
	logger *zap.Logger,
	loc *time.Location,
) *CheckInService {
	if loc == nil {
		loc = time.Local
	}
	return &CheckInService{
		athleteRepo: athleteRepo,
		publisher:   publisherOrNop(publisher),
		logger:      logging.OrNop(logger),
		clock:       time.Now,
		loc:         loc,
	}
}

func (s *CheckInService) ListAthletes(ctx context.Context) ([]CheckInCandidate, error) {
	athletes, err := s.athleteRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]CheckInCandidate, 0, len(athletes))
	for _, athlete := range athletes {
		candidates = append(candidates, CheckInCandidate{
			ID:        athlete.ID,
			Name:      athlete.FullName(),
			FirstName: athlete.FirstName,
			LastName:  athlete.LastName,
		})
	}
	return candidates, nil
}

func (s *CheckInService) Propose(ctx context.Context, athleteID uuid.UUID) (*CheckInProposal, error) {
	flow, err := s.start(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	return &CheckInProposal{
		State:        flow.State(),
		Athlete:      flow.Athlete(),
		ProposedWeek: flow.ProposedWeek(),
		WeekOptions:  flow.WeekOptions(),
	}, nil
}

// Confirm records the proposed week as the athlete's check-in.
func (s *CheckInService) Confirm(ctx context.Context, athleteID uuid.UUID) (*CheckInResult, error) {
	flow, err := s.start(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if _, err := flow.Confirm(ctx, s.athleteRepo); err != nil {
		return nil, err
	}
	return s.finish(flow), nil
}

// Adjust records a week the athlete chose over the proposal.
func (s *CheckInService) Adjust(ctx context.Context, athleteID uuid.UUID, week int) (*CheckInResult, error) {
	flow, err := s.start(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if err := flow.Adjust(); err != nil {
		return nil, err
	}
	if _, err := flow.Submit(ctx, week, s.athleteRepo); err != nil {
		return nil, err
	}
	return s.finish(flow), nil
}

func (s *CheckInService) start(ctx context.Context, athleteID uuid.UUID) (*CheckInFlow, error) {
	athlete, err := s.athleteRepo.GetByID(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	flow := NewCheckInFlow()
	flow.Select(athlete, s.clock(), s.loc)
	return flow, nil
}

func (s *CheckInService) finish(flow *CheckInFlow) *CheckInResult {
	athlete := flow.Athlete()
	s.logger.Info("athlete checked in",
		zap.String("athlete_id", athlete.ID.String()),
		zap.Int("week", flow.CommittedWeek()),
		zap.Int("proposed_week", flow.ProposedWeek()),
	)
	s.publisher.Publish(athleteEvent(EventAthleteCheckedIn, athlete, s.clock()))

	return &CheckInResult{
		State:       flow.State(),
		Athlete:     athlete,
		Week:        flow.CommittedWeek(),
		CheckedInOn: flow.Today(),
	}
}
