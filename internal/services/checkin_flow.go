package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
)

type CheckInState string

const (
	CheckInUnselected CheckInState = "unselected"
	CheckInProposed   CheckInState = "proposed"
	CheckInAdjusting  CheckInState = "adjusting"
	CheckInConfirmed  CheckInState = "confirmed"
)

// CheckInCommitter persists the week an athlete confirmed.
type CheckInCommitter interface {
	RecordCheckIn(
		ctx context.Context,
		athleteID uuid.UUID,
		week int,
		checkedInOn models.Date,
	) (*models.Athlete, error)
}

// CheckInFlow walks one athlete visit through
// unselected -> proposed [-> adjusting] -> confirmed.
// A failed commit leaves the flow where it was.
type CheckInFlow struct {
	state         CheckInState
	athlete       *models.Athlete
	proposedWeek  int
	maxWeek       int
	today         models.Date
	committedWeek int
}

func NewCheckInFlow() *CheckInFlow {
	return &CheckInFlow{state: CheckInUnselected}
}

// Select starts a fresh visit for athlete. Passing nil clears the flow.
func (f *CheckInFlow) Select(athlete *models.Athlete, now time.Time, loc *time.Location) {
	*f = CheckInFlow{state: CheckInUnselected}
	if athlete == nil {
		return
	}

	maxWeek := DefaultCheckInWeeks
	if duration := athlete.ProgramDuration(); duration != nil {
		maxWeek = *duration
	}

	proposed := 1
	if athlete.AssignedDate != nil {
		proposed = ClampWeek(ExpectedWeek(*athlete.AssignedDate, maxWeek, now, loc), maxWeek)
	}

	f.state = CheckInProposed
	f.athlete = athlete
	f.maxWeek = maxWeek
	f.proposedWeek = proposed
	f.today = models.Today(now, loc)
}

// Adjust rejects the proposal and opens the week picker.
func (f *CheckInFlow) Adjust() error {
	switch f.state {
	case CheckInProposed, CheckInAdjusting:
		f.state = CheckInAdjusting
		return nil
	default:
		return ErrInvalidStateTransition
	}
}

// Confirm accepts the proposed week.
func (f *CheckInFlow) Confirm(ctx context.Context, committer CheckInCommitter) (*models.Athlete, error) {
	if f.state != CheckInProposed && f.state != CheckInAdjusting {
		return nil, ErrInvalidStateTransition
	}
	return f.commit(ctx, f.proposedWeek, committer)
}

// Submit commits a week picked while adjusting.
func (f *CheckInFlow) Submit(ctx context.Context, week int, committer CheckInCommitter) (*models.Athlete, error) {
	if f.state != CheckInAdjusting {
		return nil, ErrInvalidStateTransition
	}
	if week < 1 || week > f.maxWeek {
		return nil, ErrWeekOutOfRange
	}
	return f.commit(ctx, week, committer)
}

func (f *CheckInFlow) commit(ctx context.Context, week int, committer CheckInCommitter) (*models.Athlete, error) {
	updated, err := committer.RecordCheckIn(ctx, f.athlete.ID, week, f.today)
	if err != nil {
		return nil, err
	}
	f.athlete = updated
	f.committedWeek = week
	f.state = CheckInConfirmed
	return updated, nil
}

func (f *CheckInFlow) State() CheckInState     { return f.state }
func (f *CheckInFlow) Athlete() *models.Athlete { return f.athlete }
func (f *CheckInFlow) ProposedWeek() int        { return f.proposedWeek }
func (f *CheckInFlow) MaxWeek() int             { return f.maxWeek }
func (f *CheckInFlow) CommittedWeek() int       { return f.committedWeek }
func (f *CheckInFlow) Today() models.Date       { return f.today }

// WeekOptions lists the weeks offered while adjusting.
func (f *CheckInFlow) WeekOptions() []int {
	options := make([]int, 0, f.maxWeek)
	for week := 1; week <= f.maxWeek; week++ {
		options = append(options, week)
	}
	return options
}
