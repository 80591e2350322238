package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/repository"
)

var testLoc = time.UTC

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustDate(value string) models.Date {
	d, err := models.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(value string) *models.Date {
	d := mustDate(value)
	return &d
}

type memProgramRepo struct {
	mu        sync.Mutex
	programs  map[uuid.UUID]models.Program
	deleteErr error
	deleted   []uuid.UUID
}

func newMemProgramRepo(programs ...models.Program) *memProgramRepo {
	r := &memProgramRepo{programs: make(map[uuid.UUID]models.Program)}
	for _, p := range programs {
		r.programs[p.ID] = p
	}
	return r
}

func (r *memProgramRepo) Create(_ context.Context, input repository.ProgramInput) (*models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := models.Program{ID: uuid.New(), Name: input.Name, DurationWeeks: input.DurationWeeks}
	r.programs[p.ID] = p
	return &p, nil
}

func (r *memProgramRepo) List(_ context.Context) ([]models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Program, 0, len(r.programs))
	for _, p := range r.programs {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProgramRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *memProgramRepo) Update(_ context.Context, id uuid.UUID, input repository.ProgramInput) (*models.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.Name = input.Name
	p.DurationWeeks = input.DurationWeeks
	r.programs[id] = p
	return &p, nil
}

func (r *memProgramRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.programs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.programs, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// memAthleteRepo mirrors the join the real repository performs so
// services see the program summary on every returned athlete.
type memAthleteRepo struct {
	mu        sync.Mutex
	athletes  map[uuid.UUID]models.Athlete
	programs  *memProgramRepo
	failOn    map[uuid.UUID]error
	createErr error
	updateErr error
	checkIns  int
}

func newMemAthleteRepo(programs *memProgramRepo, athletes ...models.Athlete) *memAthleteRepo {
	r := &memAthleteRepo{
		athletes: make(map[uuid.UUID]models.Athlete),
		programs: programs,
		failOn:   make(map[uuid.UUID]error),
	}
	for _, a := range athletes {
		r.athletes[a.ID] = a
	}
	return r
}

func (r *memAthleteRepo) withProgram(a models.Athlete) *models.Athlete {
	a.Program = nil
	if a.ProgramID != nil && r.programs != nil {
		if p, ok := r.programs.programs[*a.ProgramID]; ok {
			a.Program = &models.ProgramSummary{Name: p.Name, DurationWeeks: p.DurationWeeks}
		}
	}
	return &a
}

func (r *memAthleteRepo) Create(_ context.Context, input repository.CreateAthleteInput) (*models.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	a := models.Athlete{
		ID:           uuid.New(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		CurrentWeek:  1,
		ProgramID:    input.ProgramID,
		AssignedDate: input.AssignedDate,
	}
	r.athletes[a.ID] = a
	return r.withProgram(a), nil
}

func (r *memAthleteRepo) List(_ context.Context) ([]models.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Athlete, 0, len(r.athletes))
	for _, a := range r.athletes {
		out = append(out, *r.withProgram(a))
	}
	return out, nil
}

func (r *memAthleteRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.athletes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.withProgram(a), nil
}

func (r *memAthleteRepo) Update(_ context.Context, id uuid.UUID, input repository.UpdateAthleteInput) (*models.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	a, ok := r.athletes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	a.FirstName = input.FirstName
	a.LastName = input.LastName
	a.Email = input.Email
	a.ProgramID = input.ProgramID
	a.AssignedDate = input.AssignedDate
	a.CurrentWeek = input.CurrentWeek
	r.athletes[id] = a
	return r.withProgram(a), nil
}

func (r *memAthleteRepo) AssignProgram(
	_ context.Context,
	athleteID uuid.UUID,
	programID uuid.UUID,
	startDate models.Date,
) (*models.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn[athleteID]; err != nil {
		return nil, err
	}
	a, ok := r.athletes[athleteID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	pid := programID
	start := startDate
	a.ProgramID = &pid
	a.AssignedDate = &start
	a.CurrentWeek = 1
	r.athletes[athleteID] = a
	return r.withProgram(a), nil
}

func (r *memAthleteRepo) RecordCheckIn(
	_ context.Context,
	athleteID uuid.UUID,
	week int,
	checkedInOn models.Date,
) (*models.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn[athleteID]; err != nil {
		return nil, err
	}
	a, ok := r.athletes[athleteID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	day := checkedInOn
	a.CurrentWeek = week
	a.LastCheckin = &day
	r.athletes[athleteID] = a
	r.checkIns++
	return r.withProgram(a), nil
}

func (r *memAthleteRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.athletes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.athletes, id)
	return nil
}

func (r *memAthleteRepo) CountByProgramID(_ context.Context, programID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, a := range r.athletes {
		if a.ProgramID != nil && *a.ProgramID == programID {
			count++
		}
	}
	return count, nil
}

func (r *memAthleteRepo) stored(id uuid.UUID) models.Athlete {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.athletes[id]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []RosterEvent
}

func (p *recordingPublisher) Publish(event RosterEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
