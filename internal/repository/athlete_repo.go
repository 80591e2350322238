package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
)

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

type AthleteRepository struct {
	db DBTX
}

func NewAthleteRepository(db DBTX) *AthleteRepository {
	return &AthleteRepository{db: db}
}

// athleteColumns expects the athlete row aliased as a and the program as p.
const athleteColumns = `
	a.id, a.first_name, a.last_name, a.email, a.current_week, a.last_checkin,
	a.assigned_date, a.program_id, p.name, p.duration_weeks, a.created_at, a.updated_at`

func (r *AthleteRepository) Create(ctx context.Context, input CreateAthleteInput) (*models.Athlete, error) {
	query := `
		WITH a AS (
			INSERT INTO athletes (id, first_name, last_name, email, current_week, assigned_date, program_id)
			VALUES ($1, $2, $3, $4, 1, $5, $6)
			RETURNING *
		)
		SELECT ` + athleteColumns + `
		FROM a
		LEFT JOIN programs p ON p.id = a.program_id
	`
	return scanAthlete(r.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		input.FirstName,
		input.LastName,
		input.Email,
		input.AssignedDate,
		input.ProgramID,
	))
}

func (r *AthleteRepository) List(ctx context.Context) ([]models.Athlete, error) {
	query := `
		SELECT ` + athleteColumns + `
		FROM athletes a
		LEFT JOIN programs p ON p.id = a.program_id
		ORDER BY a.last_name ASC, a.first_name ASC, a.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	athletes := make([]models.Athlete, 0)
	for rows.Next() {
		athlete, err := scanAthlete(rows)
		if err != nil {
			return nil, err
		}
		athletes = append(athletes, *athlete)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return athletes, nil
}

func (r *AthleteRepository) GetByID(ctx context.Context, athleteID uuid.UUID) (*models.Athlete, error) {
	query := `
		SELECT ` + athleteColumns + `
		FROM athletes a
		LEFT JOIN programs p ON p.id = a.program_id
		WHERE a.id = $1
	`
	return scanAthlete(r.db.QueryRow(ctx, query, athleteID))
}

func (r *AthleteRepository) Update(
	ctx context.Context,
	athleteID uuid.UUID,
	input UpdateAthleteInput,
) (*models.Athlete, error) {
	query := `
		WITH a AS (
			UPDATE athletes
			SET first_name = $2,
			    last_name = $3,
			    email = $4,
			    program_id = $5,
			    assigned_date = $6,
			    current_week = $7,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + athleteColumns + `
		FROM a
		LEFT JOIN programs p ON p.id = a.program_id
	`
	return scanAthlete(r.db.QueryRow(
		ctx,
		query,
		athleteID,
		input.FirstName,
		input.LastName,
		input.Email,
		input.ProgramID,
		input.AssignedDate,
		input.CurrentWeek,
	))
}

// AssignProgram starts the athlete on a program from week one.
func (r *AthleteRepository) AssignProgram(
	ctx context.Context,
	athleteID uuid.UUID,
	programID uuid.UUID,
	startDate models.Date,
) (*models.Athlete, error) {
	query := `
		WITH a AS (
			UPDATE athletes
			SET program_id = $2, assigned_date = $3, current_week = 1, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + athleteColumns + `
		FROM a
		LEFT JOIN programs p ON p.id = a.program_id
	`
	return scanAthlete(r.db.QueryRow(ctx, query, athleteID, programID, startDate))
}

func (r *AthleteRepository) RecordCheckIn(
	ctx context.Context,
	athleteID uuid.UUID,
	week int,
	checkedInOn models.Date,
) (*models.Athlete, error) {
	query := `
		WITH a AS (
			UPDATE athletes
			SET current_week = $2, last_checkin = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + athleteColumns + `
		FROM a
		LEFT JOIN programs p ON p.id = a.program_id
	`
	return scanAthlete(r.db.QueryRow(ctx, query, athleteID, week, checkedInOn))
}

func (r *AthleteRepository) Delete(ctx context.Context, athleteID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM athletes WHERE id = $1`, athleteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *AthleteRepository) CountByProgramID(ctx context.Context, programID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM athletes WHERE program_id = $1`, programID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanAthlete(row rowScanner) (*models.Athlete, error) {
	var (
		athlete         models.Athlete
		programName     *string
		programDuration *int
	)
	if err := row.Scan(
		&athlete.ID,
		&athlete.FirstName,
		&athlete.LastName,
		&athlete.Email,
		&athlete.CurrentWeek,
		&athlete.LastCheckin,
		&athlete.AssignedDate,
		&athlete.ProgramID,
		&programName,
		&programDuration,
		&athlete.CreatedAt,
		&athlete.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if programName != nil && programDuration != nil {
		athlete.Program = &models.ProgramSummary{
			Name:          *programName,
			DurationWeeks: *programDuration,
		}
	}
	return &athlete, nil
}
