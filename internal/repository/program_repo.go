package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
)

type ProgramInput struct {
	Name          string
	DurationWeeks int
}

type ProgramRepository struct {
	db DBTX
}

func NewProgramRepository(db DBTX) *ProgramRepository {
	return &ProgramRepository{db: db}
}

const programColumns = `id, name, duration_weeks, created_at, updated_at`

func (r *ProgramRepository) Create(ctx context.Context, input ProgramInput) (*models.Program, error) {
	query := `
		INSERT INTO programs (id, name, duration_weeks)
		VALUES ($1, $2, $3)
		RETURNING ` + programColumns

	return scanProgram(r.db.QueryRow(ctx, query, uuid.New(), input.Name, input.DurationWeeks))
}

func (r *ProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	query := `
		SELECT ` + programColumns + `
		FROM programs
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]models.Program, 0)
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, *program)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *ProgramRepository) GetByID(ctx context.Context, programID uuid.UUID) (*models.Program, error) {
	query := `
		SELECT ` + programColumns + `
		FROM programs
		WHERE id = $1
	`
	return scanProgram(r.db.QueryRow(ctx, query, programID))
}

func (r *ProgramRepository) Update(
	ctx context.Context,
	programID uuid.UUID,
	input ProgramInput,
) (*models.Program, error) {
	query := `
		UPDATE programs
		SET name = $2, duration_weeks = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + programColumns

	return scanProgram(r.db.QueryRow(ctx, query, programID, input.Name, input.DurationWeeks))
}

func (r *ProgramRepository) Delete(ctx context.Context, programID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM programs WHERE id = $1`, programID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProgram(row rowScanner) (*models.Program, error) {
	var program models.Program
	if err := row.Scan(
		&program.ID,
		&program.Name,
		&program.DurationWeeks,
		&program.CreatedAt,
		&program.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &program, nil
}
