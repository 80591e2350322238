package repository

import (
	"context"

	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
)

// UserRepository stores the coaching staff accounts that sign in to the
// dashboard. Athletes never have rows here.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, role, created_at, updated_at`

func (r *UserRepository) CreateAdmin(ctx context.Context, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, role)
		VALUES (LOWER($1), $2, $3)
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, email, passwordHash, models.RoleAdmin))
}

// EmailTaken reports whether any account, admin or not, owns email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = LOWER($1))`, email).Scan(&taken)
	return taken, err
}

func (r *UserRepository) GetAdminByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = LOWER($1) AND role = $2
	`
	return scanUser(r.db.QueryRow(ctx, query, email, models.RoleAdmin))
}

func (r *UserRepository) GetAdminByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND role = $2
	`
	return scanUser(r.db.QueryRow(ctx, query, id, models.RoleAdmin))
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
