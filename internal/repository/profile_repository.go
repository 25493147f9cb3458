package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mantenimiento-equipos/internal/domain"
)

// ProfileRepository stores application-level profiles (role, status). A nil
// result from GetByUserID is not an error: identities without a stored
// profile get a synthesized default at login.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	SetRole(ctx context.Context, userID uuid.UUID, role domain.UserRole) error
	SetStatus(ctx context.Context, userID uuid.UUID, status domain.ProfileStatus) error
	List(ctx context.Context) ([]domain.Profile, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	p.user_id, u.email, p.display_name, p.role, p.status, p.created_at, p.updated_at`

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.user_id = p.user_id
		WHERE p.user_id = $1 AND u.deleted_at IS NULL`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) SetRole(ctx context.Context, userID uuid.UUID, role domain.UserRole) error {
	query := `
		INSERT INTO profiles (user_id, display_name, role, status)
		SELECT u.user_id, u.display_name, $2, 'active'
		FROM users u WHERE u.user_id = $1 AND u.deleted_at IS NULL
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`

	res, err := r.db.ExecContext(ctx, query, userID, role)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *profileRepository) SetStatus(ctx context.Context, userID uuid.UUID, status domain.ProfileStatus) error {
	query := `
		INSERT INTO profiles (user_id, display_name, role, status)
		SELECT u.user_id, u.display_name, 'technician', $2
		FROM users u WHERE u.user_id = $1 AND u.deleted_at IS NULL
		ON CONFLICT (user_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`

	res, err := r.db.ExecContext(ctx, query, userID, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	var profiles []domain.Profile
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.user_id = p.user_id
		WHERE u.deleted_at IS NULL
		ORDER BY p.created_at DESC`

	err := r.db.SelectContext(ctx, &profiles, query)
	return profiles, err
}
