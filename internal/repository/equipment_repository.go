package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mantenimiento-equipos/internal/domain"
)

type EquipmentRepository interface {
	Create(ctx context.Context, eq *domain.Equipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Equipment, error)
	Update(ctx context.Context, eq *domain.Equipment) error
	List(ctx context.Context, params domain.PaginationParams) ([]domain.Equipment, int64, error)
	ListActive(ctx context.Context) ([]domain.Equipment, error)
	SetLastMaintenance(ctx context.Context, id uuid.UUID, performedAt time.Time) error
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountDueWithin(ctx context.Context, days int) (int64, error)
	CountOverdue(ctx context.Context) (int64, error)
}

type equipmentRepository struct {
	db *sqlx.DB
}

func NewEquipmentRepository(db *sqlx.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	query := `
		INSERT INTO equipment (equipment_id, name, location, status, last_maintenance, interval_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		eq.ID, eq.Name, eq.Location, eq.Status, eq.LastMaintenance, eq.IntervalDays,
	).Scan(&eq.CreatedAt, &eq.UpdatedAt)
}

func (r *equipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Equipment, error) {
	var eq domain.Equipment
	query := `SELECT * FROM equipment WHERE equipment_id = $1`

	err := r.db.GetContext(ctx, &eq, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

func (r *equipmentRepository) Update(ctx context.Context, eq *domain.Equipment) error {
	query := `
		UPDATE equipment
		SET name = $2, location = $3, status = $4, interval_days = $5, updated_at = NOW()
		WHERE equipment_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		eq.ID, eq.Name, eq.Location, eq.Status, eq.IntervalDays,
	).Scan(&eq.UpdatedAt)
}

func (r *equipmentRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Equipment, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM equipment`); err != nil {
		return nil, 0, err
	}

	var items []domain.Equipment
	query := `
		SELECT * FROM equipment
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &items, query, params.PageSize, params.Offset())
	return items, total, err
}

func (r *equipmentRepository) ListActive(ctx context.Context) ([]domain.Equipment, error) {
	var items []domain.Equipment
	query := `SELECT * FROM equipment WHERE status = 'active' ORDER BY name ASC`
	err := r.db.SelectContext(ctx, &items, query)
	return items, err
}

func (r *equipmentRepository) SetLastMaintenance(ctx context.Context, id uuid.UUID, performedAt time.Time) error {
	query := `
		UPDATE equipment SET last_maintenance = $2, updated_at = NOW()
		WHERE equipment_id = $1`
	_, err := r.db.ExecContext(ctx, query, id, performedAt)
	return err
}

func (r *equipmentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM equipment`)
	return count, err
}

func (r *equipmentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM equipment WHERE status = 'active'`)
	return count, err
}

func (r *equipmentRepository) CountDueWithin(ctx context.Context, days int) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*) FROM equipment
		WHERE status = 'active'
		  AND last_maintenance IS NOT NULL
		  AND last_maintenance + (interval_days || ' days')::interval
		      BETWEEN NOW() AND NOW() + ($1 || ' days')::interval`
	err := r.db.GetContext(ctx, &count, query, days)
	return count, err
}

func (r *equipmentRepository) CountOverdue(ctx context.Context) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*) FROM equipment
		WHERE status = 'active'
		  AND last_maintenance IS NOT NULL
		  AND last_maintenance + (interval_days || ' days')::interval < NOW()`
	err := r.db.GetContext(ctx, &count, query)
	return count, err
}
