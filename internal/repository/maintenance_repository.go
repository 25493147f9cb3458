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

type MaintenanceRepository interface {
	Create(ctx context.Context, m *domain.ScheduledMaintenance) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledMaintenance, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.ScheduledMaintenance, int64, error)
	ListScheduledUntil(ctx context.Context, until time.Time) ([]domain.ScheduledMaintenance, error)
	Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error
	Cancel(ctx context.Context, id uuid.UUID) error
	CountScheduled(ctx context.Context) (int64, error)
}

type maintenanceRepository struct {
	db *sqlx.DB
}

func NewMaintenanceRepository(db *sqlx.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.ScheduledMaintenance) error {
	query := `
		INSERT INTO scheduled_maintenance (maintenance_id, equipment_id, equipment_name, description, status, scheduled_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		m.ID, m.EquipmentID, m.EquipmentName, m.Description, m.Status, m.ScheduledAt, m.CreatedBy,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledMaintenance, error) {
	var m domain.ScheduledMaintenance
	query := `SELECT * FROM scheduled_maintenance WHERE maintenance_id = $1`

	err := r.db.GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *maintenanceRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.ScheduledMaintenance, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM scheduled_maintenance`); err != nil {
		return nil, 0, err
	}

	var items []domain.ScheduledMaintenance
	query := `
		SELECT * FROM scheduled_maintenance
		ORDER BY scheduled_at ASC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &items, query, params.PageSize, params.Offset())
	return items, total, err
}

// ListScheduledUntil returns pending entries with a target date at or before
// the given bound. There is deliberately no lower bound: overdue scheduled
// work keeps producing reminders until it is completed or cancelled.
func (r *maintenanceRepository) ListScheduledUntil(ctx context.Context, until time.Time) ([]domain.ScheduledMaintenance, error) {
	var items []domain.ScheduledMaintenance
	query := `
		SELECT * FROM scheduled_maintenance
		WHERE status = 'scheduled' AND scheduled_at <= $1
		ORDER BY scheduled_at ASC`
	err := r.db.SelectContext(ctx, &items, query, until)
	return items, err
}

func (r *maintenanceRepository) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	query := `
		UPDATE scheduled_maintenance
		SET status = 'completed', completed_at = $2, updated_at = NOW()
		WHERE maintenance_id = $1 AND status = 'scheduled'`

	res, err := r.db.ExecContext(ctx, query, id, completedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("maintenance not found or not pending")
	}
	return nil
}

func (r *maintenanceRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE scheduled_maintenance
		SET status = 'cancelled', updated_at = NOW()
		WHERE maintenance_id = $1 AND status = 'scheduled'`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("maintenance not found or not pending")
	}
	return nil
}

func (r *maintenanceRepository) CountScheduled(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM scheduled_maintenance WHERE status = 'scheduled'`)
	return count, err
}
