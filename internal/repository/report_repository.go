package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mantenimiento-equipos/internal/domain"
)

type ReportRepository interface {
	Create(ctx context.Context, report *domain.MaintenanceReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceReport, error)
	List(ctx context.Context, equipmentID *uuid.UUID, params domain.PaginationParams) ([]domain.MaintenanceReport, int64, error)
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.MaintenanceReport) error {
	query := `
		INSERT INTO maintenance_reports (report_id, equipment_id, author_id, summary, attachment_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		report.ID, report.EquipmentID, report.AuthorID, report.Summary, report.AttachmentPath,
	).Scan(&report.CreatedAt)
}

func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceReport, error) {
	var report domain.MaintenanceReport
	query := `SELECT * FROM maintenance_reports WHERE report_id = $1`

	err := r.db.GetContext(ctx, &report, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, equipmentID *uuid.UUID, params domain.PaginationParams) ([]domain.MaintenanceReport, int64, error) {
	params.Validate()

	var total int64
	var reports []domain.MaintenanceReport

	if equipmentID != nil {
		if err := r.db.GetContext(ctx, &total,
			`SELECT COUNT(*) FROM maintenance_reports WHERE equipment_id = $1`, *equipmentID); err != nil {
			return nil, 0, err
		}
		query := `
			SELECT * FROM maintenance_reports
			WHERE equipment_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`
		err := r.db.SelectContext(ctx, &reports, query, *equipmentID, params.PageSize, params.Offset())
		return reports, total, err
	}

	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM maintenance_reports`); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT * FROM maintenance_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &reports, query, params.PageSize, params.Offset())
	return reports, total, err
}
