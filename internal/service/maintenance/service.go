package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/repository"
)

var (
	ErrNotFound           = errors.New("scheduled maintenance not found")
	ErrEquipmentNotFound  = errors.New("equipment not found")
	ErrNotPending         = errors.New("maintenance is not pending")
	ErrPermissionRequired = errors.New("insufficient permissions for this operation")
)

type Service interface {
	Create(ctx context.Context, creator *domain.Profile, input domain.CreateMaintenanceInput) (*domain.ScheduledMaintenance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledMaintenance, error)
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.ScheduledMaintenance], error)

	// Complete closes the entry and stamps the equipment's last-maintenance
	// date, which restarts its cyclic reminder clock.
	Complete(ctx context.Context, actor *domain.Profile, id uuid.UUID) error
	Cancel(ctx context.Context, actor *domain.Profile, id uuid.UUID) error
}

type service struct {
	repo          repository.MaintenanceRepository
	equipmentRepo repository.EquipmentRepository
}

func NewService(repo repository.MaintenanceRepository, equipmentRepo repository.EquipmentRepository) Service {
	return &service{repo: repo, equipmentRepo: equipmentRepo}
}

func (s *service) Create(ctx context.Context, creator *domain.Profile, input domain.CreateMaintenanceInput) (*domain.ScheduledMaintenance, error) {
	eq, err := s.equipmentRepo.GetByID(ctx, input.EquipmentID)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, ErrEquipmentNotFound
	}

	m := &domain.ScheduledMaintenance{
		ID:            uuid.New(),
		EquipmentID:   eq.ID,
		EquipmentName: eq.Name,
		Description:   input.Description,
		Status:        domain.MaintenanceScheduled,
		ScheduledAt:   input.ScheduledAt,
		CreatedBy:     creator.UserID,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledMaintenance, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *service) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.ScheduledMaintenance], error) {
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.ScheduledMaintenance]{}, err
	}
	return domain.NewPaginatedResponse(items, params.Page, params.PageSize, total), nil
}

func (s *service) Complete(ctx context.Context, actor *domain.Profile, id uuid.UUID) error {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.Status != domain.MaintenanceScheduled {
		return ErrNotPending
	}
	if !actor.IsAdmin() && m.CreatedBy != actor.UserID {
		return ErrPermissionRequired
	}

	now := time.Now()
	if err := s.repo.Complete(ctx, id, now); err != nil {
		return err
	}
	return s.equipmentRepo.SetLastMaintenance(ctx, m.EquipmentID, now)
}

func (s *service) Cancel(ctx context.Context, actor *domain.Profile, id uuid.UUID) error {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.Status != domain.MaintenanceScheduled {
		return ErrNotPending
	}
	if !actor.IsAdmin() && m.CreatedBy != actor.UserID {
		return ErrPermissionRequired
	}

	return s.repo.Cancel(ctx, id)
}
