package equipment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/repository"
)

var ErrNotFound = errors.New("equipment not found")

type Service interface {
	Create(ctx context.Context, input domain.CreateEquipmentInput) (*domain.Equipment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Equipment, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateEquipmentInput) (*domain.Equipment, error)
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Equipment], error)
}

type service struct {
	repo repository.EquipmentRepository
}

func NewService(repo repository.EquipmentRepository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, input domain.CreateEquipmentInput) (*domain.Equipment, error) {
	eq := &domain.Equipment{
		ID:           uuid.New(),
		Name:         input.Name,
		Location:     input.Location,
		Status:       domain.EquipmentActive,
		IntervalDays: input.IntervalDays,
	}

	if err := s.repo.Create(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Equipment, error) {
	eq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, ErrNotFound
	}
	return eq, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input domain.UpdateEquipmentInput) (*domain.Equipment, error) {
	eq, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		eq.Name = *input.Name
	}
	if input.Location != nil {
		eq.Location = input.Location
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, errors.New("invalid equipment status")
		}
		eq.Status = *input.Status
	}
	if input.IntervalDays != nil {
		eq.IntervalDays = *input.IntervalDays
	}

	if err := s.repo.Update(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

func (s *service) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Equipment], error) {
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Equipment]{}, err
	}
	return domain.NewPaginatedResponse(items, params.Page, params.PageSize, total), nil
}
