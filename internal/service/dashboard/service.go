package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"mantenimiento-equipos/internal/config"
	"mantenimiento-equipos/internal/repository"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 5 * time.Minute
)

type Stats struct {
	TotalEquipment       int64 `json:"total_equipment"`
	ActiveEquipment      int64 `json:"active_equipment"`
	DueSoon              int64 `json:"due_soon"`
	Overdue              int64 `json:"overdue"`
	ScheduledMaintenance int64 `json:"scheduled_maintenance"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	equipmentRepo repository.EquipmentRepository
	maintRepo     repository.MaintenanceRepository
	redis         *redis.Client
	cfg           *config.Config
}

func NewService(equipmentRepo repository.EquipmentRepository, maintRepo repository.MaintenanceRepository, redis *redis.Client, cfg *config.Config) Service {
	return &service{
		equipmentRepo: equipmentRepo,
		maintRepo:     maintRepo,
		redis:         redis,
		cfg:           cfg,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	total, err := s.equipmentRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	active, err := s.equipmentRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	dueSoon, err := s.equipmentRepo.CountDueWithin(ctx, s.cfg.LookaheadDays)
	if err != nil {
		return nil, err
	}

	overdue, err := s.equipmentRepo.CountOverdue(ctx)
	if err != nil {
		return nil, err
	}

	scheduled, err := s.maintRepo.CountScheduled(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalEquipment:       total,
		ActiveEquipment:      active,
		DueSoon:              dueSoon,
		Overdue:              overdue,
		ScheduledMaintenance: scheduled,
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, statsCacheKey, statsJSON, statsCacheTTL).Err()
		}
	}

	return stats, nil
}
