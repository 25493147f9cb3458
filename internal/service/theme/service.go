package theme

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mantenimiento-equipos/internal/config"
	"mantenimiento-equipos/internal/domain"
)

const prefTTL = 365 * 24 * time.Hour

// Service stores each user's light/dark preference. Storage being down is
// non-fatal: reads fall back to the configured default and writes are
// skipped, so the caller always gets a usable value.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) domain.Theme
	Set(ctx context.Context, userID uuid.UUID, theme domain.Theme) domain.Theme
	Toggle(ctx context.Context, userID uuid.UUID) domain.Theme
}

type service struct {
	rdb *redis.Client
	cfg *config.Config
	log *zap.Logger
}

func NewService(rdb *redis.Client, cfg *config.Config, log *zap.Logger) Service {
	return &service{rdb: rdb, cfg: cfg, log: log}
}

func (s *service) key(userID uuid.UUID) string {
	return "theme:" + userID.String()
}

func (s *service) defaultTheme() domain.Theme {
	if s.cfg.DefaultTheme.IsValid() {
		return s.cfg.DefaultTheme
	}
	return domain.ThemeLight
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) domain.Theme {
	if s.rdb == nil {
		return s.defaultTheme()
	}

	val, err := s.rdb.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("theme preference read failed", zap.Error(err))
		}
		return s.defaultTheme()
	}

	theme := domain.Theme(val)
	if !theme.IsValid() {
		return s.defaultTheme()
	}
	return theme
}

func (s *service) Set(ctx context.Context, userID uuid.UUID, theme domain.Theme) domain.Theme {
	if !theme.IsValid() {
		theme = s.defaultTheme()
	}
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, s.key(userID), string(theme), prefTTL).Err(); err != nil {
			s.log.Warn("theme preference write failed", zap.Error(err))
		}
	}
	return theme
}

func (s *service) Toggle(ctx context.Context, userID uuid.UUID) domain.Theme {
	return s.Set(ctx, userID, s.Get(ctx, userID).Opposite())
}
