package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mantenimiento-equipos/internal/config"
	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/repository"
	"mantenimiento-equipos/internal/service/email"
	"mantenimiento-equipos/internal/session"
)

var ErrFeedUnavailable = errors.New("notification feed unavailable")

const generateTimeout = 30 * time.Second

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error

	// Generate runs one reminder-generation pass for the user and returns the
	// number of notifications committed. Normally invoked once per login
	// session via the session hub, but callable directly.
	Generate(ctx context.Context, profile *domain.Profile) (int, error)

	// HandleSessionEvent is the transition handler registered on the session
	// hub: a login starts the user's engine session (and its single
	// generation pass), a logout tears it down.
	HandleSessionEvent(ev session.Event)

	// StreamUpdates delivers the full ordered notification list plus unread
	// count on every feed signal, starting with an immediate snapshot. At
	// most one stream per user session: opening a new one cancels the prior.
	StreamUpdates(ctx context.Context, userID uuid.UUID) (<-chan domain.FeedUpdate, error)
}

type sessionState struct {
	ctx          context.Context
	cancel       context.CancelFunc
	generated    bool
	streamCancel context.CancelFunc
}

type service struct {
	notifRepo     repository.NotificationRepository
	equipmentRepo repository.EquipmentRepository
	maintRepo     repository.MaintenanceRepository
	feed          *Feed
	emailSvc      email.Service
	cfg           *config.Config
	log           *zap.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionState
}

func NewService(
	notifRepo repository.NotificationRepository,
	equipmentRepo repository.EquipmentRepository,
	maintRepo repository.MaintenanceRepository,
	feed *Feed,
	emailSvc email.Service,
	cfg *config.Config,
	log *zap.Logger,
) Service {
	return &service{
		notifRepo:     notifRepo,
		equipmentRepo: equipmentRepo,
		maintRepo:     maintRepo,
		feed:          feed,
		emailSvc:      emailSvc,
		cfg:           cfg,
		log:           log,
		sessions:      make(map[uuid.UUID]*sessionState),
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return err
	}
	if count == 0 {
		// Nothing unread: no write, no feed signal.
		return nil
	}

	if err := s.notifRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}

	if err := s.feed.Publish(ctx, userID); err != nil {
		s.log.Warn("failed to publish feed signal after mark-all-read",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
	return nil
}

func (s *service) HandleSessionEvent(ev session.Event) {
	switch ev.Type {
	case session.EventLogin:
		s.startSession(ev.Profile)
	case session.EventLogout:
		s.endSession(ev.UserID)
	}
}

// startSession replaces any previous engine session for the user (cancelling
// its stream) and claims the once-per-session generation slot before spawning
// the pass, so re-entrant login events cannot double-generate.
func (s *service) startSession(profile *domain.Profile) {
	s.mu.Lock()
	generated := false
	if prev, ok := s.sessions[profile.UserID]; ok {
		// A repeat login without an intervening logout keeps the generation
		// guard; only a logout resets it.
		prev.cancel()
		generated = prev.generated
	}
	ctx, cancel := context.WithCancel(context.Background())
	st := &sessionState{ctx: ctx, cancel: cancel, generated: generated}
	s.sessions[profile.UserID] = st

	run := !st.generated
	st.generated = true
	s.mu.Unlock()

	if run {
		go s.runGeneration(st, profile)
	}
}

func (s *service) endSession(userID uuid.UUID) {
	s.mu.Lock()
	st, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()

	if ok {
		st.cancel()
	}
}

func (s *service) runGeneration(st *sessionState, profile *domain.Profile) {
	ctx, cancel := context.WithTimeout(st.ctx, generateTimeout)
	defer cancel()

	staged, err := s.Generate(ctx, profile)
	if err != nil {
		s.log.Error("reminder generation failed",
			zap.String("user_id", profile.UserID.String()), zap.Error(err))
		if s.cfg.RetryFailedGeneration {
			// Release the session guard so the next login retries instead of
			// staying silent for the rest of the session.
			s.mu.Lock()
			st.generated = false
			s.mu.Unlock()
		}
		return
	}

	if staged > 0 {
		s.log.Info("staged maintenance reminders",
			zap.String("user_id", profile.UserID.String()), zap.Int("count", staged))
	}
}

func (s *service) Generate(ctx context.Context, profile *domain.Profile) (int, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowEnd := today.AddDate(0, 0, s.cfg.LookaheadDays)

	existing, err := s.notifRepo.ExistingKeys(ctx, profile.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to load existing reminders: %w", err)
	}

	var (
		equipment []domain.Equipment
		scheduled []domain.ScheduledMaintenance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		equipment, err = s.equipmentRepo.ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		scheduled, err = s.maintRepo.ListScheduledUntil(gctx, windowEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to load reminder sources: %w", err)
	}

	var staged []*domain.Notification
	stagedKeys := make(map[string]bool)

	// The cyclic and scheduled passes can land on the same (equipment, date)
	// pair, so staging shares one key set on top of the stored keys. First
	// hit wins in iteration order.
	stage := func(equipmentID uuid.UUID, message string, eventDate time.Time) {
		key := domain.NotificationKey(equipmentID, eventDate)
		if existing[key] || stagedKeys[key] {
			return
		}
		stagedKeys[key] = true
		staged = append(staged, &domain.Notification{
			ID:          uuid.New(),
			UserID:      profile.UserID,
			EquipmentID: equipmentID,
			Message:     message,
			EventDate:   eventDate,
		})
	}

	for _, eq := range equipment {
		due := eq.NextDue()
		if due == nil {
			// Never maintained: no baseline to cycle from.
			continue
		}
		dueDate := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
		if dueDate.Before(today) || dueDate.After(windowEnd) {
			continue
		}
		stage(eq.ID, fmt.Sprintf("Mantenimiento por ciclo para %q está próximo.", eq.Name), dueDate)
	}

	for _, m := range scheduled {
		if !profile.IsAdmin() && m.CreatedBy != profile.UserID {
			continue
		}
		stage(m.EquipmentID, fmt.Sprintf("Hay un mantenimiento programado para %q.", m.EquipmentName), m.ScheduledAt)
	}

	if len(staged) == 0 {
		return 0, nil
	}

	if err := s.notifRepo.CreateBatch(ctx, staged); err != nil {
		return 0, fmt.Errorf("failed to commit reminders: %w", err)
	}

	if err := s.feed.Publish(ctx, profile.UserID); err != nil {
		s.log.Warn("failed to publish feed signal after generation",
			zap.String("user_id", profile.UserID.String()), zap.Error(err))
	}

	if s.cfg.SendReminderEmails && s.emailSvc != nil && profile.Email != "" {
		go func(toEmail, name string, count int) {
			ctx := context.Background()
			if err := s.emailSvc.SendReminderDigest(ctx, toEmail, name, count); err != nil {
				s.log.Warn("failed to send reminder digest", zap.Error(err))
			}
		}(profile.Email, profile.DisplayName, len(staged))
	}

	return len(staged), nil
}

func (s *service) StreamUpdates(ctx context.Context, userID uuid.UUID) (<-chan domain.FeedUpdate, error) {
	if !s.feed.Available() {
		return nil, ErrFeedUnavailable
	}

	st := s.ensureSession(userID)

	s.mu.Lock()
	if st.streamCancel != nil {
		st.streamCancel()
	}
	streamCtx, cancel := context.WithCancel(st.ctx)
	st.streamCancel = cancel
	s.mu.Unlock()

	sub := s.feed.Subscribe(streamCtx, userID)
	updates := make(chan domain.FeedUpdate, 1)

	go func() {
		defer close(updates)
		defer sub.Close()

		if !s.deliver(streamCtx, ctx, userID, updates) {
			return
		}

		msgs := sub.Channel()
		for {
			select {
			case <-streamCtx.Done():
				return
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				if !s.deliver(streamCtx, ctx, userID, updates) {
					return
				}
			}
		}
	}()

	return updates, nil
}

// deliver re-reads the full list and pushes a snapshot; the unread count is
// always recomputed from the delivered list, never patched incrementally.
func (s *service) deliver(streamCtx, reqCtx context.Context, userID uuid.UUID, updates chan<- domain.FeedUpdate) bool {
	notifications, err := s.notifRepo.ListAllByUser(streamCtx, userID)
	if err != nil {
		s.log.Warn("failed to load notifications for stream",
			zap.String("user_id", userID.String()), zap.Error(err))
		return true
	}

	var unread int64
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	select {
	case updates <- domain.FeedUpdate{Notifications: notifications, UnreadCount: unread}:
		return true
	case <-streamCtx.Done():
		return false
	case <-reqCtx.Done():
		return false
	}
}

// ensureSession covers streams opened without a live login event in this
// process (e.g. after a restart with a still-valid token).
func (s *service) ensureSession(userID uuid.UUID) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[userID]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		st = &sessionState{ctx: ctx, cancel: cancel}
		s.sessions[userID] = st
	}
	return st
}
