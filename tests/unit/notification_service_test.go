package unit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mantenimiento-equipos/internal/config"
	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/service/notification"
	"mantenimiento-equipos/internal/session"
	"mantenimiento-equipos/tests/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		LookaheadDays:         7,
		RetryFailedGeneration: true,
		DefaultTheme:          domain.ThemeLight,
	}
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func technicianProfile() *domain.Profile {
	return &domain.Profile{
		UserID:      uuid.New(),
		Email:       "tech@example.com",
		DisplayName: "Tech",
		Role:        domain.RoleTechnician,
		Status:      domain.ProfileActive,
	}
}

func adminProfile() *domain.Profile {
	p := technicianProfile()
	p.Role = domain.RoleAdmin
	return p
}

// equipmentDueIn builds an active equipment whose cyclic due date lands the
// given number of days from today.
func equipmentDueIn(days int) domain.Equipment {
	last := today().AddDate(0, 0, days-30)
	return domain.Equipment{
		ID:              uuid.New(),
		Name:            "Compresor A",
		Status:          domain.EquipmentActive,
		LastMaintenance: &last,
		IntervalDays:    30,
	}
}

func newGenerationService(notifRepo *mocks.NotificationRepository, equipRepo *mocks.EquipmentRepository, maintRepo *mocks.MaintenanceRepository, cfg *config.Config) notification.Service {
	return notification.NewService(notifRepo, equipRepo, maintRepo, notification.NewFeed(nil), nil, cfg, zap.NewNop())
}

func TestNotificationService_Generate_CyclicReminder(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	equipRepo := new(mocks.EquipmentRepository)
	maintRepo := new(mocks.MaintenanceRepository)
	svc := newGenerationService(notifRepo, equipRepo, maintRepo, testConfig())

	ctx := context.Background()
	profile := technicianProfile()
	eq := equipmentDueIn(3)
	dueDate := today().AddDate(0, 0, 3)

	notifRepo.On("ExistingKeys", ctx, profile.UserID).Return(map[string]bool{}, nil).Once()
	equipRepo.On("ListActive", mock.Anything).Return([]domain.Equipment{eq}, nil).Once()
	maintRepo.On("ListScheduledUntil", mock.Anything, mock.Anything).Return([]domain.ScheduledMaintenance{}, nil).Once()

	notifRepo.On("CreateBatch", ctx, mock.MatchedBy(func(notifs []*domain.Notification) bool {
		if len(notifs) != 1 {
			return false
		}
		n := notifs[0]
		return n.UserID == profile.UserID &&
			n.EquipmentID == eq.ID &&
			n.Key() == domain.NotificationKey(eq.ID, dueDate) &&
			n.Message == `Mantenimiento por ciclo para "Compresor A" está próximo.`
	})).Return(nil).Once()

	staged, err := svc.Generate(ctx, profile)

	assert.NoError(t, err)
	assert.Equal(t, 1, staged)
	notifRepo.AssertExpectations(t)
	equipRepo.AssertExpectations(t)
	maintRepo.AssertExpectations(t)
}

func TestNotificationService_Generate_WindowAndSkips(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		equipment domain.Equipment
	}{
		{"never maintained", domain.Equipment{ID: uuid.New(), Name: "Sin historial", Status: domain.EquipmentActive, IntervalDays: 30}},
		{"overdue before today", equipmentDueIn(-1)},
		{"due beyond window", equipmentDueIn(10)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notifRepo := new(mocks.NotificationRepository)
			equipRepo := new(mocks.EquipmentRepository)
			maintRepo := new(mocks.MaintenanceRepository)
			svc := newGenerationService(notifRepo, equipRepo, maintRepo, testConfig())
			profile := technicianProfile()

			notifRepo.On("ExistingKeys", ctx, profile.UserID).Return(map[string]bool{}, nil).Once()
			equipRepo.On("ListActive", mock.Anything).Return([]domain.Equipment{tc.equipment}, nil).Once()
			maintRepo.On("ListScheduledUntil", mock.Anything, mock.Anything).Return([]domain.ScheduledMaintenance{}, nil).Once()

			staged, err := svc.Generate(ctx, profile)

			assert.NoError(t, err)
			assert.Equal(t, 0, staged)
			notifRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
		})
	}
}

func TestNotificationService_Generate_SkipsExistingKeys(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	equipRepo := new(mocks.EquipmentRepository)
	maintRepo := new(mocks.MaintenanceRepository)
	svc := newGenerationService(notifRepo, equipRepo, maintRepo, testConfig())

	ctx := context.Background()
	profile := technicianProfile()
	eq := equipmentDueIn(3)
	dueDate := today().AddDate(0, 0, 3)

	existing := map[string]bool{domain.NotificationKey(eq.ID, dueDate): true}
	notifRepo.On("ExistingKeys", ctx, profile.UserID).Return(existing, nil).Once()
	equipRepo.On("ListActive", mock.Anything).Return([]domain.Equipment{eq}, nil).Once()
	maintRepo.On("ListScheduledUntil", mock.Anything, mock.Anything).Return([]domain.ScheduledMaintenance{}, nil).Once()

	staged, err := svc.Generate(ctx, profile)

	assert.NoError(t, err)
	assert.Equal(t, 0, staged)
	notifRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

// A cyclic due date and a scheduled entry can land on the same equipment and
// day; only one reminder may come out of the pass.
func TestNotificationService_Generate_DedupAcrossSources(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	equipRepo := new(mocks.EquipmentRepository)
	maintRepo := new(mocks.MaintenanceRepository)
	svc := newGenerationService(notifRepo, equipRepo, maintRepo, testConfig())

	ctx := context.Background()
	profile := technicianProfile()
	eq := equipmentDueIn(3)
	dueDate := today().AddDate(0, 0, 3)

	scheduled := domain.ScheduledMaintenance{
		ID:            uuid.New(),
		EquipmentID:   eq.ID,
		EquipmentName: eq.Name,
		Status:        domain.MaintenanceScheduled,
		ScheduledAt:   dueDate,
		CreatedBy:     profile.UserID,
	}

	notifRepo.On("ExistingKeys", ctx, profile.UserID).Return(map[string]bool{}, nil).Once()
	equipRepo.On("ListActive", mock.Anything).Return([]domain.Equipment{eq}, nil).Once()
	maintRepo.On("ListScheduledUntil", mock.Anything, mock.Anything).Return([]domain.ScheduledMaintenance{scheduled}, nil).Once()

	notifRepo.On("CreateBatch", ctx, mock.MatchedBy(func(notifs []*domain.Notification) bool {
		return len(notifs) == 1 &&
			notifs[0].Message == `Mantenimiento por ciclo para "Compresor A" está próximo.`
	})).Return(nil).Once()

	staged, err := svc.Generate(ctx, profile)

	assert.NoError(t, err)
	assert.Equal(t, 1, staged)
	notifRepo.AssertExpectations(t)
}

func TestNotificationService_Generate_ScheduledVisibility(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	scheduled := domain.ScheduledMaintenance{
		ID:            uuid.New(),
		EquipmentID:   uuid.New(),
		EquipmentName: "Bomba B",
		Status:        domain.MaintenanceScheduled,
		ScheduledAt:   today().AddDate(0, 0, 2),
		CreatedBy:     creator,
	}

	t.Run("other technician does not see it", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		equipRepo := new(mocks.EquipmentRepository)
		maintRepo := new(mocks.MaintenanceRepository)
		svc := newGenerationService(notifRepo, equipRepo, maintRepo, testConfig())
		profile := technicianProfile()

		notifRepo.On("ExistingKeys", ctx, profile.UserID).Return(map[string]bool{}, nil).Once()
		equipRepo.On("ListActive", mock.Anything).Return([]domain.Equipment{}, nil).Once()
		maintRepo.On("ListScheduledUntil", mock.Anything, mock.Anything).Return([]domain.ScheduledMaintenance{scheduled}, nil).Once()

		staged, err := svc.Generate(ctx, profile)

		assert.NoError(t, err)
		assert.Equal(t, 0, staged)
		notifRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("admin sees every entry", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		equipRepo := new(mocks.EquipmentRepository)
		maintRepo := new(mocks.MaintenanceRepository)
		svc := newGenerationService(notifRepo, equipRepo, maintRepo, testConfig())
		profile := adminProfile()

		notifRepo.On("ExistingKeys", ctx, profile.UserID).Return(map[string]bool{}, nil).Once()
		equipRepo.On("ListActive", mock.Anything).Return([]domain.Equipment{}, nil).Once()
		maintRepo.On("ListScheduledUntil", mock.Anything, mock.Anything).Return([]domain.ScheduledMaintenance{scheduled}, nil).Once()

		notifRepo.On("CreateBatch", ctx, mock.MatchedBy(func(notifs []*domain.Notification) bool {
			return len(notifs) == 1 &&
				notifs[0].Message == `Hay un mantenimiento programado para "Bomba B".`
		})).Return(nil).Once()

		staged, err := svc.Generate(ctx, profile)

		assert.NoError(t, err)
		assert.Equal(t, 1, staged)
		notifRepo.AssertExpectations(t)
	})

	t.Run("creator sees their own entry", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		equipRepo := new(mocks.EquipmentRepository)
		maintRepo := new(mocks.MaintenanceRepository)
		svc := newGenerationService(notifRepo, equipRepo, maintRepo, testConfig())
		profile := technicianProfile()
		profile.UserID = creator

		notifRepo.On("ExistingKeys", ctx, profile.UserID).Return(map[string]bool{}, nil).Once()
		equipRepo.On("ListActive", mock.Anything).Return([]domain.Equipment{}, nil).Once()
		maintRepo.On("ListScheduledUntil", mock.Anything, mock.Anything).Return([]domain.ScheduledMaintenance{scheduled}, nil).Once()
		notifRepo.On("CreateBatch", ctx, mock.Anything).Return(nil).Once()

		staged, err := svc.Generate(ctx, profile)

		assert.NoError(t, err)
		assert.Equal(t, 1, staged)
	})
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("nothing unread is a no-op", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := newGenerationService(notifRepo, new(mocks.EquipmentRepository), new(mocks.MaintenanceRepository), testConfig())

		notifRepo.On("CountUnread", ctx, userID).Return(int64(0), nil).Once()

		err := svc.MarkAllAsRead(ctx, userID)

		assert.NoError(t, err)
		notifRepo.AssertNotCalled(t, "MarkAllAsRead", mock.Anything, mock.Anything)
	})

	t.Run("marks when unread exist", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := newGenerationService(notifRepo, new(mocks.EquipmentRepository), new(mocks.MaintenanceRepository), testConfig())

		notifRepo.On("CountUnread", ctx, userID).Return(int64(3), nil).Once()
		notifRepo.On("MarkAllAsRead", ctx, userID).Return(nil).Once()

		err := svc.MarkAllAsRead(ctx, userID)

		assert.NoError(t, err)
		notifRepo.AssertExpectations(t)
	})
}

// One generation pass per login session: repeat logins without a logout stay
// silent, a logout followed by a login generates again.
func TestNotificationService_SessionLifecycle(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	equipRepo := new(mocks.EquipmentRepository)
	maintRepo := new(mocks.MaintenanceRepository)
	svc := newGenerationService(notifRepo, equipRepo, maintRepo, testConfig())

	profile := technicianProfile()
	passes := make(chan struct{}, 8)

	notifRepo.On("ExistingKeys", mock.Anything, profile.UserID).Return(map[string]bool{}, nil).
		Run(func(mock.Arguments) { passes <- struct{}{} })
	equipRepo.On("ListActive", mock.Anything).Return([]domain.Equipment{}, nil)
	maintRepo.On("ListScheduledUntil", mock.Anything, mock.Anything).Return([]domain.ScheduledMaintenance{}, nil)

	svc.HandleSessionEvent(session.Event{Type: session.EventLogin, UserID: profile.UserID, Profile: profile})
	require.True(t, waitForPass(passes, time.Second), "first login must generate")

	svc.HandleSessionEvent(session.Event{Type: session.EventLogin, UserID: profile.UserID, Profile: profile})
	assert.False(t, waitForPass(passes, 150*time.Millisecond), "repeat login must not regenerate")

	svc.HandleSessionEvent(session.Event{Type: session.EventLogout, UserID: profile.UserID})
	svc.HandleSessionEvent(session.Event{Type: session.EventLogin, UserID: profile.UserID, Profile: profile})
	require.True(t, waitForPass(passes, time.Second), "login after logout must generate again")
}

func TestNotificationService_GenerationRetryOnFailure(t *testing.T) {
	t.Run("guard released when retry enabled", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		equipRepo := new(mocks.EquipmentRepository)
		maintRepo := new(mocks.MaintenanceRepository)
		svc := newGenerationService(notifRepo, equipRepo, maintRepo, testConfig())

		profile := technicianProfile()
		passes := make(chan struct{}, 8)

		notifRepo.On("ExistingKeys", mock.Anything, profile.UserID).
			Return(nil, errors.New("db down")).
			Run(func(mock.Arguments) { passes <- struct{}{} }).Once()
		notifRepo.On("ExistingKeys", mock.Anything, profile.UserID).
			Return(map[string]bool{}, nil).
			Run(func(mock.Arguments) { passes <- struct{}{} })
		equipRepo.On("ListActive", mock.Anything).Return([]domain.Equipment{}, nil)
		maintRepo.On("ListScheduledUntil", mock.Anything, mock.Anything).Return([]domain.ScheduledMaintenance{}, nil)

		svc.HandleSessionEvent(session.Event{Type: session.EventLogin, UserID: profile.UserID, Profile: profile})
		require.True(t, waitForPass(passes, time.Second))

		// The guard is cleared after the failing pass returns.
		time.Sleep(100 * time.Millisecond)

		svc.HandleSessionEvent(session.Event{Type: session.EventLogin, UserID: profile.UserID, Profile: profile})
		assert.True(t, waitForPass(passes, time.Second), "failed pass must be retried on next login")
	})

	t.Run("guard kept when retry disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.RetryFailedGeneration = false

		notifRepo := new(mocks.NotificationRepository)
		equipRepo := new(mocks.EquipmentRepository)
		maintRepo := new(mocks.MaintenanceRepository)
		svc := newGenerationService(notifRepo, equipRepo, maintRepo, cfg)

		profile := technicianProfile()
		passes := make(chan struct{}, 8)

		notifRepo.On("ExistingKeys", mock.Anything, profile.UserID).
			Return(nil, errors.New("db down")).
			Run(func(mock.Arguments) { passes <- struct{}{} })

		svc.HandleSessionEvent(session.Event{Type: session.EventLogin, UserID: profile.UserID, Profile: profile})
		require.True(t, waitForPass(passes, time.Second))
		time.Sleep(100 * time.Millisecond)

		svc.HandleSessionEvent(session.Event{Type: session.EventLogin, UserID: profile.UserID, Profile: profile})
		assert.False(t, waitForPass(passes, 150*time.Millisecond))
	})
}

func waitForPass(ch <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestNotificationService_StreamUpdates(t *testing.T) {
	t.Run("feed unavailable", func(t *testing.T) {
		svc := newGenerationService(new(mocks.NotificationRepository), new(mocks.EquipmentRepository), new(mocks.MaintenanceRepository), testConfig())

		_, err := svc.StreamUpdates(context.Background(), uuid.New())

		assert.ErrorIs(t, err, notification.ErrFeedUnavailable)
	})

	t.Run("snapshot then redelivery on signal", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()

		notifRepo := new(mocks.NotificationRepository)
		feed := notification.NewFeed(rdb)
		svc := notification.NewService(notifRepo, new(mocks.EquipmentRepository), new(mocks.MaintenanceRepository), feed, nil, testConfig(), zap.NewNop())

		userID := uuid.New()
		first := []domain.Notification{
			{ID: uuid.New(), UserID: userID, IsRead: false},
			{ID: uuid.New(), UserID: userID, IsRead: true},
		}
		second := append([]domain.Notification{
			{ID: uuid.New(), UserID: userID, IsRead: false},
		}, first...)

		notifRepo.On("ListAllByUser", mock.Anything, userID).Return(first, nil).Once()
		notifRepo.On("ListAllByUser", mock.Anything, userID).Return(second, nil).Once()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		updates, err := svc.StreamUpdates(ctx, userID)
		require.NoError(t, err)

		snapshot := receiveUpdate(t, updates)
		assert.Len(t, snapshot.Notifications, 2)
		assert.Equal(t, int64(1), snapshot.UnreadCount)

		require.NoError(t, feed.Publish(context.Background(), userID))

		redelivery := receiveUpdate(t, updates)
		assert.Len(t, redelivery.Notifications, 3)
		assert.Equal(t, int64(2), redelivery.UnreadCount)
	})
}

func receiveUpdate(t *testing.T, updates <-chan domain.FeedUpdate) domain.FeedUpdate {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed update")
		return domain.FeedUpdate{}
	}
}
