package unit_test

import (
	"context"
	"testing"
	"time"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/service/maintenance"
	"mantenimiento-equipos/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceService_Create(t *testing.T) {
	maintRepo := new(mocks.MaintenanceRepository)
	equipRepo := new(mocks.EquipmentRepository)
	svc := maintenance.NewService(maintRepo, equipRepo)

	ctx := context.Background()
	creator := technicianProfile()
	eq := &domain.Equipment{ID: uuid.New(), Name: "Generador C", Status: domain.EquipmentActive, IntervalDays: 90}
	input := domain.CreateMaintenanceInput{EquipmentID: eq.ID, ScheduledAt: time.Now().AddDate(0, 0, 5)}

	t.Run("Denormalizes Equipment Name", func(t *testing.T) {
		equipRepo.On("GetByID", ctx, eq.ID).Return(eq, nil).Once()
		maintRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.ScheduledMaintenance) bool {
			return m.EquipmentID == eq.ID &&
				m.EquipmentName == "Generador C" &&
				m.Status == domain.MaintenanceScheduled &&
				m.CreatedBy == creator.UserID
		})).Return(nil).Once()

		m, err := svc.Create(ctx, creator, input)

		require.NoError(t, err)
		assert.Equal(t, "Generador C", m.EquipmentName)
		maintRepo.AssertExpectations(t)
	})

	t.Run("Unknown Equipment", func(t *testing.T) {
		equipRepo.On("GetByID", ctx, eq.ID).Return(nil, nil).Once()

		m, err := svc.Create(ctx, creator, input)

		assert.ErrorIs(t, err, maintenance.ErrEquipmentNotFound)
		assert.Nil(t, m)
	})
}

func TestMaintenanceService_Complete(t *testing.T) {
	ctx := context.Background()
	creator := technicianProfile()

	entry := func() *domain.ScheduledMaintenance {
		return &domain.ScheduledMaintenance{
			ID:          uuid.New(),
			EquipmentID: uuid.New(),
			Status:      domain.MaintenanceScheduled,
			CreatedBy:   creator.UserID,
		}
	}

	t.Run("Creator Completes And Cycle Restarts", func(t *testing.T) {
		maintRepo := new(mocks.MaintenanceRepository)
		equipRepo := new(mocks.EquipmentRepository)
		svc := maintenance.NewService(maintRepo, equipRepo)
		m := entry()

		maintRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		maintRepo.On("Complete", ctx, m.ID, mock.Anything).Return(nil).Once()
		equipRepo.On("SetLastMaintenance", ctx, m.EquipmentID, mock.Anything).Return(nil).Once()

		err := svc.Complete(ctx, creator, m.ID)

		assert.NoError(t, err)
		equipRepo.AssertExpectations(t)
	})

	t.Run("Other Technician Denied", func(t *testing.T) {
		maintRepo := new(mocks.MaintenanceRepository)
		equipRepo := new(mocks.EquipmentRepository)
		svc := maintenance.NewService(maintRepo, equipRepo)
		m := entry()
		stranger := technicianProfile()

		maintRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()

		err := svc.Complete(ctx, stranger, m.ID)

		assert.ErrorIs(t, err, maintenance.ErrPermissionRequired)
		equipRepo.AssertNotCalled(t, "SetLastMaintenance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Admin Completes Any Entry", func(t *testing.T) {
		maintRepo := new(mocks.MaintenanceRepository)
		equipRepo := new(mocks.EquipmentRepository)
		svc := maintenance.NewService(maintRepo, equipRepo)
		m := entry()
		admin := adminProfile()

		maintRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
		maintRepo.On("Complete", ctx, m.ID, mock.Anything).Return(nil).Once()
		equipRepo.On("SetLastMaintenance", ctx, m.EquipmentID, mock.Anything).Return(nil).Once()

		err := svc.Complete(ctx, admin, m.ID)

		assert.NoError(t, err)
	})

	t.Run("Already Completed", func(t *testing.T) {
		maintRepo := new(mocks.MaintenanceRepository)
		equipRepo := new(mocks.EquipmentRepository)
		svc := maintenance.NewService(maintRepo, equipRepo)
		m := entry()
		m.Status = domain.MaintenanceCompleted

		maintRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()

		err := svc.Complete(ctx, creator, m.ID)

		assert.ErrorIs(t, err, maintenance.ErrNotPending)
	})
}

func TestMaintenanceService_Cancel(t *testing.T) {
	ctx := context.Background()
	creator := technicianProfile()

	maintRepo := new(mocks.MaintenanceRepository)
	equipRepo := new(mocks.EquipmentRepository)
	svc := maintenance.NewService(maintRepo, equipRepo)

	m := &domain.ScheduledMaintenance{
		ID:          uuid.New(),
		EquipmentID: uuid.New(),
		Status:      domain.MaintenanceScheduled,
		CreatedBy:   creator.UserID,
	}

	maintRepo.On("GetByID", ctx, m.ID).Return(m, nil).Once()
	maintRepo.On("Cancel", ctx, m.ID).Return(nil).Once()

	err := svc.Cancel(ctx, creator, m.ID)

	assert.NoError(t, err)
	// Cancelling never touches the cyclic clock.
	equipRepo.AssertNotCalled(t, "SetLastMaintenance", mock.Anything, mock.Anything, mock.Anything)
}
