package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Profile      ProfileRepository
	Equipment    EquipmentRepository
	Maintenance  MaintenanceRepository
	Notification NotificationRepository
	Report       ReportRepository
	Session      SessionRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Profile:      NewProfileRepository(db),
		Equipment:    NewEquipmentRepository(db),
		Maintenance:  NewMaintenanceRepository(db),
		Notification: NewNotificationRepository(db),
		Report:       NewReportRepository(db),
		Session:      NewSessionRepository(db),
	}
}
