package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/repository"
)

var ErrNotFound = errors.New("user not found")

// Service is the admin-facing user directory. Listing returns the effective
// profile for every identity: the stored row when one exists, the synthesized
// default otherwise, so admins see the same roles the guard enforces.
type Service interface {
	List(ctx context.Context) ([]domain.Profile, error)
	AssignRole(ctx context.Context, input domain.AssignRoleInput) error
	SetStatus(ctx context.Context, input domain.SetStatusInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
}

func NewService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, sessionRepo repository.SessionRepository) Service {
	return &service{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
	}
}

func (s *service) List(ctx context.Context) ([]domain.Profile, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]domain.Profile, len(stored))
	for _, p := range stored {
		byUser[p.UserID] = p
	}

	profiles := make([]domain.Profile, 0, len(users))
	for i := range users {
		if p, ok := byUser[users[i].ID]; ok {
			p.Email = users[i].Email
			profiles = append(profiles, p)
			continue
		}
		profiles = append(profiles, *domain.DefaultProfile(&users[i]))
	}
	return profiles, nil
}

func (s *service) AssignRole(ctx context.Context, input domain.AssignRoleInput) error {
	if !input.Role.IsValid() {
		return errors.New("invalid role")
	}
	return s.profileRepo.SetRole(ctx, input.UserID, input.Role)
}

func (s *service) SetStatus(ctx context.Context, input domain.SetStatusInput) error {
	if input.Status != domain.ProfileActive && input.Status != domain.ProfileInactive {
		return errors.New("invalid status")
	}
	if err := s.profileRepo.SetStatus(ctx, input.UserID, input.Status); err != nil {
		return err
	}
	if input.Status == domain.ProfileInactive {
		// Deactivation takes effect immediately: open sessions are revoked.
		return s.sessionRepo.RevokeAllForUser(ctx, input.UserID)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := s.sessionRepo.RevokeAllForUser(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
