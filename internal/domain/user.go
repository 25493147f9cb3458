package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the raw identity record: credentials plus display data. The
// application-level Profile (role, status) lives in its own table and may be
// absent for a valid identity.
type User struct {
	ID           uuid.UUID  `json:"id" db:"user_id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	DisplayName  string     `json:"display_name" db:"display_name"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

type Profile struct {
	UserID      uuid.UUID     `json:"user_id" db:"user_id"`
	Email       string        `json:"email" db:"email"`
	DisplayName string        `json:"display_name" db:"display_name"`
	Role        UserRole      `json:"role" db:"role"`
	Status      ProfileStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTechnician UserRole = "technician"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTechnician:
		return true
	default:
		return false
	}
}

type ProfileStatus string

const (
	ProfileActive   ProfileStatus = "active"
	ProfileInactive ProfileStatus = "inactive"
)

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p *Profile) HasRole(required UserRole) bool {
	switch required {
	case RoleAdmin:
		return p.Role == RoleAdmin
	case RoleTechnician:
		return p.Role == RoleTechnician || p.Role == RoleAdmin
	default:
		return false
	}
}

// DefaultProfile synthesizes the profile used when an identity has no stored
// record: technician role, active status, display name falling back to the
// local part of the email address. It is never written back to the store.
func DefaultProfile(user *User) *Profile {
	name := user.DisplayName
	if name == "" {
		name = strings.SplitN(user.Email, "@", 2)[0]
	}
	return &Profile{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: name,
		Role:        RoleTechnician,
		Status:      ProfileActive,
	}
}

type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,min=2"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AssignRoleInput struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   UserRole  `json:"role" validate:"required,oneof=admin technician"`
}

type SetStatusInput struct {
	UserID uuid.UUID     `json:"user_id" validate:"required"`
	Status ProfileStatus `json:"status" validate:"required,oneof=active inactive"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
