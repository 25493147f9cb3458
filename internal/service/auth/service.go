package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mantenimiento-equipos/internal/config"
	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/repository"
	"mantenimiento-equipos/internal/service/email"
	"mantenimiento-equipos/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

type Service interface {
	Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input domain.LoginInput) (*domain.Profile, *domain.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(token string) (*Claims, error)

	// ResolveProfile applies the bridge rules for an identity: a stored
	// profile is used verbatim, a missing one is replaced by a synthesized
	// default, an inactive one is rejected with ErrAccountInactive.
	ResolveProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

type service struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
	hub         *session.Hub
	emailSvc    email.Service
	cfg         *config.Config
	log         *zap.Logger
}

func NewService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	hub *session.Hub,
	emailSvc email.Service,
	cfg *config.Config,
	log *zap.Logger,
) Service {
	return &service{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		hub:         hub,
		emailSvc:    emailSvc,
		cfg:         cfg,
		log:         log,
	}
}

func (s *service) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		DisplayName:  input.DisplayName,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.emailSvc != nil {
		go func(toEmail, name string) {
			if err := s.emailSvc.SendWelcomeEmail(context.Background(), toEmail, name); err != nil {
				s.log.Warn("failed to send welcome email", zap.Error(err))
			}
		}(user.Email, user.DisplayName)
	}

	return user, nil
}

func (s *service) Login(ctx context.Context, input domain.LoginInput) (*domain.Profile, *domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := s.resolveProfile(ctx, user)
	if err != nil {
		if errors.Is(err, ErrAccountInactive) {
			// Reject the sign-in outright: any lingering sessions go too.
			if rerr := s.sessionRepo.RevokeAllForUser(ctx, user.ID); rerr != nil {
				s.log.Warn("failed to revoke sessions for inactive account",
					zap.String("user_id", user.ID.String()), zap.Error(rerr))
			}
		}
		return nil, nil, err
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.hub.PublishLogin(profile)

	return profile, tokens, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	sess, err := s.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if _, err := s.resolveProfile(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Revoke(ctx, sess.ID); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, user)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := hashToken(refreshToken)

	sess, err := s.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrInvalidToken
	}

	if err := s.sessionRepo.Revoke(ctx, sess.ID); err != nil {
		return err
	}

	s.hub.PublishLogout(sess.UserID)
	return nil
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) ResolveProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.resolveProfile(ctx, user)
}

func (s *service) resolveProfile(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		// First sign-in of a plain identity: defaults only, nothing persisted.
		return domain.DefaultProfile(user), nil
	}
	if profile.Status == domain.ProfileInactive {
		return nil, ErrAccountInactive
	}
	profile.Email = user.Email
	return profile, nil
}

func (s *service) generateTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessClaims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWTAccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID.String(),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshTokenRaw := uuid.New().String()

	sess := &repository.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenRaw,
		ExpiresIn:    int64(s.cfg.JWTAccessExpiry.Seconds()),
	}, nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
