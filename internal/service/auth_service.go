package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"kopiscan/api/internal/config"
	"kopiscan/api/internal/denylist"
	"kopiscan/api/internal/ids"
	"kopiscan/api/internal/models"
	"kopiscan/api/internal/repository"
	"kopiscan/api/internal/security"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

type AuthService struct {
	users    UserStore
	denylist denylist.Denylist
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, dl denylist.Denylist, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		denylist: dl,
		cfg:      cfg,
		log:      log,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return models.User{}, ErrInvalidEmail
	}
	if len(password) < s.cfg.Security.MinPasswordLen {
		return models.User{}, ErrWeakPassword
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

type LoginResult struct {
	Token      string
	ExpiresAt  time.Time
	RememberMe bool
	User       models.User
}

func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.IssueFor(ctx, user.ID, rememberMe)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Token:      token,
		ExpiresAt:  expiresAt,
		RememberMe: rememberMe,
		User:       user,
	}, nil
}

// IssueFor signs a fresh access token for the user. Remember-me stretches
// the lifetime from the default hour to a week.
func (s *AuthService) IssueFor(_ context.Context, userID string, rememberMe bool) (string, time.Time, error) {
	ttl := s.cfg.Security.AccessTTL
	if rememberMe {
		ttl = s.cfg.Security.RememberMeTTL
	}

	token, jti, err := security.IssueAccessToken(s.cfg.Security.JWTSecret, userID, ttl)
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := time.Now().Add(ttl)
	s.log.Debug().Str("user_id", userID).Str("jti", jti).Time("expires_at", expiresAt).Msg("token issued")
	return token, expiresAt, nil
}

// Validate checks signature and expiry first, then the denylist. The cheap
// local checks run before the store lookup so a garbage token never costs a
// round trip, and each failure mode keeps its own error.
func (s *AuthService) Validate(ctx context.Context, token string) (*security.AccessClaims, error) {
	claims, err := security.ParseAccessToken(token, s.cfg.Security.JWTSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke denylists the token's jti for the remainder of its lifetime.
// Revoking an already revoked token is a no-op.
func (s *AuthService) Revoke(ctx context.Context, claims *security.AccessClaims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.denylist.Add(ctx, claims.ID, ttl); err != nil {
		return err
	}
	s.log.Info().Str("jti", claims.ID).Str("user_id", claims.Subject).Msg("token revoked")
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}
