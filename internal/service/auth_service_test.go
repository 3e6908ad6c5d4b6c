package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"kopiscan/api/internal/config"
	"kopiscan/api/internal/denylist"
	"kopiscan/api/internal/models"
	"kopiscan/api/internal/repository"
)

type fakeUserStore struct {
	byEmail map[string]models.User
	byID    map[string]models.User
	findErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]models.User),
		byID:    make(map[string]models.User),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return repository.ErrEmailTaken
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	if f.findErr != nil {
		return models.User{}, f.findErr
	}
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func newAuthService(users UserStore) *AuthService {
	cfg := &config.AppConfig{
		Security: config.SecurityConfig{
			JWTSecret:      "test-secret",
			AccessTTL:      time.Hour,
			RememberMeTTL:  7 * 24 * time.Hour,
			MinPasswordLen: 6,
		},
	}
	return NewAuthService(users, denylist.NewMemory(), cfg, zerolog.Nop())
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	s := newAuthService(users)
	ctx := context.Background()

	_, err := s.Register(ctx, "not-an-email", "kopi123")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = s.Register(ctx, "a@b.co", "short")
	require.ErrorIs(t, err, ErrWeakPassword)

	// Neither failed attempt may leave a row behind.
	require.Empty(t, users.byEmail)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	s := newAuthService(users)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@b.co", "kopi123")
	require.NoError(t, err)

	_, err = s.Register(ctx, "a@b.co", "kopi456")
	require.ErrorIs(t, err, repository.ErrEmailTaken)
	require.Len(t, users.byEmail, 1)
}

func TestRegister_NeverStoresPlaintext(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	s := newAuthService(users)

	user, err := s.Register(context.Background(), "a@b.co", "kopi123")
	require.NoError(t, err)
	require.NotContains(t, string(user.PasswordHash), "kopi123")
	require.NotContains(t, string(users.byEmail["a@b.co"].PasswordHash), "kopi123")
}

func TestLogin_ValidateRoundTrip(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	s := newAuthService(users)
	ctx := context.Background()

	registered, err := s.Register(ctx, "a@b.co", "kopi123")
	require.NoError(t, err)

	result, err := s.Login(ctx, "a@b.co", "kopi123", false)
	require.NoError(t, err)
	require.False(t, result.RememberMe)

	claims, err := s.Validate(ctx, result.Token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.Subject)
}

func TestLogin_WrongCredentials(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	s := newAuthService(users)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@b.co", "kopi123")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@b.co", "wrong", false)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody@b.co", "kopi123", false)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StoreFailureIsNotWrongCredentials(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	users.findErr = errors.New("connection refused")
	s := newAuthService(users)

	_, err := s.Login(context.Background(), "a@b.co", "kopi123", false)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RememberMeExtendsExpiry(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	s := newAuthService(users)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@b.co", "kopi123")
	require.NoError(t, err)

	short, err := s.Login(ctx, "a@b.co", "kopi123", false)
	require.NoError(t, err)
	long, err := s.Login(ctx, "a@b.co", "kopi123", true)
	require.NoError(t, err)

	require.True(t, long.ExpiresAt.After(short.ExpiresAt.Add(24*time.Hour)),
		"remember-me token must live days longer than the default")
	require.True(t, long.RememberMe)
}

func TestRevoke_ValidateFailsAfterwards(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	s := newAuthService(users)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@b.co", "kopi123")
	require.NoError(t, err)
	result, err := s.Login(ctx, "a@b.co", "kopi123", false)
	require.NoError(t, err)

	claims, err := s.Validate(ctx, result.Token)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, claims))

	// Every later validate must see the revocation.
	for i := 0; i < 3; i++ {
		_, err = s.Validate(ctx, result.Token)
		require.ErrorIs(t, err, ErrTokenRevoked)
	}

	// Revoking again is a no-op, not an error.
	require.NoError(t, s.Revoke(ctx, claims))
}

func TestValidate_MalformedBeforeRevoked(t *testing.T) {
	t.Parallel()

	s := newAuthService(newFakeUserStore())

	_, err := s.Validate(context.Background(), strings.Repeat("x", 40))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTokenRevoked)
}
