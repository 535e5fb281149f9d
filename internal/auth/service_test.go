package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is an in-memory Store so the service can be exercised without a
// database.
type fakeStore struct {
	mu       sync.Mutex
	nextID   uint
	users    map[uint]User
	sessions map[string]Session
	resets   map[string]PasswordReset
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uint]User{},
		sessions: map[string]Session{},
		resets:   map[string]PasswordReset{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return ErrEmailInUse
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UserByID(_ context.Context, id uint) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) CreateSession(_ context.Context, session *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.Token] = *session
	return nil
}

func (f *fakeStore) SessionByToken(_ context.Context, token string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeStore) DeleteSessionsForUser(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

func (f *fakeStore) CreateReset(_ context.Context, reset *PasswordReset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets[reset.Token] = *reset
	return nil
}

func (f *fakeStore) ResetByToken(_ context.Context, token string) (*PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resets[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (f *fakeStore) DeleteResetsForUser(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, r := range f.resets {
		if r.UserID == userID {
			delete(f.resets, token)
		}
	}
	return nil
}

func (f *fakeStore) RotatePassword(_ context.Context, userID uint, newHash, resetToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = newHash
	f.users[userID] = u
	delete(f.resets, resetToken)
	for token, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

func (f *fakeStore) setStatus(userID uint, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.Status = status
	f.users[userID] = u
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewService(store, zap.NewNop(), 0, 0)
	return svc, store
}

func registerAlice(t *testing.T, svc *Service) uint {
	t.Helper()
	id, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "password1",
	})
	require.NoError(t, err)
	return id
}

func TestRegisterDefaultsAndDuplicateEmail(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id := registerAlice(t, svc)
	assert.NotZero(t, id)

	user, err := store.UserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, user.Role)
	assert.Equal(t, StatusActive, user.Status)
	assert.NotContains(t, user.PasswordHash, "password1")

	_, err = svc.Register(ctx, RegisterInput{Name: "Alice 2", Email: "a@x.com", Password: "password2"})
	require.ErrorIs(t, err, ErrEmailInUse)
	assert.Equal(t, "Email already in use", Message(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for name, in := range map[string]RegisterInput{
		"missing name":     {Email: "a@x.com", Password: "password1"},
		"missing email":    {Name: "Alice", Password: "password1"},
		"missing password": {Name: "Alice", Email: "a@x.com"},
	} {
		_, err := svc.Register(ctx, in)
		require.Error(t, err, name)
		assert.Equal(t, 400, HTTPStatus(err), name)
	}

	_, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "a@x.com", Password: "short12"})
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 8 characters long", Message(err))
}

func TestLoginRejectionsAreUniform(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	id := registerAlice(t, svc)

	_, wrongPassword := svc.Login(ctx, "a@x.com", "wrongpw99")
	_, unknownEmail := svc.Login(ctx, "nobody@x.com", "password1")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, Message(wrongPassword), Message(unknownEmail))

	// An inactive account rejects with the same message too.
	store.setStatus(id, StatusInactive)
	_, inactive := svc.Login(ctx, "a@x.com", "password1")
	require.ErrorIs(t, inactive, ErrInvalidCredentials)
}

func TestLoginIssuesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	result, err := svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	assert.Equal(t, "Alice", result.User.Name)
	assert.Equal(t, RoleCustomer, result.User.Role)
	assert.Len(t, result.Token, 64) // 32 bytes hex
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), result.ExpiresAt, time.Minute)

	user, err := svc.CurrentUser(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User, user)
}

func TestSessionRevocation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	result, err := svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	_, err = svc.ResolveSession(ctx, result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSession(ctx, result.Token))
	_, err = svc.ResolveSession(ctx, result.Token)
	require.ErrorIs(t, err, ErrInvalidSession)

	// Idempotent: revoking again is not an error.
	require.NoError(t, svc.RevokeSession(ctx, result.Token))
	require.NoError(t, svc.Logout(ctx, ""))
}

func TestSessionExpiryBoundary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := registerAlice(t, svc)

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	token, expiresAt, err := svc.CreateSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(7*24*time.Hour), expiresAt)

	svc.now = func() time.Time { return expiresAt.Add(-time.Nanosecond) }
	_, err = svc.ResolveSession(ctx, token)
	require.NoError(t, err)

	// Exactly at expiry is already invalid.
	svc.now = func() time.Time { return expiresAt }
	_, err = svc.ResolveSession(ctx, token)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionOfInactiveUserIsInvalid(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	id := registerAlice(t, svc)

	result, err := svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	store.setStatus(id, StatusInactive)
	_, err = svc.ResolveSession(ctx, result.Token)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestRequestResetHidesAccountExistence(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	issue, err := svc.RequestReset(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, issue)
	assert.Empty(t, store.resets)

	issue, err = svc.RequestReset(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, issue)
	assert.Len(t, issue.Token, 64)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issue.ExpiresAt, time.Minute)
}

func TestRequestResetSupersedesPriorToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	first, err := svc.RequestReset(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := svc.RequestReset(ctx, "a@x.com")
	require.NoError(t, err)

	err = svc.ConsumeReset(ctx, first.Token, "newpassword1")
	require.ErrorIs(t, err, ErrInvalidResetToken)

	require.NoError(t, svc.ConsumeReset(ctx, second.Token, "newpassword1"))
}

func TestConsumeResetRotatesAndRevokes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	login, err := svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	issue, err := svc.RequestReset(ctx, "a@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.ConsumeReset(ctx, issue.Token, "rotated-pass1"))

	// Old credential gone, new one works.
	_, err = svc.Login(ctx, "a@x.com", "password1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "a@x.com", "rotated-pass1")
	require.NoError(t, err)

	// Prior session revoked, token single-use.
	_, err = svc.ResolveSession(ctx, login.Token)
	require.ErrorIs(t, err, ErrInvalidSession)
	err = svc.ConsumeReset(ctx, issue.Token, "another-pass1")
	require.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestConsumeResetRejectsExpiredAndWeak(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	issue, err := svc.RequestReset(ctx, "a@x.com")
	require.NoError(t, err)

	err = svc.ConsumeReset(ctx, issue.Token, "short12")
	require.Error(t, err)
	assert.Equal(t, 400, HTTPStatus(err))

	svc.now = func() time.Time { return issue.ExpiresAt }
	err = svc.ConsumeReset(ctx, issue.Token, "newpassword1")
	require.ErrorIs(t, err, ErrInvalidResetToken)

	// Nothing mutated: the original credential still works.
	svc.now = time.Now
	_, err = svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)
}

func TestIsAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	_, err := svc.Register(ctx, RegisterInput{
		Name:     "Root",
		Email:    "root@x.com",
		Password: "password1",
		Role:     RoleAdmin,
	})
	require.NoError(t, err)

	aliceLogin, err := svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	adminLogin, err := svc.Login(ctx, "root@x.com", "password1")
	require.NoError(t, err)

	_, err = svc.IsAdmin(ctx, aliceLogin.Token)
	require.ErrorIs(t, err, ErrNotAdmin)
	assert.Equal(t, 403, HTTPStatus(err))

	admin, err := svc.IsAdmin(ctx, adminLogin.Token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)

	_, err = svc.IsAdmin(ctx, "no-such-token")
	require.ErrorIs(t, err, ErrInvalidSession)
}
