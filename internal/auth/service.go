package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cybershield-it/backend/internal/utils"
)

const MinPasswordLength = 8

// Service composes the credential store, hasher, session manager, and reset
// manager into the public auth operations. All dependencies are injected; the
// service holds no package-level state.
type Service struct {
	store      Store
	hasher     Hasher
	log        *zap.Logger
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

func NewService(store Store, log *zap.Logger, sessionTTL, resetTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &Service{
		store:      store,
		hasher:     Hasher{},
		log:        log,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Company  string
	Phone    string
	Role     string
}

// Register creates an active user and returns its id. The duplicate-email
// rejection is specific by design, unlike password reset which hides account
// existence.
func (s *Service) Register(ctx context.Context, in RegisterInput) (uint, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return 0, validationf("Name, email and password are required")
	}
	if len(in.Password) < MinPasswordLength {
		return 0, validationf("Password must be at least %d characters long", MinPasswordLength)
	}

	if _, err := s.store.UserByEmail(ctx, in.Email); err == nil {
		return 0, ErrEmailInUse
	} else if !errors.Is(err, ErrNotFound) {
		return 0, s.storageErr("register: lookup email", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, s.storageErr("register: hash password", err)
	}

	role := in.Role
	if role != RoleAdmin {
		role = RoleCustomer
	}
	user := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Company:      in.Company,
		Phone:        in.Phone,
		Role:         role,
		Status:       StatusActive,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return 0, ErrEmailInUse
		}
		return 0, s.storageErr("register: create user", err)
	}
	return user.ID, nil
}

type LoginResult struct {
	User      PublicUser
	Token     string
	ExpiresAt time.Time
}

// Login verifies the credential and issues a session. Unknown email, inactive
// account, and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, validationf("Email and password are required")
	}

	user, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.storageErr("login: lookup email", err)
	}

	if user.Status != StatusActive || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user.Public(), Token: token, ExpiresAt: expiresAt}, nil
}

// CreateSession issues a fresh bearer token for the user.
func (s *Service) CreateSession(ctx context.Context, userID uint) (token string, expiresAt time.Time, err error) {
	token, err = newToken()
	if err != nil {
		return "", time.Time{}, s.storageErr("create session: token", err)
	}
	expiresAt = s.now().Add(s.sessionTTL)
	session := &Session{Token: token, UserID: userID, ExpiresAt: expiresAt}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", time.Time{}, s.storageErr("create session: persist", err)
	}
	return token, expiresAt, nil
}

// ResolveSession returns the owning user for a live session. Missing, expired,
// and inactive-user sessions all come back as ErrInvalidSession; a session is
// already invalid exactly at its expiry instant.
func (s *Service) ResolveSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	session, err := s.store.SessionByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, s.storageErr("resolve session: lookup", err)
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, ErrInvalidSession
	}

	user, err := s.store.UserByID(ctx, session.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, s.storageErr("resolve session: lookup user", err)
	}
	if user.Status != StatusActive {
		return nil, ErrInvalidSession
	}
	return user, nil
}

// RevokeSession deletes the session if present. Absence is not an error.
func (s *Service) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return s.storageErr("revoke session", err)
	}
	return nil
}

// RevokeAllSessions forces re-authentication on every device.
func (s *Service) RevokeAllSessions(ctx context.Context, userID uint) error {
	if err := s.store.DeleteSessionsForUser(ctx, userID); err != nil {
		return s.storageErr("revoke all sessions", err)
	}
	return nil
}

// CurrentUser projects the session's user to public fields.
func (s *Service) CurrentUser(ctx context.Context, token string) (PublicUser, error) {
	user, err := s.ResolveSession(ctx, token)
	if err != nil {
		return PublicUser{}, err
	}
	return user.Public(), nil
}

// Logout revokes the session. A missing or unknown token is already-logged-out
// success.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.RevokeSession(ctx, token)
}

// IsAdmin is the authorization predicate behind every admin-only operation.
func (s *Service) IsAdmin(ctx context.Context, token string) (PublicUser, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return PublicUser{}, err
	}
	if user.Role != RoleAdmin {
		return PublicUser{}, ErrNotAdmin
	}
	return user, nil
}

// FindSessionUser adapts ResolveSession for the middleware's fetcher
// interface.
func (s *Service) FindSessionUser(ctx context.Context, token string) (utils.SessionUser, error) {
	user, err := s.ResolveSession(ctx, token)
	if err != nil {
		return utils.SessionUser{}, err
	}
	return utils.SessionUser{UserID: user.ID, Role: user.Role}, nil
}

type ResetIssue struct {
	Token     string
	ExpiresAt time.Time
}

// RequestReset issues a single-use reset token for the account, superseding
// any prior one. A nil issue with a nil error means the email is unknown; the
// caller must report success either way so responses don't disclose whether
// the address is registered.
func (s *Service) RequestReset(ctx context.Context, email string) (*ResetIssue, error) {
	if email == "" {
		return nil, validationf("Email is required")
	}

	user, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.storageErr("request reset: lookup email", err)
	}

	if err := s.store.DeleteResetsForUser(ctx, user.ID); err != nil {
		return nil, s.storageErr("request reset: supersede", err)
	}

	token, err := newToken()
	if err != nil {
		return nil, s.storageErr("request reset: token", err)
	}
	expiresAt := s.now().Add(s.resetTTL)
	if err := s.store.CreateReset(ctx, &PasswordReset{Token: token, UserID: user.ID, ExpiresAt: expiresAt}); err != nil {
		return nil, s.storageErr("request reset: persist", err)
	}
	return &ResetIssue{Token: token, ExpiresAt: expiresAt}, nil
}

// ConsumeReset rotates the credential behind a live reset token. The rotation,
// token deletion, and session revocation commit together or not at all.
func (s *Service) ConsumeReset(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return validationf("Token and new password are required")
	}
	if len(newPassword) < MinPasswordLength {
		return validationf("Password must be at least %d characters long", MinPasswordLength)
	}

	reset, err := s.store.ResetByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return s.storageErr("consume reset: lookup", err)
	}
	if !s.now().Before(reset.ExpiresAt) {
		return ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return s.storageErr("consume reset: hash", err)
	}
	if err := s.store.RotatePassword(ctx, reset.UserID, hash, token); err != nil {
		return s.storageErr("consume reset: rotate", err)
	}
	return nil
}

func (s *Service) storageErr(op string, err error) error {
	s.log.Error("auth storage failure", zap.String("op", op), zap.Error(err))
	return storage(err)
}
