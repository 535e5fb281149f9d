package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is the store-level absence signal. The service layer translates
// it into the appropriate client-facing error per operation.
var ErrNotFound = errors.New("record not found")

// Store persists users, sessions, and reset tokens. The GORM implementation
// below is the production one; tests substitute an in-memory fake.
type Store interface {
	CreateUser(ctx context.Context, user *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id uint) (*User, error)

	CreateSession(ctx context.Context, session *Session) error
	SessionByToken(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteSessionsForUser(ctx context.Context, userID uint) error

	CreateReset(ctx context.Context, reset *PasswordReset) error
	ResetByToken(ctx context.Context, token string) (*PasswordReset, error)
	DeleteResetsForUser(ctx context.Context, userID uint) error

	// RotatePassword atomically stores the new credential, deletes the
	// consumed reset token, and revokes every session for the user. Partial
	// failure rolls the whole thing back.
	RotatePassword(ctx context.Context, userID uint, newHash, resetToken string) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

const pgUniqueViolation = "23505"

func (s *gormStore) CreateUser(ctx context.Context, user *User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		// Lost the pre-insert existence check race.
		return ErrEmailInUse
	}
	return err
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (s *gormStore) UserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (s *gormStore) CreateSession(ctx context.Context, session *Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *gormStore) SessionByToken(ctx context.Context, token string) (*Session, error) {
	var session Session
	if err := s.db.WithContext(ctx).First(&session, "token = ?", token).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &session, nil
}

func (s *gormStore) DeleteSession(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&Session{}).Error
}

func (s *gormStore) DeleteSessionsForUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Session{}).Error
}

func (s *gormStore) CreateReset(ctx context.Context, reset *PasswordReset) error {
	return s.db.WithContext(ctx).Create(reset).Error
}

func (s *gormStore) ResetByToken(ctx context.Context, token string) (*PasswordReset, error) {
	var reset PasswordReset
	if err := s.db.WithContext(ctx).First(&reset, "token = ?", token).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &reset, nil
}

func (s *gormStore) DeleteResetsForUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&PasswordReset{}).Error
}

func (s *gormStore) RotatePassword(ctx context.Context, userID uint, newHash, resetToken string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&User{}).Where("id = ?", userID).
			Update("password_hash", newHash).Error; err != nil {
			return err
		}
		if err := tx.Where("token = ?", resetToken).Delete(&PasswordReset{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&Session{}).Error
	})
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
