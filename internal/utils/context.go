package utils

import (
	"context"
)

type contextKey string

const (
	ContextUserIDKey contextKey = "userID"
	ContextRoleKey   contextKey = "role"
)

// SessionUser is the identity a resolved session carries into request context.
type SessionUser struct {
	UserID uint
	Role   string
}

func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ContextUserIDKey).(uint)
	return id, ok
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(ContextRoleKey).(string)
	return role, ok
}
