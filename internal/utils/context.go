package utils

import (
	"context"

	"campuseats-be/internal/auth"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "role"
)

// SetUserContext stores the authenticated identity. Called by the auth
// middleware once the token is verified.
func SetUserContext(ctx context.Context, id uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRoleFromContext(ctx) == auth.RoleAdmin
}

func IsCourier(ctx context.Context) bool {
	return GetUserRoleFromContext(ctx) == auth.RoleCourier
}
