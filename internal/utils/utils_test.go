package utils

import (
	"context"
	"net/http/httptest"
	"testing"

	"campuseats-be/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContextRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := SetUserContext(context.Background(), id, auth.RoleCourier)

	got, ok := GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, auth.RoleCourier, GetUserRoleFromContext(ctx))
	assert.True(t, IsCourier(ctx))
	assert.False(t, IsAdmin(ctx))
}

func TestUserContextEmpty(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, GetUserRoleFromContext(ctx))
	assert.False(t, IsAdmin(ctx))
}

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONError(rec, "Cart not found", 404)

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Cart not found"}`, rec.Body.String())
}

func TestPtrString(t *testing.T) {
	assert.Equal(t, "", PtrString(nil))
	assert.Equal(t, "x", PtrString(StrPtr("x")))
}
