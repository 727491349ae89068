package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServiceForTest(t *testing.T) *AuthService {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewAuthService("admin@example.com", "s3cret", []byte("test-secret"), rdb)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "someone@else.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStoresValidatableSession(t *testing.T) {
	svc := newAuthServiceForTest(t)

	token, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.ValidateSession(context.Background(), "admin@example.com", token))
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newAuthServiceForTest(t)

	token, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)
	require.NoError(t, svc.ValidateSession(context.Background(), "admin@example.com", token))

	require.NoError(t, svc.Logout(context.Background(), "admin@example.com"))

	// the token still has a valid signature, but the session is gone
	assert.Error(t, svc.ValidateSession(context.Background(), "admin@example.com", token))
}

func TestValidateSessionRejectsReplacedToken(t *testing.T) {
	svc := newAuthServiceForTest(t)

	first, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)

	// simulate a session rotated by a later login
	require.NoError(t, svc.rdb.Set(context.Background(), sessionKey("admin@example.com"), "other-token", 0).Err())

	assert.Error(t, svc.ValidateSession(context.Background(), "admin@example.com", first))
}
