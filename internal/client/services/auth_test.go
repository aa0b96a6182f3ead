package services

import (
	"context"
	"io"
	"testing"

	"github.com/goodnightlabs/goodnight/internal/client/repositories/settings"
	"github.com/goodnightlabs/goodnight/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *stubRemote, settings.Repository) {
	t.Helper()
	settingsRepo := settings.NewSQLiteRepository(setupDB(t))
	remote := &stubRemote{}
	svc := NewAuthService(remote, settingsRepo, logging.NewJSONLogger(io.Discard))
	return svc, remote, settingsRepo
}

func TestLogin_PersistsSession(t *testing.T) {
	svc, remote, settingsRepo := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, "alice", "secret"))

	userID, ok := svc.CurrentUserID()
	require.True(t, ok)
	assert.Equal(t, testUser, userID)
	assert.Equal(t, "alice", svc.Username())
	assert.Equal(t, "tok-alice", remote.Token())

	token, err := settingsRepo.Get(ctx, settings.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-alice", string(token))
}

func TestRestore_RebuildsSessionOffline(t *testing.T) {
	svc, remote, settingsRepo := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, settingsRepo.Set(ctx, settings.KeyToken, []byte("saved-token")))
	require.NoError(t, settingsRepo.Set(ctx, settings.KeyUserID, []byte(testUser)))
	require.NoError(t, settingsRepo.Set(ctx, settings.KeyUsername, []byte("alice")))

	require.NoError(t, svc.Restore(ctx))

	userID, ok := svc.CurrentUserID()
	require.True(t, ok)
	assert.Equal(t, testUser, userID)
	assert.Equal(t, "saved-token", remote.Token())
}

func TestRestore_NoSessionIsNoOp(t *testing.T) {
	svc, remote, _ := newAuthFixture(t)

	require.NoError(t, svc.Restore(context.Background()))

	_, ok := svc.CurrentUserID()
	assert.False(t, ok)
	assert.Empty(t, remote.Token())
}

func TestLogout_ForgetsSession(t *testing.T) {
	svc, remote, settingsRepo := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, "alice", "secret"))
	require.NoError(t, svc.Logout(ctx))

	_, ok := svc.CurrentUserID()
	assert.False(t, ok)
	assert.Empty(t, remote.Token())

	token, err := settingsRepo.Get(ctx, settings.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, token)
}
