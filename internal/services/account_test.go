package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehub-dev/gamehub/internal/apperr"
	"github.com/gamehub-dev/gamehub/internal/models"
)

func TestLoginWithUsername(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	pair, err := f.accounts.Login("alice", "Passw0rd!")
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiry.After(pair.AccessExpiry))
}

func TestLoginWithEmail(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	pair, err := f.accounts.Login("alice@example.com", "Passw0rd!")
	require.NoError(t, err)

	claims, err := f.issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestLoginUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.Login("nobody", "Passw0rd!")

	assert.True(t, apperr.IsNotFound(err))
}

func TestLoginUnconfirmedEmail(t *testing.T) {
	f := newFixture(t)

	user := f.createUser(t, "bob", "bob@example.com", models.RoleUser)
	user.EmailConfirmed = false
	require.NoError(t, f.gdb.Model(user).Update("email_confirmed", false).Error)

	_, err := f.accounts.Login("bob", "Passw0rd!")

	assert.True(t, apperr.IsForbidden(err))
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	_, err := f.accounts.Login("alice", "wrong-password")

	assert.True(t, apperr.IsBadRequest(err))
}

func TestLoginPersistsRefreshToken(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	pair, err := f.accounts.Login("alice", "Passw0rd!")
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, f.gdb.First(&stored, "id = ?", user.ID).Error)

	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
	assert.WithinDuration(t, pair.RefreshExpiry, stored.RefreshTokenExpiry, time.Second)
}

func TestRefreshRotatesTokens(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	pair, err := f.accounts.Login("alice", "Passw0rd!")
	require.NoError(t, err)

	// Signing resolution is one second; make sure the rotated token differs.
	time.Sleep(1100 * time.Millisecond)

	rotated, err := f.accounts.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old token was replaced, so a second redemption must fail.
	_, err = f.accounts.Refresh(pair.RefreshToken)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestRefreshWithAccessTokenRejected(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	pair, err := f.accounts.Login("alice", "Passw0rd!")
	require.NoError(t, err)

	_, err = f.accounts.Refresh(pair.AccessToken)

	assert.True(t, apperr.IsBadRequest(err))
}

func TestRefreshExpired(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "alice", "alice@example.com", models.RoleUser)

	pair, err := f.accounts.Login("alice", "Passw0rd!")
	require.NoError(t, err)

	expired := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, f.gdb.Model(user).Update("refresh_token_expiry", expired).Error)

	_, err = f.accounts.Refresh(pair.RefreshToken)

	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestRefreshEmptyToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.Refresh("")

	assert.True(t, apperr.IsBadRequest(err))
}
