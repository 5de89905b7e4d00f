package service

import (
	"context"
	"testing"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	e := newEnv(t)
	op := e.operator(t, "editor1", model.RoleEditor)
	ctx := context.Background()

	res, err := e.auth.Login(ctx, &model.LoginRequest{Username: "editor1", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, testNow.Add(8*time.Hour), res.ExpiresAt)
	require.NotNil(t, res.Operator.LastLoginAt)

	claims, err := e.auth.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "editor1", claims.Subject)
	assert.Equal(t, model.RoleEditor, claims.Role)
	assert.NotEmpty(t, claims.ID)

	// Email login is case-insensitive.
	_, err = e.auth.Login(ctx, &model.LoginRequest{Username: "EDITOR1@oeh.jku.at", Password: "password1"})
	require.NoError(t, err)

	activity := e.db.Activity()
	require.NotEmpty(t, activity)
	assert.Equal(t, model.ActionLogin, activity[0].Action)
	require.NotNil(t, activity[0].OperatorID)
	assert.Equal(t, op.ID, *activity[0].OperatorID)
	assert.Equal(t, op.DisplayName, activity[0].ActorName)
	assert.Len(t, e.cache.Published, len(activity))
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	op := e.operator(t, "editor1", model.RoleEditor)
	ctx := context.Background()

	_, err := e.auth.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = e.auth.Login(ctx, &model.LoginRequest{Username: "editor1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	op.IsActive = false
	require.NoError(t, e.operators.Update(ctx, op))
	_, err = e.auth.Login(ctx, &model.LoginRequest{Username: "editor1", Password: "password1"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthenticate(t *testing.T) {
	e := newEnv(t)
	op := e.operator(t, "admin1", model.RoleAdmin)
	ctx := context.Background()

	token, _, err := e.auth.GenerateToken(op)
	require.NoError(t, err)
	claims, err := e.auth.ValidateToken(token)
	require.NoError(t, err)

	got, err := e.auth.Authenticate(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)

	op.IsActive = false
	require.NoError(t, e.operators.Update(ctx, op))
	_, err = e.auth.Authenticate(ctx, claims)
	assert.ErrorIs(t, err, ErrOperatorDeactivated)

	require.NoError(t, e.operators.Delete(ctx, op.ID))
	_, err = e.auth.Authenticate(ctx, claims)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogoutRevokesToken(t *testing.T) {
	e := newEnv(t)
	op := e.operator(t, "admin1", model.RoleAdmin)
	ctx := context.Background()

	token, _, err := e.auth.GenerateToken(op)
	require.NoError(t, err)
	claims, err := e.auth.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(ctx, claims))

	_, err = e.auth.Authenticate(ctx, claims)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	e := newEnv(t)
	op := e.operator(t, "admin1", model.RoleAdmin)

	token, _, err := e.auth.GenerateToken(op)
	require.NoError(t, err)

	e.advance(9 * time.Hour)
	_, err = e.auth.ValidateToken(token)
	assert.Error(t, err)

	_, err = e.auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	op := e.operator(t, "editor1", model.RoleEditor)
	ctx := context.Background()

	err := e.auth.ChangePassword(ctx, op, &model.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword"})
	assert.ErrorIs(t, err, ErrWrongCurrentPassword)

	err = e.auth.ChangePassword(ctx, op, &model.ChangePasswordRequest{CurrentPassword: "password1", NewPassword: "newpassword"})
	require.NoError(t, err)

	_, err = e.auth.Login(ctx, &model.LoginRequest{Username: "editor1", Password: "newpassword"})
	assert.NoError(t, err)
}

func TestChangePasswordMasterAlwaysRefused(t *testing.T) {
	e := newEnv(t)
	master := e.master(t)

	for _, current := range []string{"master-pass", "wrong", ""} {
		err := e.auth.ChangePassword(context.Background(), master, &model.ChangePasswordRequest{
			CurrentPassword: current, NewPassword: "whatever123",
		})
		assert.ErrorIs(t, err, ErrMasterPasswordImmutable)
	}
}
