package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, " Cook@Example.com ", "Cook", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NotEmpty(t, token)

	authed, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, token, err = svc.Login(ctx, "COOK@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "cook@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Register(context.Background(), "not-an-email", "", "short")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "email is not a valid address")
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "cook@example.com", "", "long-enough")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "cook@example.com", "", "long-enough")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthenticate_RejectsBadToken(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLinkTelegram(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "cook@example.com", "Cook", "long-enough")
	require.NoError(t, err)

	_, err = svc.UserByTelegram(ctx, 555)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.LinkTelegram(ctx, "cook@example.com", "wrong", 555)
	assert.ErrorIs(t, err, ErrUnauthorized)

	linked, err := svc.LinkTelegram(ctx, "cook@example.com", "long-enough", 555)
	require.NoError(t, err)
	require.NotNil(t, linked.TelegramID)
	assert.Equal(t, int64(555), *linked.TelegramID)

	found, err := svc.UserByTelegram(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	zero := int64(0)
	unlinked, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{TelegramID: &zero})
	require.NoError(t, err)
	assert.Nil(t, unlinked.TelegramID)
}
