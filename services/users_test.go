package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biomimic/auth"
)

func TestRegisterUpsertsByEmail(t *testing.T) {
	db := newTestDB(t)
	issuer := auth.NewIssuer("test-secret", time.Hour)
	svc := NewUserService(db, nopLogger, issuer)
	ctx := context.Background()

	first, token, err := svc.Register(ctx, "Ada", " Ada@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", first.Email)
	id, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, first.ID, id)

	again, _, err := svc.Register(ctx, "Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Ada Lovelace", again.Name)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
}

func TestRegisterValidatesEmail(t *testing.T) {
	svc := NewUserService(newTestDB(t), nopLogger, auth.NewIssuer("s", time.Hour))
	_, _, err := svc.Register(context.Background(), "x", "not-an-email")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Get(context.Background(), 77)
	require.ErrorIs(t, err, ErrNotFound)
}
