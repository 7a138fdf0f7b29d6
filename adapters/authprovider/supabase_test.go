package authprovider

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
)

type fakeIssuer struct {
	resp *types.TokenResponse
	err  error
}

func (f fakeIssuer) SignInWithEmailPassword(email, password string) (*types.TokenResponse, error) {
	return f.resp, f.err
}

func (f fakeIssuer) RefreshToken(refreshToken string) (*types.TokenResponse, error) {
	return f.resp, f.err
}

func TestSupabaseProvider_SignIn(t *testing.T) {
	userID := uuid.New()
	resp := &types.TokenResponse{}
	resp.AccessToken = "at"
	resp.RefreshToken = "rt"
	resp.ExpiresIn = 3600
	resp.User.ID = userID
	resp.User.Email = "john@example.com"

	p := &supabaseProvider{auth: fakeIssuer{resp: resp}}
	sess, err := p.SignIn(context.Background(), "john@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, userID, sess.UserID)
	assert.Equal(t, "rt", sess.RefreshToken)
	assert.Equal(t, 3600, sess.ExpiresIn)

	sess, err = p.Refresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "at", sess.AccessToken)
}

func TestSupabaseProvider_Errors(t *testing.T) {
	p := &supabaseProvider{auth: fakeIssuer{err: errors.New("invalid_grant")}}
	_, err := p.SignIn(context.Background(), "a@b.c", "x")
	assert.ErrorContains(t, err, "invalid_grant")

	p = &supabaseProvider{auth: fakeIssuer{resp: &types.TokenResponse{}}}
	_, err = p.Refresh(context.Background(), "rt")
	assert.ErrorContains(t, err, "empty session")

	p = &supabaseProvider{signOut: func(string) error { return errors.New("boom") }}
	assert.ErrorContains(t, p.SignOut(context.Background(), "at"), "boom")
}

func TestNewSupabaseProvider_RequiresConfig(t *testing.T) {
	_, err := NewSupabaseProvider(config.Config{}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestDisabledProvider(t *testing.T) {
	p := Disabled()
	_, err := p.SignIn(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoError(t, p.SignOut(context.Background(), "at"))
}
