package authprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
)

// tokenIssuer is the subset of the GoTrue client used for password sign-in
// and refresh.
type tokenIssuer interface {
	SignInWithEmailPassword(email, password string) (*types.TokenResponse, error)
	RefreshToken(refreshToken string) (*types.TokenResponse, error)
}

type supabaseProvider struct {
	auth    tokenIssuer
	signOut func(accessToken string) error
}

func NewSupabaseProvider(cfg config.Config, log logger.Logger) (service.AuthProvider, error) {
	if cfg.Auth.SupabaseURL == "" || cfg.Auth.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("supabase url and anon key are required")
	}
	client, err := supabase.NewClient(cfg.Auth.SupabaseURL, cfg.Auth.SupabaseAnonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot init supabase client: %w", err)
	}

	log.Info("Supabase auth provider ready.")
	return &supabaseProvider{
		auth: client.Auth,
		signOut: func(accessToken string) error {
			return client.Auth.WithToken(accessToken).Logout()
		},
	}, nil
}

func (p *supabaseProvider) SignIn(ctx context.Context, email, password string) (*service.Session, error) {
	resp, err := p.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("supabase sign-in failed: %w", err)
	}
	return toSession(resp)
}

func (p *supabaseProvider) Refresh(ctx context.Context, refreshToken string) (*service.Session, error) {
	resp, err := p.auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("supabase token refresh failed: %w", err)
	}
	return toSession(resp)
}

func (p *supabaseProvider) SignOut(ctx context.Context, accessToken string) error {
	if err := p.signOut(accessToken); err != nil {
		return fmt.Errorf("supabase sign-out failed: %w", err)
	}
	return nil
}

func toSession(resp *types.TokenResponse) (*service.Session, error) {
	if resp == nil || resp.AccessToken == "" {
		return nil, fmt.Errorf("supabase returned an empty session")
	}
	return &service.Session{
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// ErrNotConfigured is returned by the provider from Disabled.
var ErrNotConfigured = errors.New("auth provider is not configured")

type disabledProvider struct{}

// Disabled rejects every sign-in. It keeps the server usable for public
// pages when no Supabase project is configured.
func Disabled() service.AuthProvider {
	return disabledProvider{}
}

func (disabledProvider) SignIn(context.Context, string, string) (*service.Session, error) {
	return nil, ErrNotConfigured
}

func (disabledProvider) Refresh(context.Context, string) (*service.Session, error) {
	return nil, ErrNotConfigured
}

func (disabledProvider) SignOut(context.Context, string) error {
	return nil
}
