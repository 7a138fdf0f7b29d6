package service

import (
	"context"

	"github.com/google/uuid"
)

// Session is what the auth provider hands back after a sign-in or refresh.
type Session struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}
