package service

import (
	"context"

	"github.com/khoahotran/folio/internal/domain/profile"
)

// ProfileCache is a read-through cache keyed by normalized username.
// A miss is (nil, nil).
type ProfileCache interface {
	Get(ctx context.Context, username string) (*profile.Profile, error)
	Set(ctx context.Context, p *profile.Profile) error
	Invalidate(ctx context.Context, usernames ...string) error
}
