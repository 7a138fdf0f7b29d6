package profile

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/view"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) GetByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfileRepo) IsUsernameAvailable(ctx context.Context, username string, excludingUserID uuid.UUID) (bool, error) {
	args := m.Called(ctx, username, excludingUserID)
	return args.Bool(0), args.Error(1)
}

type mockViewRepo struct {
	mock.Mock
}

func (m *mockViewRepo) Record(ctx context.Context, v view.View) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockViewRepo) Count(ctx context.Context, profileID uuid.UUID) (int64, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(int64), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, username string) (*profile.Profile, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, usernames ...string) error {
	return m.Called(ctx, usernames).Error(0)
}

type stubPolicy struct {
	reserved []string
	locales  []string
}

func (s stubPolicy) IsReserved(segment string) bool {
	for _, r := range s.reserved {
		if r == segment {
			return true
		}
	}
	return false
}

func (s stubPolicy) IsLocale(segment string) bool {
	for _, l := range s.locales {
		if l == segment {
			return true
		}
	}
	return false
}

var testPolicy = stubPolicy{
	reserved: []string{"dashboard", "api", "auth"},
	locales:  []string{"en", "id"},
}
