package http

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/view"
	"github.com/khoahotran/folio/pkg/apperror"
)

// memProfileRepo enforces the same uniqueness rules as the profiles table.
type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]profile.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[uuid.UUID]profile.Profile)}
}

func (r *memProfileRepo) GetByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("profile", username)
}

func (r *memProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("profile", userID.String())
}

func (r *memProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.Username == p.Username {
			return apperror.NewConflict("profile", "username", p.Username)
		}
		if existing.UserID == p.UserID {
			return apperror.NewConflict("profile", "user_id", p.UserID.String())
		}
	}
	r.profiles[p.ID] = *p
	return nil
}

func (r *memProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return apperror.NewNotFound("profile", p.ID.String())
	}
	for id, existing := range r.profiles {
		if id != p.ID && existing.Username == p.Username {
			return apperror.NewConflict("profile", "username", p.Username)
		}
	}
	r.profiles[p.ID] = *p
	return nil
}

func (r *memProfileRepo) IsUsernameAvailable(ctx context.Context, username string, excludingUserID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Username == username && p.UserID != excludingUserID {
			return false, nil
		}
	}
	return true, nil
}

type memViewRepo struct {
	mu    sync.Mutex
	views map[uuid.UUID]map[string]struct{}
}

func newMemViewRepo() *memViewRepo {
	return &memViewRepo{views: make(map[uuid.UUID]map[string]struct{})}
}

func (r *memViewRepo) Record(ctx context.Context, v view.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.views[v.ProfileID] == nil {
		r.views[v.ProfileID] = make(map[string]struct{})
	}
	r.views[v.ProfileID][v.VisitorID] = struct{}{}
	return nil
}

func (r *memViewRepo) Count(ctx context.Context, profileID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.views[profileID])), nil
}

type recordedView struct {
	ProfileID  uuid.UUID
	VisitorKey string
}

type spyRecorder struct {
	mu    sync.Mutex
	calls []recordedView
}

func (s *spyRecorder) Record(profileID uuid.UUID, visitorKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, recordedView{ProfileID: profileID, VisitorKey: visitorKey})
}

func (s *spyRecorder) Calls() []recordedView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedView(nil), s.calls...)
}

type fakeAuthProvider struct {
	password string
	userID   uuid.UUID
	signOuts []string
}

func (f *fakeAuthProvider) SignIn(ctx context.Context, email, password string) (*service.Session, error) {
	if password != f.password {
		return nil, errors.New("invalid login credentials")
	}
	return &service.Session{UserID: f.userID, Email: email, AccessToken: "access-" + email, RefreshToken: "refresh-" + email, ExpiresIn: 3600}, nil
}

func (f *fakeAuthProvider) Refresh(ctx context.Context, refreshToken string) (*service.Session, error) {
	if refreshToken != "refresh-john@example.com" {
		return nil, errors.New("invalid refresh token")
	}
	return &service.Session{UserID: f.userID, Email: "john@example.com", AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresIn: 3600}, nil
}

func (f *fakeAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	f.signOuts = append(f.signOuts, accessToken)
	return nil
}

type passthroughImages struct{}

func (passthroughImages) URL(ref string, _ service.ImageKind) string {
	return ref
}
