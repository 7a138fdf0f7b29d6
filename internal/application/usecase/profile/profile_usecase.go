package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/view"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

// UsernamePolicy knows which first path segments are taken by the system.
type UsernamePolicy interface {
	IsReserved(segment string) bool
	IsLocale(segment string) bool
}

// Reasons a username is unavailable.
const (
	ReasonInvalid  = "invalid"
	ReasonReserved = "reserved"
	ReasonTaken    = "taken"
)

const maxSuffixedCandidates = 9

type ProfileUseCase struct {
	profileRepo profile.Repository
	viewRepo    view.Repository
	cache       service.ProfileCache
	policy      UsernamePolicy
	logger      logger.Logger
	now         func() time.Time
}

// NewProfileUseCase builds the dashboard use case. cache may be nil.
func NewProfileUseCase(repo profile.Repository, views view.Repository, cache service.ProfileCache, policy UsernamePolicy, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		viewRepo:    views,
		cache:       cache,
		policy:      policy,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type EnsureProfileInput struct {
	UserID uuid.UUID
	Email  string
}

type EnsureProfileOutput struct {
	Profile   *profile.Profile
	Created   bool
	ViewCount int64
}

// ExecuteEnsureProfile returns the caller's profile, creating an empty one on
// the first dashboard visit.
func (uc *ProfileUseCase) ExecuteEnsureProfile(ctx context.Context, input EnsureProfileInput) (*EnsureProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "EnsureProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	p, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	created := false
	switch {
	case err == nil:
	case apperror.IsNotFound(err):
		p, err = uc.create(ctx, input)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		created = true
	default:
		span.RecordError(err)
		return nil, err
	}

	count, err := uc.viewRepo.Count(ctx, p.ID)
	if err != nil {
		// The dashboard still works without the counter.
		uc.logger.Warn("Failed to count profile views", zap.String("profile_id", p.ID.String()), zap.Error(err))
		count = 0
	}
	return &EnsureProfileOutput{Profile: p, Created: created, ViewCount: count}, nil
}

func (uc *ProfileUseCase) create(ctx context.Context, input EnsureProfileInput) (*profile.Profile, error) {
	base := suggestUsername(input.Email, input.UserID)
	candidates := []string{base}
	for i := 2; i <= maxSuffixedCandidates; i++ {
		candidates = append(candidates, fmt.Sprintf("%s-%d", base, i))
	}
	candidates = append(candidates, fmt.Sprintf("%s-%s", base, input.UserID.String()[:8]))

	for _, candidate := range candidates {
		if reason, err := uc.unavailableReason(ctx, candidate, input.UserID); err != nil {
			return nil, err
		} else if reason != "" {
			continue
		}

		p := profile.New(input.UserID, candidate, uc.now())
		err := uc.profileRepo.Create(ctx, p)
		if err == nil {
			uc.logger.Info("Created profile", zap.String("user_id", input.UserID.String()), zap.String("username", p.Username))
			return p, nil
		}
		if !errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		// Either the username was taken in the meantime or a concurrent
		// first visit already created this user's profile.
		if existing, getErr := uc.profileRepo.GetByUserID(ctx, input.UserID); getErr == nil {
			return existing, nil
		}
	}
	return nil, apperror.NewConflict("profile", "username", base)
}

// suggestUsername derives a valid username from the e-mail local part,
// falling back to the user id.
func suggestUsername(email string, userID uuid.UUID) string {
	local, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")

	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == '.' || r == '+':
			b.WriteRune('-')
		}
	}
	s := strings.Trim(b.String(), "-_")
	if len(s) > 20 {
		s = strings.Trim(s[:20], "-_")
	}
	if len(s) < 3 {
		s = "user-" + userID.String()[:8]
	}
	return s
}

type UpdateSectionInput struct {
	UserID  uuid.UUID
	Section profile.Section
	Data    *profile.Profile
}

type UpdateSectionOutput struct {
	Profile *profile.Profile
}

// ExecuteUpdateSection replaces one wizard section of the caller's profile.
func (uc *ProfileUseCase) ExecuteUpdateSection(ctx context.Context, input UpdateSectionInput) (*UpdateSectionOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateSection")
	defer span.End()
	span.SetAttributes(attribute.String("section", string(input.Section)))

	if input.Data == nil {
		return nil, apperror.NewInvalidInput("section body is required", nil)
	}

	p, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := p.Replace(input.Section, input.Data); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := p.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	p.UpdatedAt = uc.now()

	if err := uc.profileRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.invalidate(ctx, p.Username)
	return &UpdateSectionOutput{Profile: p}, nil
}

type CheckUsernameInput struct {
	UserID   uuid.UUID
	Username string
}

type CheckUsernameOutput struct {
	Username  string
	Available bool
	Reason    string
}

// ExecuteCheckUsername reports whether the caller could rename to Username.
// The caller's own current username counts as available.
func (uc *ProfileUseCase) ExecuteCheckUsername(ctx context.Context, input CheckUsernameInput) (*CheckUsernameOutput, error) {
	username := profile.NormalizeUsername(input.Username)
	reason, err := uc.unavailableReason(ctx, username, input.UserID)
	if err != nil {
		return nil, err
	}
	return &CheckUsernameOutput{Username: username, Available: reason == "", Reason: reason}, nil
}

func (uc *ProfileUseCase) unavailableReason(ctx context.Context, username string, excluding uuid.UUID) (string, error) {
	if profile.ValidateUsername(username) != nil {
		return ReasonInvalid, nil
	}
	if uc.policy.IsReserved(username) || uc.policy.IsLocale(username) {
		return ReasonReserved, nil
	}
	ok, err := uc.profileRepo.IsUsernameAvailable(ctx, username, excluding)
	if err != nil {
		return "", err
	}
	if !ok {
		return ReasonTaken, nil
	}
	return "", nil
}

type RenameInput struct {
	UserID   uuid.UUID
	Username string
}

type RenameOutput struct {
	Profile     *profile.Profile
	OldUsername string
}

// ExecuteRename changes the caller's public username after an availability
// check. The store's unique constraint settles races.
func (uc *ProfileUseCase) ExecuteRename(ctx context.Context, input RenameInput) (*RenameOutput, error) {
	ctx, span := tracer.Start(ctx, "Rename")
	defer span.End()

	username := profile.NormalizeUsername(input.Username)
	reason, err := uc.unavailableReason(ctx, username, input.UserID)
	if err != nil {
		return nil, err
	}
	switch reason {
	case ReasonInvalid:
		return nil, apperror.NewInvalidInput(profile.ErrInvalidUsername.Error(), profile.ErrInvalidUsername)
	case ReasonReserved:
		return nil, apperror.NewInvalidInput(fmt.Sprintf("username '%s' is reserved", username), nil)
	case ReasonTaken:
		return nil, apperror.NewConflict("profile", "username", username)
	}

	p, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	old := p.Username
	if old == username {
		return &RenameOutput{Profile: p, OldUsername: old}, nil
	}

	p.Username = username
	p.UpdatedAt = uc.now()
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.invalidate(ctx, old, username)
	uc.logger.Info("Renamed profile", zap.String("user_id", input.UserID.String()), zap.String("from", old), zap.String("to", username))
	return &RenameOutput{Profile: p, OldUsername: old}, nil
}

// ExecuteCountViews returns the number of distinct visitors of the caller's profile.
func (uc *ProfileUseCase) ExecuteCountViews(ctx context.Context, userID uuid.UUID) (int64, error) {
	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	count, err := uc.viewRepo.Count(ctx, p.ID)
	if err != nil {
		return 0, apperror.NewInternal("failed to count views", err)
	}
	return count, nil
}

func (uc *ProfileUseCase) invalidate(ctx context.Context, usernames ...string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, usernames...); err != nil {
		uc.logger.Warn("Profile cache invalidation failed", zap.Strings("usernames", usernames), zap.Error(err))
	}
}
