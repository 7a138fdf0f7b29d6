package profile

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

// ResolveProfileUseCase maps a username or owner id to a stored profile.
// Absence is always an apperror.ErrNotFound, never a default profile.
type ResolveProfileUseCase struct {
	profileRepo profile.Repository
	cache       service.ProfileCache
	logger      logger.Logger
}

// NewResolveProfileUseCase builds the resolver. cache may be nil.
func NewResolveProfileUseCase(repo profile.Repository, cache service.ProfileCache, log logger.Logger) *ResolveProfileUseCase {
	return &ResolveProfileUseCase{
		profileRepo: repo,
		cache:       cache,
		logger:      log,
	}
}

func (uc *ResolveProfileUseCase) ResolveByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "ResolveByUsername")
	defer span.End()

	username = profile.NormalizeUsername(username)
	span.SetAttributes(attribute.String("username", username))

	if profile.ValidateUsername(username) != nil {
		return nil, apperror.NewNotFound("profile", username)
	}

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, username)
		if err != nil {
			uc.logger.Warn("Profile cache read failed", zap.String("username", username), zap.Error(err))
		} else if cached != nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		}
	}

	p, err := uc.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		if !apperror.IsNotFound(err) {
			span.RecordError(err)
		}
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, p); err != nil {
			uc.logger.Warn("Profile cache write failed", zap.String("username", username), zap.Error(err))
		}
	}
	return p, nil
}

func (uc *ResolveProfileUseCase) ResolveByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "ResolveByUserID")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	if userID == uuid.Nil {
		return nil, apperror.NewNotFound("profile", userID.String())
	}

	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			span.RecordError(err)
		}
		return nil, err
	}
	return p, nil
}
