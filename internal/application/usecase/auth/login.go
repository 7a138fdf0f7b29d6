package auth

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

var tracer = otel.Tracer("auth_usecase")

// SessionUseCase proxies sign-in, refresh and sign-out to the auth provider.
type SessionUseCase struct {
	provider service.AuthProvider
	logger   logger.Logger
}

func NewSessionUseCase(provider service.AuthProvider, log logger.Logger) *SessionUseCase {
	return &SessionUseCase{
		provider: provider,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type SessionOutput struct {
	Session *service.Session
}

func (uc *SessionUseCase) ExecuteLogin(ctx context.Context, input LoginInput) (*SessionOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperror.NewInvalidInput("email and password are required", nil)
	}

	sess, err := uc.provider.SignIn(ctx, email, input.Password)
	if err != nil {
		span.RecordError(err)
		uc.logger.Warn("Sign-in rejected", zap.String("email", email), zap.Error(err))
		return nil, apperror.NewUnauthorized("email or password is incorrect", err)
	}

	span.SetAttributes(attribute.String("user_id", sess.UserID.String()))
	return &SessionOutput{Session: sess}, nil
}

func (uc *SessionUseCase) ExecuteRefresh(ctx context.Context, refreshToken string) (*SessionOutput, error) {
	ctx, span := tracer.Start(ctx, "Refresh")
	defer span.End()

	if refreshToken == "" {
		return nil, apperror.NewUnauthorized("refresh token is missing", nil)
	}
	sess, err := uc.provider.Refresh(ctx, refreshToken)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewUnauthorized("session expired, please sign in again", err)
	}
	return &SessionOutput{Session: sess}, nil
}

// ExecuteLogout revokes the session at the provider. A provider failure is
// logged; the caller clears cookies regardless.
func (uc *SessionUseCase) ExecuteLogout(ctx context.Context, accessToken string) {
	ctx, span := tracer.Start(ctx, "Logout")
	defer span.End()

	if accessToken == "" {
		return
	}
	if err := uc.provider.SignOut(ctx, accessToken); err != nil {
		span.RecordError(err)
		uc.logger.Warn("Sign-out at provider failed", zap.Error(err))
	}
}
