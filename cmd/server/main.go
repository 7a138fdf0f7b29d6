package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/authprovider"
	"github.com/khoahotran/folio/adapters/event"
	httpAdapter "github.com/khoahotran/folio/adapters/http"
	"github.com/khoahotran/folio/adapters/http/render"
	"github.com/khoahotran/folio/adapters/media_storage"
	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/service"
	authUC "github.com/khoahotran/folio/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/folio/internal/application/usecase/profile"
	viewUC "github.com/khoahotran/folio/internal/application/usecase/view"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/domain/locale"
	"github.com/khoahotran/folio/internal/domain/route"
	"github.com/khoahotran/folio/internal/i18n"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
	"github.com/khoahotran/folio/pkg/tracing"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: cannot load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel)
	defer appLogger.Sync()
	appLogger.Info("Starting folio server...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(ctx, cfg, appLogger, "folio-server")
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", err)
		}
	}()

	// Locales and pages
	locales := locale.FromStrings(cfg.I18n.DefaultLocale, cfg.I18n.SupportedLocales)
	classifier := route.NewClassifier(cfg.I18n.SupportedLocales, cfg.Routing.ReservedPrefixes)

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		appLogger.Fatal("Cannot load translation catalogs", err)
	}
	if err := bundle.Require(locales.Supported()...); err != nil {
		appLogger.Fatal("Supported locale without catalog", err)
	}
	pages, err := render.NewRegistry()
	if err != nil {
		appLogger.Fatal("Cannot parse page templates", err)
	}

	// Storage
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	viewRepo, closeViewStore, err := persistence.NewViewStore(ctx, cfg, dbPool, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open view store", err, zap.String("store", cfg.Views.Store))
	}
	defer closeViewStore()

	var (
		profileCache service.ProfileCache
		viewDedup    viewUC.Dedup
	)
	if redisClient != nil {
		profileCache = persistence.NewRedisProfileCache(redisClient, cfg.Redis.ProfileTTL)
		viewDedup = persistence.NewRedisViewDedup(redisClient, cfg.Views.DedupTTL)
	}

	// View recording goes through Kafka when brokers are configured.
	var viewSink viewUC.Sink = viewRepo
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := event.NewViewPublisher(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka producer", err)
		}
		defer publisher.Close()
		viewSink = publisher
	}
	recorder := viewUC.NewRecorder(viewSink, viewDedup, viewUC.RecorderConfig{
		Workers:   cfg.Views.Workers,
		QueueSize: cfg.Views.QueueSize,
		Timeout:   cfg.Views.RecordTimeout,
	}, appLogger)

	// Services
	images, err := media_storage.NewImageResolver(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init image resolver", err)
	}

	verifier, err := newSessionVerifier(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Cannot init session verifier", err)
	}
	defer verifier.Close()

	authProvider := authprovider.Disabled()
	if cfg.Auth.SupabaseURL != "" {
		if authProvider, err = authprovider.NewSupabaseProvider(cfg, appLogger); err != nil {
			appLogger.Fatal("Cannot init Supabase auth provider", err)
		}
	} else {
		appLogger.Warn("Supabase not configured, /auth endpoints reject every sign-in")
	}

	// Use cases
	resolveUseCase := profileUC.NewResolveProfileUseCase(profileRepo, profileCache, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, viewRepo, profileCache, classifier, appLogger)
	sessionUseCase := authUC.NewSessionUseCase(authProvider, appLogger)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Logger:       appLogger,
		Classifier:   classifier,
		Locales:      locales,
		LocaleCookie: cfg.I18n.CookieName,
		Visitor: httpAdapter.VisitorConfig{
			CookieName:   cfg.Views.VisitorCookie,
			IssueCookie:  cfg.Views.IssueVisitorCookie,
			SecureCookie: cfg.Auth.CookieSecure,
		},
		CORSOrigins:  cfg.App.CORSOrigins,
		Verifier:     verifier,
		AccessCookie: cfg.Auth.AccessCookie,
		Public:       httpAdapter.NewPublicHandler(resolveUseCase, recorder, pages, bundle, images, locales, appLogger),
		API:          httpAdapter.NewAPIHandler(resolveUseCase, images, locales, cfg.I18n.CookieName, cfg.Auth.CookieSecure),
		Dashboard:    httpAdapter.NewDashboardHandler(profileUseCase, images, appLogger),
		Auth: httpAdapter.NewAuthHandler(sessionUseCase, httpAdapter.CookieConfig{
			AccessName:  cfg.Auth.AccessCookie,
			RefreshName: cfg.Auth.RefreshCookie,
			Secure:      cfg.Auth.CookieSecure,
		}),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           otelhttp.NewHandler(router, "folio-server"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server stopped unexpectedly", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	// Pending views are flushed after the last request finished.
	if err := recorder.Close(shutdownCtx); err != nil {
		appLogger.Warn("View recorder did not drain in time", zap.Error(err))
	}
	appLogger.Info("Server exited")
}

func newSessionVerifier(ctx context.Context, cfg config.Config) (*auth.SessionVerifier, error) {
	if cfg.Auth.JWKSURL != "" {
		return auth.NewJWKSVerifier(ctx, cfg.Auth.JWKSURL)
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("either auth.jwks_url or auth.jwt_secret must be set")
	}
	return auth.NewHS256Verifier(cfg.Auth.JWTSecret), nil
}
