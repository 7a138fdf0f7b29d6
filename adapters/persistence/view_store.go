package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/domain/view"
	"github.com/khoahotran/folio/pkg/logger"
)

// NewViewStore opens the view store selected by views.store. The returned
// func releases whatever the store opened beyond the shared pool.
func NewViewStore(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, log logger.Logger) (view.Repository, func(), error) {
	switch cfg.Views.Store {
	case "mongo":
		client, err := NewMongoClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		repo := NewMongoViewRepo(client.Database(cfg.Mongo.Database))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = DisconnectMongo(client)
			return nil, nil, fmt.Errorf("ensure view indexes: %w", err)
		}
		closeFn := func() {
			if err := DisconnectMongo(client); err != nil {
				log.Warn("Failed to disconnect MongoDB", zap.Error(err))
			}
		}
		return repo, closeFn, nil
	default:
		return NewPostgresViewRepo(pool), func() {}, nil
	}
}
