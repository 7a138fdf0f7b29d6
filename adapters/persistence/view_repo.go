package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/folio/internal/domain/view"
	"github.com/khoahotran/folio/pkg/apperror"
)

type postgresViewRepo struct {
	db *pgxpool.Pool
}

func NewPostgresViewRepo(db *pgxpool.Pool) view.Repository {
	return &postgresViewRepo{db: db}
}

// Record inserts the view once; the (profile_id, visitor_id) primary key
// turns repeats into no-ops.
func (r *postgresViewRepo) Record(ctx context.Context, v view.View) error {
	query, args, err := psql.Insert("profile_views").
		Columns("profile_id", "visitor_id", "viewed_at").
		Values(v.ProfileID, v.VisitorID, v.ViewedAt).
		Suffix("ON CONFLICT (profile_id, visitor_id) DO NOTHING").
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build view insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperror.NewNotFound("profile", v.ProfileID.String())
		}
		return apperror.NewInternal("failed to record view", err)
	}
	return nil
}

func (r *postgresViewRepo) Count(ctx context.Context, profileID uuid.UUID) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("profile_views").
		Where("profile_id = ?", profileID).
		ToSql()
	if err != nil {
		return 0, apperror.NewInternal("failed to build view count", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperror.NewInternal("failed to count views", err)
	}
	return n, nil
}
