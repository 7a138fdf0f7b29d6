package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	usernameConstraint    = "profiles_username_key"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var profileColumns = []string{
	"id", "user_id", "username", "display_name", "bio", "template_id",
	"profile_image", "banner_image", "cv_url",
	"links", "education", "experience", "skills", "projects", "contact",
	"created_at", "updated_at",
}

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, log logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: log}
}

// profileJSON holds the JSONB columns in their wire form.
type profileJSON struct {
	links, education, experience, skills, projects, contact []byte
}

func marshalProfileJSON(p *profile.Profile) (*profileJSON, error) {
	var out profileJSON
	var err error
	if out.links, err = json.Marshal(nonNilSlice(p.Links)); err != nil {
		return nil, fmt.Errorf("marshal links: %w", err)
	}
	if out.education, err = json.Marshal(nonNilSlice(p.Education)); err != nil {
		return nil, fmt.Errorf("marshal education: %w", err)
	}
	if out.experience, err = json.Marshal(nonNilSlice(p.Experience)); err != nil {
		return nil, fmt.Errorf("marshal experience: %w", err)
	}
	if out.skills, err = json.Marshal(nonNilSlice(p.Skills)); err != nil {
		return nil, fmt.Errorf("marshal skills: %w", err)
	}
	if out.projects, err = json.Marshal(nonNilSlice(p.Projects)); err != nil {
		return nil, fmt.Errorf("marshal projects: %w", err)
	}
	if out.contact, err = json.Marshal(p.Contact); err != nil {
		return nil, fmt.Errorf("marshal contact: %w", err)
	}
	return &out, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r *postgresProfileRepo) scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	var raw profileJSON

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&p.DisplayName,
		&p.Bio,
		&p.TemplateID,
		&p.ProfileImage,
		&p.BannerImage,
		&p.CVURL,
		&raw.links,
		&raw.education,
		&raw.experience,
		&raw.skills,
		&raw.projects,
		&raw.contact,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// A corrupt collection degrades to empty rather than hiding the profile.
	unmarshal := func(column string, data []byte, dst any) {
		if err := json.Unmarshal(data, dst); err != nil {
			r.logger.Warn("Failed to unmarshal profile column",
				zap.String("profile_id", p.ID.String()), zap.String("column", column), zap.Error(err))
		}
	}
	unmarshal("links", raw.links, &p.Links)
	unmarshal("education", raw.education, &p.Education)
	unmarshal("experience", raw.experience, &p.Experience)
	unmarshal("skills", raw.skills, &p.Skills)
	unmarshal("projects", raw.projects, &p.Projects)
	unmarshal("contact", raw.contact, &p.Contact)

	p.Links = nonNilSlice(p.Links)
	p.Education = nonNilSlice(p.Education)
	p.Experience = nonNilSlice(p.Experience)
	p.Skills = nonNilSlice(p.Skills)
	p.Projects = nonNilSlice(p.Projects)
	return p, nil
}

func (r *postgresProfileRepo) getOne(ctx context.Context, where sq.Eq, identifier string) (*profile.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile query", err)
	}

	p, err := r.scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("profile", identifier)
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) GetByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	return r.getOne(ctx, sq.Eq{"username": username}, username)
}

func (r *postgresProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	return r.getOne(ctx, sq.Eq{"user_id": userID}, userID.String())
}

func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	raw, err := marshalProfileJSON(p)
	if err != nil {
		return apperror.NewInternal("failed to encode profile", err)
	}

	query, args, err := psql.Insert("profiles").
		Columns(profileColumns...).
		Values(
			p.ID, p.UserID, p.Username, p.DisplayName, p.Bio, p.TemplateID,
			p.ProfileImage, p.BannerImage, p.CVURL,
			raw.links, raw.education, raw.experience, raw.skills, raw.projects, raw.contact,
			p.CreatedAt, p.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build profile insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return r.mapWriteError(err, p)
	}
	return nil
}

func (r *postgresProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	raw, err := marshalProfileJSON(p)
	if err != nil {
		return apperror.NewInternal("failed to encode profile", err)
	}

	query, args, err := psql.Update("profiles").
		SetMap(map[string]any{
			"username":      p.Username,
			"display_name":  p.DisplayName,
			"bio":           p.Bio,
			"template_id":   p.TemplateID,
			"profile_image": p.ProfileImage,
			"banner_image":  p.BannerImage,
			"cv_url":        p.CVURL,
			"links":         raw.links,
			"education":     raw.education,
			"experience":    raw.experience,
			"skills":        raw.skills,
			"projects":      raw.projects,
			"contact":       raw.contact,
			"updated_at":    p.UpdatedAt,
		}).
		Where(sq.Eq{"id": p.ID, "user_id": p.UserID}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build profile update", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return r.mapWriteError(err, p)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("profile", p.ID.String())
	}
	return nil
}

func (r *postgresProfileRepo) IsUsernameAvailable(ctx context.Context, username string, excludingUserID uuid.UUID) (bool, error) {
	query, args, err := psql.Select("1").
		From("profiles").
		Where(sq.Eq{"username": username}).
		Where(sq.NotEq{"user_id": excludingUserID}).
		Prefix("SELECT NOT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, apperror.NewInternal("failed to build availability query", err)
	}

	var available bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&available); err != nil {
		return false, apperror.NewInternal("failed to check username availability", err)
	}
	return available, nil
}

func (r *postgresProfileRepo) mapWriteError(err error, p *profile.Profile) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if pgErr.ConstraintName == usernameConstraint {
			return apperror.NewConflict("profile", "username", p.Username)
		}
		return apperror.NewConflict("profile", "user_id", p.UserID.String())
	}
	r.logger.Error("Profile write failed", err, zap.String("profile_id", p.ID.String()))
	return apperror.NewInternal("failed to save profile", err)
}
