package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/folio/internal/domain/view"
	"github.com/khoahotran/folio/pkg/apperror"
)

const ProfileViewsCollection = "profile_views"

type viewDocument struct {
	ProfileID string    `bson:"profile_id"`
	VisitorID string    `bson:"visitor_id"`
	ViewedAt  time.Time `bson:"viewed_at"`
}

type MongoViewRepo struct {
	col *mongo.Collection
}

// NewMongoViewRepo stores views in db.profile_views. Call EnsureIndexes once
// at startup so duplicates are rejected by the unique index.
func NewMongoViewRepo(db *mongo.Database) *MongoViewRepo {
	return &MongoViewRepo{col: db.Collection(ProfileViewsCollection)}
}

func (r *MongoViewRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "profile_id", Value: 1},
				{Key: "visitor_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("profile_visitor_unique"),
		},
		{
			Keys:    bson.D{{Key: "profile_id", Value: 1}, {Key: "viewed_at", Value: -1}},
			Options: options.Index().SetName("profile_viewed_at_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("create profile_views indexes: %w", err)
	}
	return nil
}

func (r *MongoViewRepo) Record(ctx context.Context, v view.View) error {
	_, err := r.col.InsertOne(ctx, viewDocument{
		ProfileID: v.ProfileID.String(),
		VisitorID: v.VisitorID,
		ViewedAt:  v.ViewedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return apperror.NewInternal("failed to record view", err)
	}
	return nil
}

func (r *MongoViewRepo) Count(ctx context.Context, profileID uuid.UUID) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"profile_id": profileID.String()})
	if err != nil {
		return 0, apperror.NewInternal("failed to count views", err)
	}
	return n, nil
}
