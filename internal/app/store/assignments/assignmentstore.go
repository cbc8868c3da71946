package assignmentstore

import (
	"context"
	"time"

	"github.com/dalemusser/evalhub/internal/app/system/txn"
	"github.com/dalemusser/evalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{c: db.Collection("evaluation_assignments"), log: logger}
}

// ListByCampaign returns all assignments of a campaign, ordered by
// evaluatee then relation.
func (s *Store) ListByCampaign(ctx context.Context, campaignID primitive.ObjectID) ([]models.Assignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "evaluatee_id", Value: 1}, {Key: "relation", Value: 1}, {Key: "evaluator_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"campaign_id": campaignID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByCampaign returns how many assignments a campaign has.
func (s *Store) CountByCampaign(ctx context.Context, campaignID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"campaign_id": campaignID})
}

// InsertBatch writes all assignments in one transaction: either every
// document is stored or none is. Zero IDs are assigned here and the
// stored slice is returned. On deployments without transactions the
// insert still happens, ordered, but is no longer all-or-nothing.
func (s *Store) InsertBatch(ctx context.Context, as []models.Assignment) ([]models.Assignment, error) {
	if len(as) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	out := make([]models.Assignment, len(as))
	docs := make([]interface{}, len(as))
	for i, a := range as {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
		out[i] = a
		docs[i] = a
	}

	err := txn.Run(ctx, s.c.Database().Client(), s.log, func(ctx context.Context) error {
		_, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
