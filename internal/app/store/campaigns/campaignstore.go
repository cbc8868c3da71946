package campaignstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/evalhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateID is returned by Create when a campaign with the same _id exists.
var ErrDuplicateID = errors.New("campaign id already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("evaluation_campaigns")}
}

// Create inserts a campaign document.
//
// If ID is zero a new ObjectID is assigned. CreatedAt/UpdatedAt default
// to now (UTC) when zero.
func (s *Store) Create(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	now := time.Now().UTC()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return c, ErrDuplicateID
		}
		return c, err
	}
	return c, nil
}

// GetByID returns a single campaign by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Campaign, error) {
	var c models.Campaign
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	return c, err
}

// ListActive returns every campaign whose status is ACTIVE.
//
// Documents are decoded one at a time. A document that does not fit
// models.Campaign is left out of campaigns and reported in undecodable,
// one error per document naming its _id. err is reserved for query and
// cursor failures.
func (s *Store) ListActive(ctx context.Context) (campaigns []models.Campaign, undecodable []error, err error) {
	cur, err := s.c.Find(ctx, bson.M{"status": models.CampaignActive})
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var c models.Campaign
		if err := cur.Decode(&c); err != nil {
			undecodable = append(undecodable, fmt.Errorf("campaign %s: %w", rawID(cur.Current), err))
			continue
		}
		campaigns = append(campaigns, c)
	}
	if err := cur.Err(); err != nil {
		return nil, nil, err
	}
	return campaigns, undecodable, nil
}

func rawID(doc bson.Raw) string {
	v, err := doc.LookupErr("_id")
	if err != nil {
		return "<no _id>"
	}
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	return v.String()
}

// SetStatus changes a campaign's status and bumps updated_at.
// It returns mongo.ErrNoDocuments when no campaign has the id.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
