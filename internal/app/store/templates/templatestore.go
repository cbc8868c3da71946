package templatestore

import (
	"context"

	"github.com/dalemusser/evalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("evaluation_templates")}
}

// GetByID returns the template with the given hex _id. An id that is not
// a valid ObjectID reports mongo.ErrNoDocuments, same as a missing one.
func (s *Store) GetByID(ctx context.Context, id string) (models.Template, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Template{}, mongo.ErrNoDocuments
	}
	var t models.Template
	err = s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&t)
	return t, err
}

func (s *Store) List(ctx context.Context) ([]models.Template, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Template
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
