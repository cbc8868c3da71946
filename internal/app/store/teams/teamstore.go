package teamstore

import (
	"context"

	"github.com/dalemusser/evalhub/internal/app/system/roster"
	"github.com/dalemusser/evalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// Dropped counts what ListAll left out.
type Dropped struct {
	// Members lacking an ID.
	Members int
	// Teams is the number of team documents that failed to decode.
	Teams int
}

// Any reports whether anything was left out.
func (d Dropped) Any() bool { return d.Members > 0 || d.Teams > 0 }

// ListAll returns every team ordered by name, with members lacking an ID
// removed. Team documents that do not decode are skipped, so one bad row
// never hides the rest of the roster. dropped counts both for logging.
func (s *Store) ListAll(ctx context.Context) (teams []models.Team, dropped Dropped, err error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, Dropped{}, err
	}
	defer cur.Close(ctx)
	var out []models.Team
	for cur.Next(ctx) {
		var t models.Team
		if err := cur.Decode(&t); err != nil {
			dropped.Teams++
			continue
		}
		out = append(out, t)
	}
	if err := cur.Err(); err != nil {
		return nil, Dropped{}, err
	}
	teams, dropped.Members = roster.Normalize(out)
	return teams, dropped, nil
}

// GetByID returns the team whose business id (not _id) is id.
func (s *Store) GetByID(ctx context.Context, id string) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return t, err
	}
	normalized, _ := roster.Normalize([]models.Team{t})
	return normalized[0], nil
}
