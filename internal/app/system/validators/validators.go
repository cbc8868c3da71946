// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/evalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections lists every collection EnsureAll manages, in creation order.
var Collections = []string{"teams", "evaluation_templates", "evaluation_campaigns", "evaluation_assignments"}

// EnsureAll creates the evalhub collections (if missing) and attaches
// JSON-Schema validators with validationLevel "moderate", so documents
// written before a rule existed stay updatable. Servers that reject
// collMod validators (some DocumentDB versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	schemas := map[string]bson.M{
		"teams":                  teamsSchema(),
		"evaluation_templates":   nil,
		"evaluation_campaigns":   campaignsSchema(),
		"evaluation_assignments": assignmentsSchema(),
	}

	existing := map[string]bool{}
	if names, err := db.ListCollectionNames(ctx, bson.M{}); err == nil {
		for _, n := range names {
			existing[n] = true
		}
	}

	var problems []string
	for _, coll := range Collections {
		if !existing[coll] {
			if err := db.CreateCollection(ctx, coll); err != nil && !isNamespaceExists(err) {
				zap.L().Warn("createCollection failed", zap.String("collection", coll), zap.Error(err))
				problems = append(problems, coll+": "+err.Error())
				continue
			}
			zap.L().Info("created collection", zap.String("collection", coll))
		}

		schema := schemas[coll]
		if schema == nil {
			continue
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				continue
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

func isNamespaceExists(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 48 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

// isUnsupported matches "no such command" (59) and "not implemented" (115).
func isUnsupported(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || ce.Code == 115) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such command") ||
		strings.Contains(s, "not implemented") ||
		strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

// flexInt accepts every encoding a recurring day count has been stored in.
var flexInt = bson.M{"bsonType": bson.A{"int", "long", "double", "string", "null"}}

func teamsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"id", "name"},
			"properties": bson.M{
				"id":      nonBlank,
				"name":    bson.M{"bsonType": "string"},
				"lead":    bson.M{"bsonType": bson.A{"string", "null"}},
				"lead_id": bson.M{"bsonType": bson.A{"string", "null"}},
				"parts":   bson.M{"bsonType": bson.A{"array", "null"}},
				"members": bson.M{"bsonType": bson.A{"array", "null"}},
			},
		},
	}
}

func campaignsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "status"},
			"properties": bson.M{
				"title":  nonBlank,
				"status": bson.M{"enum": bson.A{models.CampaignDraft, models.CampaignActive, models.CampaignClosed}},

				"is_recurring":            bson.M{"bsonType": bson.A{"bool", "null"}},
				"recurring_type":          bson.M{"bsonType": bson.A{"string", "null"}},
				"recurring_start_day":     flexInt,
				"recurring_duration_days": flexInt,
				"parent_campaign_id":      bson.M{"bsonType": bson.A{"objectId", "null"}},
				"peer_count":              bson.M{"bsonType": bson.A{"int", "long", "double"}},
			},
		},
	}
}

func assignmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"campaign_id", "evaluator_id", "evaluatee_id", "relation", "status"},
			"properties": bson.M{
				"campaign_id":  bson.M{"bsonType": "objectId"},
				"evaluator_id": nonBlank,
				"evaluatee_id": nonBlank,
				"relation":     bson.M{"enum": bson.A{models.RelationSelf, models.RelationLeader, models.RelationPeer}},
				"status":       bson.M{"bsonType": "string"},
				"progress":     bson.M{"bsonType": bson.A{"int", "long", "double"}},
			},
		},
	}
}
