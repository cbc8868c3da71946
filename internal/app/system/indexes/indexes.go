// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem shows up in one startup failure.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureTeams(ctx, db); err != nil {
		problems = append(problems, "teams: "+err.Error())
	}
	if err := ensureTemplates(ctx, db); err != nil {
		problems = append(problems, "evaluation_templates: "+err.Error())
	}
	if err := ensureCampaigns(ctx, db); err != nil {
		problems = append(problems, "evaluation_campaigns: "+err.Error())
	}
	if err := ensureAssignments(ctx, db); err != nil {
		problems = append(problems, "evaluation_assignments: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// ensureIndexSet reconciles desired indexes against what the collection
// has. A matching key pattern with the same uniqueness is reused; a
// mismatch is dropped and recreated under the desired options.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing := map[string]existingIndex{}
	// A collection that does not exist yet has no indexes to reconcile.
	if cur, err := coll.Indexes().List(ctx); err == nil {
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
		cur.Close(ctx)
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == isUnique(unique) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func ensureTeams(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("teams"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("uniq_team_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_team_name"),
		},
	})
}

func ensureTemplates(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("evaluation_templates"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetName("idx_template_title"),
		},
	})
}

func ensureCampaigns(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("evaluation_campaigns"), []mongo.IndexModel{
		{
			// Scheduler candidate query
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "is_recurring", Value: 1}},
			Options: options.Index().SetName("idx_campaign_status_recurring"),
		},
		{
			Keys:    bson.D{{Key: "parent_campaign_id", Value: 1}, {Key: "start_date", Value: 1}},
			Options: options.Index().SetName("idx_campaign_parent_start"),
		},
	})
}

func ensureAssignments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("evaluation_assignments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "campaign_id", Value: 1}, {Key: "evaluatee_id", Value: 1}},
			Options: options.Index().SetName("idx_assignment_campaign_evaluatee"),
		},
		{
			Keys:    bson.D{{Key: "evaluator_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_assignment_evaluator_status"),
		},
	})
}
