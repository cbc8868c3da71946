// internal/app/features/campaigns/handler.go
package campaigns

import (
	"time"

	assignmentstore "github.com/dalemusser/evalhub/internal/app/store/assignments"
	campaignstore "github.com/dalemusser/evalhub/internal/app/store/campaigns"
	teamstore "github.com/dalemusser/evalhub/internal/app/store/teams"
	templatestore "github.com/dalemusser/evalhub/internal/app/store/templates"
	"github.com/dalemusser/evalhub/internal/app/system/assignment"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the campaign launch endpoints.
type Handler struct {
	Teams       *teamstore.Store
	Templates   *templatestore.Store
	Campaigns   *campaignstore.Store
	Assignments *assignmentstore.Store
	Builder     *assignment.Builder
	Log         *zap.Logger

	// Now is the request clock; "today" is its KST date.
	Now func() time.Time
}

// NewHandler wires the stores over db.
func NewHandler(db *mongo.Database, builder *assignment.Builder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if builder == nil {
		builder = assignment.NewBuilder(assignment.DefaultWeights, assignment.ModeAdvisory)
	}
	return &Handler{
		Teams:       teamstore.New(db),
		Templates:   templatestore.New(db),
		Campaigns:   campaignstore.New(db),
		Assignments: assignmentstore.New(db, logger),
		Builder:     builder,
		Log:         logger,
		Now:         func() time.Time { return time.Now().UTC() },
	}
}
