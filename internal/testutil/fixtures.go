package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/evalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// Team builds (without storing) a team with n active members split into
// two parts. Member IDs are "<id>-1".."<id>-n"; the first member leads.
func Team(id string, n int) models.Team {
	t := models.Team{ID: id, Name: "Team " + id}
	var first, second []models.Member
	for i := 1; i <= n; i++ {
		m := models.Member{
			ID:     fmt.Sprintf("%s-%d", id, i),
			Name:   fmt.Sprintf("%s member %d", id, i),
			Status: models.MemberActive,
			TeamID: id,
		}
		if i == 1 {
			t.Lead = m.Name
		}
		if i <= (n+1)/2 {
			m.PartID = id + "-a"
			first = append(first, m)
		} else {
			m.PartID = id + "-b"
			second = append(second, m)
		}
	}
	t.Parts = []models.Part{
		{ID: id + "-a", Title: "A", Members: first},
		{ID: id + "-b", Title: "B", Members: second},
	}
	return t
}

// CreateTeam stores Team(id, n) and returns it.
func (f *Fixtures) CreateTeam(ctx context.Context, id string, n int) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := Team(id, n)
	team.CreatedAt = now
	team.UpdatedAt = now
	res, err := f.db.Collection("teams").InsertOne(ctx, team)
	if err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	team.MongoID = res.InsertedID.(primitive.ObjectID)
	return team
}

// CreateTemplate stores an evaluation template with the given title.
func (f *Fixtures) CreateTemplate(ctx context.Context, title string) models.Template {
	f.t.Helper()

	tmpl := models.Template{
		ID:      primitive.NewObjectID(),
		Title:   title,
		Content: bson.M{"questions": bson.A{"What went well?", "What to improve?"}},
	}
	if _, err := f.db.Collection("evaluation_templates").InsertOne(ctx, tmpl); err != nil {
		f.t.Fatalf("failed to create test template: %v", err)
	}
	return tmpl
}

// CreateRecurringCampaign stores an ACTIVE monthly recurring definition
// that fires on startDay.
func (f *Fixtures) CreateRecurringCampaign(ctx context.Context, title string, startDay int) models.Campaign {
	f.t.Helper()

	now := time.Now().UTC()
	recurring := true
	c := models.Campaign{
		ID:                    primitive.NewObjectID(),
		Title:                 title,
		TemplateID:            primitive.NewObjectID().Hex(),
		StartDate:             "2024-01-01",
		EndDate:               "2024-01-14",
		RaterGroups:           []models.RaterGroup{{Role: models.RelationSelf, Weight: 100}},
		PeerScope:             models.PeerScopeTeam,
		IsRecurring:           &recurring,
		RecurringType:         "monthly",
		RecurringStartDay:     models.NewFlexInt(startDay),
		RecurringDurationDays: models.NewFlexInt(14),
		Status:                models.CampaignActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if _, err := f.db.Collection("evaluation_campaigns").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test campaign: %v", err)
	}
	return c
}

// CreateAssignment stores an assignment for the campaign.
func (f *Fixtures) CreateAssignment(ctx context.Context, campaign models.Campaign, evaluatorID, evaluateeID, relation string) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Assignment{
		ID:            primitive.NewObjectID(),
		CampaignID:    campaign.ID,
		CampaignTitle: campaign.Title,
		EvaluatorID:   evaluatorID,
		EvaluateeID:   evaluateeID,
		Relation:      relation,
		DueDate:       campaign.EndDate,
		Status:        models.AssignmentSubmitted,
		Progress:      100,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("evaluation_assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}
