package campaigns

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/evalhub/internal/app/system/assignment"
	"github.com/dalemusser/evalhub/internal/domain/models"
	"github.com/dalemusser/evalhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database, mode assignment.Mode) *Handler {
	t.Helper()
	h := NewHandler(db, assignment.NewBuilder(assignment.DefaultWeights, mode), zap.NewNop())
	h.Now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }
	return h
}

func launchBody(templateID string, peerCount int, targets ...string) map[string]any {
	return map[string]any{
		"template_id": templateID,
		"title":       "Spring <b>review</b>",
		"description": `<p>Quarterly check-in</p><script>alert(1)</script>`,
		"timing":      "now",
		"end_date":    "2024-04-30",
		"peer_scope":  "team",
		"peer_count":  peerCount,
		"rater_groups": []map[string]any{
			{"role": "SELF", "weight": 20},
			{"role": "LEADER", "weight": 50},
			{"role": "PEER", "weight": 30},
		},
		"target_ids": targets,
	}
}

func TestServePeerAvailability(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTeam(ctx, "alpha", 4)
	fixtures.CreateTeam(ctx, "bravo", 3)
	h := newTestHandler(t, db, assignment.ModeAdvisory)

	rec := httptest.NewRecorder()
	h.ServePeerAvailability(rec, testutil.JSONRequest(t, http.MethodPost, "/campaigns/peer-availability", map[string]any{
		"target_ids":     []string{"alpha-2", "bravo-1"},
		"peer_scope":     "team",
		"include_leader": true,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got assignment.Availability
	testutil.DecodeJSON(t, rec, &got)
	want := assignment.Availability{Min: 2, Max: 2, Avg: 2, TargetCount: 2, LeaderMissingCount: 1}
	if got != want {
		t.Errorf("availability = %+v, want %+v", got, want)
	}
}

func TestServePeerAvailability_UnknownTarget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTeam(ctx, "alpha", 2)
	h := newTestHandler(t, db, assignment.ModeAdvisory)

	rec := httptest.NewRecorder()
	h.ServePeerAvailability(rec, testutil.JSONRequest(t, http.MethodPost, "/", map[string]any{
		"target_ids": []string{"alpha-1", "ghost"},
	}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var got errorResponse
	testutil.DecodeJSON(t, rec, &got)
	if got.Error != "unknown or ineligible target ids: ghost" {
		t.Errorf("error = %q", got.Error)
	}
}

func TestServeLaunch_Advisory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTeam(ctx, "alpha", 4)
	tmpl := fixtures.CreateTemplate(ctx, "Peer review")
	h := newTestHandler(t, db, assignment.ModeAdvisory)

	rec := httptest.NewRecorder()
	h.ServeLaunch(rec, testutil.JSONRequest(t, http.MethodPost, "/campaigns/launch",
		launchBody(tmpl.ID.Hex(), 2, "alpha-2", "alpha-3")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got launchResponse
	testutil.DecodeJSON(t, rec, &got)
	if got.Status != models.CampaignActive || got.StartDate != "2024-04-01" || got.EndDate != "2024-04-30" {
		t.Errorf("response = %+v", got)
	}
	// Per target: SELF + LEADER + two peers.
	if got.AssignmentCount != 8 {
		t.Errorf("assignment_count = %d, want 8", got.AssignmentCount)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("warnings = %+v", got.Warnings)
	}

	id, err := primitive.ObjectIDFromHex(got.CampaignID)
	if err != nil {
		t.Fatalf("campaign id %q: %v", got.CampaignID, err)
	}
	stored, err := h.Campaigns.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != models.CampaignActive {
		t.Errorf("stored status = %q", stored.Status)
	}
	if stored.Title != "Spring review" {
		t.Errorf("title not reduced to plain text: %q", stored.Title)
	}
	if stored.Description != "<p>Quarterly check-in</p>" {
		t.Errorf("description not sanitized: %q", stored.Description)
	}
	if stored.TemplateSnapshot == nil || stored.TemplateSnapshot.Title != "Peer review" {
		t.Errorf("template snapshot = %+v", stored.TemplateSnapshot)
	}
	if stored.Weights != assignment.DefaultWeights {
		t.Errorf("weights = %+v", stored.Weights)
	}

	n, err := h.Assignments.CountByCampaign(ctx, id)
	if err != nil || n != 8 {
		t.Errorf("stored assignments = %d, %v", n, err)
	}
}

func TestServeLaunch_AdvisoryShortageWarns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTeam(ctx, "alpha", 4)
	tmpl := fixtures.CreateTemplate(ctx, "Peer review")
	h := newTestHandler(t, db, assignment.ModeAdvisory)

	rec := httptest.NewRecorder()
	h.ServeLaunch(rec, testutil.JSONRequest(t, http.MethodPost, "/", launchBody(tmpl.ID.Hex(), 5, "alpha-2", "alpha-3")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got launchResponse
	testutil.DecodeJSON(t, rec, &got)
	if len(got.Warnings) != 2 {
		t.Fatalf("warnings = %+v, want one per target", got.Warnings)
	}
	for _, w := range got.Warnings {
		if w.Reason != assignment.ReasonPeerShortage || w.Wanted != 5 || w.Got != 2 {
			t.Errorf("warning = %+v", w)
		}
	}
}

func TestServeLaunch_StrictRefuses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTeam(ctx, "alpha", 4)
	tmpl := fixtures.CreateTemplate(ctx, "Peer review")
	h := newTestHandler(t, db, assignment.ModeStrict)

	rec := httptest.NewRecorder()
	h.ServeLaunch(rec, testutil.JSONRequest(t, http.MethodPost, "/", launchBody(tmpl.ID.Hex(), 5, "alpha-2")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body = %s", rec.Code, rec.Body.String())
	}

	n, err := db.Collection("evaluation_campaigns").CountDocuments(ctx, bson.M{})
	if err != nil || n != 0 {
		t.Errorf("campaigns stored = %d, %v; want none", n, err)
	}
}

func TestServeLaunch_TemplateNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTeam(ctx, "alpha", 3)
	h := newTestHandler(t, db, assignment.ModeAdvisory)

	rec := httptest.NewRecorder()
	h.ServeLaunch(rec, testutil.JSONRequest(t, http.MethodPost, "/", launchBody(primitive.NewObjectID().Hex(), 1, "alpha-1")))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	n, _ := db.Collection("evaluation_campaigns").CountDocuments(ctx, bson.M{})
	if n != 0 {
		t.Errorf("campaigns stored = %d, want none", n)
	}
}

func TestServeLaunch_Validation(t *testing.T) {
	h := &Handler{Log: zap.NewNop()}
	valid := launchBody(primitive.NewObjectID().Hex(), 1, "a")

	tests := []struct {
		name  string
		edit  func(map[string]any)
		field string
	}{
		{"no template", func(b map[string]any) { delete(b, "template_id") }, "template_id"},
		{"bad template id", func(b map[string]any) { b["template_id"] = "xyz" }, "template_id"},
		{"bad timing", func(b map[string]any) { b["timing"] = "later" }, "timing"},
		{"scheduled without start", func(b map[string]any) { b["timing"] = "scheduled" }, "start_date"},
		{"bad end date", func(b map[string]any) { b["end_date"] = "30/04/2024" }, "end_date"},
		{"bad scope", func(b map[string]any) { b["peer_scope"] = "company" }, "peer_scope"},
		{"no targets", func(b map[string]any) { b["target_ids"] = []string{} }, "target_ids"},
		{"bad relation", func(b map[string]any) {
			b["rater_groups"] = []map[string]any{{"role": "MENTOR", "weight": 10}}
		}, "rater_groups[0].role"},
		{"markup-only title", func(b map[string]any) { b["title"] = "<b></b>" }, "title"},
		{"recurring without type", func(b map[string]any) {
			b["is_recurring"] = true
			b["recurring_start_day"] = 1
		}, "recurring_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]any{}
			for k, v := range valid {
				body[k] = v
			}
			tt.edit(body)

			rec := httptest.NewRecorder()
			h.ServeLaunch(rec, testutil.JSONRequest(t, http.MethodPost, "/", body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
			var got errorResponse
			testutil.DecodeJSON(t, rec, &got)
			if _, ok := got.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want %q", got.Fields, tt.field)
			}
		})
	}
}

func TestServeLaunch_UnknownField(t *testing.T) {
	h := &Handler{Log: zap.NewNop()}
	body := launchBody(primitive.NewObjectID().Hex(), 1, "a")
	body["weights"] = map[string]int{"peer": 100}

	rec := httptest.NewRecorder()
	h.ServeLaunch(rec, testutil.JSONRequest(t, http.MethodPost, "/", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeAssignments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fixtures.CreateRecurringCampaign(ctx, "Monthly pulse", 1)
	fixtures.CreateAssignment(ctx, c, "a-1", "a-2", models.RelationPeer)
	fixtures.CreateAssignment(ctx, c, "a-2", "a-2", models.RelationSelf)
	h := newTestHandler(t, db, assignment.ModeAdvisory)

	req := testutil.WithChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", c.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeAssignments(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got struct {
		CampaignID  string `json:"campaign_id"`
		Count       int    `json:"count"`
		Assignments []struct {
			EvaluatorID string `json:"evaluator_id"`
			Relation    string `json:"relation"`
		} `json:"assignments"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.CampaignID != c.ID.Hex() || got.Count != 2 || len(got.Assignments) != 2 {
		t.Errorf("response = %+v", got)
	}
}

func TestServeAssignments_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, assignment.ModeAdvisory)

	tests := []struct {
		id   string
		want int
	}{
		{"not-an-id", http.StatusBadRequest},
		{primitive.NewObjectID().Hex(), http.StatusNotFound},
	}
	for _, tt := range tests {
		req := testutil.WithChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.id)
		rec := httptest.NewRecorder()
		h.ServeAssignments(rec, req)
		if rec.Code != tt.want {
			t.Errorf("id %q: status = %d, want %d", tt.id, rec.Code, tt.want)
		}
	}
}

func TestRoutes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := Routes(newTestHandler(t, db, assignment.ModeAdvisory))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+primitive.NewObjectID().Hex()+"/assignments", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET assignments status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/launch", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /launch status = %d, want 405", rec.Code)
	}
}
