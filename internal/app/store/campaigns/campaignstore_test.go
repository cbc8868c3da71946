package campaignstore_test

import (
	"strings"
	"testing"
	"time"

	campaignstore "github.com/dalemusser/evalhub/internal/app/store/campaigns"
	"github.com/dalemusser/evalhub/internal/domain/models"
	"github.com/dalemusser/evalhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := campaignstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Campaign{
		Title:       "H1 review",
		StartDate:   "2024-06-01",
		EndDate:     "2024-06-14",
		Status:      models.CampaignDraft,
		RaterGroups: []models.RaterGroup{{Role: models.RelationPeer, Weight: 20}},
		Extra:       bson.M{"dashboard_color": "teal"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Title != "H1 review" || found.Status != models.CampaignDraft {
		t.Errorf("found = %+v", found)
	}
	if found.Extra["dashboard_color"] != "teal" {
		t.Errorf("extra fields not preserved: %+v", found.Extra)
	}
}

func TestStore_ListActive_CoercesLegacyFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := campaignstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Legacy documents with string days and the nested period shape.
	_, err := db.Collection("evaluation_campaigns").InsertMany(ctx, []interface{}{
		bson.M{"_id": primitive.NewObjectID(), "title": "legacy", "status": "ACTIVE",
			"recurring_start_day": "15", "recurring_duration_days": 7.0},
		bson.M{"_id": primitive.NewObjectID(), "title": "nested", "status": "ACTIVE",
			"period": bson.M{"recurring_type": "분기별", "recurring_start_day": int32(3)}},
		bson.M{"_id": primitive.NewObjectID(), "title": "closed", "status": "CLOSED"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	active, undecodable, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(undecodable) != 0 {
		t.Errorf("undecodable = %v, want none", undecodable)
	}
	if len(active) != 2 {
		t.Fatalf("ListActive returned %d campaigns, want 2", len(active))
	}

	byTitle := map[string]models.Campaign{}
	for _, c := range active {
		byTitle[c.Title] = c
	}
	legacy := byTitle["legacy"]
	if legacy.StartDay().Or(0) != 15 || legacy.DurationDays().Or(0) != 7 {
		t.Errorf("legacy coerced to day=%+v duration=%+v", legacy.StartDay(), legacy.DurationDays())
	}
	nested := byTitle["nested"]
	if nested.RecurringTypeValue() != "분기별" || nested.StartDay().Or(0) != 3 {
		t.Errorf("nested period = %+v", nested.Period)
	}
	if nested.DurationDays().Set {
		t.Error("absent duration should be unset")
	}
}

func TestStore_ListActive_SkipsMalformedDocuments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := campaignstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	goodID := primitive.NewObjectID()
	badDate := primitive.NewObjectID()
	_, err := db.Collection("evaluation_campaigns").InsertMany(ctx, []interface{}{
		bson.M{"_id": badDate, "title": "dated", "status": "ACTIVE", "start_date": time.Now().UTC()},
		bson.M{"_id": goodID, "title": "good", "status": "ACTIVE", "recurring_start_day": int32(15)},
		bson.M{"_id": primitive.NewObjectID(), "title": "bool day", "status": "ACTIVE", "recurring_start_day": true},
		bson.M{"_id": primitive.NewObjectID(), "title": "string flag", "status": "ACTIVE", "is_recurring": "true"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	active, undecodable, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != goodID {
		t.Fatalf("active = %+v, want only the good document", active)
	}
	if len(undecodable) != 3 {
		t.Fatalf("undecodable = %d, want 3: %v", len(undecodable), undecodable)
	}
	found := false
	for _, e := range undecodable {
		if strings.Contains(e.Error(), badDate.Hex()) {
			found = true
		}
	}
	if !found {
		t.Errorf("undecodable errors should name %s: %v", badDate.Hex(), undecodable)
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := campaignstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Campaign{Title: "draft", Status: models.CampaignDraft})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.SetStatus(ctx, created.ID, models.CampaignActive); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Status != models.CampaignActive {
		t.Errorf("status = %q, want ACTIVE", found.Status)
	}

	if err := store.SetStatus(ctx, primitive.NewObjectID(), models.CampaignActive); err != mongo.ErrNoDocuments {
		t.Errorf("SetStatus on missing id: err = %v, want ErrNoDocuments", err)
	}
}

func TestStore_Create_DuplicateID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := campaignstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Campaign{Title: "once", Status: models.CampaignDraft})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, c); err != campaignstore.ErrDuplicateID {
		t.Errorf("second Create: err = %v, want ErrDuplicateID", err)
	}
}
