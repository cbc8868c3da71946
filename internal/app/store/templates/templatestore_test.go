package templatestore_test

import (
	"testing"

	templatestore "github.com/dalemusser/evalhub/internal/app/store/templates"
	"github.com/dalemusser/evalhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := fixtures.CreateTemplate(ctx, "Peer review")

	found, err := store.GetByID(ctx, tmpl.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Title != "Peer review" {
		t.Errorf("Title = %q", found.Title)
	}
	if _, ok := found.Content["questions"]; !ok {
		t.Errorf("content not loaded: %+v", found.Content)
	}

	if _, err := store.GetByID(ctx, "not-hex"); err != mongo.ErrNoDocuments {
		t.Errorf("invalid id: err = %v, want ErrNoDocuments", err)
	}

	all, err := store.List(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("List = %d, %v", len(all), err)
	}
}
