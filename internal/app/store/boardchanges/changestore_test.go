package boardchangestore_test

import (
	"testing"

	boardchangestore "github.com/bordhub/bordhub/internal/app/store/boardchanges"
	"github.com/bordhub/bordhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBumpAndReset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	boardID := primitive.NewObjectID()

	store := boardchangestore.New(db)

	// The row is created lazily on the first bump.
	for i := 0; i < 3; i++ {
		if err := store.Bump(ctx, boardID); err != nil {
			t.Fatalf("bump failed: %v", err)
		}
	}

	got, err := store.Get(ctx, boardID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ChangeCount != 3 {
		t.Errorf("change count = %d, want 3", got.ChangeCount)
	}
	if got.LastModifiedAt.IsZero() {
		t.Error("last_modified_at not set")
	}

	if err := store.Reset(ctx, boardID); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	got, err = store.Get(ctx, boardID)
	if err != nil {
		t.Fatalf("get after reset failed: %v", err)
	}
	if got.ChangeCount != 0 {
		t.Errorf("change count after reset = %d, want 0", got.ChangeCount)
	}
}

func TestGet_UntrackedBoardIsZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	store := boardchangestore.New(db)
	got, err := store.Get(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ChangeCount != 0 {
		t.Errorf("change count = %d, want 0 for untracked board", got.ChangeCount)
	}
}
