package snapshotstore_test

import (
	"testing"
	"time"

	snapshotstore "github.com/bordhub/bordhub/internal/app/store/snapshots"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/bordhub/bordhub/internal/testutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func snap(boardID primitive.ObjectID, version int64) models.PublishSnapshot {
	return models.PublishSnapshot{
		BoardID:        boardID,
		VersionNumber:  version,
		PublishedBy:    primitive.NewObjectID(),
		NewAssignments: 2,
		Reassignments:  1,
		RequestID:      uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
	}
}

func TestInsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	boardID := primitive.NewObjectID()

	store := snapshotstore.New(db)
	for v := int64(1); v <= 3; v++ {
		if _, err := store.Insert(ctx, snap(boardID, v)); err != nil {
			t.Fatalf("insert v%d failed: %v", v, err)
		}
	}

	latest, err := store.LatestVersion(ctx, boardID)
	if err != nil {
		t.Fatalf("latest version failed: %v", err)
	}
	if latest != 3 {
		t.Errorf("latest version = %d, want 3", latest)
	}

	list, err := store.ListByBoard(ctx, boardID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list returned %d snapshots, want 3", len(list))
	}
	// Newest first.
	for i, want := range []int64{3, 2, 1} {
		if list[i].VersionNumber != want {
			t.Errorf("list[%d].version = %d, want %d", i, list[i].VersionNumber, want)
		}
	}
}

func TestInsert_DuplicateVersionRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	boardID := primitive.NewObjectID()

	store := snapshotstore.New(db)
	if _, err := store.Insert(ctx, snap(boardID, 1)); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, snap(boardID, 1)); err == nil {
		t.Fatal("expected duplicate (board, version) insert to fail")
	}
}

func TestLatestVersion_NoSnapshots(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	store := snapshotstore.New(db)
	latest, err := store.LatestVersion(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("latest version failed: %v", err)
	}
	if latest != 0 {
		t.Errorf("latest version = %d, want 0 for unpublished board", latest)
	}
}
