// internal/app/store/snapshots/snapshotstore.go
package snapshotstore

import (
	"context"
	"time"

	"github.com/bordhub/bordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the append-only publish audit trail. Snapshots are never updated
// or deleted.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("publish_snapshots")}
}

// Insert appends one snapshot. The unique (board_id, version_number) index
// rejects a duplicate version, which would mean the atomic allocator was
// bypassed.
func (s *Store) Insert(ctx context.Context, snap models.PublishSnapshot) (models.PublishSnapshot, error) {
	if snap.PublishedAt.IsZero() {
		snap.PublishedAt = time.Now().UTC()
	}

	res, err := s.c.InsertOne(ctx, snap)
	if err != nil {
		return snap, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		snap.ID = oid
	}
	return snap, nil
}

// LatestVersion returns the highest version published for a board, or 0 when
// the board has never been published.
func (s *Store) LatestVersion(ctx context.Context, boardID primitive.ObjectID) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version_number", Value: -1}})
	var snap models.PublishSnapshot
	err := s.c.FindOne(ctx, bson.M{"board_id": boardID}, opts).Decode(&snap)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return snap.VersionNumber, nil
}

// ListByBoard returns a board's publish history, newest first.
func (s *Store) ListByBoard(ctx context.Context, boardID primitive.ObjectID) ([]models.PublishSnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version_number", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"board_id": boardID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.PublishSnapshot
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
