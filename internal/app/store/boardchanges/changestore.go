// internal/app/store/boardchanges/changestore.go
package boardchangestore

import (
	"context"
	"time"

	"github.com/bordhub/bordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("board_changes")}
}

// Bump increments the board's unpublished-change counter, creating the row
// lazily on first use. Every organization-mode create/update/delete calls
// this once.
func (s *Store) Bump(ctx context.Context, boardID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"board_id": boardID},
		bson.M{
			"$inc": bson.M{"change_count": 1},
			"$set": bson.M{"last_modified_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Reset zeroes the counter. Publish resets rather than decrements so a
// counting bug elsewhere can never leave the badge permanently wrong.
func (s *Store) Reset(ctx context.Context, boardID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"board_id": boardID},
		bson.M{"$set": bson.M{
			"change_count":     int64(0),
			"last_modified_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Get returns the tracker row for a board. A board with no tracked changes
// yet yields a zero-count row rather than an error.
func (s *Store) Get(ctx context.Context, boardID primitive.ObjectID) (models.BoardChanges, error) {
	var bc models.BoardChanges
	err := s.c.FindOne(ctx, bson.M{"board_id": boardID}).Decode(&bc)
	if err == mongo.ErrNoDocuments {
		return models.BoardChanges{BoardID: boardID}, nil
	}
	return bc, err
}
