// internal/app/store/bords/bordstore.go
package bordstore

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
	return &Store{c: db.Collection("bords")}
}

// GetByID returns the bord record.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Bord, error) {
	var b models.Bord
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	return b, err
}

// NextVersion allocates the next snapshot version for a board with an atomic
// increment-and-fetch on publish_seq. A read-max-then-insert over snapshots
// would race under concurrent publishes; this cannot.
func (s *Store) NextVersion(ctx context.Context, boardID primitive.ObjectID) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Bord
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": boardID},
		bson.M{"$inc": bson.M{"publish_seq": int64(1)}},
		opts,
	).Decode(&b)
	if err != nil {
		return 0, err
	}
	return b.PublishSeq, nil
}

// SetLastPublished stamps the board after a successful publish.
func (s *Store) SetLastPublished(ctx context.Context, boardID primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": boardID},
		bson.M{"$set": bson.M{
			"last_published_at": at,
			"updated_at":        at,
		}},
	)
	return err
}
