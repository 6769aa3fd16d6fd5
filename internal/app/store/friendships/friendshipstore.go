// internal/app/store/friendships/friendshipstore.go
package friendshipstore

import (
	"context"

	"github.com/bordhub/bordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("friendships")}
}

// AreFriends reports whether an accepted friendship links the two users, in
// either direction. A user is trivially their own friend.
func (s *Store) AreFriends(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	if a == b {
		return true, nil
	}

	err := s.c.FindOne(ctx, bson.M{
		"status": models.FriendshipAccepted,
		"$or": []bson.M{
			{"user_id": a, "friend_id": b},
			{"user_id": b, "friend_id": a},
		},
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
