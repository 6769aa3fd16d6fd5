// internal/domain/models/friendship.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friendship status values.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is the accepted-link record between two users. Personal-mode
// delegation to anyone other than yourself requires an accepted link in
// either direction.
type Friendship struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	FriendID primitive.ObjectID `bson:"friend_id" json:"friend_id"`
	Status   string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
