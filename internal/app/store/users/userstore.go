// internal/app/store/users/userstore.go
package userstore

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
	return &Store{c: db.Collection("users")}
}

// GetByID returns a single user by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, err
}

// DisplayName resolves the name used in notification text. Unknown users get
// a placeholder rather than an error; notification composition is
// best-effort by design.
func (s *Store) DisplayName(ctx context.Context, id primitive.ObjectID) string {
	u, err := s.GetByID(ctx, id)
	if err != nil || u.FullName == "" {
		return "someone"
	}
	return u.FullName
}
