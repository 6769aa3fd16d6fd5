// internal/app/store/workspaces/workspacestore.go
package workspacestore

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
	return &Store{c: db.Collection("workspaces")}
}

// GetByID returns a workspace by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Workspace, error) {
	var w models.Workspace
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	return w, err
}

// GetPersonalByOwner returns the user's personal workspace. Personal-mode
// writes require one to exist; provisioning it is the account service's job.
func (s *Store) GetPersonalByOwner(ctx context.Context, ownerID primitive.ObjectID) (models.Workspace, error) {
	var w models.Workspace
	err := s.c.FindOne(ctx, bson.M{
		"owner_id": ownerID,
		"kind":     models.WorkspacePersonal,
	}).Decode(&w)
	return w, err
}
