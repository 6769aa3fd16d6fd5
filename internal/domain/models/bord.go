// internal/domain/models/bord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bord is the organizational reference record binding a board to an owner and
// organization. It is distinct from the board's content document, which lives
// in the external board-document store — the assignment pipeline only ever
// consults this record for ownership and publish bookkeeping.
type Bord struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title          string              `bson:"title" json:"title"`
	OwnerID        primitive.ObjectID  `bson:"owner_id" json:"owner_id"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	WorkspaceID    *primitive.ObjectID `bson:"workspace_id,omitempty" json:"workspace_id,omitempty"`

	// PublishSeq is the per-board version allocator. Publish bumps it with an
	// atomic increment-and-fetch, so two concurrent publishes can never mint
	// the same snapshot version.
	PublishSeq int64 `bson:"publish_seq" json:"-"`

	LastPublishedAt *time.Time `bson:"last_published_at,omitempty" json:"last_published_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
