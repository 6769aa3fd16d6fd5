// internal/domain/models/publishsnapshot.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PublishSnapshot is the immutable record of one publish event's aggregate
// effect. Append-only; VersionNumber is monotonically increasing per board
// and consecutive versions differ by exactly one.
type PublishSnapshot struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BoardID       primitive.ObjectID `bson:"board_id" json:"board_id"`
	VersionNumber int64              `bson:"version_number" json:"version_number"`
	PublishedBy   primitive.ObjectID `bson:"published_by" json:"published_by"`

	NewAssignments int `bson:"new_assignments" json:"new_assignments"`
	Reassignments  int `bson:"reassignments" json:"reassignments"`
	Unassignments  int `bson:"unassignments" json:"unassignments"`

	// RequestID correlates the snapshot with the publish invocation that
	// produced it (one uuid per invocation).
	RequestID string `bson:"request_id" json:"request_id"`

	PublishedAt time.Time `bson:"published_at" json:"published_at"`
}

// TotalDeployed is the number of assignments live after this publish that the
// publish touched: new plus reassigned.
func (s *PublishSnapshot) TotalDeployed() int {
	return s.NewAssignments + s.Reassignments
}
