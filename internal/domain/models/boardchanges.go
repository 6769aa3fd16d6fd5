// internal/domain/models/boardchanges.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BoardChanges is the per-board running counter of not-yet-published
// mutations. One row per board, created lazily on the first organization-mode
// write. The count is advisory (it drives a UI badge); publish resets it to
// zero rather than decrementing, so drift can never accumulate.
type BoardChanges struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	BoardID        primitive.ObjectID `bson:"board_id" json:"board_id"`
	ChangeCount    int64              `bson:"change_count" json:"change_count"`
	LastModifiedAt time.Time          `bson:"last_modified_at" json:"last_modified_at"`
}
