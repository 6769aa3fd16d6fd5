// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types emitted by the assignment pipeline.
const (
	NotifyTaskAssigned   = "task_assigned"
	NotifyTaskReassigned = "task_reassigned"
	NotifyTaskUnassigned = "task_unassigned"
	NotifyTaskCompleted  = "task_completed"
	NotifyTaskReopened   = "task_reopened"
	NotifyTaskUpdated    = "task_updated"
)

// Notification is one row in the notification sink. Delivery beyond this
// collection (email, polling endpoints) is owned by an external collaborator;
// the pipeline only inserts rows, best-effort.
type Notification struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID string             `bson:"event_id" json:"event_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type    string             `bson:"type" json:"type"`
	Title   string             `bson:"title" json:"title"`
	Message string             `bson:"message" json:"message"`

	Metadata map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`

	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
