// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the minimal directory record the pipeline needs: identity plus the
// name/email used when composing notification text. Account management and
// authentication live outside this service.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName       string              `bson:"full_name" json:"full_name"`
	Email          string              `bson:"email" json:"email"`
	Role           string              `bson:"role,omitempty" json:"role,omitempty"`
	Status         string              `bson:"status,omitempty" json:"status,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
