// internal/domain/models/workspace.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workspace kinds.
const (
	WorkspacePersonal     = "personal"
	WorkspaceOrganization = "organization"
)

// Workspace scopes assignments. Every user who uses personal mode has one
// personal workspace; organization workspaces group boards under an org.
type Workspace struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	Kind           string              `bson:"kind" json:"kind"` // personal | organization
	OwnerID        primitive.ObjectID  `bson:"owner_id" json:"owner_id"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
