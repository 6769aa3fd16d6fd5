// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment context values.
const (
	ContextPersonal     = "personal"
	ContextOrganization = "organization"
)

// Assignment source types — the kind of board item the delegation points at.
const (
	SourceNote          = "note"
	SourceChecklistItem = "checklist_item"
	SourceKanbanTask    = "kanban_task"
	SourceReminderItem  = "reminder_item"
)

// Assignment status values. Organization-mode assignments start as draft and
// are promoted to assigned by a publish; personal-mode assignments skip draft.
const (
	StatusDraft     = "draft"
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
)

// Priority values (organization mode only; personal mode is always normal).
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// ValidSourceType reports whether s is a recognized source type.
func ValidSourceType(s string) bool {
	switch s {
	case SourceNote, SourceChecklistItem, SourceKanbanTask, SourceReminderItem:
		return true
	}
	return false
}

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// EmployeeUpdate holds the assignee's proposed edits, kept separate from the
// owner-authoritative content/column fields so the owner can review them.
type EmployeeUpdate struct {
	Content     string    `bson:"content,omitempty" json:"content,omitempty"`
	ColumnID    string    `bson:"column_id,omitempty" json:"column_id,omitempty"`
	ColumnTitle string    `bson:"column_title,omitempty" json:"column_title,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Assignment is a delegation record: one board item handed to one user.
//
// BoardID is nil only for personal-context assignments with no board linkage.
// PublishedAt is set the first time the record is promoted out of draft and is
// what classifies a later publish as a reassignment rather than a new
// assignment. A soft-deleted record with PublishedAt set is an unassignment
// awaiting acknowledgement by the next publish.
//
// Active mirrors "not deleted and not completed". It exists so the kanban
// single-assignee invariant can be backed by a partial unique index, which
// cannot express a $ne filter on status.
type Assignment struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	BoardID        *primitive.ObjectID `bson:"board_id,omitempty" json:"board_id,omitempty"`
	WorkspaceID    *primitive.ObjectID `bson:"workspace_id,omitempty" json:"workspace_id,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	Context    string `bson:"context" json:"context"` // personal | organization
	SourceType string `bson:"source_type" json:"source_type"`
	SourceID   string `bson:"source_id" json:"source_id"`

	// Content is a snapshot of the task description at assignment time;
	// it may diverge from the live board item.
	Content string `bson:"content" json:"content"`

	AssignedTo primitive.ObjectID `bson:"assigned_to" json:"assigned_to"`
	AssignedBy primitive.ObjectID `bson:"assigned_by" json:"assigned_by"`

	Priority      string     `bson:"priority" json:"priority"`
	DueDate       *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	ExecutionNote string     `bson:"execution_note,omitempty" json:"execution_note,omitempty"`

	Status      string     `bson:"status" json:"status"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`

	IsDeleted bool `bson:"is_deleted" json:"is_deleted"`
	Active    bool `bson:"active" json:"-"`

	// Denormalized kanban column context, owner-authoritative.
	ColumnID         string   `bson:"column_id,omitempty" json:"column_id,omitempty"`
	ColumnTitle      string   `bson:"column_title,omitempty" json:"column_title,omitempty"`
	AvailableColumns []string `bson:"available_columns,omitempty" json:"available_columns,omitempty"`

	EmployeeUpdates *EmployeeUpdate `bson:"employee_updates,omitempty" json:"employee_updates,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the assignment still occupies its source item:
// not soft-deleted and not completed.
func (a *Assignment) IsActive() bool {
	return !a.IsDeleted && a.Status != StatusCompleted
}

// IsKanban reports whether the assignment delegates a kanban card.
func (a *Assignment) IsKanban() bool {
	return a.SourceType == SourceKanbanTask
}

// WasPublished reports whether the assignment has ever been released to the
// assignee.
func (a *Assignment) WasPublished() bool {
	return a.PublishedAt != nil
}
