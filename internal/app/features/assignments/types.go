// internal/app/features/assignments/types.go
package assignments

import (
	"time"
)

// createRequest is the body of POST /boards/{boardID}/assignments.
type createRequest struct {
	SourceType       string     `json:"sourceType"`
	SourceID         string     `json:"sourceId"`
	Content          string     `json:"content"`
	AssignedTo       string     `json:"assignedTo"`
	Priority         string     `json:"priority,omitempty"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	ExecutionNote    string     `json:"executionNote,omitempty"`
	ColumnID         string     `json:"columnId,omitempty"`
	ColumnTitle      string     `json:"columnTitle,omitempty"`
	AvailableColumns []string   `json:"availableColumns,omitempty"`
}

// updateRequest is the body of PATCH /assignments/{id}. Nil pointers mean
// "leave unchanged".
type updateRequest struct {
	Content          *string    `json:"content,omitempty"`
	Priority         *string    `json:"priority,omitempty"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	ClearDueDate     bool       `json:"clearDueDate,omitempty"`
	ExecutionNote    *string    `json:"executionNote,omitempty"`
	ColumnID         *string    `json:"columnId,omitempty"`
	ColumnTitle      *string    `json:"columnTitle,omitempty"`
	AvailableColumns []string   `json:"availableColumns,omitempty"`
}

// syncRequest is the body of POST /boards/{boardID}/sync — the owner changed
// the source item directly on the board and the assignments must follow.
type syncRequest struct {
	SourceType  string `json:"sourceType"`
	SourceID    string `json:"sourceId"`
	Action      string `json:"action"` // toggle_complete | move_column
	Completed   bool   `json:"completed,omitempty"`
	ColumnID    string `json:"columnId,omitempty"`
	ColumnTitle string `json:"columnTitle,omitempty"`
}

const (
	actionToggleComplete = "toggle_complete"
	actionMoveColumn     = "move_column"
)
