// internal/app/features/execution/handler.go

// Package execution is the assignee-facing surface: the task inbox, the
// completion toggle, and progress notes. Assignees never see drafts — work
// only reaches this package once a publish (or a personal-mode create) has
// made it live.
package execution

import (
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the task-execution endpoints.
type Handler struct {
	DB     *mongo.Database
	Notify *notify.Emitter
	Log    *zap.Logger
}

// NewHandler constructs an execution Handler.
func NewHandler(db *mongo.Database, emitter *notify.Emitter, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Notify: emitter, Log: logger}
}
