// internal/app/features/personal/handler.go

// Package personal is the unstaged delegation path between individuals. A
// personal assignment goes live the moment it is created — there is no draft
// state, no change tracker and no publish — and the recipient must be the
// creator themselves or an accepted friend. Collaboration here is symmetric
// between two people rather than hierarchical, so authorization differs from
// organization mode: either party can move or reschedule a task, while
// content edits and deletion stay with the assigner.
package personal

import (
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the personal-mode endpoints.
type Handler struct {
	DB     *mongo.Database
	Notify *notify.Emitter
	Log    *zap.Logger
}

// NewHandler constructs a personal Handler.
func NewHandler(db *mongo.Database, emitter *notify.Emitter, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Notify: emitter, Log: logger}
}
