// internal/app/features/notifications/handler.go

// Package notifications exposes the signed-in user's notification inbox —
// the rows the emitter writes when assignments are published, completed, or
// withdrawn.
package notifications

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the notification endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a notifications Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}
