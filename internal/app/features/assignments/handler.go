// internal/app/features/assignments/handler.go

// Package assignments is the organization-mode write path: the board owner
// creates, edits and removes delegation drafts here, and mirrors direct
// source-item changes through the owner-sync endpoint. Nothing in this
// package releases work to assignees — that is the publish feature's job.
package assignments

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the organization-mode assignment endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs an assignments Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}
