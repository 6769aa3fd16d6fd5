// internal/app/system/notify/notify.go

// Package notify is the notification emitter: it writes structured events to
// the notifications collection and to the structured log. Emission is
// best-effort by contract — a failed notification must never fail or roll
// back the assignment or publish mutation that triggered it, so every error
// here is logged and swallowed.
package notify

import (
	"context"

	notificationstore "github.com/bordhub/bordhub/internal/app/store/notifications"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event is one structured notification request.
type Event struct {
	UserID   primitive.ObjectID
	Type     string
	Title    string
	Message  string
	Metadata map[string]string
}

// Emitter fans events out to the notification sink. A nil Emitter is a
// no-op, so tests and callers without a sink do not need guards.
type Emitter struct {
	store *notificationstore.Store
	log   *zap.Logger
}

// New creates an Emitter backed by the notifications collection.
func New(store *notificationstore.Store, log *zap.Logger) *Emitter {
	return &Emitter{store: store, log: log}
}

// NewNop returns an emitter that drops everything. For tests.
func NewNop() *Emitter {
	return nil
}

// Emit records one event. Failures are logged and swallowed.
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if e == nil {
		return
	}

	n := models.Notification{
		EventID:  uuid.NewString(),
		UserID:   ev.UserID,
		Type:     ev.Type,
		Title:    ev.Title,
		Message:  ev.Message,
		Metadata: ev.Metadata,
	}

	if _, err := e.store.Insert(ctx, n); err != nil {
		e.log.Warn("notification emit failed",
			zap.String("type", ev.Type),
			zap.String("user_id", ev.UserID.Hex()),
			zap.Error(err))
		return
	}

	e.log.Info("notification emitted",
		zap.String("event_id", n.EventID),
		zap.String("type", ev.Type),
		zap.String("user_id", ev.UserID.Hex()))
}

// EmitAll records a batch, one by one. Order is preserved; a failure in one
// event does not stop the rest.
func (e *Emitter) EmitAll(ctx context.Context, evs []Event) {
	if e == nil {
		return
	}
	for _, ev := range evs {
		e.Emit(ctx, ev)
	}
}
