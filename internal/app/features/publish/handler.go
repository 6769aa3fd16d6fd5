// internal/app/features/publish/handler.go

// Package publish releases a board's staged delegation state: it promotes
// drafts to assigned, hard-deletes acknowledged unassignments, and records
// each release as an immutable versioned snapshot. It also serves the
// publish history and the pending-change counter that drives the "unpublished
// changes" badge.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	boardchangestore "github.com/bordhub/bordhub/internal/app/store/boardchanges"
	bordstore "github.com/bordhub/bordhub/internal/app/store/bords"
	snapshotstore "github.com/bordhub/bordhub/internal/app/store/snapshots"
	"github.com/bordhub/bordhub/internal/app/system/authz"
	"github.com/bordhub/bordhub/internal/app/system/boardlock"
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the publish endpoints.
type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Coord *Coordinator
}

// NewHandler constructs a publish Handler with a coordinator wired to the
// given sinks. threshold <= 0 selects DefaultConfirmThreshold.
func NewHandler(db *mongo.Database, emitter *notify.Emitter, locks *boardlock.Set, threshold int, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
		Coord: &Coordinator{
			Assignments:      assignmentstore.New(db),
			Changes:          boardchangestore.New(db),
			Snapshots:        snapshotstore.New(db),
			Bords:            bordstore.New(db),
			Notify:           emitter,
			Locks:            locks,
			Log:              logger,
			ConfirmThreshold: threshold,
		},
	}
}

type publishRequest struct {
	Force bool `json:"force"`
}

// ServePublish handles POST /boards/{boardID}/publish.
func (h *Handler) ServePublish(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	bord, userID, ok := h.ownedBoard(ctx, w, r)
	if !ok {
		return
	}

	var req publishRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	res, err := h.Coord.Publish(ctx, bord, userID, req.Force)
	if err != nil {
		var thresholdErr *ThresholdError
		switch {
		case errors.Is(err, ErrNothingToPublish):
			respond.Error(w, http.StatusBadRequest, "no unpublished changes")
		case errors.As(err, &thresholdErr):
			respond.JSON(w, http.StatusUnprocessableEntity, map[string]any{
				"confirmation_required": true,
				"pending":               thresholdErr.Pending,
				"message":               thresholdErr.Error(),
			})
		default:
			h.Log.Error("publish failed",
				zap.String("board_id", bord.ID.Hex()),
				zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "publish failed")
		}
		return
	}

	respond.JSON(w, http.StatusOK, res)
}

// ServeHistory handles GET /boards/{boardID}/publishes — the snapshot list,
// newest first.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	bord, _, ok := h.ownedBoard(ctx, w, r)
	if !ok {
		return
	}

	snaps, err := snapshotstore.New(h.DB).ListByBoard(ctx, bord.ID)
	if err != nil {
		h.Log.Error("list snapshots failed",
			zap.String("board_id", bord.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load publish history")
		return
	}
	if snaps == nil {
		snaps = []models.PublishSnapshot{}
	}

	respond.JSON(w, http.StatusOK, map[string]any{"publishes": snaps})
}

// ServeChanges handles GET /boards/{boardID}/changes — the pending-change
// counter since the last publish.
func (h *Handler) ServeChanges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	bord, _, ok := h.ownedBoard(ctx, w, r)
	if !ok {
		return
	}

	changes, err := boardchangestore.New(h.DB).Get(ctx, bord.ID)
	if err != nil {
		h.Log.Error("load change tracker failed",
			zap.String("board_id", bord.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load change tracker")
		return
	}

	respond.JSON(w, http.StatusOK, changes)
}

// ownedBoard resolves {boardID} to a bord the requester owns, writing the
// error response itself on failure.
func (h *Handler) ownedBoard(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Bord, primitive.ObjectID, bool) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return models.Bord{}, primitive.NilObjectID, false
	}

	boardID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "boardID"))
	if err != nil {
		respond.NotFound(w, "board not found")
		return models.Bord{}, primitive.NilObjectID, false
	}

	bord, err := bordstore.New(h.DB).GetByID(ctx, boardID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "board not found")
			return models.Bord{}, primitive.NilObjectID, false
		}
		h.Log.Error("error fetching board", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load board")
		return models.Bord{}, primitive.NilObjectID, false
	}

	if bord.OwnerID != userID {
		respond.Forbidden(w, "only the board owner can publish")
		return models.Bord{}, primitive.NilObjectID, false
	}

	return bord, userID, true
}
