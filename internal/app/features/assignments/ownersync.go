// internal/app/features/assignments/ownersync.go
package assignments

import (
	"context"
	"encoding/json"
	"net/http"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	"github.com/bordhub/bordhub/internal/app/system/htmlsanitize"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeOwnerSync handles POST /boards/{boardID}/sync.
//
// The owner changed the source item directly on the board (ticked a
// checklist box, dragged a kanban card) rather than through the assignment
// UI, and every assignment tracking that item has to follow. toggle_complete
// skips drafts — they have not been delegated yet. move_column applies to
// every non-deleted row regardless of status, since the owner is
// authoritative over column placement. A zero updated count means no
// assignment tracks that source item, which is a success.
func (h *Handler) ServeOwnerSync(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	bord, _, ok := h.ownedBoard(ctx, w, r)
	if !ok {
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !models.ValidSourceType(req.SourceType) {
		respond.Error(w, http.StatusBadRequest, "invalid or missing sourceType")
		return
	}
	if req.SourceID == "" {
		respond.Error(w, http.StatusBadRequest, "sourceId is required")
		return
	}

	store := assignmentstore.New(h.DB)

	var updated int64
	var err error
	switch req.Action {
	case actionToggleComplete:
		updated, err = store.SyncToggleComplete(ctx, bord.ID, req.SourceType, req.SourceID, req.Completed)
	case actionMoveColumn:
		updated, err = store.SyncMoveColumn(ctx, bord.ID, req.SourceType, req.SourceID,
			req.ColumnID, htmlsanitize.PlainText(req.ColumnTitle))
	default:
		respond.Error(w, http.StatusBadRequest, "action must be toggle_complete or move_column")
		return
	}

	if err != nil {
		h.Log.Error("owner sync failed",
			zap.String("board_id", bord.ID.Hex()),
			zap.String("action", req.Action),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to sync assignments")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
