// internal/app/features/assignments/list.go
package assignments

import (
	"context"
	"net/http"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /boards/{boardID}/assignments. Owner-only; the
// assignee-facing view lives under /tasks.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	bord, _, ok := h.ownedBoard(ctx, w, r)
	if !ok {
		return
	}

	list, err := assignmentstore.New(h.DB).ListForBoard(ctx, bord.ID)
	if err != nil {
		h.Log.Error("list assignments failed",
			zap.String("board_id", bord.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load assignments")
		return
	}
	if list == nil {
		list = []models.Assignment{}
	}

	respond.JSON(w, http.StatusOK, map[string]any{"assignments": list})
}
