// internal/app/features/execution/list.go
package execution

import (
	"context"
	"net/http"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	"github.com/bordhub/bordhub/internal/app/system/authz"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /tasks — every live or completed assignment delegated
// to the signed-in user, across boards and personal workspaces. Drafts are
// excluded; they have not been released yet.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	tasks, err := assignmentstore.New(h.DB).ListForAssignee(ctx, userID)
	if err != nil {
		h.Log.Error("list tasks failed",
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Assignment{}
	}

	respond.JSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}
