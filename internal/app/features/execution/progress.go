// internal/app/features/execution/progress.go
package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	userstore "github.com/bordhub/bordhub/internal/app/store/users"
	"github.com/bordhub/bordhub/internal/app/system/authz"
	"github.com/bordhub/bordhub/internal/app/system/htmlsanitize"
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type progressRequest struct {
	Content     string `json:"content,omitempty"`
	ColumnID    string `json:"columnId,omitempty"`
	ColumnTitle string `json:"columnTitle,omitempty"`
}

// ServeProgress handles PATCH /tasks/{id}/progress. The assignee records
// proposed edits against their task; the owner's content and column fields
// stay untouched, so the owner can review the proposal side by side.
func (h *Handler) ServeProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	a, ok := h.liveTask(ctx, w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if a.AssignedTo != userID {
		respond.Forbidden(w, "only the assignee can record progress")
		return
	}
	if a.Status == models.StatusCompleted {
		respond.Error(w, http.StatusBadRequest, "cannot record progress on a completed task")
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == "" && req.ColumnID == "" {
		respond.Error(w, http.StatusBadRequest, "nothing to update")
		return
	}

	eu := models.EmployeeUpdate{
		Content:     htmlsanitize.Sanitize(req.Content),
		ColumnID:    req.ColumnID,
		ColumnTitle: htmlsanitize.PlainText(req.ColumnTitle),
		UpdatedAt:   time.Now().UTC(),
	}

	store := assignmentstore.New(h.DB)
	if err := store.SetEmployeeUpdates(ctx, a.ID, eu); err != nil {
		h.Log.Error("record progress failed",
			zap.String("assignment_id", a.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to record progress")
		return
	}

	if a.AssignedBy != userID {
		actorName := userstore.New(h.DB).DisplayName(ctx, userID)
		h.Notify.Emit(ctx, notify.Event{
			UserID:  a.AssignedBy,
			Type:    models.NotifyTaskUpdated,
			Title:   "Progress update",
			Message: fmt.Sprintf("%s updated a task you assigned", actorName),
			Metadata: map[string]string{
				"assignment_id": a.ID.Hex(),
			},
		})
	}

	a.EmployeeUpdates = &eu
	respond.JSON(w, http.StatusOK, a)
}
