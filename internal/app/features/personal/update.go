// internal/app/features/personal/update.go
package personal

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
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type updateRequest struct {
	Content      *string    `json:"content,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ClearDueDate bool       `json:"clearDueDate,omitempty"`
	ColumnID     *string    `json:"columnId,omitempty"`
	ColumnTitle  *string    `json:"columnTitle,omitempty"`
}

// ServeUpdate handles PATCH /personal/assignments/{id}. Column moves and
// due-date changes are open to either party; content edits are assigner-only.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	a, ok := h.personalAssignment(ctx, w, chi.URLParam(r, "id"), userID)
	if !ok {
		return
	}
	if a.Status == models.StatusCompleted {
		respond.Error(w, http.StatusBadRequest, "cannot edit a completed assignment")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Content != nil {
		if a.AssignedBy != userID {
			respond.Forbidden(w, "only the assigner can edit the task content")
			return
		}
		if *req.Content == "" {
			respond.Error(w, http.StatusBadRequest, "content cannot be empty")
			return
		}
		a.Content = htmlsanitize.Sanitize(*req.Content)
	}
	if req.DueDate != nil {
		a.DueDate = req.DueDate
	}
	if req.ClearDueDate {
		a.DueDate = nil
	}
	if req.ColumnID != nil {
		a.ColumnID = *req.ColumnID
	}
	if req.ColumnTitle != nil {
		a.ColumnTitle = htmlsanitize.PlainText(*req.ColumnTitle)
	}

	updated, err := assignmentstore.New(h.DB).Replace(ctx, a)
	if err != nil {
		h.Log.Error("error updating personal assignment",
			zap.String("assignment_id", a.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to update assignment")
		return
	}

	if other, hasOther := counterpart(updated, userID); hasOther {
		actor := userstore.New(h.DB).DisplayName(ctx, userID)
		h.Notify.Emit(ctx, notify.Event{
			UserID:  other,
			Type:    models.NotifyTaskUpdated,
			Title:   "Task updated",
			Message: fmt.Sprintf("%s updated a task you share", actor),
			Metadata: map[string]string{
				"assignment_id": updated.ID.Hex(),
			},
		})
	}

	respond.JSON(w, http.StatusOK, updated)
}

// ServeDelete handles DELETE /personal/assignments/{id}. Assigner-only.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	a, ok := h.personalAssignment(ctx, w, chi.URLParam(r, "id"), userID)
	if !ok {
		return
	}
	if a.AssignedBy != userID {
		respond.Forbidden(w, "only the assigner can delete an assignment")
		return
	}

	if err := assignmentstore.New(h.DB).SoftDelete(ctx, a.ID); err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "assignment not found")
			return
		}
		h.Log.Error("error deleting personal assignment",
			zap.String("assignment_id", a.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to delete assignment")
		return
	}

	if other, hasOther := counterpart(a, userID); hasOther {
		actor := userstore.New(h.DB).DisplayName(ctx, userID)
		h.Notify.Emit(ctx, notify.Event{
			UserID:  other,
			Type:    models.NotifyTaskUnassigned,
			Title:   "Task removed",
			Message: fmt.Sprintf("%s removed a task you shared", actor),
			Metadata: map[string]string{
				"assignment_id": a.ID.Hex(),
			},
		})
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
