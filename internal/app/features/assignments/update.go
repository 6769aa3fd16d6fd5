// internal/app/features/assignments/update.go
package assignments

import (
	"context"
	"encoding/json"
	"net/http"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	boardchangestore "github.com/bordhub/bordhub/internal/app/store/boardchanges"
	bordstore "github.com/bordhub/bordhub/internal/app/store/bords"
	"github.com/bordhub/bordhub/internal/app/system/authz"
	"github.com/bordhub/bordhub/internal/app/system/htmlsanitize"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeUpdate handles PATCH /assignments/{id} (organization mode).
//
// Editing an already-assigned record demotes it back to draft so the change
// goes through review again; published_at is kept, so the next publish
// reports it as a reassignment rather than a new assignment.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.ownedOrgAssignment(ctx, w, r)
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
		a.Content = htmlsanitize.Sanitize(*req.Content)
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			respond.Error(w, http.StatusBadRequest, "priority must be low, normal or high")
			return
		}
		a.Priority = *req.Priority
	}
	if req.DueDate != nil {
		a.DueDate = req.DueDate
	}
	if req.ClearDueDate {
		a.DueDate = nil
	}
	if req.ExecutionNote != nil {
		a.ExecutionNote = htmlsanitize.Sanitize(*req.ExecutionNote)
	}
	if req.ColumnID != nil {
		a.ColumnID = *req.ColumnID
	}
	if req.ColumnTitle != nil {
		a.ColumnTitle = htmlsanitize.PlainText(*req.ColumnTitle)
	}
	if req.AvailableColumns != nil {
		a.AvailableColumns = req.AvailableColumns
	}

	if a.Status == models.StatusAssigned {
		a.Status = models.StatusDraft
	}

	updated, err := assignmentstore.New(h.DB).Replace(ctx, a)
	if err != nil {
		h.Log.Error("error updating assignment",
			zap.String("assignment_id", a.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to update assignment")
		return
	}

	if a.BoardID != nil {
		if err := boardchangestore.New(h.DB).Bump(ctx, *a.BoardID); err != nil {
			h.Log.Warn("change tracker bump failed",
				zap.String("board_id", a.BoardID.Hex()),
				zap.Error(err))
		}
	}

	respond.JSON(w, http.StatusOK, updated)
}

// ServeDelete handles DELETE /assignments/{id} (organization mode).
//
// This is only ever a soft delete. If the record had been published, the
// next publish turns it into an unassignment (notify, then hard-delete); a
// never-published draft is simply forgotten.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.ownedOrgAssignment(ctx, w, r)
	if !ok {
		return
	}

	if err := assignmentstore.New(h.DB).SoftDelete(ctx, a.ID); err != nil {
		h.Log.Error("error deleting assignment",
			zap.String("assignment_id", a.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to delete assignment")
		return
	}

	if a.BoardID != nil {
		if err := boardchangestore.New(h.DB).Bump(ctx, *a.BoardID); err != nil {
			h.Log.Warn("change tracker bump failed",
				zap.String("board_id", a.BoardID.Hex()),
				zap.Error(err))
		}
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ownedOrgAssignment loads the {id} URL param as an organization-mode
// assignment whose board the requester owns. Personal-mode records and other
// owners' records read as 404 — scope mismatches must not leak existence.
func (h *Handler) ownedOrgAssignment(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Assignment, bool) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return models.Assignment{}, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.NotFound(w, "assignment not found")
		return models.Assignment{}, false
	}

	a, err := assignmentstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "assignment not found")
			return models.Assignment{}, false
		}
		h.Log.Error("error fetching assignment", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load assignment")
		return models.Assignment{}, false
	}

	if a.Context != models.ContextOrganization || a.BoardID == nil || a.IsDeleted {
		respond.NotFound(w, "assignment not found")
		return models.Assignment{}, false
	}

	bord, err := bordstore.New(h.DB).GetByID(ctx, *a.BoardID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "assignment not found")
			return models.Assignment{}, false
		}
		h.Log.Error("error fetching board", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load board")
		return models.Assignment{}, false
	}

	if bord.OwnerID != userID {
		respond.Forbidden(w, "only the board owner can manage assignments")
		return models.Assignment{}, false
	}

	return a, true
}
