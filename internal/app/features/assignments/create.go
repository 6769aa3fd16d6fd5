// internal/app/features/assignments/create.go
package assignments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	boardchangestore "github.com/bordhub/bordhub/internal/app/store/boardchanges"
	"github.com/bordhub/bordhub/internal/app/system/htmlsanitize"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeCreate handles POST /boards/{boardID}/assignments.
//
// Re-sending the same (source, assignee) tuple before publishing merges into
// the existing draft instead of creating a duplicate; the response status
// distinguishes the two (201 created, 200 merged). Either way the record
// lands as a draft — nothing reaches the assignee until the owner publishes.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	bord, userID, ok := h.ownedBoard(ctx, w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !models.ValidSourceType(req.SourceType) {
		respond.Error(w, http.StatusBadRequest, "invalid or missing sourceType")
		return
	}
	if strings.TrimSpace(req.SourceID) == "" {
		respond.Error(w, http.StatusBadRequest, "sourceId is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	assignedTo, err := primitive.ObjectIDFromHex(req.AssignedTo)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "assignedTo must be a valid user id")
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.ValidPriority(priority) {
		respond.Error(w, http.StatusBadRequest, "priority must be low, normal or high")
		return
	}

	a := models.Assignment{
		BoardID:          &bord.ID,
		WorkspaceID:      bord.WorkspaceID,
		OrganizationID:   bord.OrganizationID,
		Context:          models.ContextOrganization,
		SourceType:       req.SourceType,
		SourceID:         req.SourceID,
		Content:          htmlsanitize.Sanitize(req.Content),
		AssignedTo:       assignedTo,
		AssignedBy:       userID,
		Priority:         priority,
		DueDate:          req.DueDate,
		ExecutionNote:    htmlsanitize.Sanitize(req.ExecutionNote),
		Status:           models.StatusDraft,
		ColumnID:         req.ColumnID,
		ColumnTitle:      htmlsanitize.PlainText(req.ColumnTitle),
		AvailableColumns: req.AvailableColumns,
	}

	store := assignmentstore.New(h.DB)
	saved, merged, err := store.CreateOrMerge(ctx, a)
	if err != nil {
		if errors.Is(err, assignmentstore.ErrKanbanAssigned) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, assignmentstore.ErrDuplicateActive) {
			respond.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("error creating assignment",
			zap.String("board_id", bord.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}

	if err := boardchangestore.New(h.DB).Bump(ctx, bord.ID); err != nil {
		// Advisory counter only; the write itself succeeded.
		h.Log.Warn("change tracker bump failed",
			zap.String("board_id", bord.ID.Hex()),
			zap.Error(err))
	}

	status := http.StatusCreated
	if merged {
		status = http.StatusOK
	}
	respond.JSON(w, status, saved)
}
