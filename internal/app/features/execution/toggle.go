// internal/app/features/execution/toggle.go
package execution

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	bordstore "github.com/bordhub/bordhub/internal/app/store/bords"
	userstore "github.com/bordhub/bordhub/internal/app/store/users"
	"github.com/bordhub/bordhub/internal/app/system/authz"
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeToggle handles POST /tasks/{id}/toggle — flips the completion state.
// Organization mode restricts this to the assignee; personal mode lets either
// party toggle.
func (h *Handler) ServeToggle(w http.ResponseWriter, r *http.Request) {
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

	switch a.Context {
	case models.ContextPersonal:
		if a.AssignedTo != userID && a.AssignedBy != userID {
			respond.Forbidden(w, "not a party to this assignment")
			return
		}
	default:
		if a.AssignedTo != userID {
			respond.Forbidden(w, "only the assignee can toggle completion")
			return
		}
	}

	completed := a.Status != models.StatusCompleted
	updated, err := assignmentstore.New(h.DB).SetCompletion(ctx, a.ID, completed)
	if err != nil {
		h.Log.Error("toggle completion failed",
			zap.String("assignment_id", a.ID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to toggle completion")
		return
	}

	h.notifyToggle(ctx, updated, userID, completed)

	respond.JSON(w, http.StatusOK, map[string]any{
		"status":       updated.Status,
		"completed_at": updated.CompletedAt,
	})
}

// notifyToggle informs the other party of a completion flip. Organization
// mode always notifies the board owner, resolved from the board record
// rather than assigned_by. Best-effort.
func (h *Handler) notifyToggle(ctx context.Context, a models.Assignment, actor primitive.ObjectID, completed bool) {
	recipient, ok := h.toggleRecipient(ctx, a, actor)
	if !ok || recipient == actor {
		return
	}

	evType := models.NotifyTaskCompleted
	verb := "completed"
	if !completed {
		evType = models.NotifyTaskReopened
		verb = "reopened"
	}

	actorName := userstore.New(h.DB).DisplayName(ctx, actor)
	h.Notify.Emit(ctx, notify.Event{
		UserID:  recipient,
		Type:    evType,
		Title:   fmt.Sprintf("Task %s", verb),
		Message: fmt.Sprintf("%s %s a task", actorName, verb),
		Metadata: map[string]string{
			"assignment_id": a.ID.Hex(),
		},
	})
}

func (h *Handler) toggleRecipient(ctx context.Context, a models.Assignment, actor primitive.ObjectID) (primitive.ObjectID, bool) {
	if a.Context == models.ContextOrganization {
		if a.BoardID == nil {
			return primitive.NilObjectID, false
		}
		bord, err := bordstore.New(h.DB).GetByID(ctx, *a.BoardID)
		if err != nil {
			h.Log.Warn("could not resolve board owner for notification",
				zap.String("assignment_id", a.ID.Hex()),
				zap.Error(err))
			return primitive.NilObjectID, false
		}
		return bord.OwnerID, true
	}

	if actor == a.AssignedTo {
		return a.AssignedBy, true
	}
	return a.AssignedTo, true
}

// liveTask resolves {id} to a released (non-draft, non-deleted) assignment,
// writing the error response on failure. Drafts read as 404 from the
// assignee's side — they do not exist yet as far as execution is concerned.
func (h *Handler) liveTask(ctx context.Context, w http.ResponseWriter, id string) (models.Assignment, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		respond.NotFound(w, "task not found")
		return models.Assignment{}, false
	}

	a, err := assignmentstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.NotFound(w, "task not found")
			return models.Assignment{}, false
		}
		h.Log.Error("error fetching task", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load task")
		return models.Assignment{}, false
	}

	if a.IsDeleted || a.Status == models.StatusDraft {
		respond.NotFound(w, "task not found")
		return models.Assignment{}, false
	}

	return a, true
}
