// internal/app/features/personal/create.go
package personal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	friendshipstore "github.com/bordhub/bordhub/internal/app/store/friendships"
	userstore "github.com/bordhub/bordhub/internal/app/store/users"
	workspacestore "github.com/bordhub/bordhub/internal/app/store/workspaces"
	"github.com/bordhub/bordhub/internal/app/system/authz"
	"github.com/bordhub/bordhub/internal/app/system/htmlsanitize"
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	SourceType  string     `json:"sourceType"`
	SourceID    string     `json:"sourceId"`
	Content     string     `json:"content"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ColumnID    string     `json:"columnId,omitempty"`
	ColumnTitle string     `json:"columnTitle,omitempty"`
}

// ServeCreate handles POST /personal/assignments. The assignment is live
// immediately: status assigned, published stamp set at creation.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
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
	if req.SourceID == "" {
		respond.Error(w, http.StatusBadRequest, "sourceId is required")
		return
	}
	if req.Content == "" {
		respond.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	// Recipient defaults to the creator (self-reminder); an explicit
	// recipient must be an accepted friend.
	assignedTo := userID
	if req.AssignedTo != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid assignedTo")
			return
		}
		assignedTo = id
	}

	ws, err := workspacestore.New(h.DB).GetPersonalByOwner(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "no personal workspace")
			return
		}
		h.Log.Error("error fetching personal workspace", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load workspace")
		return
	}

	if assignedTo != userID {
		friends, err := friendshipstore.New(h.DB).AreFriends(ctx, userID, assignedTo)
		if err != nil {
			h.Log.Error("error checking friendship", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "failed to verify recipient")
			return
		}
		if !friends {
			respond.Error(w, http.StatusBadRequest, "can only assign to yourself or accepted friends")
			return
		}
	}

	now := time.Now().UTC()
	a := models.Assignment{
		WorkspaceID: &ws.ID,
		Context:     models.ContextPersonal,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		Content:     htmlsanitize.Sanitize(req.Content),
		AssignedTo:  assignedTo,
		AssignedBy:  userID,
		Priority:    models.PriorityNormal,
		DueDate:     req.DueDate,
		Status:      models.StatusAssigned,
		PublishedAt: &now,
		ColumnID:    req.ColumnID,
		ColumnTitle: htmlsanitize.PlainText(req.ColumnTitle),
	}

	stored, merged, err := assignmentstore.New(h.DB).CreateOrMerge(ctx, a)
	if err != nil {
		if errors.Is(err, assignmentstore.ErrKanbanAssigned) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, assignmentstore.ErrDuplicateActive) {
			respond.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("error creating personal assignment", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}

	if assignedTo != userID {
		creator := userstore.New(h.DB).DisplayName(ctx, userID)
		h.Notify.Emit(ctx, notify.Event{
			UserID:  assignedTo,
			Type:    models.NotifyTaskAssigned,
			Title:   "New task assigned",
			Message: fmt.Sprintf("%s assigned you a task", creator),
			Metadata: map[string]string{
				"assignment_id": stored.ID.Hex(),
			},
		})
	}

	status := http.StatusCreated
	if merged {
		status = http.StatusOK
	}
	respond.JSON(w, status, stored)
}

// personalAssignment resolves {id} to a personal-context assignment visible
// to the requester (either party), writing the error response on failure.
// Soft-deleted records read as 404.
func (h *Handler) personalAssignment(ctx context.Context, w http.ResponseWriter, id string, userID primitive.ObjectID) (models.Assignment, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		respond.NotFound(w, "assignment not found")
		return models.Assignment{}, false
	}

	a, err := assignmentstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.NotFound(w, "assignment not found")
			return models.Assignment{}, false
		}
		h.Log.Error("error fetching assignment", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load assignment")
		return models.Assignment{}, false
	}

	if a.Context != models.ContextPersonal || a.IsDeleted {
		respond.NotFound(w, "assignment not found")
		return models.Assignment{}, false
	}
	if a.AssignedBy != userID && a.AssignedTo != userID {
		respond.Forbidden(w, "not a party to this assignment")
		return models.Assignment{}, false
	}

	return a, true
}

// counterpart returns the other party of a personal assignment relative to
// the actor, and whether there is one (self-assignments have none).
func counterpart(a models.Assignment, actor primitive.ObjectID) (primitive.ObjectID, bool) {
	if a.AssignedBy == a.AssignedTo {
		return primitive.NilObjectID, false
	}
	if actor == a.AssignedTo {
		return a.AssignedBy, true
	}
	return a.AssignedTo, true
}
