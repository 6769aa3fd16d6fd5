// internal/app/features/assignments/common.go
package assignments

import (
	"context"
	"net/http"

	bordstore "github.com/bordhub/bordhub/internal/app/store/bords"
	"github.com/bordhub/bordhub/internal/app/system/authz"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ownedBoard authenticates the requester and resolves the {boardID} URL
// param to a bord they own. On failure it writes the response itself and
// returns ok=false. An unknown board and a board owned by someone else both
// read as 404/403 per the error taxonomy; a malformed id is a plain 404.
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
		respond.Forbidden(w, "only the board owner can manage assignments")
		return models.Bord{}, primitive.NilObjectID, false
	}

	return bord, userID, true
}
