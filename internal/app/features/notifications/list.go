// internal/app/features/notifications/list.go
package notifications

import (
	"context"
	"net/http"
	"strconv"

	notificationstore "github.com/bordhub/bordhub/internal/app/store/notifications"
	"github.com/bordhub/bordhub/internal/app/system/authz"
	"github.com/bordhub/bordhub/internal/app/system/respond"
	"github.com/bordhub/bordhub/internal/app/system/timeouts"
	"github.com/bordhub/bordhub/internal/domain/models"
	"go.uber.org/zap"
)

const defaultListLimit = 50

// ServeList handles GET /notifications — the signed-in user's notifications,
// newest first. An optional ?limit= caps the page; it defaults to 50.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	userID, ok := authz.ActorID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	limit := int64(defaultListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			respond.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	rows, err := notificationstore.New(h.DB).ListByUser(ctx, userID, limit)
	if err != nil {
		h.Log.Error("list notifications failed",
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load notifications")
		return
	}
	if rows == nil {
		rows = []models.Notification{}
	}

	respond.JSON(w, http.StatusOK, map[string]any{"notifications": rows})
}
