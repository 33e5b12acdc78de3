package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clawbets/clawdash/internal/domain"
)

// ActivityService defines what the activity handler needs from the service
// layer.
type ActivityService interface {
	Feed(ctx context.Context) ([]domain.ActivityItem, error)
}

// ActivityHandler serves the merged activity feed endpoint.
type ActivityHandler struct {
	activity ActivityService
	logger   *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(activity ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		logger:   logger,
	}
}

// activityResponse wraps the feed with a count.
type activityResponse struct {
	Activities []domain.ActivityItem `json:"activities"`
	Count      int                   `json:"count"`
}

// ListActivity returns the merged market-creation/bet feed, newest first.
// GET /api/activity
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	items, err := h.activity.Feed(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: activity feed failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch activity")
		return
	}

	writeJSON(w, http.StatusOK, activityResponse{Activities: items, Count: len(items)})
}
