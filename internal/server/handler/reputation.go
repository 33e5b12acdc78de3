package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clawbets/clawdash/internal/domain"
)

// ReputationService defines what the reputation handler needs from the
// service layer.
type ReputationService interface {
	Leaderboard(ctx context.Context) ([]domain.Reputation, error)
	Reputation(ctx context.Context, agent string) (domain.Reputation, error)
}

// ReputationHandler serves the agent leaderboard endpoints.
type ReputationHandler struct {
	reputations ReputationService
	logger      *slog.Logger
}

// NewReputationHandler creates a ReputationHandler.
func NewReputationHandler(reputations ReputationService, logger *slog.Logger) *ReputationHandler {
	return &ReputationHandler{
		reputations: reputations,
		logger:      logger,
	}
}

// leaderboardResponse wraps the leaderboard with a count.
type leaderboardResponse struct {
	Leaderboard []domain.Reputation `json:"leaderboard"`
	Count       int                 `json:"count"`
}

// Leaderboard returns agents with at least one bet, ranked by accuracy then
// bet count.
// GET /api/reputation
func (h *ReputationHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	reps, err := h.reputations.Leaderboard(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: leaderboard failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{Leaderboard: reps, Count: len(reps)})
}

// GetReputation returns one agent's record.
// GET /api/reputation/{pubkey}
func (h *ReputationHandler) GetReputation(w http.ResponseWriter, r *http.Request) {
	agent := r.PathValue("pubkey")
	if agent == "" {
		writeError(w, http.StatusBadRequest, "missing agent pubkey")
		return
	}

	rep, err := h.reputations.Reputation(r.Context(), agent)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "reputation not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get reputation failed",
			slog.String("agent", agent),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch reputation")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}
