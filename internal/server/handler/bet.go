package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clawbets/clawdash/internal/domain"
)

// BetService defines what the bet handler needs from the service layer.
type BetService interface {
	MarketBets(ctx context.Context, marketID uint64) ([]domain.Bet, error)
	AgentBets(ctx context.Context, agent string) ([]domain.Bet, error)
}

// BetHandler serves bet listing endpoints.
type BetHandler struct {
	bets   BetService
	logger *slog.Logger
}

// NewBetHandler creates a BetHandler with the given service and logger.
func NewBetHandler(bets BetService, logger *slog.Logger) *BetHandler {
	return &BetHandler{
		bets:   bets,
		logger: logger,
	}
}

// listBetsResponse wraps bet listings with a count.
type listBetsResponse struct {
	Bets  []domain.Bet `json:"bets"`
	Count int          `json:"count"`
}

// ListMarketBets returns all bets on one market, newest first.
// GET /api/bets/market/{id}
func (h *BetHandler) ListMarketBets(w http.ResponseWriter, r *http.Request) {
	id, ok := marketIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid market id")
		return
	}

	bets, err := h.bets.MarketBets(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list market bets failed",
			slog.Uint64("market_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch bets")
		return
	}

	writeJSON(w, http.StatusOK, listBetsResponse{Bets: bets, Count: len(bets)})
}

// ListAgentBets returns all bets placed by one agent, newest first.
// GET /api/bets/agent/{pubkey}
func (h *BetHandler) ListAgentBets(w http.ResponseWriter, r *http.Request) {
	agent := r.PathValue("pubkey")
	if agent == "" {
		writeError(w, http.StatusBadRequest, "missing agent pubkey")
		return
	}

	bets, err := h.bets.AgentBets(r.Context(), agent)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list agent bets failed",
			slog.String("agent", agent),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch bets")
		return
	}

	writeJSON(w, http.StatusOK, listBetsResponse{Bets: bets, Count: len(bets)})
}
