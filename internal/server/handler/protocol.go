package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clawbets/clawdash/internal/domain"
)

// ProtocolService defines what the protocol handler needs from the service
// layer.
type ProtocolService interface {
	Stats(ctx context.Context) (domain.ProtocolStats, error)
}

// ProtocolHandler serves the protocol summary endpoint.
type ProtocolHandler struct {
	protocol ProtocolService
	logger   *slog.Logger
}

// NewProtocolHandler creates a ProtocolHandler.
func NewProtocolHandler(protocol ProtocolService, logger *slog.Logger) *ProtocolHandler {
	return &ProtocolHandler{
		protocol: protocol,
		logger:   logger,
	}
}

// GetProtocol returns the protocol summary account.
// GET /api/protocol
func (h *ProtocolHandler) GetProtocol(w http.ResponseWriter, r *http.Request) {
	stats, err := h.protocol.Stats(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "protocol not initialized")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: protocol stats failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to fetch protocol stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
