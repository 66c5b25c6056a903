package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkcut/linkcut/internal/auth"
	"github.com/linkcut/linkcut/internal/handler/dto"
	"github.com/linkcut/linkcut/internal/model"
	"github.com/linkcut/linkcut/internal/service"
)

// StatsService is the subset of the stats service the handler needs.
type StatsService interface {
	LinkStats(ctx context.Context, code string, authCtx *model.AuthContext) (*service.LinkStatsOutput, error)
}

// StatsHandler handles per-link analytics requests.
type StatsHandler struct {
	svc     StatsService
	baseURL string
	logger  *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc StatsService, baseURL string, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		svc:     svc,
		baseURL: baseURL,
		logger:  logger,
	}
}

// LinkStats handles GET /api/urls/stats/{code}.
func (h *StatsHandler) LinkStats(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusNotFound, "LINK_NOT_FOUND", "Link not found")
		return
	}

	authCtx := auth.MustAuthFromContext(r.Context())

	out, err := h.svc.LinkStats(r.Context(), code, authCtx)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	visitors := make([]dto.VisitorResponse, len(out.Visitors))
	for i, v := range out.Visitors {
		visitors[i] = dto.ToVisitorResponse(v)
	}

	writeJSON(w, http.StatusOK, dto.LinkStatsResponse{
		Link:     dto.ToLinkResponse(out.Link, h.baseURL),
		Visitors: visitors,
	})
}

func (h *StatsHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		writeError(w, http.StatusNotFound, "LINK_NOT_FOUND", "Link not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not own this link")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
