package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linkcut/linkcut/internal/handler/dto"
	"github.com/linkcut/linkcut/internal/service"
)

// AdminStatsService is the subset of the stats service the admin
// handler needs.
type AdminStatsService interface {
	AdminAllStats(ctx context.Context) (*service.AdminStatsOutput, error)
}

// AdminHandler handles admin-only endpoints. Role enforcement lives in
// the router, not here.
type AdminHandler struct {
	svc     AdminStatsService
	baseURL string
	logger  *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc AdminStatsService, baseURL string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc:     svc,
		baseURL: baseURL,
		logger:  logger,
	}
}

// AllStats handles GET /api/admin/all-stats.
func (h *AdminHandler) AllStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.AdminAllStats(r.Context())
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	links := make([]dto.AdminLinkResponse, len(out.Links))
	for i, l := range out.Links {
		links[i] = dto.AdminLinkResponse{
			LinkResponse:  dto.ToLinkResponse(&l.Link, h.baseURL),
			OwnerUsername: l.OwnerUsername,
		}
	}

	writeJSON(w, http.StatusOK, dto.AdminStatsResponse{
		Links:      links,
		TotalUsers: out.TotalUsers,
	})
}
