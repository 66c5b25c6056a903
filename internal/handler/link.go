package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linkcut/linkcut/internal/auth"
	"github.com/linkcut/linkcut/internal/handler/dto"
	"github.com/linkcut/linkcut/internal/model"
	"github.com/linkcut/linkcut/internal/service"
)

// LinkService is the subset of the link service the handler needs.
type LinkService interface {
	Shorten(ctx context.Context, in service.ShortenInput) (*model.Link, error)
	MyURLs(ctx context.Context, ownerID string) ([]*model.Link, error)
}

// LinkHandler handles HTTP requests for link operations.
type LinkHandler struct {
	svc     LinkService
	baseURL string
	logger  *slog.Logger
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(svc LinkService, baseURL string, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		svc:     svc,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Shorten handles POST /api/urls/shorten.
func (h *LinkHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	var req dto.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	authCtx := auth.MustAuthFromContext(r.Context())

	link, err := h.svc.Shorten(r.Context(), service.ShortenInput{
		OriginalURL: req.OriginalURL,
		Description: req.Description,
		OwnerID:     authCtx.UserID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("link_created",
		"link_id", link.ID,
		"code", link.Code,
		"owner_id", link.OwnerID,
	)

	writeJSON(w, http.StatusCreated, dto.ToLinkResponse(link, h.baseURL))
}

// MyURLs handles GET /api/urls/my-urls.
func (h *LinkHandler) MyURLs(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	links, err := h.svc.MyURLs(r.Context(), authCtx.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLinkListResponse(links, h.baseURL))
}

func (h *LinkHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "INVALID_URL", "Destination must be a valid http or https URL")
	case errors.Is(err, service.ErrDescriptionTooLong):
		writeError(w, http.StatusBadRequest, "DESCRIPTION_TOO_LONG", "Description exceeds 60 characters")
	case errors.Is(err, service.ErrCodespaceExhausted):
		h.logger.Error("code allocation failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "CODE_ALLOCATION_FAILED", "Could not allocate a short code, try again")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
