package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linkcut/linkcut/internal/metrics"
	"github.com/linkcut/linkcut/internal/model"
	"github.com/linkcut/linkcut/internal/service"
	"github.com/linkcut/linkcut/internal/visitor"
)

// Resolver resolves short codes to links.
type Resolver interface {
	Resolve(ctx context.Context, code string) (*model.Link, error)
}

// ClickRecorder persists click events.
type ClickRecorder interface {
	Record(ctx context.Context, linkID string, info visitor.Info) error
}

// RedirectHandler handles public redirect requests.
type RedirectHandler struct {
	resolver Resolver
	clicks   ClickRecorder
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(resolver Resolver, clicks ClickRecorder, recorder metrics.Recorder, logger *slog.Logger) *RedirectHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RedirectHandler{
		resolver: resolver,
		clicks:   clicks,
		metrics:  recorder,
		logger:   logger,
	}
}

// Redirect handles GET /{code}. The click is written before the redirect
// is sent, so every served redirect has exactly one recorded click.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusNotFound, "LINK_NOT_FOUND", "Link not found")
		return
	}

	start := time.Now()

	link, err := h.resolver.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			writeError(w, http.StatusNotFound, "LINK_NOT_FOUND", "Link not found")
			return
		}
		h.logger.Error("redirect resolution failed", "code", code, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	info := visitor.FromRequest(r)
	if err := h.clicks.Record(r.Context(), link.ID, info); err != nil {
		// The visitor still gets their redirect; the loss is already
		// logged and counted downstream.
		h.logger.Warn("click not recorded", "code", code, "error", err)
	}

	duration := time.Since(start)
	h.metrics.ObserveRedirectDuration(duration)

	h.logger.Info("redirect_success",
		"code", code,
		"duration_ms", float64(duration.Microseconds())/1000,
	)

	w.Header().Set("Cache-Control", "private, max-age=0")
	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}
