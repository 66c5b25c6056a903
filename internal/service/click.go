package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linkcut/linkcut/internal/metrics"
	"github.com/linkcut/linkcut/internal/model"
	"github.com/linkcut/linkcut/internal/repository"
	"github.com/linkcut/linkcut/internal/visitor"
)

// ClickService records click events for resolved links.
type ClickService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewClickService creates a new ClickService.
func NewClickService(repo *repository.Repository, recorder metrics.Recorder, logger *slog.Logger) *ClickService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ClickService{
		repo:    repo,
		metrics: recorder,
		logger:  logger,
	}
}

// Record persists one click event and bumps the link's total in a single
// transaction. A transient failure gets exactly one retry; a click that
// still cannot be written is logged as lost, never silently dropped.
func (s *ClickService) Record(ctx context.Context, linkID string, info visitor.Info) error {
	event := &model.ClickEvent{
		ID:        ulid.Make().String(),
		LinkID:    linkID,
		IP:        info.IP,
		Browser:   info.Browser,
		Device:    info.Device,
		Referrer:  info.Referrer,
		CreatedAt: time.Now().UTC(),
	}

	err := s.repo.RecordClick(ctx, event)
	if err != nil && repository.IsTransient(err) {
		s.metrics.IncClickRetried()
		s.logger.Warn("click write failed, retrying",
			slog.String("link_id", linkID),
			slog.String("error", err.Error()))
		err = s.repo.RecordClick(ctx, event)
	}
	if err != nil {
		s.metrics.IncClickLost()
		s.logger.Error("click event lost",
			slog.String("link_id", linkID),
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to record click: %w", err)
	}

	s.metrics.IncClickRecorded()

	return nil
}
