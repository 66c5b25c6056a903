package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkcut/linkcut/internal/model"
)

// RecordClick appends a click event and increments the link's counter in a
// single transaction. The row-level UPDATE serializes concurrent clicks on
// the same link, so total_clicks always equals the number of events.
func (r *Repository) RecordClick(ctx context.Context, event *model.ClickEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin click transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO click_events (id, link_id, ip, browser, device, referrer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, insertQuery,
		event.ID,
		event.LinkID,
		nullableString(event.IP),
		nullableString(event.Browser),
		nullableString(event.Device),
		nullableString(event.Referrer),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert click event: %w", err)
	}

	incrementQuery := `
		UPDATE links
		SET total_clicks = total_clicks + 1
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, incrementQuery, event.LinkID)
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit click transaction: %w", err)
	}

	return nil
}

// ListClicksByLinkID retrieves all click events for a link, newest first.
func (r *Repository) ListClicksByLinkID(ctx context.Context, linkID string) ([]*model.ClickEvent, error) {
	query := `
		SELECT id, link_id, COALESCE(ip, ''), COALESCE(browser, ''),
		       COALESCE(device, ''), COALESCE(referrer, ''), created_at
		FROM click_events
		WHERE link_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list click events: %w", err)
	}
	defer rows.Close()

	var events []*model.ClickEvent
	for rows.Next() {
		var event model.ClickEvent
		err := rows.Scan(
			&event.ID,
			&event.LinkID,
			&event.IP,
			&event.Browser,
			&event.Device,
			&event.Referrer,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan click event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating click events: %w", err)
	}

	return events, nil
}

// CountClicksByLinkID returns the number of click events for a link.
// Used by integration tests to verify counter consistency.
func (r *Repository) CountClicksByLinkID(ctx context.Context, linkID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM click_events WHERE link_id = $1`, linkID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count click events: %w", err)
	}
	return count, nil
}

// nullableString returns nil for empty strings.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// IsTransient reports whether a repository error is worth one internal retry.
// Unique violations and not-found are terminal; anything else from the driver
// may be a dropped connection or failover blip.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrLinkNotFound) &&
		!errors.Is(err, ErrCodeExists) &&
		!errors.Is(err, ErrUserNotFound) &&
		!errors.Is(err, ErrUsernameExists)
}
