package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/linkcut/linkcut/internal/model"
)

// Common errors for link repository operations.
var (
	ErrLinkNotFound = errors.New("link not found")
	ErrCodeExists   = errors.New("short code already exists")
)

// CreateLink inserts a new link into the database.
// A code collision surfaces as ErrCodeExists via the links_code_unique
// constraint; the caller regenerates and retries.
func (r *Repository) CreateLink(ctx context.Context, link *model.Link) error {
	query := `
		INSERT INTO links (id, code, original_url, description, owner_id, total_clicks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		link.ID,
		link.Code,
		link.OriginalURL,
		link.Description,
		link.OwnerID,
		link.TotalClicks,
		link.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCodeExists
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// GetLinkByCode retrieves a link by its short code.
// This is the hot path for redirects.
func (r *Repository) GetLinkByCode(ctx context.Context, code string) (*model.Link, error) {
	query := `
		SELECT id, code, original_url, description, owner_id, total_clicks, created_at
		FROM links
		WHERE code = $1
	`

	link, err := r.scanLink(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by code: %w", err)
	}

	return link, nil
}

// ListLinksByOwner retrieves all links created by a user, newest first.
func (r *Repository) ListLinksByOwner(ctx context.Context, ownerID string) ([]*model.Link, error) {
	query := `
		SELECT id, code, original_url, description, owner_id, total_clicks, created_at
		FROM links
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links by owner: %w", err)
	}
	defer rows.Close()

	var links []*model.Link
	for rows.Next() {
		link, err := r.scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// ListAllLinks retrieves every link with its owner's username, newest first.
// Authorization is enforced by the caller; this feeds admin aggregates only.
func (r *Repository) ListAllLinks(ctx context.Context) ([]*model.LinkWithOwner, error) {
	query := `
		SELECT l.id, l.code, l.original_url, l.description, l.owner_id,
		       l.total_clicks, l.created_at, u.username
		FROM links l
		JOIN users u ON u.id = l.owner_id
		ORDER BY l.created_at DESC, l.id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all links: %w", err)
	}
	defer rows.Close()

	var links []*model.LinkWithOwner
	for rows.Next() {
		var link model.LinkWithOwner
		err := rows.Scan(
			&link.ID,
			&link.Code,
			&link.OriginalURL,
			&link.Description,
			&link.OwnerID,
			&link.TotalClicks,
			&link.CreatedAt,
			&link.OwnerUsername,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link with owner: %w", err)
		}
		links = append(links, &link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// scanLink scans a single row into a Link model.
func (r *Repository) scanLink(row pgx.Row) (*model.Link, error) {
	var link model.Link
	err := row.Scan(
		&link.ID,
		&link.Code,
		&link.OriginalURL,
		&link.Description,
		&link.OwnerID,
		&link.TotalClicks,
		&link.CreatedAt,
	)
	return &link, err
}
