package model

import "time"

// ClickEvent represents a single recorded resolution of a short code.
// Events are append-only; they are never updated or deleted.
type ClickEvent struct {
	ID     string `json:"id"` // ULID (time-sortable)
	LinkID string `json:"-"`  // FK to links.id

	// Visitor metadata, all optional
	IP       string `json:"ip,omitempty"`
	Browser  string `json:"browser,omitempty"`
	Device   string `json:"device,omitempty"`
	Referrer string `json:"referrer,omitempty"` // sanitized, truncated

	CreatedAt time.Time `json:"created_at"`
}
