// Package model defines domain entities for the application.
package model

import "time"

// MaxDescriptionLength is the maximum length of a link description.
const MaxDescriptionLength = 60

// Link represents a shortened URL entity.
//
// Code and OwnerID are immutable once assigned. TotalClicks is a maintained
// counter, incremented atomically with each recorded click event so that it
// always equals the number of click_events rows referencing the link.
type Link struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	OriginalURL string    `json:"original_url"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	TotalClicks int64     `json:"total_clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

// LinkWithOwner pairs a link with its owner's username for admin views.
type LinkWithOwner struct {
	Link
	OwnerUsername string `json:"owner_username"`
}

// CachedLink represents link data stored in Redis for the redirect hot path.
// Uses string types for Redis hash compatibility.
type CachedLink struct {
	ID          string `redis:"id"`
	OriginalURL string `redis:"original_url"`
	OwnerID     string `redis:"owner_id"`
}

// ToLink converts CachedLink to the Link domain model.
func (c *CachedLink) ToLink(code string) *Link {
	return &Link{
		ID:          c.ID,
		Code:        code,
		OriginalURL: c.OriginalURL,
		OwnerID:     c.OwnerID,
	}
}

// ToCachedLink converts a Link to its cached representation.
func (l *Link) ToCachedLink() *CachedLink {
	return &CachedLink{
		ID:          l.ID,
		OriginalURL: l.OriginalURL,
		OwnerID:     l.OwnerID,
	}
}
