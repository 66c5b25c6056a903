package dto

import (
	"time"

	"github.com/linkcut/linkcut/internal/model"
)

// ShortenRequest represents the request body for creating a short link.
type ShortenRequest struct {
	OriginalURL string `json:"original_url"`
	Description string `json:"description,omitempty"`
}

// LinkResponse represents a short link in API responses.
type LinkResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	Description string    `json:"description"`
	TotalClicks int64     `json:"total_clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

// LinkListResponse wraps the caller's links.
type LinkListResponse struct {
	Links []LinkResponse `json:"links"`
}

// VisitorResponse represents one recorded click.
type VisitorResponse struct {
	ID        string    `json:"id"`
	IP        string    `json:"ip"`
	Browser   string    `json:"browser"`
	Device    string    `json:"device"`
	Referrer  string    `json:"referrer"`
	CreatedAt time.Time `json:"created_at"`
}

// LinkStatsResponse bundles a link with its visitors.
type LinkStatsResponse struct {
	Link     LinkResponse      `json:"link"`
	Visitors []VisitorResponse `json:"visitors"`
}

// AdminLinkResponse is a link plus its owner's username, for the
// admin dashboard.
type AdminLinkResponse struct {
	LinkResponse
	OwnerUsername string `json:"owner_username"`
}

// AdminStatsResponse is the system-wide aggregate.
type AdminStatsResponse struct {
	Links      []AdminLinkResponse `json:"links"`
	TotalUsers int64               `json:"totalUsers"`
}

// ToLinkResponse converts a Link model to LinkResponse DTO.
func ToLinkResponse(link *model.Link, baseURL string) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		Code:        link.Code,
		ShortURL:    baseURL + "/" + link.Code,
		OriginalURL: link.OriginalURL,
		Description: link.Description,
		TotalClicks: link.TotalClicks,
		CreatedAt:   link.CreatedAt,
	}
}

// ToLinkListResponse converts a slice of Link models to LinkListResponse.
func ToLinkListResponse(links []*model.Link, baseURL string) LinkListResponse {
	responses := make([]LinkResponse, len(links))
	for i, link := range links {
		responses[i] = ToLinkResponse(link, baseURL)
	}
	return LinkListResponse{Links: responses}
}

// ToVisitorResponse converts a ClickEvent model to VisitorResponse DTO.
func ToVisitorResponse(event *model.ClickEvent) VisitorResponse {
	return VisitorResponse{
		ID:        event.ID,
		IP:        event.IP,
		Browser:   event.Browser,
		Device:    event.Device,
		Referrer:  event.Referrer,
		CreatedAt: event.CreatedAt,
	}
}
