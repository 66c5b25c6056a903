package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkcut/linkcut/internal/model"
	"github.com/linkcut/linkcut/internal/repository"
)

// ErrForbidden is returned when a caller is authenticated but not allowed
// to see the requested resource.
var ErrForbidden = errors.New("forbidden")

// StatsService answers per-link and admin-wide analytics queries.
type StatsService struct {
	repo *repository.Repository
}

// NewStatsService creates a new StatsService.
func NewStatsService(repo *repository.Repository) *StatsService {
	return &StatsService{repo: repo}
}

// LinkStatsOutput bundles a link with its recorded visitors.
type LinkStatsOutput struct {
	Link     *model.Link
	Visitors []*model.ClickEvent
}

// LinkStats returns the click history for one link. Only the owner and
// admins may see visitor data; everyone else gets ErrForbidden even when
// the code exists.
func (s *StatsService) LinkStats(ctx context.Context, code string, authCtx *model.AuthContext) (*LinkStatsOutput, error) {
	link, err := s.repo.GetLinkByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to look up link: %w", err)
	}

	if link.OwnerID != authCtx.UserID && !authCtx.IsAdmin() {
		return nil, ErrForbidden
	}

	visitors, err := s.repo.ListClicksByLinkID(ctx, link.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clicks: %w", err)
	}

	return &LinkStatsOutput{
		Link:     link,
		Visitors: visitors,
	}, nil
}

// AdminStatsOutput is the system-wide aggregate for the admin dashboard.
type AdminStatsOutput struct {
	Links      []*model.LinkWithOwner
	TotalUsers int64
}

// AdminAllStats returns every link in the system plus the user count.
// Authorization is the caller's job; the route is admin-only.
func (s *StatsService) AdminAllStats(ctx context.Context) (*AdminStatsOutput, error) {
	links, err := s.repo.ListAllLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &AdminStatsOutput{
		Links:      links,
		TotalUsers: total,
	}, nil
}
