package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linkcut/linkcut/internal/auth"
	"github.com/linkcut/linkcut/internal/model"
	"github.com/linkcut/linkcut/internal/service"
)

type stubStatsService struct {
	out *service.LinkStatsOutput
	err error
}

func (s *stubStatsService) LinkStats(ctx context.Context, code string, authCtx *model.AuthContext) (*service.LinkStatsOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func statsRequest(code string, authCtx *model.AuthContext) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/urls/stats/"+code, nil)
	return req.WithContext(auth.ContextWithAuth(req.Context(), authCtx))
}

func newStatsRouter(h *StatsHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/urls/stats/{code}", h.LinkStats)
	return r
}

func TestLinkStatsHandler(t *testing.T) {
	t.Parallel()

	owner := &model.AuthContext{UserID: "u1", Username: "alice", Role: model.RoleUser}

	t.Run("owner sees visitors", func(t *testing.T) {
		t.Parallel()

		out := &service.LinkStatsOutput{
			Link: testLink(),
			Visitors: []*model.ClickEvent{
				{
					ID:        "01HCLICK000000000000000001",
					LinkID:    "01HLINK0000000000000000001",
					IP:        "203.0.113.7",
					Browser:   "Firefox",
					Device:    "desktop",
					Referrer:  "https://example.org",
					CreatedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
				},
			},
		}
		h := NewStatsHandler(&stubStatsService{out: out}, "http://localhost:5000", discardLogger())

		rec := httptest.NewRecorder()
		newStatsRouter(h).ServeHTTP(rec, statsRequest("aB3xY9z", owner))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Link struct {
				Code string `json:"code"`
			} `json:"link"`
			Visitors []struct {
				IP      string `json:"ip"`
				Browser string `json:"browser"`
				Device  string `json:"device"`
			} `json:"visitors"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if resp.Link.Code != "aB3xY9z" {
			t.Errorf("link.code = %q, want aB3xY9z", resp.Link.Code)
		}
		if len(resp.Visitors) != 1 {
			t.Fatalf("len(visitors) = %d, want 1", len(resp.Visitors))
		}
		if resp.Visitors[0].Browser != "Firefox" {
			t.Errorf("visitors[0].browser = %q, want Firefox", resp.Visitors[0].Browser)
		}
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		t.Parallel()

		h := NewStatsHandler(&stubStatsService{err: service.ErrForbidden}, "http://localhost:5000", discardLogger())

		rec := httptest.NewRecorder()
		newStatsRouter(h).ServeHTTP(rec, statsRequest("aB3xY9z", owner))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("unknown code gets 404", func(t *testing.T) {
		t.Parallel()

		h := NewStatsHandler(&stubStatsService{err: service.ErrLinkNotFound}, "http://localhost:5000", discardLogger())

		rec := httptest.NewRecorder()
		newStatsRouter(h).ServeHTTP(rec, statsRequest("nope999", owner))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

type stubAdminStats struct {
	out *service.AdminStatsOutput
	err error
}

func (s *stubAdminStats) AdminAllStats(ctx context.Context) (*service.AdminStatsOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func TestAdminAllStatsHandler(t *testing.T) {
	t.Parallel()

	out := &service.AdminStatsOutput{
		Links: []*model.LinkWithOwner{
			{Link: *testLink(), OwnerUsername: "alice"},
		},
		TotalUsers: 2,
	}
	h := NewAdminHandler(&stubAdminStats{out: out}, "http://localhost:5000", discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/all-stats", nil)
	rec := httptest.NewRecorder()

	h.AllStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Links []struct {
			Code          string `json:"code"`
			OwnerUsername string `json:"owner_username"`
		} `json:"links"`
		TotalUsers int64 `json:"totalUsers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.TotalUsers != 2 {
		t.Errorf("totalUsers = %d, want 2", resp.TotalUsers)
	}
	if len(resp.Links) != 1 || resp.Links[0].OwnerUsername != "alice" {
		t.Errorf("links = %+v, want one link owned by alice", resp.Links)
	}
}
