package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/linkcut/linkcut/internal/model"
	"github.com/linkcut/linkcut/internal/testutil"
)

func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return repo
}

func mustCreateUser(t *testing.T, ctx context.Context, repo *Repository, username string) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, username)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func TestRepository_CreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := mustCreateUser(t, ctx, repo, "alice")

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user by ID: %v", err)
	}
	if byID.Username != "alice" || byID.Role != model.RoleUser {
		t.Errorf("got user %+v, want alice with user role", byID)
	}

	byName, err := repo.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("ID = %s, want %s", byName.ID, user.ID)
	}

	duplicate := testutil.NewTestUser(t, "alice")
	if err := repo.CreateUser(ctx, duplicate); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("duplicate username: got %v, want ErrUsernameExists", err)
	}

	if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown username: got %v, want ErrUserNotFound", err)
	}

	count, err := repo.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestRepository_CreateAndGetLink(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	owner := mustCreateUser(t, ctx, repo, "alice")

	link := testutil.NewTestLink(t, testutil.UniqueCode("get"), owner.ID)
	if err := repo.CreateLink(ctx, link); err != nil {
		t.Fatalf("create link: %v", err)
	}

	loaded, err := repo.GetLinkByCode(ctx, link.Code)
	if err != nil {
		t.Fatalf("get link by code: %v", err)
	}
	if loaded.OriginalURL != link.OriginalURL || loaded.OwnerID != owner.ID {
		t.Errorf("loaded link %+v does not match created %+v", loaded, link)
	}
	if loaded.TotalClicks != 0 {
		t.Errorf("total clicks = %d, want 0", loaded.TotalClicks)
	}

	duplicate := testutil.NewTestLink(t, link.Code, owner.ID)
	if err := repo.CreateLink(ctx, duplicate); !errors.Is(err, ErrCodeExists) {
		t.Fatalf("duplicate code: got %v, want ErrCodeExists", err)
	}

	if _, err := repo.GetLinkByCode(ctx, "missing"); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("unknown code: got %v, want ErrLinkNotFound", err)
	}
}

func TestRepository_ListLinksByOwner(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	alice := mustCreateUser(t, ctx, repo, "alice")
	bob := mustCreateUser(t, ctx, repo, "bob")

	for i := 0; i < 3; i++ {
		link := testutil.NewTestLink(t, testutil.UniqueCode("a"), alice.ID)
		link.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		if err := repo.CreateLink(ctx, link); err != nil {
			t.Fatalf("create link %d: %v", i, err)
		}
	}
	if err := repo.CreateLink(ctx, testutil.NewTestLink(t, testutil.UniqueCode("b"), bob.ID)); err != nil {
		t.Fatalf("create bob's link: %v", err)
	}

	links, err := repo.ListLinksByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("len(links) = %d, want 3", len(links))
	}
	for i := 1; i < len(links); i++ {
		if links[i].CreatedAt.After(links[i-1].CreatedAt) {
			t.Errorf("links not ordered newest first at index %d", i)
		}
	}

	all, err := repo.ListAllLinks(ctx)
	if err != nil {
		t.Fatalf("list all links: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len(all) = %d, want 4", len(all))
	}
	for _, l := range all {
		if l.OwnerUsername == "" {
			t.Errorf("link %s missing owner username", l.Code)
		}
	}
}

func TestRepository_RecordClick(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	owner := mustCreateUser(t, ctx, repo, "alice")
	link := testutil.NewTestLink(t, testutil.UniqueCode("click"), owner.ID)
	if err := repo.CreateLink(ctx, link); err != nil {
		t.Fatalf("create link: %v", err)
	}

	event := &model.ClickEvent{
		ID:        testutil.UniqueCode("ev"),
		LinkID:    link.ID,
		IP:        "203.0.113.7",
		Browser:   "Firefox",
		Device:    "desktop",
		Referrer:  "https://example.org",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.RecordClick(ctx, event); err != nil {
		t.Fatalf("record click: %v", err)
	}

	loaded, err := repo.GetLinkByCode(ctx, link.Code)
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	if loaded.TotalClicks != 1 {
		t.Errorf("total clicks = %d, want 1", loaded.TotalClicks)
	}

	clicks, err := repo.ListClicksByLinkID(ctx, link.ID)
	if err != nil {
		t.Fatalf("list clicks: %v", err)
	}
	if len(clicks) != 1 {
		t.Fatalf("len(clicks) = %d, want 1", len(clicks))
	}
	if clicks[0].Browser != "Firefox" || clicks[0].IP != "203.0.113.7" {
		t.Errorf("click = %+v, want recorded visitor data", clicks[0])
	}

	orphan := &model.ClickEvent{
		ID:        testutil.UniqueCode("ev"),
		LinkID:    "missing-link",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.RecordClick(ctx, orphan); err == nil {
		t.Fatal("record click for missing link: got nil, want error")
	}
}

func TestRepository_RecordClickConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	owner := mustCreateUser(t, ctx, repo, "alice")
	link := testutil.NewTestLink(t, testutil.UniqueCode("conc"), owner.ID)
	if err := repo.CreateLink(ctx, link); err != nil {
		t.Fatalf("create link: %v", err)
	}

	const n = 50

	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			event := &model.ClickEvent{
				ID:        fmt.Sprintf("ev-%d-%d", i, time.Now().UnixNano()),
				LinkID:    link.ID,
				Browser:   "Chrome",
				Device:    "desktop",
				CreatedAt: time.Now().UTC(),
			}
			if err := repo.RecordClick(ctx, event); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent record click: %v", err)
	}

	loaded, err := repo.GetLinkByCode(ctx, link.Code)
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	// Every write committed, so the counter matches the event count.
	if loaded.TotalClicks != n {
		t.Errorf("total clicks = %d, want %d", loaded.TotalClicks, n)
	}

	count, err := repo.CountClicksByLinkID(ctx, link.ID)
	if err != nil {
		t.Fatalf("count clicks: %v", err)
	}
	if count != n {
		t.Errorf("click count = %d, want %d", count, n)
	}
}
