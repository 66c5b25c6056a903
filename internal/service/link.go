package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linkcut/linkcut/internal/cache"
	"github.com/linkcut/linkcut/internal/metrics"
	"github.com/linkcut/linkcut/internal/model"
	"github.com/linkcut/linkcut/internal/repository"
)

// Link service errors.
var (
	ErrInvalidURL         = errors.New("invalid URL")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrLinkNotFound       = errors.New("link not found")
	ErrCodespaceExhausted = errors.New("could not allocate a unique code")
)

const (
	// codeLength is the length of generated short codes.
	codeLength = 7

	// codeAlphabet is the base62 alphabet codes are drawn from.
	codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// maxCodeRetries bounds the generate-insert loop. Collisions at 62^7
	// codes are vanishingly rare, so hitting this limit means something
	// is wrong with the random source or the table.
	maxCodeRetries = 5

	maxURLLength = 2048
)

// LinkService handles short link creation and resolution.
type LinkService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewLinkService creates a new LinkService.
func NewLinkService(repo *repository.Repository, c *cache.Cache, recorder metrics.Recorder, logger *slog.Logger) *LinkService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkService{
		repo:    repo,
		cache:   c,
		metrics: recorder,
		logger:  logger,
	}
}

// ShortenInput is the input for creating a short link.
type ShortenInput struct {
	OriginalURL string
	Description string
	OwnerID     string
}

// Shorten validates the URL, allocates a unique code, and stores the link.
// Uniqueness is enforced by the database constraint, not by a read-then-write
// check, so concurrent requests can never produce duplicate codes.
func (s *LinkService) Shorten(ctx context.Context, in ShortenInput) (*model.Link, error) {
	normalized, err := normalizeURL(in.OriginalURL)
	if err != nil {
		return nil, err
	}
	if len(in.Description) > model.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		link := &model.Link{
			ID:          ulid.Make().String(),
			Code:        code,
			OriginalURL: normalized,
			Description: in.Description,
			OwnerID:     in.OwnerID,
			TotalClicks: 0,
			CreatedAt:   time.Now().UTC(),
		}

		err = s.repo.CreateLink(ctx, link)
		if err == nil {
			s.metrics.IncLinkCreated()
			return link, nil
		}
		if errors.Is(err, repository.ErrCodeExists) {
			s.metrics.IncCodeCollision()
			s.logger.Warn("short code collision, retrying",
				slog.String("code", code),
				slog.Int("attempt", attempt+1))
			continue
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return nil, ErrCodespaceExhausted
}

// MyURLs returns all links owned by the given user, newest first.
func (s *LinkService) MyURLs(ctx context.Context, ownerID string) ([]*model.Link, error) {
	links, err := s.repo.ListLinksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

// Resolve looks up the destination for a short code, cache first.
// Unknown codes are negatively cached so repeated probes for dead codes
// do not reach the database.
func (s *LinkService) Resolve(ctx context.Context, code string) (*model.Link, error) {
	if s.cache != nil {
		if neg, err := s.cache.IsNegativelyCached(ctx, code); err == nil && neg {
			s.metrics.IncRedirectCacheHit()
			return nil, ErrLinkNotFound
		}

		cached, err := s.cache.GetLink(ctx, code)
		if err == nil {
			s.metrics.IncRedirectCacheHit()
			return cached.ToLink(code), nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// Cache trouble must not take down redirects.
			s.logger.Warn("link cache lookup failed", slog.String("error", err.Error()))
		}
	}

	s.metrics.IncRedirectCacheMiss()

	link, err := s.repo.GetLinkByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			if s.cache != nil {
				if cerr := s.cache.SetNegativeCache(ctx, code); cerr != nil {
					s.logger.Warn("failed to set negative cache", slog.String("error", cerr.Error()))
				}
			}
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to resolve link: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetLink(ctx, link); err != nil {
			s.logger.Warn("failed to cache link", slog.String("error", err.Error()))
		}
	}

	return link, nil
}

// normalizeURL validates the destination and returns its canonical form.
// URLs without a scheme get https:// prefixed, matching what users paste.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	if len(raw) > maxURLLength {
		return "", ErrInvalidURL
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if u.Host == "" {
		return "", ErrInvalidURL
	}
	if !strings.Contains(u.Host, ".") && !isLocalHost(u.Host) {
		return "", ErrInvalidURL
	}

	return u.String(), nil
}

func isLocalHost(host string) bool {
	h := host
	if i := strings.LastIndex(h, ":"); i != -1 {
		h = h[:i]
	}
	return h == "localhost" || h == "127.0.0.1" || h == "[::1]"
}

// generateCode draws a random base62 code from crypto/rand.
// Bytes >= 248 are rejected to keep the alphabet distribution uniform.
func generateCode() (string, error) {
	const maxAccept = 248 // largest multiple of 62 below 256

	code := make([]byte, codeLength)
	buf := make([]byte, codeLength*2)

	i := 0
	for i < codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= maxAccept {
				continue
			}
			code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
			i++
			if i == codeLength {
				break
			}
		}
	}

	return string(code), nil
}
