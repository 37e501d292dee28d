package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"pinax-social-backend/internal/cache"
	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/feeds"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/validation"
)

const (
	defaultEntryLimit = 20
	maxEntryLimit     = 200
)

type feedRequest struct {
	URL string `json:"url" validate:"required,max=500,httpurl"`
}

type feedService struct {
	feedRepo repository.FeedRepository
	fetcher  feeds.Fetcher
	cache    cache.Cache
	ttl      time.Duration
	now      func() time.Time
}

func NewFeedService(feedRepo repository.FeedRepository, fetcher feeds.Fetcher, c cache.Cache, ttl time.Duration) FeedService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &feedService{
		feedRepo: feedRepo,
		fetcher:  fetcher,
		cache:    c,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *feedService) AddFeed(ctx context.Context, ownerID int32, url string) (*domain.Feed, error) {
	req := feedRequest{URL: strings.TrimSpace(url)}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	feed := &domain.Feed{OwnerID: ownerID, URL: req.URL}
	if err := s.feedRepo.Create(ctx, feed); err != nil {
		return nil, conflict(err, "feed with this URL")
	}
	logger.Info("Feed added", "feedID", feed.ID, "ownerID", ownerID, "url", feed.URL)
	return feed, nil
}

func (s *feedService) owned(ctx context.Context, ownerID, feedID int32) (*domain.Feed, error) {
	feed, err := s.feedRepo.GetByID(ctx, feedID)
	if err != nil {
		return nil, notFound(err, "feed")
	}
	if feed.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: not your feed", ErrForbidden)
	}
	return feed, nil
}

func (s *feedService) RemoveFeed(ctx context.Context, ownerID, feedID int32) error {
	feed, err := s.owned(ctx, ownerID, feedID)
	if err != nil {
		return err
	}
	if err := s.feedRepo.Delete(ctx, feed.ID); err != nil {
		return notFound(err, "feed")
	}
	s.invalidate(ctx, feed)
	return nil
}

func (s *feedService) ListFeeds(ctx context.Context, ownerID int32) ([]domain.Feed, error) {
	return s.feedRepo.ListByOwner(ctx, ownerID)
}

func (s *feedService) RefreshFeed(ctx context.Context, ownerID, feedID int32) (*domain.Feed, error) {
	if _, err := s.owned(ctx, ownerID, feedID); err != nil {
		return nil, err
	}
	return s.Refresh(ctx, feedID)
}

// Refresh fetches one feed and stores its entries. A fetch failure is recorded on the
// feed and also returned.
func (s *feedService) Refresh(ctx context.Context, feedID int32) (*domain.Feed, error) {
	logger.EnterMethod("feedService.Refresh", "feedID", feedID)

	feed, err := s.feedRepo.GetByID(ctx, feedID)
	if err != nil {
		return nil, notFound(err, "feed")
	}

	fetchedAt := s.now()
	parsed, fetchErr := s.fetcher.Fetch(ctx, feed.URL)
	if fetchErr != nil {
		if err := s.feedRepo.RecordFetch(ctx, feed.ID, feed.Title, fetchedAt, fetchErr.Error()); err != nil {
			logger.Error("Failed to record feed error", "feedID", feed.ID, "error", err)
		}
		feed.LastFetchedOn = &fetchedAt
		feed.LastError = fetchErr.Error()
		logger.ExitMethodWithError("feedService.Refresh", fetchErr, "feedID", feed.ID)
		return feed, fmt.Errorf("failed to fetch feed %d: %w", feed.ID, fetchErr)
	}

	stored, err := s.feedRepo.UpsertEntries(ctx, feed.ID, parsed.Entries)
	if err != nil {
		return nil, err
	}
	title := feed.Title
	if parsed.Title != "" {
		title = parsed.Title
	}
	if err := s.feedRepo.RecordFetch(ctx, feed.ID, title, fetchedAt, ""); err != nil {
		return nil, err
	}
	feed.Title = title
	feed.LastFetchedOn = &fetchedAt
	feed.LastError = ""
	s.invalidate(ctx, feed)

	logger.ExitMethod("feedService.Refresh", "feedID", feed.ID, "entries", stored)
	return feed, nil
}

func (s *feedService) invalidate(ctx context.Context, feed *domain.Feed) {
	if err := s.cache.Delete(ctx, cache.FeedEntriesKey(feed.ID), cache.UserStreamKey(feed.OwnerID)); err != nil {
		logger.Warn("Failed to invalidate feed cache", "feedID", feed.ID, "error", err)
	}
}

// RefreshAll refreshes every feed and returns how many succeeded; failures are
// aggregated into the returned error.
func (s *feedService) RefreshAll(ctx context.Context) (int, error) {
	all, err := s.feedRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	var result *multierror.Error
	refreshed := 0
	for _, feed := range all {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}
		if _, err := s.Refresh(ctx, feed.ID); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		refreshed++
	}
	logger.Info("Feeds refreshed", "total", len(all), "refreshed", refreshed)
	return refreshed, result.ErrorOrNil()
}

func clampLimit(limit int32) int32 {
	if limit <= 0 {
		return defaultEntryLimit
	}
	if limit > maxEntryLimit {
		return maxEntryLimit
	}
	return limit
}

// cached serves up to limit entries from the cache. Misses load maxEntryLimit entries
// so one cached list serves every limit. Cache failures fall through to load.
func (s *feedService) cached(ctx context.Context, key string, limit int32, load func(limit int32) ([]domain.FeedEntry, error)) ([]domain.FeedEntry, error) {
	var entries []domain.FeedEntry
	hit, err := cache.GetJSON(ctx, s.cache, key, &entries)
	if err != nil {
		logger.Warn("Feed cache read failed", "key", key, "error", err)
	}
	if !hit {
		if entries, err = load(maxEntryLimit); err != nil {
			return nil, err
		}
		if err := cache.SetJSON(ctx, s.cache, key, entries, s.ttl); err != nil {
			logger.Warn("Feed cache write failed", "key", key, "error", err)
		}
	}
	if int32(len(entries)) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *feedService) Entries(ctx context.Context, feedID int32, limit int32) ([]domain.FeedEntry, error) {
	if _, err := s.feedRepo.GetByID(ctx, feedID); err != nil {
		return nil, notFound(err, "feed")
	}
	return s.cached(ctx, cache.FeedEntriesKey(feedID), clampLimit(limit), func(n int32) ([]domain.FeedEntry, error) {
		return s.feedRepo.ListEntries(ctx, feedID, n)
	})
}

func (s *feedService) UserStream(ctx context.Context, ownerID int32, limit int32) ([]domain.FeedEntry, error) {
	return s.cached(ctx, cache.UserStreamKey(ownerID), clampLimit(limit), func(n int32) ([]domain.FeedEntry, error) {
		return s.feedRepo.ListEntriesForOwner(ctx, ownerID, n)
	})
}
