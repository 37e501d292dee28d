// Package feeds fetches and normalizes RSS/Atom feeds.
package feeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
)

const maxSummaryLength = 2000

// Parsed is a fetched feed reduced to what is persisted
type Parsed struct {
	Title   string
	Entries []domain.FeedEntry
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Parsed, error)
}

// GofeedFetcher fetches feeds over HTTP and parses them with gofeed
type GofeedFetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewFetcher(timeout time.Duration) *GofeedFetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = "pinax-feed-fetcher/1.0"
	return &GofeedFetcher{parser: parser, timeout: timeout}
}

func (f *GofeedFetcher) Fetch(ctx context.Context, url string) (*Parsed, error) {
	logger.ExternalServiceCall("feed", "fetch", "url", url)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(url, ctx)
	logger.ExternalServiceResult("feed", "fetch", err, "duration", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}
	return Normalize(feed), nil
}

// Normalize converts a gofeed result. Items without a GUID fall back to their link;
// items with neither are skipped, as are repeated GUIDs.
func Normalize(feed *gofeed.Feed) *Parsed {
	out := &Parsed{Title: strings.TrimSpace(feed.Title)}
	seen := make(map[string]bool, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		guid := strings.TrimSpace(item.GUID)
		if guid == "" {
			guid = strings.TrimSpace(item.Link)
		}
		if guid == "" || seen[guid] {
			continue
		}
		seen[guid] = true

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		if len(summary) > maxSummaryLength {
			summary = summary[:maxSummaryLength]
		}

		entry := domain.FeedEntry{
			GUID:    guid,
			Title:   strings.TrimSpace(item.Title),
			Link:    strings.TrimSpace(item.Link),
			Summary: summary,
		}
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			entry.PublishedOn = &t
		} else if item.UpdatedParsed != nil {
			t := item.UpdatedParsed.UTC()
			entry.PublishedOn = &t
		}
		out.Entries = append(out.Entries, entry)
	}
	return out
}
