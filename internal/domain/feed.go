package domain

import "time"

type Feed struct {
	ID            int32      `json:"id" db:"id"`
	OwnerID       int32      `json:"owner_id" db:"owner_id"`
	URL           string     `json:"url" db:"url"`
	Title         string     `json:"title" db:"title"`
	LastFetchedOn *time.Time `json:"last_fetched_on,omitempty" db:"last_fetched_on"`
	LastError     string     `json:"last_error" db:"last_error"`
	CreatedOn     time.Time  `json:"created_on" db:"created_on"`
}

type FeedEntry struct {
	ID          int32      `json:"id" db:"id"`
	FeedID      int32      `json:"feed_id" db:"feed_id"`
	GUID        string     `json:"guid" db:"guid"`
	Title       string     `json:"title" db:"title"`
	Link        string     `json:"link" db:"link"`
	Summary     string     `json:"summary" db:"summary"`
	PublishedOn *time.Time `json:"published_on,omitempty" db:"published_on"`
}
