package dataflows

import (
	"context"
	"time"
)

// Article is a full news record as returned by a news source.
type Article struct {
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Content     string    `json:"content,omitempty"`
}

// Fetcher returns the article descriptions for a search term, newest first.
// Failures are logged and reported as an empty result.
type Fetcher interface {
	FetchArticles(ctx context.Context, searchName string) []string
}

// Source is a news backend usable both by the analyzer and by listings.
type Source interface {
	Fetcher
	FetchFullArticles(ctx context.Context, searchName string) ([]Article, error)
	Name() string
}
