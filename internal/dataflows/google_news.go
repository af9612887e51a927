package dataflows

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"github.com/dyike/CoinPulse/internal/config"
	"github.com/dyike/CoinPulse/internal/logger"
	"github.com/dyike/CoinPulse/internal/metrics"
)

// GoogleNewsClient reads the Google News RSS search feed. It needs no API key.
type GoogleNewsClient struct {
	client *resty.Client
	parser *gofeed.Parser
}

// NewGoogleNewsClient creates a new Google News client
func NewGoogleNewsClient(cfg *config.Config) *GoogleNewsClient {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.GoogleNewsBaseURL, "/"))
	client.SetTimeout(cfg.NewsTimeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; CoinPulse/1.0)")

	return &GoogleNewsClient{
		client: client,
		parser: gofeed.NewParser(),
	}
}

func (c *GoogleNewsClient) Name() string {
	return config.SourceGoogleNews
}

func (c *GoogleNewsClient) FetchArticles(ctx context.Context, searchName string) []string {
	log := logger.Get().With("source", c.Name(), "query", searchName)
	log.Infow("fetching news")

	articles, err := c.FetchFullArticles(ctx, searchName)
	if err != nil {
		log.Warnw("error fetching news", "error", err)
		return []string{}
	}

	descriptions := make([]string, 0, len(articles))
	for _, a := range articles {
		if a.Description != "" {
			descriptions = append(descriptions, a.Description)
		}
	}

	if len(descriptions) == 0 {
		log.Infow("no articles found")
	} else {
		log.Infow("fetched articles", "count", len(descriptions))
	}
	return descriptions
}

// FetchFullArticles returns the feed items newest first.
func (c *GoogleNewsClient) FetchFullArticles(ctx context.Context, searchName string) ([]Article, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":    searchName,
			"hl":   "en-US",
			"gl":   "US",
			"ceid": "US:en",
		}).
		Get("/search")
	if err != nil {
		metrics.NewsFetchFailures.WithLabelValues(c.Name()).Inc()
		return nil, fmt.Errorf("google news request: %w", err)
	}
	if resp.IsError() {
		metrics.NewsFetchFailures.WithLabelValues(c.Name()).Inc()
		return nil, fmt.Errorf("google news: HTTP %d", resp.StatusCode())
	}

	feed, err := c.parser.ParseString(resp.String())
	if err != nil {
		metrics.NewsFetchFailures.WithLabelValues(c.Name()).Inc()
		return nil, fmt.Errorf("google news parse: %w", err)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		article := Article{
			Title:       item.Title,
			Description: CleanText(item.Description),
			URL:         item.Link,
		}
		if item.PublishedParsed != nil {
			article.PublishedAt = *item.PublishedParsed
		}
		// Google News titles end with " - Publisher".
		if idx := strings.LastIndex(item.Title, " - "); idx > 0 {
			article.Title = item.Title[:idx]
			article.Source = item.Title[idx+3:]
		}
		articles = append(articles, article)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	return articles, nil
}
