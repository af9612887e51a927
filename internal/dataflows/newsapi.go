package dataflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/CoinPulse/internal/config"
	"github.com/dyike/CoinPulse/internal/logger"
	"github.com/dyike/CoinPulse/internal/metrics"
)

// NewsAPIClient queries the newsapi.org "everything" endpoint.
type NewsAPIClient struct {
	client *resty.Client
	apiKey string
}

// NewNewsAPIClient creates a new NewsAPI client
func NewNewsAPIClient(cfg *config.Config) *NewsAPIClient {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.NewsAPIBaseURL, "/"))
	client.SetTimeout(cfg.NewsTimeout)
	client.SetHeader("User-Agent", "CoinPulse/1.0")

	return &NewsAPIClient{
		client: client,
		apiKey: cfg.NewsAPIKey,
	}
}

func (c *NewsAPIClient) Name() string {
	return config.SourceNewsAPI
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

// FetchArticles returns the non-blank descriptions of the newest English
// articles matching searchName. Any failure yields an empty slice.
func (c *NewsAPIClient) FetchArticles(ctx context.Context, searchName string) []string {
	log := logger.Get().With("source", c.Name(), "query", searchName)
	log.Infow("fetching news")

	res, err := c.search(ctx, searchName)
	if err != nil {
		metrics.NewsFetchFailures.WithLabelValues(c.Name()).Inc()
		log.Warnw("error fetching news", "error", err)
		return []string{}
	}

	if res.Status != "ok" || len(res.Articles) == 0 {
		log.Infow("no articles found", "status", res.Status, "code", res.Code)
		return []string{}
	}

	descriptions := make([]string, 0, len(res.Articles))
	for _, a := range res.Articles {
		if a.Description == nil {
			continue
		}
		if text := CleanText(*a.Description); text != "" {
			descriptions = append(descriptions, text)
		}
	}

	log.Infow("fetched articles", "count", len(descriptions))
	return descriptions
}

// FetchFullArticles returns complete article records. Unlike FetchArticles
// it reports transport and API errors to the caller.
func (c *NewsAPIClient) FetchFullArticles(ctx context.Context, searchName string) ([]Article, error) {
	res, err := c.search(ctx, searchName)
	if err != nil {
		metrics.NewsFetchFailures.WithLabelValues(c.Name()).Inc()
		return nil, err
	}
	if res.Status != "ok" {
		return nil, fmt.Errorf("newsapi: status %q: %s", res.Code, res.Message)
	}

	articles := make([]Article, 0, len(res.Articles))
	for _, a := range res.Articles {
		article := Article{
			Source: a.Source.Name,
			Title:  a.Title,
			URL:    a.URL,
		}
		if a.Author != nil {
			article.Author = *a.Author
		}
		if a.Description != nil {
			article.Description = CleanText(*a.Description)
		}
		if a.URLToImage != nil {
			article.ImageURL = *a.URLToImage
		}
		if a.Content != nil {
			article.Content = *a.Content
		}
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			article.PublishedAt = t
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func (c *NewsAPIClient) search(ctx context.Context, searchName string) (*newsAPIResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        searchName,
			"sortBy":   "publishedAt",
			"apiKey":   c.apiKey,
			"language": "en",
		}).
		Get("/everything")
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", redactURLError(err))
	}

	var res newsAPIResponse
	decodeErr := json.Unmarshal(resp.Body(), &res)

	if resp.IsError() {
		if decodeErr == nil && res.Message != "" {
			return nil, fmt.Errorf("newsapi: HTTP %d: %s", resp.StatusCode(), res.Message)
		}
		return nil, fmt.Errorf("newsapi: HTTP %d", resp.StatusCode())
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("newsapi decode: %w", decodeErr)
	}
	return &res, nil
}

// redactURLError drops the query string, which carries the API key, from a
// transport error.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	redacted := *urlErr
	if u, perr := url.Parse(urlErr.URL); perr == nil {
		u.RawQuery = ""
		redacted.URL = u.String()
	} else {
		redacted.URL = ""
	}
	return &redacted
}
