package newsapi

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"cryptoadvisor/internal/adapters/config"
	"cryptoadvisor/internal/metrics"
	"cryptoadvisor/pkg/errors"
	"cryptoadvisor/pkg/logger"
)

// Article is a single news item returned by NewsAPI.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type everythingResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Client talks to the NewsAPI /v2 endpoints.
type Client struct {
	http     *resty.Client
	apiKey   string
	pageSize int
	daysBack int
	log      *logger.Logger
}

// NewClient creates a NewsAPI client.
func NewClient(cfg config.NewsAPIConfig) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		http:     http,
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
		daysBack: cfg.DaysBack,
		log:      logger.Get().With("component", "newsapi"),
	}
}

// RecentArticles searches for recent English articles matching the query,
// newest first, within the configured trailing window.
func (c *Client) RecentArticles(ctx context.Context, query string) ([]Article, error) {
	if c.apiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "newsapi key not configured")
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -c.daysBack)

	var out everythingResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        query,
			"from":     from.Format("2006-01-02"),
			"to":       now.Format("2006-01-02"),
			"language": "en",
			"sortBy":   "publishedAt",
			"pageSize": strconv.Itoa(c.pageSize),
		}).
		SetHeader("X-Api-Key", c.apiKey).
		SetResult(&out).
		Get("/everything")
	metrics.RecordExternalAPICall("newsapi", "everything", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(err, "newsapi request")
	}
	if resp.IsError() {
		return nil, errors.Wrapf(errors.ErrExternal, "newsapi: status %d", resp.StatusCode())
	}

	c.log.Debugw("Fetched news", "query", query, "articles", len(out.Articles))
	return out.Articles, nil
}
