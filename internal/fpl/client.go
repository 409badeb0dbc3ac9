// Package fpl is the data source: a read-only client for the Fantasy
// Premier League API with cache-before-fetch on raw response bytes.
package fpl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/fplpulse/analytics-api/internal/errs"
	"github.com/fplpulse/analytics-api/internal/models"
)

const DefaultBaseURL = "https://fantasy.premierleague.com/api/"

var upstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fpl_upstream_fetches_total",
	Help: "Upstream FPL API fetches by endpoint and outcome.",
}, []string{"endpoint", "outcome"}) // endpoint is the route shape, not the full path

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Cache     Cache
	CacheTTL  time.Duration
	Logger    *zap.Logger
}

type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	cache     Cache
	ttl       time.Duration
	logger    *zap.SugaredLogger
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.Sugar(),
	}
}

// FetchSeasonBulk fetches the bootstrap-static season snapshot.
func (c *Client) FetchSeasonBulk(ctx context.Context) (*models.Bootstrap, error) {
	body, err := c.get(ctx, "bootstrap-static/", "bootstrap-static", "fpl:bootstrap")
	if err != nil {
		return nil, err
	}
	var bulk models.Bootstrap
	if err := json.Unmarshal(body, &bulk); err != nil {
		return nil, &errs.DataFormatError{Reason: "bootstrap-static payload", Err: err}
	}
	return &bulk, nil
}

// FetchPlayerHistory fetches one player's finished-gameweek history.
func (c *Client) FetchPlayerHistory(ctx context.Context, id int) ([]models.HistoryEntry, error) {
	endpoint := fmt.Sprintf("element-summary/%d/", id)
	body, err := c.get(ctx, endpoint, "element-summary", fmt.Sprintf("fpl:element:%d", id))
	if err != nil {
		return nil, err
	}
	var summary models.ElementSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, &errs.DataFormatError{Reason: endpoint + " payload", Err: err}
	}
	return summary.History, nil
}

// get returns the raw bytes for an endpoint, serving from cache when
// possible. Transport failures and non-2xx responses surface as
// SourceUnavailableError; no retry happens here.
func (c *Client) get(ctx context.Context, endpoint, kind, cacheKey string) ([]byte, error) {
	if body, ok := c.cache.Get(ctx, cacheKey); ok {
		upstreamFetches.WithLabelValues(kind, "cache_hit").Inc()
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, &errs.SourceUnavailableError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		upstreamFetches.WithLabelValues(kind, "error").Inc()
		return nil, &errs.SourceUnavailableError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamFetches.WithLabelValues(kind, "error").Inc()
		return nil, &errs.SourceUnavailableError{Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamFetches.WithLabelValues(kind, "error").Inc()
		return nil, &errs.SourceUnavailableError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	upstreamFetches.WithLabelValues(kind, "ok").Inc()
	c.cache.Set(ctx, cacheKey, body, c.ttl)
	c.logger.Debugw("Fetched upstream", "endpoint", endpoint, "bytes", len(body))
	return body, nil
}
