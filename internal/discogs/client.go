package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/wfarner/vinylalert/internal/cache"
	"github.com/wfarner/vinylalert/internal/model"
)

const (
	apiBaseURL = "https://api.discogs.com"
	statsTTL   = 5 * time.Minute
)

// RateLimitState holds the most recent X-Discogs-Ratelimit header values.
type RateLimitState struct {
	Limit     int
	Used      int
	Remaining int
}

// Client talks to the Discogs REST API with a personal access token.
type Client struct {
	client  *resty.Client
	cache   *cache.Cache
	limiter *rate.Limiter

	mu        sync.Mutex
	rateState RateLimitState
}

// NewClient creates an API client. The cache may be nil; release stats are
// then fetched on every cycle.
func NewClient(userAgent, token string, c *cache.Cache) *Client {
	client := resty.New().
		SetBaseURL(apiBaseURL).
		SetHeader("User-Agent", userAgent).
		SetQueryParam("token", token).
		SetTimeout(30 * time.Second)

	return &Client{
		client:  client,
		cache:   c,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// ReleaseStats fetches marketplace stats for a release.
func (c *Client) ReleaseStats(ctx context.Context, releaseID int) (model.ReleaseStats, error) {
	if c.cache != nil {
		var stats model.ReleaseStats
		if found, _ := c.cache.Get(cache.StatsKey(releaseID), &stats); found {
			return stats, nil
		}
	}

	body, err := c.get(ctx, fmt.Sprintf("/marketplace/stats/%d", releaseID), "fetch release stats")
	if err != nil {
		return model.ReleaseStats{}, err
	}

	var stats model.ReleaseStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return model.ReleaseStats{}, fmt.Errorf("decoding release stats: %w", err)
	}

	if c.cache != nil {
		_ = c.cache.Put(cache.StatsKey(releaseID), stats, statsTTL)
	}

	return stats, nil
}

// List fetches a user-curated list and returns its items as wantlist
// entries named by their display title.
func (c *Client) List(ctx context.Context, listID int) ([]model.Want, error) {
	body, err := c.get(ctx, fmt.Sprintf("/lists/%d", listID), "fetch list")
	if err != nil {
		return nil, err
	}

	var list struct {
		Items []struct {
			ID           int    `json:"id"`
			DisplayTitle string `json:"display_title"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}

	wants := make([]model.Want, 0, len(list.Items))
	for _, item := range list.Items {
		wants = append(wants, model.Want{
			ReleaseID:   item.ID,
			DisplayName: item.DisplayTitle,
		})
	}
	return wants, nil
}

// RateLimit returns the rate-limit headers from the last API response.
func (c *Client) RateLimit() RateLimitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateState
}

func (c *Client) get(ctx context.Context, path, op string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, &model.ConnectivityError{Op: op, Err: err}
	}

	c.recordRateLimit(resp)

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s: API returned status %d", op, resp.StatusCode())
	}

	return resp.Body(), nil
}

func (c *Client) recordRateLimit(resp *resty.Response) {
	header := func(name string) int {
		n, _ := strconv.Atoi(resp.Header().Get(name))
		return n
	}

	c.mu.Lock()
	c.rateState = RateLimitState{
		Limit:     header("X-Discogs-Ratelimit"),
		Used:      header("X-Discogs-Ratelimit-Used"),
		Remaining: header("X-Discogs-Ratelimit-Remaining"),
	}
	c.mu.Unlock()
}
