package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/retry"
	"github.com/sirupsen/logrus"
)

const (
	BaseURL = "https://site.api.espn.com/apis/site/v2/sports"
)

// Config controls the ESPN client
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Limiter throttles outbound requests
type Limiter interface {
	Wait(ctx context.Context) error
}

// Client handles ESPN API requests. Every GET is served from the response
// cache when possible and retried with backoff otherwise.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	cache      cache.Cache
	retry      *retry.Policy
	limiter    Limiter
	logger     logrus.FieldLogger
}

// New creates a new ESPN API client. A nil cache disables response caching.
func New(cfg Config, c cache.Cache, logger logrus.FieldLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: "Mozilla/5.0 (compatible; FortunaBot/1.0)",
		cache:     c,
		retry:     retry.NewPolicy(cfg.RetryAttempts, cfg.RetryDelay),
		logger:    logger,
	}
}

// WithLimiter throttles every network request (cache hits are free)
func (c *Client) WithLimiter(l Limiter) *Client {
	c.limiter = l
	return c
}

// FetchScoreboard fetches games for a sport. If date is zero, fetches whatever ESPN considers "today".
func (c *Client) FetchScoreboard(ctx context.Context, sportPath string, date time.Time) (map[string]interface{}, error) {
	params := map[string]string{}
	if !date.IsZero() {
		params["dates"] = date.Format("20060102")
	}
	return c.get(ctx, sportPath, "scoreboard", params, cache.ScoreboardTTL)
}

// FetchTeam fetches a team with its record breakdown
func (c *Client) FetchTeam(ctx context.Context, sportPath, teamID string) (map[string]interface{}, error) {
	return c.get(ctx, sportPath, "teams/"+teamID, nil, cache.TeamTTL)
}

// FetchTeamStatistics fetches season statistics for a team
func (c *Client) FetchTeamStatistics(ctx context.Context, sportPath, teamID string) (map[string]interface{}, error) {
	return c.get(ctx, sportPath, "teams/"+teamID+"/statistics", nil, cache.StatisticsTTL)
}

// FetchTeamSchedule fetches a team's season schedule with results
func (c *Client) FetchTeamSchedule(ctx context.Context, sportPath, teamID string) (map[string]interface{}, error) {
	return c.get(ctx, sportPath, "teams/"+teamID+"/schedule", nil, cache.ScheduleTTL)
}

// FetchInjuries fetches the league injury report
func (c *Client) FetchInjuries(ctx context.Context, sportPath string) (map[string]interface{}, error) {
	return c.get(ctx, sportPath, "injuries", nil, cache.InjuriesTTL)
}

// InvalidateSport drops every cached response for a sport
func (c *Client) InvalidateSport(ctx context.Context, sportPath string) (int, error) {
	if c.cache == nil {
		return 0, nil
	}
	return c.cache.InvalidatePrefix(ctx, sportPath+"/")
}

func (c *Client) get(ctx context.Context, sportPath, endpoint string, params map[string]string, ttl time.Duration) (map[string]interface{}, error) {
	path := sportPath + "/" + endpoint
	key := cache.Key(path, params)
	log := c.logger.WithField("endpoint", key)

	if c.cache != nil {
		data, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.WithError(err).Warn("cache read failed")
		}
		if ok {
			var result map[string]interface{}
			if err := json.Unmarshal(data, &result); err == nil {
				return result, nil
			}
			log.Warn("discarding unreadable cache entry")
		}
	}

	var body []byte
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return &retry.Permanent{Err: err}
			}
		}
		b, err := c.fetch(ctx, c.baseURL+"/"+key)
		if err != nil {
			log.WithError(err).Debug("ESPN request failed")
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, ttl); err != nil {
			log.WithError(err).Warn("cache write failed")
		}
	}

	return result, nil
}

// fetch makes an HTTP GET request and returns the raw body
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &retry.Permanent{Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("ESPN API error: status=%d, body=%s", resp.StatusCode, truncate(string(body), 200))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, &retry.Permanent{Err: apiErr}
		}
		return nil, apiErr
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
