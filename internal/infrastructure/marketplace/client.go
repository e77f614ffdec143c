package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecocompare/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of a failed response is kept as error details
const maxErrorBody = 64 << 10

// ClientConfig configures a RapidAPI-backed marketplace client
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Host    string
	// RateLimit is the steady request rate in requests per second
	RateLimit float64
	Logger    zerolog.Logger
}

// client is the HTTP plumbing shared by the marketplace fetchers
type client struct {
	platform    string
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	host        string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

func newClient(platform string, cfg ClientConfig) *client {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5
	}
	// burst of 5 requests
	limiter := rate.NewLimiter(rate.Limit(limit), 5)

	host := cfg.Host
	if host == "" {
		if u, err := url.Parse(cfg.BaseURL); err == nil {
			host = u.Host
		}
	}

	return &client{
		platform: platform,
		httpClient: &http.Client{
			// Upper bound only; callers bound each search with their own deadline.
			Timeout: 30 * time.Second,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		host:        host,
		rateLimiter: limiter,
		logger:      cfg.Logger.With().Str("platform", platform).Logger(),
	}
}

// getJSON issues a single GET request and decodes the JSON body into out.
// Every failure is returned as a *domain.ProductServiceError sourced to the platform.
func (c *client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("rate limiter wait aborted")
		return domain.NewPlatformTimeoutError(c.platform, err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.NewPlatformFetchError(c.platform, http.StatusInternalServerError,
			fmt.Sprintf("%s API error: %v", domain.PlatformTitle(c.platform), err), nil)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "EcoCompare/1.0")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("marketplace response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.NewPlatformFetchError(
			c.platform,
			resp.StatusCode,
			fmt.Sprintf("%s API error: %d", domain.PlatformTitle(c.platform), resp.StatusCode),
			errorDetails(body),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return c.transportError(ctx, ctx.Err())
		}
		return domain.NewPlatformFetchError(c.platform, http.StatusBadGateway,
			fmt.Sprintf("%s API error: failed to decode response: %v", domain.PlatformTitle(c.platform), err), nil)
	}

	return nil
}

func (c *client) transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewPlatformTimeoutError(c.platform, context.DeadlineExceeded)
	}
	return domain.NewPlatformFetchError(c.platform, http.StatusBadGateway,
		fmt.Sprintf("%s API error: %v", domain.PlatformTitle(c.platform), err), nil)
}

// errorDetails keeps a JSON error body as structured data, anything else as text
func errorDetails(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err == nil {
		return decoded
	}
	return string(body)
}
