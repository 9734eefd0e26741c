package marketdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/guttosm/stockplot/config"
	"github.com/guttosm/stockplot/internal/domain/models"
	"github.com/guttosm/stockplot/internal/logger"
)

// maxBodyBytes caps how much of an upstream response is read (full daily history is a few MB).
const maxBodyBytes = 64 << 20

// Fetcher retrieves the full daily time-series payload for a symbol.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string) (*Payload, error)
}

// Client calls an Alpha Vantage compatible TIME_SERIES_DAILY endpoint.
//
// Behavior:
//   - One attempt per call, no retry.
//   - Calls share a client-side rate limiter (RequestsPerMinute, burst of the same size).
//   - Concurrent calls for the same symbol share a single upstream request.
//     The shared request is not tied to any one caller's context, so a
//     cancelled caller does not fail the others waiting on it.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
}

// NewClient builds a Client from configuration.
func NewClient(cfg config.MarketDataConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// FetchDaily performs the daily time-series call for symbol and classifies the response.
//
// Errors are *models.ChartError of kind UnknownSymbol, RateLimited,
// UnexpectedResponse or FetchError.
func (c *Client) FetchDaily(ctx context.Context, symbol string) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewChartError(models.KindFetchError, "", fmt.Errorf("market data fetch: %w", err))
	}

	ch := c.group.DoChan(strings.ToUpper(symbol), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.fetch(fctx, symbol)
	})

	select {
	case <-ctx.Done():
		return nil, models.NewChartError(models.KindFetchError, "", fmt.Errorf("market data fetch: %w", ctx.Err()))
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.L().Debug().Str("symbol", symbol).Msg("market data fetch shared")
		}
		return res.Val.(*Payload), nil
	}
}

func (c *Client) fetch(ctx context.Context, symbol string) (*Payload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, models.NewChartError(models.KindFetchError, "rate limiter wait", err)
	}

	u, err := c.requestURL(symbol)
	if err != nil {
		return nil, models.NewChartError(models.KindFetchError, "build url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, models.NewChartError(models.KindFetchError, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, models.NewChartError(models.KindFetchError, "", fmt.Errorf("market data fetch: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, models.NewChartError(models.KindFetchError, "", fmt.Errorf("market data read body: %w", err))
	}

	logger.L().Debug().
		Str("symbol", symbol).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("market data response")

	payload, err := ParsePayload(body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewChartError(models.KindUnexpectedResponse, fmt.Sprintf("status %d", resp.StatusCode), nil)
	}
	return payload, nil
}

func (c *Client) requestURL(symbol string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
