// internal/adapters/partner/client.go
package partner

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"sifnos_hotels/internal/adapters/observability"
	"sifnos_hotels/internal/domain"
)

const service = "agoda"

type Config struct {
	ProxyURL    string // local affiliate proxy, tried first
	FunctionURL string // server-side function holding the affiliate credentials
	FunctionKey string
	SiteID      string
	APIKey      string
	CityID      int
	Currency    string
	Language    string
	MaxResults  int
	RPS         int
	Attempts    int
}

type Client struct {
	cfg Config
	hc  *http.Client
	rl  *rate.Limiter
}

func New(cfg Config) (*Client, error) {
	if cfg.ProxyURL == "" && cfg.FunctionURL == "" {
		return nil, fmt.Errorf("partner: proxy or function URL is required")
	}
	if cfg.FunctionURL != "" && cfg.FunctionKey == "" {
		return nil, fmt.Errorf("partner: function key is required")
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	if cfg.Language == "" {
		cfg.Language = "en-us"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 30
	}
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: 20 * time.Second},
		rl:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
	}, nil
}

var (
	ErrNotFound     = errors.New("partner: not found")
	ErrUnauthorized = errors.New("partner: unauthorized")
	ErrForbidden    = errors.New("partner: forbidden")
	ErrNoResults    = errors.New("partner: response has no results array")
)

// ---- request/response shapes ----

type occupancy struct {
	NumberOfAdult    int `json:"numberOfAdult"`
	NumberOfChildren int `json:"numberOfChildren"`
}

type additional struct {
	Currency  string    `json:"currency"`
	Language  string    `json:"language"`
	MaxResult int       `json:"maxResult"`
	Occupancy occupancy `json:"occupancy"`
	SortBy    string    `json:"sortBy"`
}

type criteria struct {
	Additional   additional `json:"additional"`
	CheckInDate  string     `json:"checkInDate"`
	CheckOutDate string     `json:"checkOutDate"`
	CityID       int        `json:"cityId"`
}

type searchRequest struct {
	Criteria criteria `json:"criteria"`
}

type searchResponse struct {
	Results []map[string]any `json:"results"`
	Error   json.RawMessage  `json:"error,omitempty"`
}

func (c *Client) body(q domain.PartnerQuery) searchRequest {
	return searchRequest{Criteria: criteria{
		Additional: additional{
			Currency:  c.cfg.Currency,
			Language:  c.cfg.Language,
			MaxResult: c.cfg.MaxResults,
			Occupancy: occupancy{NumberOfAdult: q.Adults, NumberOfChildren: q.Children},
			SortBy:    "Recommended",
		},
		CheckInDate:  q.CheckIn.Format("2006-01-02"),
		CheckOutDate: q.CheckOut.Format("2006-01-02"),
		CityID:       c.cfg.CityID,
	}}
}

// ---- Public API (proxy first, server-side function as fallback) ----

// SearchHotels returns the raw affiliate records for a stay.
func (c *Client) SearchHotels(ctx context.Context, q domain.PartnerQuery) ([]map[string]any, error) {
	payload, err := json.Marshal(c.body(q))
	if err != nil {
		return nil, err
	}

	var candidates []endpoint
	if c.cfg.ProxyURL != "" {
		candidates = append(candidates, endpoint{name: "proxy", url: c.cfg.ProxyURL, auth: c.cfg.SiteID + ":" + c.cfg.APIKey, attempts: 1})
	}
	if c.cfg.FunctionURL != "" {
		candidates = append(candidates, endpoint{name: "function", url: c.cfg.FunctionURL, auth: "Bearer " + c.cfg.FunctionKey, attempts: c.cfg.Attempts})
	}

	var out searchResponse
	if err := c.postFirst(ctx, candidates, payload, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// ---- Internals ----

type endpoint struct {
	name     string
	url      string
	auth     string
	attempts int
}

// postFirst returns the first endpoint's answer that carries a results array.
// Any failure moves on to the next candidate.
func (c *Client) postFirst(ctx context.Context, eps []endpoint, payload []byte, out *searchResponse) error {
	var last error
	for _, ep := range eps {
		var resp searchResponse
		err := c.post(ctx, ep, payload, &resp)
		if err == nil && resp.Results == nil {
			err = ErrNoResults
			if len(resp.Error) > 0 {
				err = fmt.Errorf("%w: %s", ErrNoResults, strings.TrimSpace(string(resp.Error)))
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			last = fmt.Errorf("%s: %w", ep.name, err)
			continue
		}
		*out = resp
		return nil
	}
	if last != nil {
		return last
	}
	return errors.New("partner: no endpoint configured")
}

// post sends payload with client-side rate limiting and retries on 429 and
// transient 5xx, honoring Retry-After when provided.
func (c *Client) post(ctx context.Context, ep endpoint, payload []byte, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < ep.attempts; i++ {
		retry := i < ep.attempts-1
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", ep.auth)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "sifnos-hotels/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, ep.name, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if retry && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, ep.name, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if retry && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns false if ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date); 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
