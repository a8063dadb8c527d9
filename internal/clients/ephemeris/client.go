// Package ephemeris wraps the external chart-computation API. The core never
// computes planetary positions itself; it consumes this narrow contract.
package ephemeris

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/platform/envutil"
	"github.com/pearlapp/pearl-backend/internal/platform/httpx"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

// ChartRequest is the provider input for one chart computation.
type ChartRequest struct {
	Date        time.Time `json:"-"`
	BirthTime   string    `json:"time,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CityName    string    `json:"city,omitempty"`
	CountryCode string    `json:"country,omitempty"`
}

// Client computes natal and current-sky charts. A provider failure always
// propagates; there is no fallback sky data.
type Client interface {
	ComputeChart(ctx context.Context, req ChartRequest) (*astro.NatalChart, error)
	// CurrentSky returns positions for the present moment at (0,0); ecliptic
	// longitude is location independent, so the placeholder coordinates are a
	// deliberate simplification.
	CurrentSky(ctx context.Context) (*astro.NatalChart, error)
}

type client struct {
	httpClient *http.Client
	log        *logger.Logger
	baseURL    string
	apiKey     string
	maxRetries int
	now        func() time.Time
}

func NewClient(log *logger.Logger) (Client, error) {
	clientLog := log.With("client", "Ephemeris")
	baseURL := envutil.GetEnv("EPHEMERIS_BASE_URL", "", clientLog)
	if baseURL == "" {
		return nil, fmt.Errorf("EPHEMERIS_BASE_URL is not set")
	}
	apiKey := envutil.GetEnv("EPHEMERIS_API_KEY", "", clientLog)
	timeoutSec := envutil.GetEnvAsInt("EPHEMERIS_TIMEOUT_SECONDS", 15, clientLog)
	maxRetries := envutil.GetEnvAsInt("EPHEMERIS_MAX_RETRIES", 2, clientLog)
	return &client{
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		log:        clientLog,
		baseURL:    baseURL,
		apiKey:     apiKey,
		maxRetries: maxRetries,
		now:        time.Now,
	}, nil
}

type chartRequestBody struct {
	Date string `json:"date"`
	ChartRequest
}

type chartResponseBody struct {
	SunSign       string `json:"sun_sign"`
	MoonSign      string `json:"moon_sign"`
	RisingSign    string `json:"rising_sign"`
	MidheavenSign string `json:"midheaven_sign"`
	Positions     []struct {
		Planet     string  `json:"planet"`
		Sign       string  `json:"sign"`
		Degree     float64 `json:"degree"`
		House      *int    `json:"house"`
		Retrograde bool    `json:"retrograde"`
	} `json:"positions"`
	Houses []struct {
		House  int     `json:"house"`
		Sign   string  `json:"sign"`
		Degree float64 `json:"degree"`
	} `json:"houses"`
	Aspects []struct {
		First  string  `json:"first"`
		Second string  `json:"second"`
		Aspect string  `json:"aspect"`
		Orb    float64 `json:"orb"`
	} `json:"aspects"`
}

func (c *client) ComputeChart(ctx context.Context, req ChartRequest) (*astro.NatalChart, error) {
	body := chartRequestBody{
		Date:         req.Date.UTC().Format("2006-01-02"),
		ChartRequest: req,
	}
	var resp chartResponseBody
	if err := c.do(ctx, "/v1/chart", body, &resp); err != nil {
		return nil, fmt.Errorf("ephemeris compute chart: %w", err)
	}
	return decodeChart(resp), nil
}

func (c *client) CurrentSky(ctx context.Context) (*astro.NatalChart, error) {
	now := c.now().UTC()
	chart, err := c.ComputeChart(ctx, ChartRequest{
		Date:      now,
		BirthTime: now.Format("15:04"),
		Latitude:  0,
		Longitude: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("current sky: %w", err)
	}
	return chart, nil
}

func decodeChart(resp chartResponseBody) *astro.NatalChart {
	chart := &astro.NatalChart{
		SunSign:       astro.ZodiacSign(resp.SunSign),
		MoonSign:      astro.ZodiacSign(resp.MoonSign),
		RisingSign:    astro.ZodiacSign(resp.RisingSign),
		MidheavenSign: astro.ZodiacSign(resp.MidheavenSign),
	}
	for _, p := range resp.Positions {
		chart.Positions = append(chart.Positions, astro.PlanetaryPosition{
			Planet:       astro.Planet(p.Planet),
			Sign:         astro.ZodiacSign(p.Sign),
			Degree:       p.Degree,
			House:        p.House,
			IsRetrograde: p.Retrograde,
		})
	}
	for _, h := range resp.Houses {
		chart.Houses = append(chart.Houses, astro.HouseCusp{
			House:  h.House,
			Sign:   astro.ZodiacSign(h.Sign),
			Degree: h.Degree,
		})
	}
	for _, a := range resp.Aspects {
		chart.Aspects = append(chart.Aspects, astro.NatalAspect{
			First:  astro.Planet(a.First),
			Second: astro.Planet(a.Second),
			Aspect: astro.AspectType(a.Aspect),
			Orb:    a.Orb,
		})
	}
	return chart
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("ephemeris http %d: %s", e.StatusCode, e.Body)
}

func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	backoff := time.Second
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			return json.Unmarshal(raw, out)
		}
		if attempt >= c.maxRetries || !httpx.IsRetryableError(err) {
			return err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("ephemeris request retrying",
			"path", path,
			"attempt", attempt+1,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepFor):
		}
		backoff *= 2
	}
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
