// Package humandesign wraps the external bodygraph calculation API.
package humandesign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/domain/profile"
	"github.com/pearlapp/pearl-backend/internal/platform/envutil"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

type Client interface {
	Calculate(ctx context.Context, birth astro.BirthData) (*profile.HumanDesignProfile, error)
}

type client struct {
	httpClient *http.Client
	log        *logger.Logger
	baseURL    string
	apiKey     string
}

func NewClient(log *logger.Logger) (Client, error) {
	clientLog := log.With("client", "HumanDesign")
	baseURL := envutil.GetEnv("HUMAN_DESIGN_BASE_URL", "", clientLog)
	if baseURL == "" {
		return nil, fmt.Errorf("HUMAN_DESIGN_BASE_URL is not set")
	}
	timeoutSec := envutil.GetEnvAsInt("HUMAN_DESIGN_TIMEOUT_SECONDS", 15, clientLog)
	return &client{
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		log:        clientLog,
		baseURL:    baseURL,
		apiKey:     envutil.GetEnv("HUMAN_DESIGN_API_KEY", "", clientLog),
	}, nil
}

type bodygraphRequest struct {
	Date      string  `json:"date"`
	Time      string  `json:"time,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c *client) Calculate(ctx context.Context, birth astro.BirthData) (*profile.HumanDesignProfile, error) {
	body := bodygraphRequest{
		Date:      birth.Date.UTC().Format("2006-01-02"),
		Time:      birth.BirthTime,
		Latitude:  birth.Latitude,
		Longitude: birth.Longitude,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("human design encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/bodygraph", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("human design request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("human design read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("human design http %d: %s", resp.StatusCode, string(raw))
	}

	var out profile.HumanDesignProfile
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("human design decode response: %w", err)
	}
	if out.Type == "" || out.Strategy == "" {
		return nil, fmt.Errorf("human design response missing type or strategy")
	}
	return &out, nil
}
