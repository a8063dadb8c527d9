// Package kabbalah wraps the external soul-correction lookup API.
package kabbalah

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pearlapp/pearl-backend/internal/domain/profile"
	"github.com/pearlapp/pearl-backend/internal/platform/envutil"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

type Client interface {
	CalculateProfile(ctx context.Context, birthDate time.Time, name string) (*profile.KabbalahProfile, error)
}

type client struct {
	httpClient *http.Client
	log        *logger.Logger
	baseURL    string
	apiKey     string
}

func NewClient(log *logger.Logger) (Client, error) {
	clientLog := log.With("client", "Kabbalah")
	baseURL := envutil.GetEnv("KABBALAH_BASE_URL", "", clientLog)
	if baseURL == "" {
		return nil, fmt.Errorf("KABBALAH_BASE_URL is not set")
	}
	timeoutSec := envutil.GetEnvAsInt("KABBALAH_TIMEOUT_SECONDS", 15, clientLog)
	return &client{
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		log:        clientLog,
		baseURL:    baseURL,
		apiKey:     envutil.GetEnv("KABBALAH_API_KEY", "", clientLog),
	}, nil
}

func (c *client) CalculateProfile(ctx context.Context, birthDate time.Time, name string) (*profile.KabbalahProfile, error) {
	body := map[string]string{
		"birth_date": birthDate.UTC().Format("2006-01-02"),
		"name":       name,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("kabbalah encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/soul-correction", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kabbalah request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kabbalah read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("kabbalah http %d: %s", resp.StatusCode, string(raw))
	}

	var out profile.KabbalahProfile
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("kabbalah decode response: %w", err)
	}
	if out.SoulCorrection == "" {
		return nil, fmt.Errorf("kabbalah response missing soul correction")
	}
	return &out, nil
}
