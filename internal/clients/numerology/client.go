// Package numerology wraps the external numerology calculation API.
package numerology

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
	CalculateProfile(ctx context.Context, birthDate time.Time, fullName string) (*profile.NumerologyProfile, error)
}

type client struct {
	httpClient *http.Client
	log        *logger.Logger
	baseURL    string
	apiKey     string
}

func NewClient(log *logger.Logger) (Client, error) {
	clientLog := log.With("client", "Numerology")
	baseURL := envutil.GetEnv("NUMEROLOGY_BASE_URL", "", clientLog)
	if baseURL == "" {
		return nil, fmt.Errorf("NUMEROLOGY_BASE_URL is not set")
	}
	timeoutSec := envutil.GetEnvAsInt("NUMEROLOGY_TIMEOUT_SECONDS", 15, clientLog)
	return &client{
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		log:        clientLog,
		baseURL:    baseURL,
		apiKey:     envutil.GetEnv("NUMEROLOGY_API_KEY", "", clientLog),
	}, nil
}

func (c *client) CalculateProfile(ctx context.Context, birthDate time.Time, fullName string) (*profile.NumerologyProfile, error) {
	body := map[string]string{
		"birth_date": birthDate.UTC().Format("2006-01-02"),
		"full_name":  fullName,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("numerology encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/profile", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("numerology request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("numerology read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("numerology http %d: %s", resp.StatusCode, string(raw))
	}

	var out profile.NumerologyProfile
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("numerology decode response: %w", err)
	}
	if out.LifePath == 0 {
		return nil, fmt.Errorf("numerology response missing life path")
	}
	return &out, nil
}
