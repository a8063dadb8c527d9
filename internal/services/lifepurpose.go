package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pearlapp/pearl-backend/internal/clients/openai"
	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/domain/profile"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

// LifePurposeService generates the optional narrative enrichment from the
// natal chart. Implements fingerprint.LifePurposeGenerator.
type LifePurposeService interface {
	GenerateLifePurpose(ctx context.Context, chart *astro.NatalChart, userName string) (*profile.LifePurposeProfile, error)
}

type lifePurposeService struct {
	ai  openai.Client
	log *logger.Logger
}

func NewLifePurposeService(ai openai.Client, log *logger.Logger) LifePurposeService {
	return &lifePurposeService{
		ai:  ai,
		log: log.With("service", "LifePurposeService"),
	}
}

var lifePurposeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summary": map[string]any{"type": "string"},
		"mission": map[string]any{"type": "string"},
		"gifts": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"summary", "mission", "gifts"},
	"additionalProperties": false,
}

const lifePurposeSystem = "You are an astrologer writing a short, warm life-purpose reading. " +
	"Ground every statement in the chart details given. Two to four sentences per field, no hedging."

func (s *lifePurposeService) GenerateLifePurpose(ctx context.Context, chart *astro.NatalChart, userName string) (*profile.LifePurposeProfile, error) {
	if chart == nil {
		return nil, fmt.Errorf("life purpose: natal chart required")
	}

	obj, err := s.ai.GenerateJSON(ctx, lifePurposeSystem, lifePurposePrompt(chart, userName), "life_purpose", lifePurposeSchema)
	if err != nil {
		return nil, fmt.Errorf("life purpose generation: %w", err)
	}

	out := &profile.LifePurposeProfile{
		Summary: strField(obj, "summary"),
		Mission: strField(obj, "mission"),
	}
	if gifts, ok := obj["gifts"].([]any); ok {
		for _, g := range gifts {
			if gs, ok := g.(string); ok && strings.TrimSpace(gs) != "" {
				out.Gifts = append(out.Gifts, gs)
			}
		}
	}
	if out.Summary == "" {
		return nil, fmt.Errorf("life purpose generation: empty summary")
	}
	return out, nil
}

func lifePurposePrompt(chart *astro.NatalChart, userName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", userName)
	fmt.Fprintf(&sb, "Sun: %s, Moon: %s", chart.SunSign, chart.MoonSign)
	if chart.RisingSign != "" {
		fmt.Fprintf(&sb, ", Rising: %s", chart.RisingSign)
	}
	if chart.MidheavenSign != "" {
		fmt.Fprintf(&sb, ", Midheaven: %s", chart.MidheavenSign)
	}
	sb.WriteString("\nPlacements:\n")
	for _, p := range chart.Positions {
		fmt.Fprintf(&sb, "- %s in %s at %.1f", p.Planet, p.Sign, p.Degree)
		if p.IsRetrograde {
			sb.WriteString(" (retrograde)")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func strField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
