// Package transits composes the ephemeris provider with a fixed natal chart
// to produce the current transit report.
package transits

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pearlapp/pearl-backend/internal/astro/aspects"
	"github.com/pearlapp/pearl-backend/internal/clients/ephemeris"
	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

type Calculator struct {
	ephemeris ephemeris.Client
	log       *logger.Logger
	now       func() time.Time
}

func NewCalculator(eph ephemeris.Client, log *logger.Logger) *Calculator {
	return &Calculator{
		ephemeris: eph,
		log:       log.With("component", "TransitCalculator"),
		now:       time.Now,
	}
}

// Calculate matches the full cross product of current-sky positions against
// natal positions and returns them sorted by significance tier, then by
// tightest orb. An ephemeris failure fails the whole calculation; a partial
// transit report is worse than none.
func (c *Calculator) Calculate(ctx context.Context, natal *astro.NatalChart) (*astro.TransitChart, error) {
	if natal == nil || len(natal.Positions) == 0 {
		return nil, fmt.Errorf("natal chart has no positions")
	}

	sky, err := c.ephemeris.CurrentSky(ctx)
	if err != nil {
		return nil, fmt.Errorf("transit calculation: %w", err)
	}

	var active []astro.TransitAspect
	for _, current := range sky.Positions {
		for _, nat := range natal.Positions {
			matches, err := aspects.FindAspects(current.Planet, current.Degree, nat.Planet, nat.Degree)
			if err != nil {
				return nil, fmt.Errorf("transit calculation: %w", err)
			}
			active = append(active, matches...)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		si, sj := active[i].Significance(), active[j].Significance()
		if si != sj {
			return si < sj
		}
		return active[i].Orb < active[j].Orb
	})

	c.log.Debug("transit report computed",
		"sky_positions", len(sky.Positions),
		"natal_positions", len(natal.Positions),
		"active_transits", len(active),
	)
	return &astro.TransitChart{
		GeneratedAt:    c.now().UTC(),
		ActiveTransits: active,
	}, nil
}
