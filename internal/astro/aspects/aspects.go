// Package aspects matches angular relationships between two ecliptic
// longitudes. Everything here is pure: same inputs, same matches.
package aspects

import (
	"errors"
	"fmt"
	"math"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
)

// ErrInvalidAngle rejects longitudes outside [0,360). Callers normalize
// before matching; silently wrapping here would hide provider bugs.
var ErrInvalidAngle = errors.New("ecliptic longitude out of range [0,360)")

// Delta returns the normalized angular difference between two longitudes,
// always in [0,180]. 1° and 359° are 2° apart, not 358°.
func Delta(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

// FindAspects reports every aspect the transiting body currently makes to the
// natal placement. A pair matches a type when the normalized difference lands
// within that type's fixed orb tolerance; the emitted Orb is the measured
// deviation from the exact angle.
//
// IsApplying uses the simple heuristic transitDegree < natalDegree + target.
// It ignores retrograde motion and wraparound at 360 on purpose; the product
// treats it as a directional hint, not an ephemeris-grade computation.
func FindAspects(transitPlanet astro.Planet, transitDegree float64, natalPlanet astro.Planet, natalDegree float64) ([]astro.TransitAspect, error) {
	if !validAngle(transitDegree) {
		return nil, fmt.Errorf("transit %s at %.4f: %w", transitPlanet, transitDegree, ErrInvalidAngle)
	}
	if !validAngle(natalDegree) {
		return nil, fmt.Errorf("natal %s at %.4f: %w", natalPlanet, natalDegree, ErrInvalidAngle)
	}

	d := Delta(transitDegree, natalDegree)

	var matches []astro.TransitAspect
	for _, aspect := range astro.AspectTypes {
		deviation := math.Abs(d - aspect.Degrees())
		if deviation > aspect.OrbTolerance() {
			continue
		}
		matches = append(matches, astro.TransitAspect{
			TransitPlanet: transitPlanet,
			Aspect:        aspect,
			NatalPlanet:   natalPlanet,
			Orb:           deviation,
			IsApplying:    transitDegree < natalDegree+aspect.Degrees(),
		})
	}
	return matches, nil
}

func validAngle(deg float64) bool {
	return deg >= 0 && deg < 360 && !math.IsNaN(deg)
}
