package aspects

import (
	"errors"
	"math"
	"testing"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
)

func TestFindAspects_ExactSquare(t *testing.T) {
	// Natal Sun at 10 Aries, transit Saturn at 100: normalized diff is 90.
	matches, err := FindAspects(astro.PlanetSaturn, 100, astro.PlanetSun, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
	}
	m := matches[0]
	if m.Aspect != astro.Square {
		t.Fatalf("expected square, got %s", m.Aspect)
	}
	if m.Orb != 0 {
		t.Fatalf("expected exact orb 0, got %f", m.Orb)
	}
	if m.Significance() != astro.SignificanceMajor {
		t.Fatalf("expected major significance for Saturn, got %s", m.Significance())
	}
}

func TestFindAspects_WraparoundConjunction(t *testing.T) {
	matches, err := FindAspects(astro.PlanetMoon, 359, astro.PlanetSun, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Aspect != astro.Conjunction {
		t.Fatalf("expected conjunction across 0/360, got %+v", matches)
	}
	if matches[0].Orb != 2 {
		t.Fatalf("expected orb 2, got %f", matches[0].Orb)
	}
}

func TestFindAspects_RejectsOutOfRange(t *testing.T) {
	for _, deg := range []float64{-0.1, 360, 720, math.NaN()} {
		if _, err := FindAspects(astro.PlanetSun, deg, astro.PlanetMoon, 10); !errors.Is(err, ErrInvalidAngle) {
			t.Fatalf("degree %f: expected ErrInvalidAngle, got %v", deg, err)
		}
		if _, err := FindAspects(astro.PlanetSun, 10, astro.PlanetMoon, deg); !errors.Is(err, ErrInvalidAngle) {
			t.Fatalf("natal degree %f: expected ErrInvalidAngle, got %v", deg, err)
		}
	}
}

func TestFindAspects_NoMatchOutsideOrb(t *testing.T) {
	// 45 degrees apart is in no major aspect's orb.
	matches, err := FindAspects(astro.PlanetVenus, 45, astro.PlanetSun, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches at 45 degrees, got %+v", matches)
	}
}

func TestFindAspects_OrbAlwaysWithinTolerance(t *testing.T) {
	// Sweep the full circle against a handful of natal degrees; every emitted
	// orb must be >= 0 and within the matched type's fixed tolerance.
	for natal := 0.0; natal < 360; natal += 7.3 {
		for transit := 0.0; transit < 360; transit += 1.1 {
			matches, err := FindAspects(astro.PlanetMars, transit, astro.PlanetMoon, natal)
			if err != nil {
				t.Fatalf("t=%f n=%f: %v", transit, natal, err)
			}
			for _, m := range matches {
				if m.Orb < 0 {
					t.Fatalf("t=%f n=%f: negative orb %f", transit, natal, m.Orb)
				}
				if m.Orb > m.Aspect.OrbTolerance() {
					t.Fatalf("t=%f n=%f: orb %f exceeds tolerance %f for %s",
						transit, natal, m.Orb, m.Aspect.OrbTolerance(), m.Aspect)
				}
			}
		}
	}
}

func TestFindAspects_DistanceSymmetric(t *testing.T) {
	// Swapping the two longitudes must report the same aspect types and orbs;
	// only the applying flag may differ.
	for a := 0.0; a < 360; a += 13.7 {
		for b := 0.0; b < 360; b += 11.3 {
			ab, err := FindAspects(astro.PlanetJupiter, a, astro.PlanetSun, b)
			if err != nil {
				t.Fatalf("a=%f b=%f: %v", a, b, err)
			}
			ba, err := FindAspects(astro.PlanetJupiter, b, astro.PlanetSun, a)
			if err != nil {
				t.Fatalf("a=%f b=%f: %v", a, b, err)
			}
			if len(ab) != len(ba) {
				t.Fatalf("a=%f b=%f: asymmetric match count %d vs %d", a, b, len(ab), len(ba))
			}
			for i := range ab {
				if ab[i].Aspect != ba[i].Aspect || ab[i].Orb != ba[i].Orb {
					t.Fatalf("a=%f b=%f: asymmetric match %+v vs %+v", a, b, ab[i], ba[i])
				}
			}
		}
	}
}

func TestDelta_RangeAndWraparound(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{1, 359, 2},
		{359, 1, 2},
		{0, 180, 180},
		{10, 100, 90},
		{350, 20, 30},
	}
	for _, c := range cases {
		if got := Delta(c.a, c.b); got != c.want {
			t.Fatalf("Delta(%f, %f) = %f, want %f", c.a, c.b, got, c.want)
		}
	}
}

func TestFindAspects_ApplyingHeuristic(t *testing.T) {
	// Transit at 80 approaching a square to natal 0 (exact at 90): applying.
	matches, err := FindAspects(astro.PlanetSaturn, 85, astro.PlanetSun, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || !matches[0].IsApplying {
		t.Fatalf("expected applying square, got %+v", matches)
	}
	// Transit at 95 has passed the exact angle: separating.
	matches, err = FindAspects(astro.PlanetSaturn, 95, astro.PlanetSun, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].IsApplying {
		t.Fatalf("expected separating square, got %+v", matches)
	}
}
