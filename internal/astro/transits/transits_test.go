package transits

import (
	"context"
	"errors"
	"testing"

	"github.com/pearlapp/pearl-backend/internal/clients/ephemeris"
	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

type fakeEphemeris struct {
	sky *astro.NatalChart
	err error
}

func (f *fakeEphemeris) ComputeChart(ctx context.Context, req ephemeris.ChartRequest) (*astro.NatalChart, error) {
	return f.sky, f.err
}

func (f *fakeEphemeris) CurrentSky(ctx context.Context) (*astro.NatalChart, error) {
	return f.sky, f.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func natalWith(positions ...astro.PlanetaryPosition) *astro.NatalChart {
	return &astro.NatalChart{SunSign: astro.Aries, MoonSign: astro.Cancer, Positions: positions}
}

func TestCalculate_SortsBySignificanceThenOrb(t *testing.T) {
	// Transit Venus conjunct natal sun (minor, orb 3), transit Saturn square
	// natal sun (major, orb 2), transit Jupiter trine natal sun (moderate,
	// orb 1), transit Pluto sextile natal sun (major, orb 4).
	fake := &fakeEphemeris{sky: natalWith(
		astro.PlanetaryPosition{Planet: astro.PlanetVenus, Sign: astro.Aries, Degree: 13},
		astro.PlanetaryPosition{Planet: astro.PlanetSaturn, Sign: astro.Cancer, Degree: 102},
		astro.PlanetaryPosition{Planet: astro.PlanetJupiter, Sign: astro.Leo, Degree: 131},
		astro.PlanetaryPosition{Planet: astro.PlanetPluto, Sign: astro.Gemini, Degree: 74},
	)}
	calc := NewCalculator(fake, testLogger(t))

	chart, err := calc.Calculate(context.Background(), natalWith(
		astro.PlanetaryPosition{Planet: astro.PlanetSun, Sign: astro.Aries, Degree: 10},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chart.ActiveTransits) != 4 {
		t.Fatalf("expected 4 transits, got %d: %+v", len(chart.ActiveTransits), chart.ActiveTransits)
	}

	// Two majors first ordered by orb, then Jupiter, then Venus.
	wantOrder := []astro.Planet{astro.PlanetSaturn, astro.PlanetPluto, astro.PlanetJupiter, astro.PlanetVenus}
	for i, want := range wantOrder {
		if chart.ActiveTransits[i].TransitPlanet != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, chart.ActiveTransits[i].TransitPlanet)
		}
	}
	for i := 1; i < len(chart.ActiveTransits); i++ {
		a, b := chart.ActiveTransits[i-1], chart.ActiveTransits[i]
		if a.Significance() > b.Significance() {
			t.Fatalf("significance out of order at %d: %+v before %+v", i, a, b)
		}
		if a.Significance() == b.Significance() && a.Orb > b.Orb {
			t.Fatalf("orb out of order at %d: %+v before %+v", i, a, b)
		}
	}
}

func TestCalculate_CrossProductNotSamePlanetOnly(t *testing.T) {
	// A single transiting body against two natal bodies must be matched
	// against both, regardless of planet identity.
	fake := &fakeEphemeris{sky: natalWith(
		astro.PlanetaryPosition{Planet: astro.PlanetMars, Sign: astro.Aries, Degree: 0},
	)}
	calc := NewCalculator(fake, testLogger(t))

	chart, err := calc.Calculate(context.Background(), natalWith(
		astro.PlanetaryPosition{Planet: astro.PlanetSun, Sign: astro.Aries, Degree: 2},
		astro.PlanetaryPosition{Planet: astro.PlanetMoon, Sign: astro.Cancer, Degree: 90},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chart.ActiveTransits) != 2 {
		t.Fatalf("expected conjunction to sun and square to moon, got %+v", chart.ActiveTransits)
	}
}

func TestCalculate_EphemerisFailureAborts(t *testing.T) {
	fake := &fakeEphemeris{err: errors.New("upstream 503")}
	calc := NewCalculator(fake, testLogger(t))

	_, err := calc.Calculate(context.Background(), natalWith(
		astro.PlanetaryPosition{Planet: astro.PlanetSun, Sign: astro.Aries, Degree: 10},
	))
	if err == nil {
		t.Fatalf("expected error when ephemeris fails")
	}
}

func TestCalculate_EmptyNatalRejected(t *testing.T) {
	calc := NewCalculator(&fakeEphemeris{sky: natalWith()}, testLogger(t))
	if _, err := calc.Calculate(context.Background(), &astro.NatalChart{}); err == nil {
		t.Fatalf("expected error for natal chart without positions")
	}
}

func TestTransitChart_DerivedViews(t *testing.T) {
	fake := &fakeEphemeris{sky: natalWith(
		astro.PlanetaryPosition{Planet: astro.PlanetSaturn, Sign: astro.Cancer, Degree: 100},
		astro.PlanetaryPosition{Planet: astro.PlanetVenus, Sign: astro.Aries, Degree: 12},
	)}
	calc := NewCalculator(fake, testLogger(t))

	chart, err := calc.Calculate(context.Background(), natalWith(
		astro.PlanetaryPosition{Planet: astro.PlanetSun, Sign: astro.Aries, Degree: 10},
		astro.PlanetaryPosition{Planet: astro.PlanetNeptune, Sign: astro.Libra, Degree: 190},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tr := range chart.MajorTransits() {
		if tr.Significance() != astro.SignificanceMajor {
			t.Fatalf("major view leaked %s transit: %+v", tr.Significance(), tr)
		}
	}
	for _, tr := range chart.PersonalTransits() {
		if !tr.NatalPlanet.IsPersonal() {
			t.Fatalf("personal view leaked natal %s: %+v", tr.NatalPlanet, tr)
		}
	}
}
