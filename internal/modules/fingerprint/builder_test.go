package fingerprint

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pearlapp/pearl-backend/internal/clients/ephemeris"
	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/domain/profile"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

type fakeEphemeris struct {
	chart *astro.NatalChart
	err   error
}

func (f *fakeEphemeris) ComputeChart(ctx context.Context, req ephemeris.ChartRequest) (*astro.NatalChart, error) {
	return f.chart, f.err
}

func (f *fakeEphemeris) CurrentSky(ctx context.Context) (*astro.NatalChart, error) {
	return f.chart, f.err
}

type fakeHumanDesign struct {
	out *profile.HumanDesignProfile
	err error
}

func (f *fakeHumanDesign) Calculate(ctx context.Context, birth astro.BirthData) (*profile.HumanDesignProfile, error) {
	return f.out, f.err
}

type fakeKabbalah struct {
	out *profile.KabbalahProfile
	err error
}

func (f *fakeKabbalah) CalculateProfile(ctx context.Context, birthDate time.Time, name string) (*profile.KabbalahProfile, error) {
	return f.out, f.err
}

type fakeNumerology struct {
	out *profile.NumerologyProfile
	err error
}

func (f *fakeNumerology) CalculateProfile(ctx context.Context, birthDate time.Time, fullName string) (*profile.NumerologyProfile, error) {
	return f.out, f.err
}

type fakeLifePurpose struct {
	out       *profile.LifePurposeProfile
	err       error
	sawChart  *astro.NatalChart
	callCount int
}

func (f *fakeLifePurpose) GenerateLifePurpose(ctx context.Context, chart *astro.NatalChart, userName string) (*profile.LifePurposeProfile, error) {
	f.callCount++
	f.sawChart = chart
	return f.out, f.err
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return Deps{
		Log: log,
		Ephemeris: &fakeEphemeris{chart: &astro.NatalChart{
			SunSign:  astro.Aries,
			MoonSign: astro.Cancer,
			Positions: []astro.PlanetaryPosition{
				{Planet: astro.PlanetSun, Sign: astro.Aries, Degree: 10},
				{Planet: astro.PlanetSaturn, Sign: astro.Capricorn, Degree: 275},
			},
		}},
		HumanDesign: &fakeHumanDesign{out: &profile.HumanDesignProfile{
			Type: "Generator", Strategy: "Respond to life", Authority: "Sacral", Profile: "3/5",
		}},
		Kabbalah: &fakeKabbalah{out: &profile.KabbalahProfile{
			SoulCorrection: "Sharing the Flame", Challenge: "Give without keeping score.",
		}},
		Numerology: &fakeNumerology{out: &profile.NumerologyProfile{
			LifePath: 7, LifePathKeywords: []string{"Insight", "Solitude"},
		}},
		LifePurpose: &fakeLifePurpose{out: &profile.LifePurposeProfile{
			Summary: "A quiet analyst", Mission: "Understand and teach",
		}},
	}
}

func testInput() Input {
	return Input{
		UserID: uuid.New(),
		Name:   "Ada Example",
		Birth: astro.BirthData{
			Date:      time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC),
			BirthTime: "08:30",
			Latitude:  40.71,
			Longitude: -74.0,
		},
	}
}

func TestBuild_AllSubsystemsPresent(t *testing.T) {
	deps := testDeps(t)
	b, err := NewBuilder(deps)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}

	res, err := b.Build(context.Background(), testInput())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	fp := res.Fingerprint
	if fp == nil {
		t.Fatalf("expected fingerprint")
	}
	if fp.ID == uuid.Nil || fp.GeneratedAt.IsZero() {
		t.Fatalf("fingerprint identity not set: %+v", fp)
	}
	if fp.HumanDesign.Type != "Generator" || fp.Kabbalah.SoulCorrection == "" || fp.Numerology.LifePath != 7 {
		t.Fatalf("core profiles not populated: %+v", fp)
	}
	if fp.LifePurpose == nil || fp.LifePurpose.Summary != "A quiet analyst" {
		t.Fatalf("life purpose not stored: %+v", fp.LifePurpose)
	}
	if res.LifePurposeErr != nil {
		t.Fatalf("unexpected life purpose error: %v", res.LifePurposeErr)
	}
	if fp.Synthesis.LifePurpose == "" || len(fp.Synthesis.CoreThemes) == 0 {
		t.Fatalf("synthesis missing: %+v", fp.Synthesis)
	}
}

func TestBuild_LifePurposeFailureTolerated(t *testing.T) {
	deps := testDeps(t)
	deps.LifePurpose = &fakeLifePurpose{err: errors.New("model unavailable")}
	b, _ := NewBuilder(deps)

	res, err := b.Build(context.Background(), testInput())
	if err != nil {
		t.Fatalf("life purpose failure must not sink the build: %v", err)
	}
	if res.Fingerprint.LifePurpose != nil {
		t.Fatalf("expected absent life purpose, got %+v", res.Fingerprint.LifePurpose)
	}
	if res.LifePurposeErr == nil {
		t.Fatalf("expected the enrichment error to be reported to the caller")
	}
	// The other four subsystems are unaffected.
	fp := res.Fingerprint
	if fp.HumanDesign.Type == "" || fp.Kabbalah.SoulCorrection == "" || fp.Numerology.LifePath == 0 || len(fp.Astrology.Positions) == 0 {
		t.Fatalf("core profiles degraded by life purpose failure: %+v", fp)
	}
	if fp.Synthesis.PearlSummary != "" {
		t.Fatalf("pearl summary must remain empty")
	}
}

func TestBuild_CoreCalculatorFailureAborts(t *testing.T) {
	deps := testDeps(t)
	deps.Numerology = &fakeNumerology{err: errors.New("upstream 500")}
	b, _ := NewBuilder(deps)

	res, err := b.Build(context.Background(), testInput())
	if err == nil {
		t.Fatalf("numerology failure must abort the build, got %+v", res)
	}
	if res != nil {
		t.Fatalf("no partial fingerprint may be published, got %+v", res)
	}
}

func TestBuild_EphemerisFailureAborts(t *testing.T) {
	deps := testDeps(t)
	deps.Ephemeris = &fakeEphemeris{err: errors.New("timeout")}
	b, _ := NewBuilder(deps)

	if _, err := b.Build(context.Background(), testInput()); err == nil {
		t.Fatalf("ephemeris failure must abort the build")
	}
}

func TestBuild_LifePurposeSeesFreshChart(t *testing.T) {
	deps := testDeps(t)
	lp := &fakeLifePurpose{out: &profile.LifePurposeProfile{Summary: "s", Mission: "m"}}
	deps.LifePurpose = lp
	b, _ := NewBuilder(deps)

	if _, err := b.Build(context.Background(), testInput()); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if lp.callCount != 1 {
		t.Fatalf("life purpose should run exactly once, ran %d times", lp.callCount)
	}
	if lp.sawChart == nil || lp.sawChart.SunSign != astro.Aries {
		t.Fatalf("life purpose must receive the freshly computed natal chart, got %+v", lp.sawChart)
	}
}

func TestBuild_NilLifePurposeSkipsEnrichment(t *testing.T) {
	deps := testDeps(t)
	deps.LifePurpose = nil
	b, _ := NewBuilder(deps)

	res, err := b.Build(context.Background(), testInput())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if res.Fingerprint.LifePurpose != nil || res.LifePurposeErr != nil {
		t.Fatalf("nil generator should mean no enrichment and no error, got %+v / %v",
			res.Fingerprint.LifePurpose, res.LifePurposeErr)
	}
}

func TestBuild_ValidatesInput(t *testing.T) {
	b, _ := NewBuilder(testDeps(t))
	if _, err := b.Build(context.Background(), Input{Name: "x"}); err == nil {
		t.Fatalf("expected error without user id")
	}
	if _, err := b.Build(context.Background(), Input{UserID: uuid.New()}); err == nil {
		t.Fatalf("expected error without name")
	}
}
