package fingerprint

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/domain/profile"
)

func baseInputs() SynthesisInputs {
	house10 := 10
	return SynthesisInputs{
		Chart: astro.NatalChart{
			SunSign:  astro.Aries,
			MoonSign: astro.Cancer,
			Positions: []astro.PlanetaryPosition{
				{Planet: astro.PlanetSun, Sign: astro.Aries, Degree: 10},
				{Planet: astro.PlanetSaturn, Sign: astro.Capricorn, Degree: 275, House: &house10},
			},
		},
		HumanDesign: profile.HumanDesignProfile{
			Type:      "Generator",
			Strategy:  "Respond to life",
			Authority: "Sacral",
			Profile:   "3/5",
		},
		Kabbalah: profile.KabbalahProfile{
			SoulCorrection: "Sharing the Flame",
			Challenge:      "Your challenge is to give without keeping score.",
		},
		Numerology: profile.NumerologyProfile{
			LifePath:         7,
			LifePathKeywords: []string{"Insight", "Solitude", "Analysis"},
			Expression:       3,
			SoulUrge:         9,
		},
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	in := baseInputs()
	first := Synthesize(in)
	second := Synthesize(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("synthesis not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestSynthesize_PearlSummaryLeftEmpty(t *testing.T) {
	if out := Synthesize(baseInputs()); out.PearlSummary != "" {
		t.Fatalf("pearl summary must stay empty for downstream enrichment, got %q", out.PearlSummary)
	}
}

func TestSynthesize_CoreThemesWithoutRising(t *testing.T) {
	out := Synthesize(baseInputs())
	if len(out.CoreThemes) != 4 {
		t.Fatalf("expected 4 themes without rising sign, got %d: %v", len(out.CoreThemes), out.CoreThemes)
	}
	if !strings.Contains(out.CoreThemes[1], "Generator") {
		t.Fatalf("expected human design theme second without rising, got %v", out.CoreThemes)
	}
	if !strings.Contains(out.CoreThemes[2], "Sharing the Flame") {
		t.Fatalf("expected soul correction theme third, got %v", out.CoreThemes)
	}
	if out.CoreThemes[3] != "Insight" {
		t.Fatalf("expected first life-path keyword last, got %v", out.CoreThemes)
	}
}

func TestSynthesize_RisingInsertedSecond(t *testing.T) {
	in := baseInputs()
	in.Chart.RisingSign = astro.Leo
	out := Synthesize(in)
	if len(out.CoreThemes) != 5 {
		t.Fatalf("expected 5 themes with rising sign, got %d: %v", len(out.CoreThemes), out.CoreThemes)
	}
	if !strings.Contains(out.CoreThemes[1], "Leo") {
		t.Fatalf("rising theme must sit at index 1, got %v", out.CoreThemes)
	}
	// The sun-element theme stays first.
	if out.CoreThemes[0] != Synthesize(baseInputs()).CoreThemes[0] {
		t.Fatalf("sun theme displaced by rising insertion: %v", out.CoreThemes)
	}
}

func TestSynthesize_MidheavenAppendedLast(t *testing.T) {
	in := baseInputs()
	in.Chart.RisingSign = astro.Leo
	in.Chart.MidheavenSign = astro.Taurus
	out := Synthesize(in)
	if len(out.CoreThemes) != 6 {
		t.Fatalf("expected 6 themes with rising and midheaven, got %v", out.CoreThemes)
	}
	if !strings.Contains(out.CoreThemes[5], "Taurus") {
		t.Fatalf("midheaven theme must be appended at the end, got %v", out.CoreThemes)
	}
}

func TestSynthesize_LifePurposeTemplate(t *testing.T) {
	out := Synthesize(baseInputs())
	for _, fragment := range []string{"Aries Sun", "Cancer Moon", "Generator design", "Life Path 7", "respond to life"} {
		if !strings.Contains(out.LifePurpose, fragment) {
			t.Fatalf("life purpose missing %q: %q", fragment, out.LifePurpose)
		}
	}
}

func TestSynthesize_ShadowUsesSaturnPlacement(t *testing.T) {
	out := Synthesize(baseInputs())
	if !strings.Contains(out.Shadow, "Saturn in Capricorn") {
		t.Fatalf("shadow should reference the Saturn placement, got %q", out.Shadow)
	}
	if !strings.Contains(out.Shadow, "keeping score") {
		t.Fatalf("shadow should carry the kabbalah challenge, got %q", out.Shadow)
	}
}

func TestSynthesize_ShadowFallsBackWithoutSaturn(t *testing.T) {
	in := baseInputs()
	in.Chart.Positions = []astro.PlanetaryPosition{
		{Planet: astro.PlanetSun, Sign: astro.Aries, Degree: 10},
	}
	out := Synthesize(in)
	if !strings.Contains(strings.ToLower(out.Shadow), "patience") {
		t.Fatalf("expected generic patience fallback without Saturn, got %q", out.Shadow)
	}
}

func TestSynthesize_InvitationJoinsFirstTwoKeywords(t *testing.T) {
	out := Synthesize(baseInputs())
	if !strings.Contains(out.Invitation, "insight and solitude") {
		t.Fatalf("invitation should join the first two keywords with and, got %q", out.Invitation)
	}
	if strings.Contains(out.Invitation, "analysis") {
		t.Fatalf("invitation must use only the first two keywords, got %q", out.Invitation)
	}
}

func TestSynthesize_SuperpowerCombinesTypeAndElement(t *testing.T) {
	out := Synthesize(baseInputs())
	if !strings.Contains(out.Superpower, "Generator") {
		t.Fatalf("superpower should name the human design type, got %q", out.Superpower)
	}
	// Aries is a fire sign.
	if !strings.Contains(out.Superpower, elementSuperpower(astro.ElementFire)) {
		t.Fatalf("superpower should carry the fire-element gift, got %q", out.Superpower)
	}
}
