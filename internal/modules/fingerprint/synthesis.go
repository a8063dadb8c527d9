package fingerprint

import (
	"fmt"
	"strings"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/domain/profile"
)

// SynthesisInputs are the four completed core profiles. Taking them by value
// makes synthesizing from an incomplete fingerprint unrepresentable; the life
// purpose enrichment is stored beside the synthesis, never woven into it.
type SynthesisInputs struct {
	Chart       astro.NatalChart
	HumanDesign profile.HumanDesignProfile
	Kabbalah    profile.KabbalahProfile
	Numerology  profile.NumerologyProfile
}

// Synthesize derives the five narrative fields from the combined structured
// output. Pure string composition: no randomness, no I/O, byte-identical
// output for identical inputs. PearlSummary stays empty by contract; a
// downstream enrichment step owns that field.
func Synthesize(in SynthesisInputs) profile.PearlSynthesis {
	return profile.PearlSynthesis{
		LifePurpose:  synthesizeLifePurpose(in),
		CoreThemes:   synthesizeCoreThemes(in),
		Superpower:   synthesizeSuperpower(in),
		Shadow:       synthesizeShadow(in),
		Invitation:   synthesizeInvitation(in),
		PearlSummary: "",
	}
}

func synthesizeLifePurpose(in SynthesisInputs) string {
	return fmt.Sprintf("%s Sun, %s Moon, %s design, Life Path %d. Your path opens as you %s.",
		titleSign(in.Chart.SunSign),
		titleSign(in.Chart.MoonSign),
		in.HumanDesign.Type,
		in.Numerology.LifePath,
		lowerClause(in.HumanDesign.Strategy),
	)
}

// synthesizeCoreThemes seeds the ordered list with the sun-element theme, the
// human design stance, the soul correction, and the life-path keyword. A
// rising sign is inserted at position 1 (second, not first or last) and a
// midheaven theme is appended at the end when present.
func synthesizeCoreThemes(in SynthesisInputs) []string {
	themes := []string{
		elementTheme(in.Chart.SunSign.Element()),
		fmt.Sprintf("%s: %s", in.HumanDesign.Type, in.HumanDesign.Strategy),
		fmt.Sprintf("Soul correction: %s", in.Kabbalah.SoulCorrection),
		lifePathKeyword(in.Numerology),
	}
	if in.Chart.RisingSign != "" {
		rising := fmt.Sprintf("Meeting the world with %s energy", titleSign(in.Chart.RisingSign))
		themes = append(themes[:1], append([]string{rising}, themes[1:]...)...)
	}
	if in.Chart.MidheavenSign != "" {
		themes = append(themes, fmt.Sprintf("A public calling toward %s", titleSign(in.Chart.MidheavenSign)))
	}
	return themes
}

func synthesizeSuperpower(in SynthesisInputs) string {
	element := in.Chart.SunSign.Element()
	return fmt.Sprintf("As a %s, your edge is to %s, amplified by your %s Sun's gift for %s.",
		in.HumanDesign.Type,
		lowerClause(in.HumanDesign.Strategy),
		titleSign(in.Chart.SunSign),
		elementSuperpower(element),
	)
}

func synthesizeShadow(in SynthesisInputs) string {
	saturnSentence := "Patience is your teacher; growth arrives on its own schedule."
	if saturn := in.Chart.Position(astro.PlanetSaturn); saturn != nil {
		saturnSentence = fmt.Sprintf("Saturn in %s asks for discipline exactly where you feel least ready.",
			titleSign(saturn.Sign))
	}
	challenge := strings.TrimSpace(in.Kabbalah.Challenge)
	if challenge == "" {
		return saturnSentence
	}
	return saturnSentence + " " + challenge
}

func synthesizeInvitation(in SynthesisInputs) string {
	keywords := joinedKeywords(in.Numerology.LifePathKeywords)
	if keywords == "" {
		return fmt.Sprintf("Trust your strategy: %s.", lowerClause(in.HumanDesign.Strategy))
	}
	return fmt.Sprintf("Trust your strategy: %s, and lead with %s.",
		lowerClause(in.HumanDesign.Strategy), keywords)
}

func lifePathKeyword(n profile.NumerologyProfile) string {
	if len(n.LifePathKeywords) > 0 && strings.TrimSpace(n.LifePathKeywords[0]) != "" {
		return strings.TrimSpace(n.LifePathKeywords[0])
	}
	return fmt.Sprintf("Life Path %d", n.LifePath)
}

// joinedKeywords joins the first two life-path keywords with "and".
func joinedKeywords(keywords []string) string {
	trimmed := make([]string, 0, 2)
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			trimmed = append(trimmed, strings.ToLower(k))
		}
		if len(trimmed) == 2 {
			break
		}
	}
	return strings.Join(trimmed, " and ")
}

func titleSign(s astro.ZodiacSign) string {
	str := string(s)
	if str == "" {
		return ""
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

func lowerClause(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ".")))
}
