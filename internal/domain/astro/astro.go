package astro

import "time"

// Planet identifies a body tracked on the ecliptic. The north node and Chiron
// ride along even though they are not planets in the astronomical sense.
type Planet string

const (
	PlanetSun       Planet = "sun"
	PlanetMoon      Planet = "moon"
	PlanetMercury   Planet = "mercury"
	PlanetVenus     Planet = "venus"
	PlanetMars      Planet = "mars"
	PlanetJupiter   Planet = "jupiter"
	PlanetSaturn    Planet = "saturn"
	PlanetUranus    Planet = "uranus"
	PlanetNeptune   Planet = "neptune"
	PlanetPluto     Planet = "pluto"
	PlanetNorthNode Planet = "north_node"
	PlanetChiron    Planet = "chiron"
)

// Planets lists every tracked body in traditional order.
var Planets = []Planet{
	PlanetSun, PlanetMoon, PlanetMercury, PlanetVenus, PlanetMars,
	PlanetJupiter, PlanetSaturn, PlanetUranus, PlanetNeptune, PlanetPluto,
	PlanetNorthNode, PlanetChiron,
}

// IsPersonal reports whether the planet belongs to the fast-moving personal
// set used by the personal-transits view.
func (p Planet) IsPersonal() bool {
	switch p {
	case PlanetSun, PlanetMoon, PlanetMercury, PlanetVenus, PlanetMars:
		return true
	}
	return false
}

type Element string

const (
	ElementFire  Element = "fire"
	ElementEarth Element = "earth"
	ElementAir   Element = "air"
	ElementWater Element = "water"
)

type ZodiacSign string

const (
	Aries       ZodiacSign = "aries"
	Taurus      ZodiacSign = "taurus"
	Gemini      ZodiacSign = "gemini"
	Cancer      ZodiacSign = "cancer"
	Leo         ZodiacSign = "leo"
	Virgo       ZodiacSign = "virgo"
	Libra       ZodiacSign = "libra"
	Scorpio     ZodiacSign = "scorpio"
	Sagittarius ZodiacSign = "sagittarius"
	Capricorn   ZodiacSign = "capricorn"
	Aquarius    ZodiacSign = "aquarius"
	Pisces      ZodiacSign = "pisces"
)

var zodiacOrder = []ZodiacSign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

var elementCycle = []Element{ElementFire, ElementEarth, ElementAir, ElementWater}

// Element derives the sign's element from its position on the wheel: the four
// elements repeat in fixed order starting from Aries (fire).
func (s ZodiacSign) Element() Element {
	for i, sign := range zodiacOrder {
		if sign == s {
			return elementCycle[i%4]
		}
	}
	return ""
}

// AspectType names one of the five major angular relationships.
type AspectType string

const (
	Conjunction AspectType = "conjunction"
	Sextile     AspectType = "sextile"
	Square      AspectType = "square"
	Trine       AspectType = "trine"
	Opposition  AspectType = "opposition"
)

// AspectTypes lists all matchable aspects in ascending target angle.
var AspectTypes = []AspectType{Conjunction, Sextile, Square, Trine, Opposition}

// Degrees returns the exact target angle of the aspect.
func (a AspectType) Degrees() float64 {
	switch a {
	case Conjunction:
		return 0
	case Sextile:
		return 60
	case Square:
		return 90
	case Trine:
		return 120
	case Opposition:
		return 180
	}
	return 0
}

// OrbTolerance returns the fixed matching threshold for the aspect. This is a
// constant of the type, distinct from the measured orb on a TransitAspect.
func (a AspectType) OrbTolerance() float64 {
	switch a {
	case Conjunction, Opposition:
		return 8
	case Square, Trine:
		return 7
	case Sextile:
		return 5
	}
	return 0
}

// TransitSignificance tiers a transit by the transiting planet alone. Lower
// ordinal sorts first.
type TransitSignificance int

const (
	SignificanceMajor TransitSignificance = iota
	SignificanceModerate
	SignificanceMinor
)

func (s TransitSignificance) String() string {
	switch s {
	case SignificanceMajor:
		return "major"
	case SignificanceModerate:
		return "moderate"
	case SignificanceMinor:
		return "minor"
	}
	return "minor"
}

// SignificanceFor derives the tier from the transiting planet: slow outer
// planets mark life chapters, Jupiter mid-range cycles, everything else noise.
func SignificanceFor(p Planet) TransitSignificance {
	switch p {
	case PlanetSaturn, PlanetUranus, PlanetNeptune, PlanetPluto:
		return SignificanceMajor
	case PlanetJupiter:
		return SignificanceModerate
	}
	return SignificanceMinor
}

// PlanetaryPosition is one body's placement in a chart. House is nil when the
// provider had no birth time to place houses with.
type PlanetaryPosition struct {
	Planet       Planet     `json:"planet"`
	Sign         ZodiacSign `json:"sign"`
	Degree       float64    `json:"degree"`
	House        *int       `json:"house,omitempty"`
	IsRetrograde bool       `json:"is_retrograde"`
}

type HouseCusp struct {
	House  int        `json:"house"`
	Sign   ZodiacSign `json:"sign"`
	Degree float64    `json:"degree"`
}

// NatalAspect is an aspect between two natal placements, as reported by the
// ephemeris provider.
type NatalAspect struct {
	First  Planet     `json:"first"`
	Second Planet     `json:"second"`
	Aspect AspectType `json:"aspect"`
	Orb    float64    `json:"orb"`
}

// NatalChart is the fixed snapshot computed once for a birth moment. Rising
// and midheaven signs are empty when the birth time is unknown.
type NatalChart struct {
	SunSign       ZodiacSign          `json:"sun_sign"`
	MoonSign      ZodiacSign          `json:"moon_sign"`
	RisingSign    ZodiacSign          `json:"rising_sign,omitempty"`
	MidheavenSign ZodiacSign          `json:"midheaven_sign,omitempty"`
	Positions     []PlanetaryPosition `json:"positions"`
	Houses        []HouseCusp         `json:"houses,omitempty"`
	Aspects       []NatalAspect       `json:"aspects,omitempty"`
}

// Position returns the first placement of the given planet, or nil.
func (c *NatalChart) Position(p Planet) *PlanetaryPosition {
	for i := range c.Positions {
		if c.Positions[i].Planet == p {
			return &c.Positions[i]
		}
	}
	return nil
}

// TransitAspect is a single current-sky to natal-chart hit. Orb is the actual
// angular deviation from the exact aspect, always >= 0. Recomputed on every
// calculation; never persisted as truth.
type TransitAspect struct {
	TransitPlanet Planet     `json:"transit_planet"`
	Aspect        AspectType `json:"aspect"`
	NatalPlanet   Planet     `json:"natal_planet"`
	Orb           float64    `json:"orb"`
	IsApplying    bool       `json:"is_applying"`
}

// Significance is derived from the transit planet on demand.
func (t TransitAspect) Significance() TransitSignificance {
	return SignificanceFor(t.TransitPlanet)
}

// TransitChart is a point-in-time report of every active transit, sorted
// major-first and tightest-orb-first within a tier.
type TransitChart struct {
	GeneratedAt    time.Time       `json:"generated_at"`
	ActiveTransits []TransitAspect `json:"active_transits"`
}

// MajorTransits filters the report down to major-significance hits. Computed
// on demand so it can never drift from ActiveTransits.
func (c *TransitChart) MajorTransits() []TransitAspect {
	out := make([]TransitAspect, 0, len(c.ActiveTransits))
	for _, t := range c.ActiveTransits {
		if t.Significance() == SignificanceMajor {
			out = append(out, t)
		}
	}
	return out
}

// PersonalTransits filters to hits against the natal personal planets.
func (c *TransitChart) PersonalTransits() []TransitAspect {
	out := make([]TransitAspect, 0, len(c.ActiveTransits))
	for _, t := range c.ActiveTransits {
		if t.NatalPlanet.IsPersonal() {
			out = append(out, t)
		}
	}
	return out
}

// BirthData is the raw input every calculator consumes. BirthTime is "HH:MM"
// or empty when unknown.
type BirthData struct {
	Date        time.Time `json:"date"`
	BirthTime   string    `json:"birth_time,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CityName    string    `json:"city_name,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
}
