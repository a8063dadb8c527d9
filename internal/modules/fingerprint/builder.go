// Package fingerprint builds a user's cosmic fingerprint: one natal chart,
// three symbolic profiles computed concurrently, an optional AI life-purpose
// enrichment, and a deterministic synthesis over the combined output.
package fingerprint

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/pearlapp/pearl-backend/internal/clients/ephemeris"
	"github.com/pearlapp/pearl-backend/internal/clients/humandesign"
	"github.com/pearlapp/pearl-backend/internal/clients/kabbalah"
	"github.com/pearlapp/pearl-backend/internal/clients/numerology"
	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/domain/profile"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

// LifePurposeGenerator produces the optional narrative enrichment. It needs
// the freshly computed natal chart, unlike the core calculators which consume
// birth data only.
type LifePurposeGenerator interface {
	GenerateLifePurpose(ctx context.Context, chart *astro.NatalChart, userName string) (*profile.LifePurposeProfile, error)
}

// Deps are injected so tests can substitute every collaborator. LifePurpose
// may be nil; the enrichment is then skipped entirely.
type Deps struct {
	Log         *logger.Logger
	Ephemeris   ephemeris.Client
	HumanDesign humandesign.Client
	Kabbalah    kabbalah.Client
	Numerology  numerology.Client
	LifePurpose LifePurposeGenerator
}

type Input struct {
	UserID uuid.UUID
	Name   string
	Birth  astro.BirthData
}

// Result separates the completed fingerprint from the life-purpose outcome so
// callers decide whether "enrichment unavailable" is worth surfacing. The
// fingerprint itself is complete either way.
type Result struct {
	Fingerprint    *profile.CosmicFingerprint
	LifePurposeErr error
}

type Builder struct {
	deps Deps
	now  func() time.Time
}

func NewBuilder(deps Deps) (*Builder, error) {
	if deps.Log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deps.Ephemeris == nil || deps.HumanDesign == nil || deps.Kabbalah == nil || deps.Numerology == nil {
		return nil, fmt.Errorf("ephemeris, human design, kabbalah, and numerology clients are all required")
	}
	return &Builder{
		deps: deps,
		now:  time.Now,
	}, nil
}

// Build computes the natal chart first, fans the symbolic calculators out
// concurrently, and synthesizes once all four core profiles exist. A failure
// in any core calculator cancels the siblings and aborts the build; nothing
// partial is ever returned. Only the life-purpose enrichment may fail without
// sinking the fingerprint.
func (b *Builder) Build(ctx context.Context, in Input) (*Result, error) {
	if in.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	if in.Name == "" {
		return nil, fmt.Errorf("name required")
	}
	log := b.deps.Log.With("module", "FingerprintBuilder", "user_id", in.UserID)

	// The chart anchors everything else, so it is computed before the fan-out.
	chart, err := b.deps.Ephemeris.ComputeChart(ctx, ephemeris.ChartRequest{
		Date:        in.Birth.Date,
		BirthTime:   in.Birth.BirthTime,
		Latitude:    in.Birth.Latitude,
		Longitude:   in.Birth.Longitude,
		CityName:    in.Birth.CityName,
		CountryCode: in.Birth.CountryCode,
	})
	if err != nil {
		return nil, fmt.Errorf("fingerprint build: natal chart: %w", err)
	}

	var (
		hd          *profile.HumanDesignProfile
		kab         *profile.KabbalahProfile
		num         *profile.NumerologyProfile
		lifePurpose *profile.LifePurposeProfile
		lifeErr     error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if hd, err = b.deps.HumanDesign.Calculate(gctx, in.Birth); err != nil {
			return fmt.Errorf("human design: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if kab, err = b.deps.Kabbalah.CalculateProfile(gctx, in.Birth.Date, in.Name); err != nil {
			return fmt.Errorf("kabbalah: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if num, err = b.deps.Numerology.CalculateProfile(gctx, in.Birth.Date, in.Name); err != nil {
			return fmt.Errorf("numerology: %w", err)
		}
		return nil
	})
	if b.deps.LifePurpose != nil {
		// Enrichment only: its error is recorded, never returned from the
		// group, so it cannot cancel the core calculators.
		g.Go(func() error {
			lp, err := b.deps.LifePurpose.GenerateLifePurpose(gctx, chart, in.Name)
			if err != nil {
				lifeErr = err
				return nil
			}
			lifePurpose = lp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fingerprint build: %w", err)
	}

	synthesis := Synthesize(SynthesisInputs{
		Chart:       *chart,
		HumanDesign: *hd,
		Kabbalah:    *kab,
		Numerology:  *num,
	})

	birthInput, err := json.Marshal(in.Birth)
	if err != nil {
		return nil, fmt.Errorf("fingerprint build: encode birth input: %w", err)
	}

	fp := &profile.CosmicFingerprint{
		ID:          uuid.New(),
		UserID:      in.UserID,
		GeneratedAt: b.now().UTC(),
		Astrology:   *chart,
		HumanDesign: *hd,
		Kabbalah:    *kab,
		Numerology:  *num,
		LifePurpose: lifePurpose,
		Synthesis:   synthesis,
		BirthInput:  datatypes.JSON(birthInput),
	}
	log.Info("fingerprint built",
		"fingerprint_id", fp.ID,
		"life_purpose_present", lifePurpose != nil,
	)
	return &Result{Fingerprint: fp, LifePurposeErr: lifeErr}, nil
}
