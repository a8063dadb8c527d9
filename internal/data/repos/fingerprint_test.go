package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pearlapp/pearl-backend/internal/data/repos/testutil"
	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/domain/profile"
)

func seedFingerprint(userID uuid.UUID, generatedAt time.Time) *profile.CosmicFingerprint {
	return &profile.CosmicFingerprint{
		ID:          uuid.New(),
		UserID:      userID,
		GeneratedAt: generatedAt,
		Astrology: astro.NatalChart{
			SunSign:  astro.Leo,
			MoonSign: astro.Pisces,
			Positions: []astro.PlanetaryPosition{
				{Planet: astro.PlanetSun, Sign: astro.Leo, Degree: 12.5},
			},
		},
		HumanDesign: profile.HumanDesignProfile{Type: "Generator", Strategy: "To respond"},
		Kabbalah:    profile.KabbalahProfile{SoulCorrection: "Sharing the Light"},
		Numerology:  profile.NumerologyProfile{LifePath: 7},
		Synthesis:   profile.PearlSynthesis{LifePurpose: "test", CoreThemes: []string{"a"}},
		BirthInput:  datatypes.JSON([]byte(`{"birth_date":"1990-08-04"}`)),
		CreatedAt:   generatedAt,
	}
}

func TestFingerprintRepo(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))

	ctx := context.Background()
	repo := NewFingerprintRepo(tx, testutil.Logger(t))

	userID := uuid.New()
	now := time.Now().UTC()

	older := seedFingerprint(userID, now.Add(-2*time.Hour))
	newer := seedFingerprint(userID, now.Add(-1*time.Hour))
	other := seedFingerprint(uuid.New(), now)

	for _, fp := range []*profile.CosmicFingerprint{older, newer, other} {
		if err := repo.Create(ctx, nil, fp); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.GetByID(ctx, older.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != older.ID {
		t.Fatalf("GetByID: wrong row: %+v", got)
	}
	if got.Astrology.SunSign != astro.Leo || got.Numerology.LifePath != 7 {
		t.Fatalf("GetByID: json columns did not round-trip: %+v", got)
	}

	latest, err := repo.GetLatestByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetLatestByUser: %v", err)
	}
	if latest == nil || latest.ID != newer.ID {
		t.Fatalf("GetLatestByUser: expected %s, got %+v", newer.ID, latest)
	}

	rows, err := repo.ListByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListByUser: expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != newer.ID || rows[1].ID != older.ID {
		t.Fatalf("ListByUser: wrong order: %s, %s", rows[0].ID, rows[1].ID)
	}

	if limited, err := repo.ListByUser(ctx, userID, 1); err != nil || len(limited) != 1 {
		t.Fatalf("ListByUser limit: err=%v len=%d", err, len(limited))
	}
}

func TestFingerprintRepoMissingRows(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))

	ctx := context.Background()
	repo := NewFingerprintRepo(tx, testutil.Logger(t))

	if got, err := repo.GetByID(ctx, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID missing: got=%+v err=%v", got, err)
	}
	if got, err := repo.GetLatestByUser(ctx, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetLatestByUser missing: got=%+v err=%v", got, err)
	}
	if got, err := repo.GetByID(ctx, uuid.Nil); err != nil || got != nil {
		t.Fatalf("GetByID nil id: got=%+v err=%v", got, err)
	}
}
