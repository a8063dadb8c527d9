package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
)

// HumanDesignProfile is the output contract of the human design calculator.
type HumanDesignProfile struct {
	Type             string   `json:"type"`
	Strategy         string   `json:"strategy"`
	Authority        string   `json:"authority"`
	Profile          string   `json:"profile"`
	DefinedCenters   []string `json:"defined_centers,omitempty"`
	UndefinedCenters []string `json:"undefined_centers,omitempty"`
}

// KabbalahProfile carries the soul correction assigned from name + birth date.
type KabbalahProfile struct {
	SoulCorrection string `json:"soul_correction"`
	Challenge      string `json:"challenge"`
}

// NumerologyProfile is the output contract of the numerology calculator.
type NumerologyProfile struct {
	LifePath         int      `json:"life_path"`
	LifePathKeywords []string `json:"life_path_keywords,omitempty"`
	Expression       int      `json:"expression"`
	SoulUrge         int      `json:"soul_urge"`
}

// LifePurposeProfile is the AI-generated enrichment. The only optional piece
// of a fingerprint.
type LifePurposeProfile struct {
	Summary string   `json:"summary"`
	Mission string   `json:"mission"`
	Gifts   []string `json:"gifts,omitempty"`
}

// PearlSynthesis is the five derived narrative fields. PearlSummary stays
// empty here; a downstream enrichment step owns it.
type PearlSynthesis struct {
	LifePurpose  string   `json:"life_purpose"`
	CoreThemes   []string `json:"core_themes"`
	Superpower   string   `json:"superpower"`
	Shadow       string   `json:"shadow"`
	Invitation   string   `json:"invitation"`
	PearlSummary string   `json:"pearl_summary"`
}

// CosmicFingerprint is the immutable multi-tradition profile built once per
// request. A new fingerprint supersedes an old one; rows are never updated in
// place.
type CosmicFingerprint struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`

	Astrology   astro.NatalChart    `gorm:"type:jsonb;serializer:json;not null" json:"astrology"`
	HumanDesign HumanDesignProfile  `gorm:"type:jsonb;serializer:json;not null" json:"human_design"`
	Kabbalah    KabbalahProfile     `gorm:"type:jsonb;serializer:json;not null" json:"kabbalah"`
	Numerology  NumerologyProfile   `gorm:"type:jsonb;serializer:json;not null" json:"numerology"`
	LifePurpose *LifePurposeProfile `gorm:"type:jsonb;serializer:json" json:"life_purpose,omitempty"`
	Synthesis   PearlSynthesis      `gorm:"type:jsonb;serializer:json;not null" json:"synthesis"`

	// Snapshot of the birth inputs the fingerprint was built from.
	BirthInput datatypes.JSON `gorm:"type:jsonb" json:"birth_input,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CosmicFingerprint) TableName() string { return "cosmic_fingerprint" }
