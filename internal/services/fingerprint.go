package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/pearlapp/pearl-backend/internal/data/repos"
	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/domain/profile"
	"github.com/pearlapp/pearl-backend/internal/modules/fingerprint"
	"github.com/pearlapp/pearl-backend/internal/observability"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

// FingerprintService runs the build module and owns persistence. The policy
// for a failed life-purpose enrichment lives here: log a warning and keep the
// fingerprint; the mobile client renders the field as simply absent.
type FingerprintService interface {
	CreateFingerprint(ctx context.Context, userID uuid.UUID, name string, birth astro.BirthData) (*profile.CosmicFingerprint, error)
	GetFingerprint(ctx context.Context, userID, id uuid.UUID) (*profile.CosmicFingerprint, error)
	GetLatestFingerprint(ctx context.Context, userID uuid.UUID) (*profile.CosmicFingerprint, error)
	ListFingerprints(ctx context.Context, userID uuid.UUID, limit int) ([]*profile.CosmicFingerprint, error)
}

type fingerprintService struct {
	db      *gorm.DB
	log     *logger.Logger
	builder *fingerprint.Builder
	repo    repos.FingerprintRepo
}

func NewFingerprintService(db *gorm.DB, log *logger.Logger, builder *fingerprint.Builder, repo repos.FingerprintRepo) (FingerprintService, error) {
	if builder == nil {
		return nil, fmt.Errorf("fingerprint builder required")
	}
	return &fingerprintService{
		db:      db,
		log:     log.With("service", "FingerprintService"),
		builder: builder,
		repo:    repo,
	}, nil
}

func (s *fingerprintService) CreateFingerprint(ctx context.Context, userID uuid.UUID, name string, birth astro.BirthData) (*profile.CosmicFingerprint, error) {
	ctx, span := observability.StartSpan(ctx, "fingerprint.build",
		attribute.String("user_id", userID.String()))
	defer span.End()

	res, err := s.builder.Build(ctx, fingerprint.Input{
		UserID: userID,
		Name:   name,
		Birth:  birth,
	})
	if err != nil {
		return nil, err
	}
	if res.LifePurposeErr != nil {
		// Enrichment only; the fingerprint stands without it.
		s.log.Warn("life purpose generation failed, storing fingerprint without it",
			"user_id", userID,
			"error", res.LifePurposeErr,
		)
	}

	fp := res.Fingerprint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, fp)
	})
	if err != nil {
		return nil, fmt.Errorf("persist fingerprint: %w", err)
	}
	return fp, nil
}

func (s *fingerprintService) GetFingerprint(ctx context.Context, userID, id uuid.UUID) (*profile.CosmicFingerprint, error) {
	fp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Scope reads to the owner.
	if fp == nil || fp.UserID != userID {
		return nil, nil
	}
	return fp, nil
}

func (s *fingerprintService) GetLatestFingerprint(ctx context.Context, userID uuid.UUID) (*profile.CosmicFingerprint, error) {
	return s.repo.GetLatestByUser(ctx, userID)
}

func (s *fingerprintService) ListFingerprints(ctx context.Context, userID uuid.UUID, limit int) ([]*profile.CosmicFingerprint, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}
