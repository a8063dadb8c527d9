package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pearlapp/pearl-backend/internal/astro/transits"
	"github.com/pearlapp/pearl-backend/internal/data/repos"
	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/platform/apierr"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

// ErrNoFingerprint signals that the caller has no fingerprint to transit
// against yet.
var ErrNoFingerprint = apierr.New(404, "no_fingerprint", fmt.Errorf("no fingerprint on record"))

// TransitService computes the current sky against a user's stored natal
// chart. The report is a snapshot, recomputed per request.
type TransitService interface {
	CurrentTransits(ctx context.Context, userID uuid.UUID) (*astro.TransitChart, error)
}

type transitService struct {
	log  *logger.Logger
	calc *transits.Calculator
	repo repos.FingerprintRepo
}

func NewTransitService(log *logger.Logger, calc *transits.Calculator, repo repos.FingerprintRepo) TransitService {
	return &transitService{
		log:  log.With("service", "TransitService"),
		calc: calc,
		repo: repo,
	}
}

func (s *transitService) CurrentTransits(ctx context.Context, userID uuid.UUID) (*astro.TransitChart, error) {
	fp, err := s.repo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load fingerprint: %w", err)
	}
	if fp == nil {
		return nil, ErrNoFingerprint
	}
	chart, err := s.calc.Calculate(ctx, &fp.Astrology)
	if err != nil {
		return nil, err
	}
	return chart, nil
}
