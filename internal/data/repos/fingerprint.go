package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pearlapp/pearl-backend/internal/domain/profile"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

// FingerprintRepo persists completed fingerprints. Rows are write-once: a new
// fingerprint supersedes older ones, nothing is updated in place.
type FingerprintRepo interface {
	Create(ctx context.Context, tx *gorm.DB, fp *profile.CosmicFingerprint) error
	GetByID(ctx context.Context, id uuid.UUID) (*profile.CosmicFingerprint, error)
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*profile.CosmicFingerprint, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*profile.CosmicFingerprint, error)
}

type fingerprintRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFingerprintRepo(db *gorm.DB, baseLog *logger.Logger) FingerprintRepo {
	return &fingerprintRepo{db: db, log: baseLog.With("repo", "FingerprintRepo")}
}

func (r *fingerprintRepo) Create(ctx context.Context, tx *gorm.DB, fp *profile.CosmicFingerprint) error {
	if fp == nil {
		return fmt.Errorf("nil fingerprint")
	}
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(fp).Error
}

func (r *fingerprintRepo) GetByID(ctx context.Context, id uuid.UUID) (*profile.CosmicFingerprint, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row profile.CosmicFingerprint
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *fingerprintRepo) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*profile.CosmicFingerprint, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row profile.CosmicFingerprint
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_at DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *fingerprintRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*profile.CosmicFingerprint, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []*profile.CosmicFingerprint
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
