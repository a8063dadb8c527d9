package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pearlapp/pearl-backend/internal/astro/transits"
	"github.com/pearlapp/pearl-backend/internal/modules/fingerprint"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
	"github.com/pearlapp/pearl-backend/internal/services"
)

type Services struct {
	Avatar      services.AvatarService
	Auth        services.AuthService
	User        services.UserService
	Fingerprint services.FingerprintService
	Transit     services.TransitService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	avatarService, err := services.NewAvatarService(log, reposet.User)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	authService := services.NewAuthService(
		db,
		log,
		reposet.User,
		reposet.UserToken,
		avatarService,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(log, reposet.User)

	var lifePurpose fingerprint.LifePurposeGenerator
	if clients.Openai != nil {
		lifePurpose = services.NewLifePurposeService(clients.Openai, log)
	}

	builder, err := fingerprint.NewBuilder(fingerprint.Deps{
		Log:         log,
		Ephemeris:   clients.Ephemeris,
		HumanDesign: clients.HumanDesign,
		Kabbalah:    clients.Kabbalah,
		Numerology:  clients.Numerology,
		LifePurpose: lifePurpose,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init fingerprint builder: %w", err)
	}

	fingerprintService, err := services.NewFingerprintService(db, log, builder, reposet.Fingerprint)
	if err != nil {
		return Services{}, fmt.Errorf("init fingerprint service: %w", err)
	}

	calculator := transits.NewCalculator(clients.Ephemeris, log)
	transitService := services.NewTransitService(log, calculator, reposet.Fingerprint)

	return Services{
		Avatar:      avatarService,
		Auth:        authService,
		User:        userService,
		Fingerprint: fingerprintService,
		Transit:     transitService,
	}, nil
}
