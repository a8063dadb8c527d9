package app

import (
	"github.com/pearlapp/pearl-backend/internal/http/handlers"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Fingerprint *handlers.FingerprintHandler
	Transit     *handlers.TransitHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(services.Auth),
		User:        handlers.NewUserHandler(services.User),
		Fingerprint: handlers.NewFingerprintHandler(services.Fingerprint),
		Transit:     handlers.NewTransitHandler(services.Transit),
	}
}
