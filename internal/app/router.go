package app

import (
	"github.com/gin-gonic/gin"

	"github.com/pearlapp/pearl-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        handlers.Auth,
		AuthMiddleware:     middleware.Auth,
		UserHandler:        handlers.User,
		FingerprintHandler: handlers.Fingerprint,
		TransitHandler:     handlers.Transit,
		AllowOrigins:       cfg.AllowOrigins,
		MediaDir:           cfg.MediaDir,
	})
}
