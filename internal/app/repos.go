package app

import (
	"gorm.io/gorm"

	"github.com/pearlapp/pearl-backend/internal/data/repos"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	UserToken   repos.UserTokenRepo
	Fingerprint repos.FingerprintRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		UserToken:   repos.NewUserTokenRepo(db, log),
		Fingerprint: repos.NewFingerprintRepo(db, log),
	}
}
