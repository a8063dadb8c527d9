package app

import (
	"fmt"
	"os"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pearlapp/pearl-backend/internal/clients/ephemeris"
	"github.com/pearlapp/pearl-backend/internal/clients/humandesign"
	"github.com/pearlapp/pearl-backend/internal/clients/kabbalah"
	"github.com/pearlapp/pearl-backend/internal/clients/numerology"
	"github.com/pearlapp/pearl-backend/internal/clients/openai"
	"github.com/pearlapp/pearl-backend/internal/platform/envutil"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

type Clients struct {
	Ephemeris   ephemeris.Client
	HumanDesign humandesign.Client
	Kabbalah    kabbalah.Client
	Numerology  numerology.Client
	Openai      openai.Client

	redis *goredis.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	eph, err := ephemeris.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init ephemeris client: %w", err)
	}

	// Redis is optional; when configured the current-sky lookup is cached.
	var rdb *goredis.Client
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: envutil.GetEnv("REDIS_PASSWORD", "", log),
			DB:       envutil.GetEnvAsInt("REDIS_DB", 0, log),
		})
		cached, err := ephemeris.NewCachedClient(eph, rdb, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init ephemeris cache: %w", err)
		}
		eph = cached
	}

	hd, err := humandesign.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init human design client: %w", err)
	}
	kb, err := kabbalah.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init kabbalah client: %w", err)
	}
	num, err := numerology.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init numerology client: %w", err)
	}

	// Openai is optional; without it the life-purpose enrichment is skipped.
	var ai openai.Client
	if strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		ai, err = openai.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
	}

	return Clients{
		Ephemeris:   eph,
		HumanDesign: hd,
		Kabbalah:    kb,
		Numerology:  num,
		Openai:      ai,
		redis:       rdb,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
}
