package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
	"github.com/pearlapp/pearl-backend/internal/platform/envutil"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

const skyCacheKey = "ephemeris:current_sky"

// cachedClient keeps the latest current-sky response in redis for a short
// TTL. Only the provider response is cached; transits are still recomputed
// from it on every request. Natal chart computation is never cached.
type cachedClient struct {
	Client
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewCachedClient decorates inner with a redis current-sky cache. Cache reads
// and writes degrade to direct provider calls on redis failure.
func NewCachedClient(inner Client, rdb *goredis.Client, log *logger.Logger) (Client, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner ephemeris client required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	clientLog := log.With("client", "EphemerisSkyCache")
	ttlSec := envutil.GetEnvAsInt("EPHEMERIS_SKY_CACHE_TTL_SECONDS", 60, clientLog)
	return &cachedClient{
		Client: inner,
		log:    clientLog,
		rdb:    rdb,
		ttl:    time.Duration(ttlSec) * time.Second,
	}, nil
}

func (c *cachedClient) CurrentSky(ctx context.Context) (*astro.NatalChart, error) {
	if raw, err := c.rdb.Get(ctx, skyCacheKey).Bytes(); err == nil {
		var chart astro.NatalChart
		uErr := json.Unmarshal(raw, &chart)
		if uErr == nil {
			return &chart, nil
		}
		c.log.Warn("dropping undecodable cached sky", "error", uErr)
	} else if err != goredis.Nil {
		c.log.Warn("sky cache read failed, querying provider", "error", err)
	}

	chart, err := c.Client.CurrentSky(ctx)
	if err != nil {
		return nil, err
	}
	if raw, mErr := json.Marshal(chart); mErr == nil {
		if sErr := c.rdb.Set(ctx, skyCacheKey, raw, c.ttl).Err(); sErr != nil {
			c.log.Warn("sky cache write failed", "error", sErr)
		}
	}
	return chart, nil
}
