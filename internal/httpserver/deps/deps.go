package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/session"
	"github.com/linkhaven/linkhaven/internal/suggest"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	AllowedHosts    []string         // Host headers allowed to access the server
	AllowedCIDRS    []string         // IPs allowed to access infra endpoints
	TrustProxy      bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RedisClient     *redis.Client    // Redis client connection
	Sessions        *session.Manager // Per-owner session registry
	Suggester       suggest.Suggester
	RateLimitBurst  int // token bucket burst per client IP
	RateLimitPerMin int // token refill per client IP per minute
}
