package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bnema/mafia-engine/internal/domain"
)

const (
	actorHeader    = "X-Actor-ID"
	elevatedHeader = "X-Actor-Elevated"
	actorKey       = "actor"
	elevatedKey    = "elevated"
)

// requireActor reads the acting player from the request headers.
// Authentication happens in front of this service.
func requireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(actorHeader)
		id, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing-actor"})
			return
		}
		elevated, _ := strconv.ParseBool(c.GetHeader(elevatedHeader))

		c.Set(actorKey, domain.PlayerID(id))
		c.Set(elevatedKey, elevated)
		c.Next()
	}
}

func actor(c *gin.Context) domain.PlayerID {
	id, _ := c.Get(actorKey)
	player, _ := id.(domain.PlayerID)
	return player
}

func elevated(c *gin.Context) bool {
	return c.GetBool(elevatedKey)
}

type actorLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[domain.PlayerID]*rate.Limiter
}

func newActorLimiter(limit rate.Limit, burst int) *actorLimiter {
	return &actorLimiter{
		limit:    limit,
		burst:    burst,
		limiters: map[domain.PlayerID]*rate.Limiter{},
	}
}

func (l *actorLimiter) get(id domain.PlayerID) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[id]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[id] = limiter
	}
	return limiter
}

func (l *actorLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(actor(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate-limited"})
			return
		}
		c.Next()
	}
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	}
}
