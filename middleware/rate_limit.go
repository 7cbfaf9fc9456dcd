package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configures RateLimit
type RateLimiterConfig struct {
	Rate      rate.Limit
	Burst     int
	ExpiresIn time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterStore keeps one token bucket per client and forgets clients
// idle for longer than ExpiresIn.
type RateLimiterStore struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	config      RateLimiterConfig
	lastCleanup time.Time
	now         func() time.Time
}

// NewRateLimiterStore creates an in-memory limiter store
func NewRateLimiterStore(config RateLimiterConfig) *RateLimiterStore {
	if config.ExpiresIn <= 0 {
		config.ExpiresIn = 3 * time.Minute
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	return &RateLimiterStore{
		visitors:    make(map[string]*visitor),
		config:      config,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Allow reports whether identifier may make another request now
func (s *RateLimiterStore) Allow(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	v, ok := s.visitors[identifier]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.config.Rate, s.config.Burst)}
		s.visitors[identifier] = v
	}
	v.lastSeen = now

	if now.Sub(s.lastCleanup) > s.config.ExpiresIn {
		for id, other := range s.visitors {
			if now.Sub(other.lastSeen) > s.config.ExpiresIn {
				delete(s.visitors, id)
			}
		}
		s.lastCleanup = now
	}
	return v.limiter.AllowN(now, 1)
}

// RateLimit rejects clients that exceed the store's rate with 429
func RateLimit(store *RateLimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Allow(c.ClientIP()) {
			utils.LogWarn("Rate limit exceeded for %s on %s", c.ClientIP(), c.Request.URL.Path)
			utils.Error(c, http.StatusTooManyRequests, "Rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
