package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/Govind-619/ShipSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiterStore(t *testing.T) {
	store := NewRateLimiterStore(RateLimiterConfig{Rate: rate.Limit(1), Burst: 2, ExpiresIn: time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	store.lastCleanup = now

	assert.True(t, store.Allow("10.0.0.1"))
	assert.True(t, store.Allow("10.0.0.1"))
	assert.False(t, store.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, store.Allow("10.0.0.2"), "clients are limited separately")

	now = now.Add(time.Second)
	assert.True(t, store.Allow("10.0.0.1"), "one token refilled")

	now = now.Add(2 * time.Minute)
	store.Allow("10.0.0.3")
	assert.Len(t, store.visitors, 1, "idle clients are forgotten")
}

func TestRateLimitMiddleware(t *testing.T) {
	store := NewRateLimiterStore(RateLimiterConfig{Rate: rate.Limit(0.001), Burst: 1})
	router := utils.NewTestRouter()
	router.GET("/quote", RateLimit(store), func(c *gin.Context) { utils.Success(c, "ok", nil) })

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/quote"})
	utils.AssertResponse(t, resp, http.StatusOK, "ok")

	resp = utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/quote"})
	utils.AssertResponse(t, resp, http.StatusTooManyRequests, "Rate limit exceeded")
}
