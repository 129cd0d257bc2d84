package handlers

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"pollster-backend/cache"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	rateLimitEnabled bool
	globalLimiter    cache.RateLimiter
	issueLimiter     cache.RateLimiter
	// In-process fallback when Redis is in mock mode. Per-instance
	// limiting only, which is acceptable for a degraded mode.
	localLimiter *rate.Limiter
)

// InitRateLimiters reads rate limiting configuration from the
// environment and builds the limiters
func InitRateLimiters() {
	if os.Getenv("ENABLE_RATE_LIMIT") != "true" {
		return
	}
	rateLimitEnabled = true

	globalRate := 100
	if rateStr := os.Getenv("GLOBAL_RATE_LIMIT"); rateStr != "" {
		if r, err := strconv.Atoi(rateStr); err == nil && r > 0 {
			globalRate = r
		}
	}

	issueLimit := 10
	if rateStr := os.Getenv("ISSUE_RATE_LIMIT"); rateStr != "" {
		if r, err := strconv.Atoi(rateStr); err == nil && r > 0 {
			issueLimit = r
		}
	}

	client, err := cache.GetClient()
	if err != nil {
		localLimiter = rate.NewLimiter(rate.Limit(globalRate), globalRate*2)
		log.Printf("Redis unavailable, using in-process rate limiter: %v", err)
		return
	}

	globalLimiter = cache.NewTokenBucketRateLimiter(client, "global_api", globalRate, globalRate*2)
	issueLimiter = cache.NewSlidingWindowRateLimiter(client, "token_issue", time.Minute, issueLimit)
	log.Printf("Rate limiters initialized: global=%d/s, issue=%d/min", globalRate, issueLimit)
}

// RateLimitMiddleware applies the global limit to all API routes
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rateLimitEnabled {
			c.Next()
			return
		}

		if globalLimiter != nil {
			allowed, err := globalLimiter.Allow(c)
			if err != nil || !allowed {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
				c.Abort()
				return
			}
		} else if localLimiter != nil && !localLimiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IssueRateLimitMiddleware applies a tighter window to token issuance,
// which scans the full token table per request
func IssueRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rateLimitEnabled || issueLimiter == nil {
			c.Next()
			return
		}

		allowed, err := issueLimiter.Allow(c)
		if err != nil || !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Token issuance rate limit reached"})
			c.Abort()
			return
		}

		c.Next()
	}
}
