package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"onboard-backend/pkg/ratelimit"
	"onboard-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware throttles requests per client per endpoint class. A
// limiter failure never blocks the request.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/v1/health" {
			c.Next()
			return
		}

		clientID := getClientID(c)
		endpoint := classifyEndpoint(c)

		allowed, retryAfter, err := limiter.Allow(clientID, endpoint)
		if err != nil {
			c.Header("X-RateLimit-Error", "Rate limiter unavailable")
			c.Next()
			return
		}

		limit := limiter.LimitFor(endpoint)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Window", strconv.Itoa(int(limit.Window.Seconds())))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))
			utils.ErrorResponse(c, http.StatusTooManyRequests,
				fmt.Sprintf("Too many requests. Try again in %v", retryAfter.Round(time.Second)), nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// getClientID prefers the authenticated user, falling back to the client IP
// for anonymous traffic.
func getClientID(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return "anon:" + strings.TrimSpace(ips[0])
	}

	return "anon:" + c.ClientIP()
}

// classifyEndpoint buckets routes into the limiter's endpoint classes. Auth
// and upload endpoints carry tighter limits than the rest of the API.
func classifyEndpoint(c *gin.Context) string {
	path := c.Request.URL.Path

	switch {
	case strings.HasPrefix(path, "/api/v1/auth/"):
		return ratelimit.EndpointAuth
	case c.Request.Method == http.MethodPost && strings.HasPrefix(path, "/api/v1/documents"):
		return ratelimit.EndpointUpload
	default:
		return ratelimit.EndpointDefault
	}
}
