package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"casino-backend/internal/services"
)

func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
			if tokenString == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				c.Abort()
				return
			}
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("session_id", claims.SessionID)
		c.Set("is_guest", claims.IsGuest)

		c.Next()
	}
}

// rateLimitSubject identifies whose counter a request ticks. Guests all carry
// user ID 0, so they are keyed by session ID instead of sharing one pool.
func rateLimitSubject(c *gin.Context) string {
	userID, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	if c.GetBool("is_guest") {
		return c.GetString("session_id")
	}
	return strconv.FormatInt(userID.(int64), 10)
}

// RequireAccount blocks guest sessions from account-only operations.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool("is_guest") {
			c.JSON(http.StatusForbidden, gin.H{"error": "Create an account to use this feature"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimiter is the counting backend for RateLimitMiddleware; RedisService
// implements it.
type RateLimiter interface {
	CheckRateLimit(subject, action string, limit int, window time.Duration) (bool, error)
}

func RateLimitMiddleware(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := rateLimitSubject(c)
		if subject == "" {
			c.Next()
			return
		}

		path := c.Request.URL.Path

		var limit int
		var window time.Duration

		switch {
		case strings.Contains(path, "/game/outcome"):
			limit = services.DefaultRateLimitOutcomes
			window = time.Minute
		case strings.Contains(path, "/user/deposit"):
			limit = services.DefaultRateLimitDeposits
			window = time.Minute
		default:
			c.Next()
			return
		}

		allowed, err := limiter.CheckRateLimit(subject, path, limit, window)
		if err != nil || !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
