package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecurityConfig holds security middleware configuration
type SecurityConfig struct {
	MaxRequestSize    int64
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DefaultSecurityConfig returns default security configuration
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		MaxRequestSize:    10 * 1024 * 1024, // 10MB
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// SecurityMiddleware enforces a request size cap, per-IP rate limiting
// and common security headers
func SecurityMiddleware(config *SecurityConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultSecurityConfig()
	}

	// Rate limiter per IP
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		if c.Request.ContentLength > config.MaxRequestSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"message": "İstek boyutu çok büyük",
			})
			c.Abort()
			return
		}

		clientIP := c.ClientIP()
		mu.Lock()
		limiter, exists := limiters[clientIP]
		if !exists {
			limiter = rate.NewLimiter(
				rate.Every(config.RateLimitWindow/time.Duration(config.RateLimitRequests)),
				config.RateLimitRequests,
			)
			limiters[clientIP] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message": "Çok fazla istek, lütfen daha sonra tekrar deneyin",
			})
			c.Abort()
			return
		}

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}

// CORSMiddleware handles cross-origin requests. With allowAll set, any
// origin is echoed back; otherwise only the listed origins are allowed.
func CORSMiddleware(allowedOrigins []string, allowAll bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if allowAll && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
		} else {
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					c.Header("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}

		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, Stripe-Signature")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
