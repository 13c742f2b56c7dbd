package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Haroldke13/geniusbabycosmetics/internal/service"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

// AdminMiddleware guards the admin surface. A request may present the shared
// admin token (X-Admin-Token header or token query parameter) or a session
// JWT from login (Authorization: Bearer).
type AdminMiddleware struct {
	authService *service.AdminAuthService
	rateLimiter *IPRateLimiter
}

// NewAdminMiddleware constructs a new AdminMiddleware.
func NewAdminMiddleware(authService *service.AdminAuthService) *AdminMiddleware {
	return &AdminMiddleware{
		authService: authService,
		rateLimiter: NewIPRateLimiter(invalidAuthLimit, invalidAuthWindow),
	}
}

// Handle returns a Gin middleware function that enforces admin authentication.
func (m *AdminMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		shared := c.GetHeader("X-Admin-Token")
		if shared == "" {
			shared = c.Query("token")
		}

		var bearer string
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			bearer = strings.TrimPrefix(h, "Bearer ")
		}

		if shared == "" && bearer == "" {
			m.handleAuthError(c, "UNAUTHORIZED", "Missing admin credentials")
			return
		}

		if !m.authService.Authorize(shared, bearer) {
			m.handleAuthError(c, "INVALID_TOKEN", "Invalid admin credentials")
			return
		}

		c.Next()
	}
}

func (m *AdminMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid auth attempts
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}
