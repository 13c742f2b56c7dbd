package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haroldke13/geniusbabycosmetics/internal/middleware"
	"github.com/Haroldke13/geniusbabycosmetics/internal/service"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

// AuthHandler exchanges the shared admin token for a session JWT.
type AuthHandler struct {
	authService  *service.AdminAuthService
	loginLimiter *middleware.IPRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AdminAuthService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: middleware.NewIPRateLimiter(5, time.Minute),
	}
}

// Login handles POST /v1/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, err := h.authService.Login(req.Token)
	if err != nil {
		// Invalid attempts consume the limiter; valid logins never do.
		if !h.loginLimiter.Allow(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid login attempts")
			return
		}
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid admin token")
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
	})
}
