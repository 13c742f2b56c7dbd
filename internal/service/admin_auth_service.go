package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

const adminSessionTTL = 24 * time.Hour

// AdminAuthService exchanges the shared admin token for a short-lived
// session JWT and authorizes admin requests.
type AdminAuthService struct {
	adminToken string
	jwtSecret  string
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(adminToken, jwtSecret string) *AdminAuthService {
	return &AdminAuthService{adminToken: adminToken, jwtSecret: jwtSecret}
}

// Login validates the shared token and issues a session JWT.
func (s *AdminAuthService) Login(token string) (string, error) {
	if s.adminToken == "" || !utils.SecureCompare(token, s.adminToken) {
		log.Warn().Msg("Admin login with invalid token")
		return "", utils.ErrInvalidToken
	}

	jwt, err := utils.GenerateAdminJWT(s.jwtSecret, adminSessionTTL)
	if err != nil {
		return "", err
	}

	log.Info().Msg("Admin login successful")
	return jwt, nil
}

// Authorize reports whether a shared token or a session JWT grants admin
// access. Either credential may be empty.
func (s *AdminAuthService) Authorize(sharedToken, bearer string) bool {
	if sharedToken != "" && s.adminToken != "" && utils.SecureCompare(sharedToken, s.adminToken) {
		return true
	}
	if bearer != "" {
		if _, err := utils.ValidateAdminJWT(s.jwtSecret, bearer); err == nil {
			return true
		}
	}
	return false
}
