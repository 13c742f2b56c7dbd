package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// storefrontOrigins are always accepted: local frontend dev servers and the
// shop's own domains. CORS_ALLOWED_ORIGINS extends the set per deployment.
var storefrontOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"https://geniusbabycosmetics.co.ke",
	"https://www.geniusbabycosmetics.co.ke",
}

const corsHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Admin-Token"

// CORSMiddleware lets browser frontends on known hosts call the API. extra
// lists additional allowed origins, typically from CORS_ALLOWED_ORIGINS.
// Origins are compared by host so scheme and default-port variants all match.
func CORSMiddleware(extra ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(storefrontOrigins)+len(extra))
	for _, raw := range storefrontOrigins {
		allowed[originHost(raw)] = true
	}
	for _, raw := range extra {
		if host := originHost(raw); host != "" {
			allowed[host] = true
		}
	}

	return func(c *gin.Context) {
		origin := strings.TrimSpace(strings.TrimSuffix(c.GetHeader("Origin"), "/"))
		if origin == "" {
			// Some clients send only a Referer on top-level form posts.
			if u, err := url.Parse(c.GetHeader("Referer")); err == nil && u.Scheme != "" && u.Host != "" {
				origin = u.Scheme + "://" + u.Host
			}
		}

		if allowed[originHost(origin)] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Allow-Headers", corsHeaders)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// originHost extracts the lowercased host from an origin or referer URL,
// dropping default ports so "host:443" matches "host". Returns "" for
// anything that does not parse as an absolute URL.
func originHost(raw string) string {
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "/"))
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	if h, port, ok := strings.Cut(host, ":"); ok && (port == "443" || port == "80") {
		host = h
	}
	return host
}
