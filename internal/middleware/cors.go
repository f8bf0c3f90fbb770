package middleware

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the dashboard origin(s), comma-separated, to call the API.
func CORS(origins string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = nil
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	// Browsers refuse credentials on a wildcard origin.
	if len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*") {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowCredentials = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
