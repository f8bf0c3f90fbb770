package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/clock"
	"restaurant-backend/internal/middleware"
)

// AuthConfig configures staff login. An empty Secret disables access control.
type AuthConfig struct {
	Secret       string
	PasswordHash string
	TokenTTL     time.Duration
	Clock        clock.Clock
}

type LoginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the shared staff password for a signed bearer token.
func Login(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"
		defer handlePanic(c, route)

		if cfg.Secret == "" || cfg.PasswordHash == "" {
			respondWithError(c, http.StatusServiceUnavailable, route, "staff login is not configured")
			return
		}

		var req LoginRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, route, err)
			return
		}
		if strings.TrimSpace(req.Password) == "" {
			respondError(c, route, apperr.Validation("password is required"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(req.Password)); err != nil {
			zap.L().Warn("staff login rejected", zap.String("clientIP", c.ClientIP()))
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		now := cfg.Clock.Now()
		expires := now.Add(cfg.TokenTTL)
		claims := jwt.MapClaims{
			"sub":  "staff",
			"role": middleware.StaffRole,
			"iat":  now.Unix(),
			"exp":  expires.Unix(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "success",
			"token":     signed,
			"expiresAt": expires.UTC().Format(time.RFC3339),
		})
	}
}
