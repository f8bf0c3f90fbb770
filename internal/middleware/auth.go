package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	StaffRole = "staff"

	// ClaimsKey holds the verified token claims on the gin context.
	ClaimsKey = "claims"
)

func abortAuth(c *gin.Context, status int, message string) {
	zap.L().Info("access denied",
		zap.String("path", c.FullPath()),
		zap.String("clientIP", c.ClientIP()),
		zap.String("reason", message),
	)
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "message": message})
}

// AuthGuard requires an HS256 bearer token signed with secret whose role
// claim is one of allowedRoles.
func AuthGuard(secret string, allowedRoles ...string) gin.HandlerFunc {
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		scheme, tokenString, found := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
		if scheme == "" {
			abortAuth(c, http.StatusUnauthorized, "missing token")
			return
		}
		tokenString = strings.TrimSpace(tokenString)
		if !found || tokenString == "" || !strings.EqualFold(scheme, "Bearer") {
			abortAuth(c, http.StatusUnauthorized, "invalid token")
			return
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, keyFunc)
		if err != nil || !token.Valid {
			abortAuth(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		role, _ := claims["role"].(string)
		if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, role) {
			abortAuth(c, http.StatusForbidden, "forbidden")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// StaffAuth guards mutating routes. With no secret configured it lets every
// request through.
func StaffAuth(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return AuthGuard(secret, StaffRole)
}
