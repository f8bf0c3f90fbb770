package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-backend/internal/apperr"
)

const (
	genericErrorMessage   = "Something went wrong"
	defaultRequestTimeout = 5 * time.Second

	requestTimeoutKey = "requestTimeout"
	locationKey       = "location"
)

// requestSettings makes per-router settings available to the handlers
// mounted behind it.
func requestSettings(timeout time.Duration, loc *time.Location) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if loc == nil {
		loc = time.Local
	}
	return func(c *gin.Context) {
		c.Set(requestTimeoutKey, timeout)
		c.Set(locationKey, loc)
		c.Next()
	}
}

func requestLocation(c *gin.Context) *time.Location {
	if v, ok := c.Get(locationKey); ok {
		if loc, ok := v.(*time.Location); ok {
			return loc
		}
	}
	return time.Local
}

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		zap.L().Error("panic recovered", zap.String("route", route), zap.Any("panic", r), zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": genericErrorMessage})
	}
}

// requestContext bounds store calls made on behalf of one request.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := c.GetDuration(requestTimeoutKey)
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	zap.L().Info("request failed",
		zap.String("route", route),
		zap.Int("status", status),
		zap.String("message", message),
	)
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "message": message})
}

// respondError maps the store error taxonomy onto HTTP. Anything unexpected
// is logged in full and reported generically.
func respondError(c *gin.Context, route string, err error) {
	var validationErr *apperr.ValidationError
	var notFoundErr *apperr.NotFoundError
	var transitionErr *apperr.InvalidTransitionError

	switch {
	case errors.As(err, &validationErr):
		zap.L().Info("validation failed", zap.String("route", route), zap.Strings("errors", validationErr.Fields))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Validation error",
			"errors":  validationErr.Fields,
		})
	case errors.As(err, &notFoundErr):
		respondWithError(c, http.StatusNotFound, route, notFoundErr.Error())
	case errors.As(err, &transitionErr):
		zap.L().Info("invalid transition", zap.String("route", route), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": transitionErr.Error(),
			"from":    transitionErr.From,
			"to":      transitionErr.To,
		})
	default:
		zap.L().Error("request error", zap.String("route", route), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": genericErrorMessage})
	}
}

// bindJSON decodes the body into dst, reporting malformed JSON as a
// validation error.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Validation("invalid request body: " + err.Error())
	}
	return nil
}

// queryParser reads optional query parameters and collects every malformed
// one.
type queryParser struct {
	c    *gin.Context
	verr apperr.ValidationError
}

func newQueryParser(c *gin.Context) *queryParser {
	return &queryParser{c: c}
}

func (q *queryParser) str(name string) string {
	return strings.TrimSpace(q.c.Query(name))
}

func (q *queryParser) float(name string) *float64 {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.verr.Add("%s must be a number", name)
		return nil
	}
	return &v
}

func (q *queryParser) boolean(name string) *bool {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.verr.Add("%s must be true or false", name)
		return nil
	}
	return &v
}

func (q *queryParser) integer(name string, def int) int {
	raw := q.str(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		q.verr.Add("%s must be a positive integer", name)
		return def
	}
	return v
}

func (q *queryParser) duration(name string, def time.Duration) time.Duration {
	raw := q.str(name)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		q.verr.Add("%s must be a positive duration such as 30m or 2h", name)
		return def
	}
	return v
}

// list splits a comma-separated parameter, dropping blanks.
func (q *queryParser) list(name string) []string {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// date accepts RFC 3339 or a calendar day. A calendar day used as an upper
// bound covers the whole day.
func (q *queryParser) date(name string, endOfDay bool) *time.Time {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.ParseInLocation("2006-01-02", raw, requestLocation(q.c))
	if err != nil {
		q.verr.Add("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", name)
		return nil
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t
}

// descending reads sortOrder ("asc" or "desc").
func (q *queryParser) descending(def bool) bool {
	switch strings.ToLower(q.str("sortOrder")) {
	case "":
		return def
	case "desc":
		return true
	case "asc":
		return false
	default:
		q.verr.Add("sortOrder must be asc or desc")
		return def
	}
}

func (q *queryParser) err() error {
	return q.verr.OrNil()
}
