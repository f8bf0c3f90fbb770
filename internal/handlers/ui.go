package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home points browsers at the health endpoint; the dashboard is served
// separately.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api/health")
	}
}

func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Route " + c.Request.URL.Path + " not found",
		})
	}
}
