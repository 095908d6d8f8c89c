package api

import (
	"net/http"

	"verisight/scan"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers health check endpoints.
// The response carries the live session count so a dead store shows up as degraded.
func RegisterHealthRoutes(r *gin.Engine, m *scan.Manager) {
	r.GET("/api/health", func(c *gin.Context) {
		handleHealth(c, m)
	})
}

func handleHealth(c *gin.Context, m *scan.Manager) {
	sessions, err := m.Sessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": len(sessions)})
}
