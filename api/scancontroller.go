package api

import (
	"fmt"
	"net/http"
	"strconv"

	"verisight/config"
	"verisight/scan"
	shared "verisight/shared/types"

	"github.com/gin-gonic/gin"
)

type scanController struct {
	manager   *scan.Manager
	maxUpload int64
}

// RegisterScanRoutes registers the scan session endpoints.
func RegisterScanRoutes(r *gin.Engine, m *scan.Manager, maxUpload int64) {
	sc := &scanController{manager: m, maxUpload: maxUpload}

	g := r.Group("/api/scans")
	g.POST("", sc.handleCreate)
	g.GET("/recent", sc.handleRecent)
	g.GET("/:id", sc.handleGet)
	g.POST("/:id/upload", sc.handleUpload)
	g.POST("/:id/reset", sc.handleReset)
}

// RecentResponse lists completed scans, newest first
type RecentResponse struct {
	Items []shared.ActivityItem `json:"items"`
}

// handleCreate opens a new idle session
func (sc *scanController) handleCreate(c *gin.Context) {
	snap, err := sc.manager.Create(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Location", "/api/scans/"+snap.ID)
	c.JSON(http.StatusCreated, snap)
}

// handleGet returns the session snapshot; clients poll this while scanning
func (sc *scanController) handleGet(c *gin.Context) {
	snap, err := sc.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// handleUpload accepts a multipart "media" file and starts the scan.
// The session is checked before the body is read so busy sessions fail fast.
func (sc *scanController) handleUpload(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	snap, err := sc.manager.Get(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if snap.Status != shared.StatusIdle {
		abortWithError(c, fmt.Errorf("%w (state=%s)", scan.ErrScanInProgress, snap.Status))
		return
	}

	upload, err := ReadMedia(c, sc.maxUpload)
	if err != nil {
		abortWithError(c, err)
		return
	}

	snap, err = sc.manager.Upload(ctx, id, upload)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, snap)
}

// handleReset performs "New Scan" on a completed session
func (sc *scanController) handleReset(c *gin.Context) {
	snap, err := sc.manager.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// handleRecent returns the latest completed scans.
// Query params: limit (int, optional, default 3)
func (sc *scanController) handleRecent(c *gin.Context) {
	limit := config.RecentActivityLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			abortWithError(c, fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, RecentResponse{Items: sc.manager.Recent(limit)})
}
