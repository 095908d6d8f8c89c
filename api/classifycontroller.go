package api

import (
	"fmt"
	"net/http"
	"strconv"

	"verisight/scoring"

	"github.com/gin-gonic/gin"
)

// RegisterClassifyRoutes registers the score classification endpoint.
func RegisterClassifyRoutes(r *gin.Engine) {
	r.GET("/api/classify", handleClassify)
}

// ClassifyResponse describes how a trust score is presented
type ClassifyResponse struct {
	Score    int              `json:"score"`
	Category scoring.Category `json:"category"`
	Tone     scoring.Tone     `json:"tone"`
	Label    string           `json:"label"`
	Headline string           `json:"headline"`
	Color    string           `json:"color"`
	Gauge    scoring.Gauge    `json:"gauge"`
}

// handleClassify maps ?score=n (0..100) to its category.
// Query params: score (int, required), size (sm|md|lg, optional)
func handleClassify(c *gin.Context) {
	raw := c.Query("score")
	score, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: score must be an integer, got %q", ErrBadRequest, raw))
		return
	}
	if err := scoring.ValidScore(score); err != nil {
		abortWithError(c, err)
		return
	}

	cat := scoring.Classify(score)
	c.JSON(http.StatusOK, ClassifyResponse{
		Score:    score,
		Category: cat,
		Tone:     cat.Tone(),
		Label:    cat.Label(),
		Headline: cat.Headline(),
		Color:    cat.Color(),
		Gauge:    scoring.NewGauge(score, scoring.Size(c.DefaultQuery("size", string(scoring.SizeMedium)))),
	})
}
