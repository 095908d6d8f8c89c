package api

import (
	"verisight/content"
	"verisight/scan"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the JSON routes are built on
type Deps struct {
	Manager        *scan.Manager
	Site           *content.Site
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// NewRouter constructs a Gin engine with the JSON API registered.
// Page routes are added on top of the same engine by the web package.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(d.Logger.Named("http")))

	RegisterHealthRoutes(r, d.Manager)
	RegisterScanRoutes(r, d.Manager, d.MaxUploadBytes)
	RegisterClassifyRoutes(r)
	RegisterPricingRoutes(r, d.Site)
	return r
}
