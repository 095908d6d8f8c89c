package api

import (
	"net/http"

	"verisight/content"

	"github.com/gin-gonic/gin"
)

// RegisterPricingRoutes registers the plan listing endpoint.
func RegisterPricingRoutes(r *gin.Engine, site *content.Site) {
	r.GET("/api/pricing", func(c *gin.Context) {
		handlePricing(c, site)
	})
}

// PricingResponse lists every plan priced for one billing period
type PricingResponse struct {
	Billing content.Billing     `json:"billing"`
	Plans   []content.PlanPrice `json:"plans"`
}

// handlePricing returns plans for ?billing=monthly|annual (default monthly)
func handlePricing(c *gin.Context, site *content.Site) {
	billing, err := content.ParseBilling(c.Query("billing"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, PricingResponse{
		Billing: billing,
		Plans:   site.Pricing.Prices(billing),
	})
}
