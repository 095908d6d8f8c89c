// Package web renders the marketing pages and the scan dashboard.
package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"verisight/api"
	"verisight/config"
	"verisight/content"
	"verisight/scan"
	"verisight/scoring"
	shared "verisight/shared/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the pages read from
type Deps struct {
	Manager        *scan.Manager
	Site           *content.Site
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// page is the data every template receives
type page struct {
	Site    *content.Site
	Active  string
	Title   string
	Refresh bool
	Data    any
}

type pageController struct {
	manager   *scan.Manager
	site      *content.Site
	logger    *zap.Logger
	maxUpload int64
}

// RegisterPageRoutes installs the HTML templates and page routes on r.
// Unknown paths render the 404 page, or a JSON error under /api/.
func RegisterPageRoutes(r *gin.Engine, d Deps) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pc := &pageController{
		manager:   d.Manager,
		site:      d.Site,
		logger:    logger.Named("web"),
		maxUpload: d.MaxUploadBytes,
	}

	r.GET("/", pc.handleLanding)
	r.GET("/dashboard", pc.handleDashboard)
	r.POST("/dashboard/scan", pc.handleScan)
	r.POST("/dashboard/reset", pc.handleReset)
	r.GET("/education", pc.handleEducation)
	r.GET("/trust", pc.handleTrust)
	r.GET("/pricing", pc.handlePricing)
	r.GET("/about", pc.handleAbout)
	r.NoRoute(pc.handleNotFound)
	return nil
}

func (pc *pageController) render(c *gin.Context, status int, name string, p page) {
	p.Site = pc.site
	c.HTML(status, name, p)
}

type landingData struct {
	Gauge           scoring.Gauge
	ProbabilityTone scoring.Tone
	Waveform        []scan.Bar
}

func (pc *pageController) handleLanding(c *gin.Context) {
	sample := pc.site.Landing.Sample
	pc.render(c, http.StatusOK, "landing", page{
		Active: "/",
		Data: landingData{
			Gauge:           scoring.NewGauge(sample.Score, scoring.SizeLarge),
			ProbabilityTone: scoring.ProbabilityTone(sample.Probability),
			Waveform:        scan.Waveform(30, nil),
		},
	})
}

// activityRow is one line of the recent activity panel
type activityRow struct {
	Type   string
	Status string
	Time   string
}

type dashboardData struct {
	Scan        *shared.Snapshot
	Gauge       scoring.Gauge
	Waveform    []scan.Bar
	ShowHeatmap bool
	Activity    []activityRow
	Accept      string
	MaxUploadMB int64
	Error       string
}

func (pc *pageController) dashboard(c *gin.Context, snap *shared.Snapshot, errMsg string) dashboardData {
	// an idle session shows the upload zone just like no session
	if snap != nil && snap.Status == shared.StatusIdle {
		snap = nil
	}
	d := dashboardData{
		Scan:        snap,
		ShowHeatmap: c.Query("heatmap") != "off",
		Activity:    pc.activity(),
		Accept:      strings.Join(scan.Accept, ","),
		MaxUploadMB: pc.maxUpload >> 20,
		Error:       errMsg,
	}
	if snap != nil {
		switch snap.Status {
		case shared.StatusScanning:
			d.Waveform = scan.Waveform(50, nil)
		case shared.StatusComplete:
			if snap.Result != nil {
				d.Gauge = scoring.NewGauge(snap.Result.TrustScore, scoring.SizeLarge)
			}
		}
	}
	return d
}

// activity lists real completed scans, or the sample rows before any scan has finished
func (pc *pageController) activity() []activityRow {
	recent := pc.manager.Recent(config.RecentActivityLimit)
	if len(recent) == 0 {
		rows := make([]activityRow, 0, len(pc.site.Dashboard.SampleActivity))
		for _, a := range pc.site.Dashboard.SampleActivity {
			rows = append(rows, activityRow{Type: titleCase(string(a.Type)), Status: a.Status, Time: a.Time})
		}
		return rows
	}

	rows := make([]activityRow, 0, len(recent))
	for _, a := range recent {
		rows = append(rows, activityRow{
			Type:   titleCase(string(a.MediaType)),
			Status: a.Category,
			Time:   a.At.Format("15:04:05"),
		})
	}
	return rows
}

func (pc *pageController) handleDashboard(c *gin.Context) {
	var (
		snap   *shared.Snapshot
		errMsg string
	)
	if id := c.Query("scan"); id != "" {
		s, err := pc.manager.Get(c.Request.Context(), id)
		switch {
		case err == nil:
			snap = s
		case errors.Is(err, scan.ErrNotFound):
			errMsg = "That scan has expired. Upload the file again to start a new one."
		default:
			pc.logger.Error("failed to load scan", zap.String("session", id), zap.Error(err))
			errMsg = api.Message(err)
		}
	}

	p := page{Active: "/dashboard", Title: "Dashboard", Data: pc.dashboard(c, snap, errMsg)}
	if snap != nil && snap.Status == shared.StatusScanning {
		p.Refresh = true
		c.Header("Refresh", strconv.Itoa(config.ScanningRefreshSeconds))
	}
	pc.render(c, http.StatusOK, "dashboard", p)
}

// handleScan streams the uploaded file into a new session and redirects to it
func (pc *pageController) handleScan(c *gin.Context) {
	ctx := c.Request.Context()

	upload, err := api.ReadMedia(c, pc.maxUpload)
	if err != nil {
		pc.renderDashboardError(c, err)
		return
	}

	snap, err := pc.manager.Create(ctx)
	if err == nil {
		snap, err = pc.manager.Upload(ctx, snap.ID, upload)
	}
	if err != nil {
		pc.renderDashboardError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard?scan="+url.QueryEscape(snap.ID))
}

// handleReset performs "New Scan" for the session in the form
func (pc *pageController) handleReset(c *gin.Context) {
	id := c.PostForm("scan")
	if id == "" {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	_, err := pc.manager.Reset(c.Request.Context(), id)
	switch {
	case err == nil, errors.Is(err, scan.ErrNotFound):
		c.Redirect(http.StatusSeeOther, "/dashboard")
	default:
		pc.renderDashboardError(c, err)
	}
}

func (pc *pageController) renderDashboardError(c *gin.Context, err error) {
	_ = c.Error(err)
	pc.render(c, api.StatusFor(err), "dashboard", page{
		Active: "/dashboard",
		Title:  "Dashboard",
		Data:   pc.dashboard(c, nil, api.Message(err)),
	})
}

type educationData struct {
	Reading  []content.Article
	Waveform []scan.Bar
}

func (pc *pageController) handleEducation(c *gin.Context) {
	reading, err := content.ReadingList(0)
	if err != nil {
		pc.logger.Warn("reading list unavailable", zap.Error(err))
	}
	pc.render(c, http.StatusOK, "education", page{
		Active: "/education",
		Title:  "Education",
		Data:   educationData{Reading: reading, Waveform: scan.Waveform(25, nil)},
	})
}

type scoreRange struct {
	Label string
	Tone  scoring.Tone
	Range string
}

type trustData struct {
	Gauge  scoring.Gauge
	Ranges []scoreRange
}

func (pc *pageController) handleTrust(c *gin.Context) {
	ranges := []scoreRange{
		{scoring.Authentic.Label(), scoring.Authentic.Tone(), "80 to 100"},
		{scoring.Suspicious.Label(), scoring.Suspicious.Tone(), "50 to 79"},
		{scoring.Deepfake.Label(), scoring.Deepfake.Tone(), "0 to 49"},
	}
	pc.render(c, http.StatusOK, "trust", page{
		Active: "/trust",
		Title:  "Trust & Verification",
		Data: trustData{
			Gauge:  scoring.NewGauge(pc.site.Trust.DemoScore, scoring.SizeLarge),
			Ranges: ranges,
		},
	})
}

type pricingData struct {
	Billing content.Billing
	Plans   []content.PlanPrice
}

// handlePricing shows monthly prices unless ?billing=annual; unknown values fall back to monthly
func (pc *pageController) handlePricing(c *gin.Context) {
	billing, err := content.ParseBilling(c.Query("billing"))
	if err != nil {
		billing = content.Monthly
	}
	pc.render(c, http.StatusOK, "pricing", page{
		Active: "/pricing",
		Title:  "Pricing",
		Data:   pricingData{Billing: billing, Plans: pc.site.Pricing.Prices(billing)},
	})
}

func (pc *pageController) handleAbout(c *gin.Context) {
	pc.render(c, http.StatusOK, "about", page{Active: "/about", Title: "About"})
}

func (pc *pageController) handleNotFound(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	pc.render(c, http.StatusNotFound, "notfound", page{
		Title: "Not Found",
		Data:  struct{ Path string }{path},
	})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
