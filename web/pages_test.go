package web

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"verisight/api"
	"verisight/content"
	"verisight/scan"
	shared "verisight/shared/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testSite struct {
	router  *gin.Engine
	manager *scan.Manager
	store   *scan.MemoryStore
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	site, err := content.Load()
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	store := scan.NewMemoryStore()
	m := scan.NewManager(scan.ManagerConfig{
		Store:  store,
		Logger: logger,
		Delay:  200 * time.Millisecond,
	})
	t.Cleanup(m.Wait)

	deps := api.Deps{Manager: m, Site: site, Logger: logger, MaxUploadBytes: 1 << 20}
	r := api.NewRouter(deps)
	require.NoError(t, RegisterPageRoutes(r, Deps{
		Manager:        m,
		Site:           site,
		Logger:         logger,
		MaxUploadBytes: deps.MaxUploadBytes,
	}))
	return &testSite{router: r, manager: m, store: store}
}

func (s *testSite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testSite) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *testSite) upload(t *testing.T, filename string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("media", filename)
	require.NoError(t, err)
	_, err = fw.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func (s *testSite) reset(id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/dashboard/reset", strings.NewReader("scan="+id))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	for _, name := range []string{"header", "footer", "gauge", "waveform", "landing", "dashboard", "education", "trust", "pricing", "about", "notfound"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestPagesRenderWithActiveNav(t *testing.T) {
	s := newTestSite(t)

	cases := map[string]string{
		"/":          "Enterprise-Grade",
		"/dashboard": "Drop your media here",
		"/education": "Education Hub",
		"/trust":     "Forensics",
		"/pricing":   "Compare",
		"/about":     "Leadership",
	}
	for path, marker := range cases {
		w := s.get(path)
		require.Equal(t, http.StatusOK, w.Code, path)
		body := w.Body.String()
		assert.Contains(t, body, "VeriSight AI", path)
		assert.Contains(t, body, marker, path)
		assert.Contains(t, body, `href="`+path+`" class="active"`, path)
		assert.Equal(t, 1, strings.Count(body, `class="active"`), path)
	}
}

func TestNotFound(t *testing.T) {
	s := newTestSite(t)

	w := s.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
	assert.NotContains(t, w.Body.String(), `class="active"`)

	w = s.get("/api/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestPricingBilling(t *testing.T) {
	s := newTestSite(t)

	monthly := s.get("/pricing").Body.String()
	assert.Contains(t, monthly, "$49")
	assert.Contains(t, monthly, "/per month")
	assert.NotContains(t, monthly, "billed annually")

	annual := s.get("/pricing?billing=annual").Body.String()
	assert.Contains(t, annual, "$39")
	assert.Contains(t, annual, "/month, billed annually")
	assert.Contains(t, annual, "Custom")
	assert.NotContains(t, annual, "/contact us")

	// unknown periods fall back to monthly
	assert.Contains(t, s.get("/pricing?billing=weekly").Body.String(), "$49")
}

func TestEducationReadingList(t *testing.T) {
	s := newTestSite(t)
	body := s.get("/education").Body.String()
	assert.Contains(t, body, "Further")
	assert.Contains(t, body, "https://arxiv.org/abs/1901.08971")
	assert.Contains(t, body, "Voice cloning")
}

func TestDashboardScanFlow(t *testing.T) {
	s := newTestSite(t)

	w := s.upload(t, "portrait.png", pngHeader)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/dashboard?scan="), loc)
	id := strings.TrimPrefix(loc, "/dashboard?scan=")

	w = s.get(loc)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("Refresh"))
	body := w.Body.String()
	assert.Contains(t, body, "Analyzing Media")
	assert.Contains(t, body, "portrait.png")
	assert.Contains(t, body, "Neural network inference")
	assert.Contains(t, body, `http-equiv="refresh"`)

	// no cancellation while scanning
	assert.Equal(t, http.StatusConflict, s.reset(id).Code)

	require.Eventually(t, func() bool {
		return strings.Contains(s.get(loc).Body.String(), `data-status="complete"`)
	}, 2*time.Second, 10*time.Millisecond)

	w = s.get(loc)
	assert.Empty(t, w.Header().Get("Refresh"))
	assert.Contains(t, w.Body.String(), "New Scan")
	assert.Contains(t, w.Body.String(), "Model Confidence")

	w = s.reset(id)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	snap, err := s.manager.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, shared.StatusIdle, snap.Status)
}

func TestDashboardRejectsNonMedia(t *testing.T) {
	s := newTestSite(t)

	w := s.upload(t, "notes.txt", []byte("plain text is not media"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported media type")
	assert.Contains(t, w.Body.String(), "Drop your media here")

	sessions, err := s.manager.Sessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestDashboardHeatmapToggle(t *testing.T) {
	s := newTestSite(t)
	ctx := context.Background()

	result := scan.Pool()[0] // image, trust 23
	now := time.Now()
	require.NoError(t, s.store.Save(ctx, &shared.Snapshot{
		ID:        "img",
		Status:    shared.StatusComplete,
		Result:    &result,
		Verdict:   &shared.Verdict{Category: "deepfake", Tone: "destructive", Headline: "Likely Deepfake", ProbabilityTone: "destructive"},
		Heatmap:   scan.Heatmap(result),
		CreatedAt: now,
		UpdatedAt: now,
	}))

	on := s.get("/dashboard?scan=img").Body.String()
	assert.Contains(t, on, "data-heatmap")
	assert.Contains(t, on, "GAN artifacts")
	assert.Contains(t, on, "Likely Deepfake")
	assert.Contains(t, on, "left:35%;top:30%")

	off := s.get("/dashboard?scan=img&heatmap=off").Body.String()
	assert.NotContains(t, off, "data-heatmap")
	assert.Contains(t, off, "Disabled")
}

func TestDashboardExpiredScan(t *testing.T) {
	s := newTestSite(t)
	w := s.get("/dashboard?scan=gone")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "expired")

	w = s.reset("gone")
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestDashboardSampleActivity(t *testing.T) {
	s := newTestSite(t)
	body := s.get("/dashboard").Body.String()
	assert.Contains(t, body, "15m ago")
	assert.Contains(t, body, `badge destructive`)
	assert.Contains(t, body, "Higher resolution media yields more accurate results")
}
