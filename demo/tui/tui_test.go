package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"verisight/scan"
	"verisight/scoring"
	shared "verisight/shared/types"
	"verisight/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	snap      *shared.Snapshot
	err       error
	uploaded  []string
	resets    int
	createErr error
}

func (f *fakeClient) CreateScan(context.Context) (*shared.Snapshot, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &shared.Snapshot{ID: "s1", Status: shared.StatusIdle}, nil
}

func (f *fakeClient) UploadFile(_ context.Context, id, path string) (*shared.Snapshot, error) {
	f.uploaded = append(f.uploaded, id+":"+path)
	if f.err != nil {
		return nil, f.err
	}
	return &shared.Snapshot{
		ID:     id,
		Status: shared.StatusScanning,
		Steps:  append([]string(nil), scan.Steps...),
		Upload: &types.Upload{Name: "photo.png", Size: 1 << 20, Kind: types.MediaImage, MIME: "image/png"},
	}, nil
}

func (f *fakeClient) GetScan(context.Context, string) (*shared.Snapshot, error) {
	return f.snap, f.err
}

func (f *fakeClient) ResetScan(_ context.Context, id string) (*shared.Snapshot, error) {
	f.resets++
	return &shared.Snapshot{ID: id, Status: shared.StatusIdle}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func completedSnapshot() *shared.Snapshot {
	r := scan.Pool()[0]
	v := scoring.Verdict(r.TrustScore, r.DeepfakeProbability)
	return &shared.Snapshot{
		ID:      "s1",
		Status:  shared.StatusComplete,
		Result:  &r,
		Verdict: &v,
		Heatmap: scan.Heatmap(r),
	}
}

// readyModel returns a model whose session has been created
func readyModel(t *testing.T, fc *fakeClient) Model {
	t.Helper()
	m := newModel(fc)
	assert.Equal(t, StateConnecting, m.State)

	msg := createSession(fc)()
	m, _ = update(t, m, msg)
	require.Equal(t, StateInput, m.State)
	require.Equal(t, "s1", m.SessionID)
	return m
}

func TestSessionCreateFailure(t *testing.T) {
	fc := &fakeClient{createErr: errors.New("connection refused")}
	m := newModel(fc)

	m, _ = update(t, m, createSession(fc)())
	assert.Equal(t, StateError, m.State)
	assert.Contains(t, m.View(), "connection refused")

	fc.createErr = nil
	m, cmd := update(t, m, key("enter"))
	assert.Equal(t, StateConnecting, m.State)
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, StateInput, m.State)
}

func TestScanFlow(t *testing.T) {
	fc := &fakeClient{}
	m := readyModel(t, fc)

	// empty path does nothing
	m, cmd := update(t, m, key("enter"))
	assert.Equal(t, StateInput, m.State)
	assert.Nil(t, cmd)

	// "q" is text while typing a path
	m, _ = update(t, m, key("q"))
	assert.Equal(t, StateInput, m.State)
	assert.Equal(t, "q", m.input.Value())

	m.input.SetValue("  /tmp/photo.png ")
	m, cmd = update(t, m, key("enter"))
	assert.Equal(t, StateUploading, m.State)
	require.NotNil(t, cmd)

	m, cmd = update(t, m, cmd())
	assert.Equal(t, []string{"s1:/tmp/photo.png"}, fc.uploaded)
	assert.Equal(t, StateScanning, m.State)
	assert.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, TextAnalyzing)
	assert.Contains(t, view, "photo.png")
	for _, step := range scan.Steps {
		assert.Contains(t, view, step)
	}

	m, cmd = update(t, m, TickMsg{Time: time.Now().Add(time.Second)})
	assert.NotNil(t, cmd)
	assert.Greater(t, m.elapsed(), 0.5)

	// still scanning on the server
	m, _ = update(t, m, ScanUpdateMsg{Snapshot: &shared.Snapshot{ID: "s1", Status: shared.StatusScanning}})
	assert.Equal(t, StateScanning, m.State)

	m, _ = update(t, m, ScanUpdateMsg{Snapshot: completedSnapshot()})
	assert.Equal(t, StateComplete, m.State)

	// polling stops once complete
	_, cmd = update(t, m, TickMsg{Time: time.Now()})
	assert.Nil(t, cmd)

	view = m.View()
	assert.Contains(t, view, "Likely Deepfake")
	assert.Contains(t, view, "87%")
	assert.Contains(t, view, "Heatmap:")
	assert.Contains(t, view, "GAN artifacts")
	assert.Contains(t, view, TextFooterComplete)

	m, _ = update(t, m, key("h"))
	assert.False(t, m.ShowHeatmap)
	assert.NotContains(t, m.View(), "Heatmap:")

	m, cmd = update(t, m, key("n"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, 1, fc.resets)
	assert.Equal(t, StateInput, m.State)
	assert.Empty(t, m.input.Value())
}

func TestUploadFailure(t *testing.T) {
	fc := &fakeClient{err: errors.New("server returned 415: unsupported media type")}
	m := readyModel(t, fc)

	m.input.SetValue("notes.txt")
	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())

	assert.Equal(t, StateError, m.State)
	assert.Contains(t, m.View(), "unsupported media type")
	assert.Contains(t, m.View(), TextFooterError)

	m, cmd = update(t, m, key("n"))
	assert.Equal(t, StateConnecting, m.State)
	assert.Empty(t, m.SessionID)
	assert.NotNil(t, cmd)
}

func TestPollErrorStopsScan(t *testing.T) {
	fc := &fakeClient{}
	m := readyModel(t, fc)
	m.State = StateScanning

	m, _ = update(t, m, ScanUpdateMsg{Err: errors.New("server returned 404: scan session not found")})
	assert.Equal(t, StateError, m.State)
	assert.Contains(t, m.Err.Error(), "lost scan status")

	// late poll results are ignored outside scanning
	m, _ = update(t, m, ScanUpdateMsg{Snapshot: completedSnapshot()})
	assert.Equal(t, StateError, m.State)
}

func TestServerResetReturnsToInput(t *testing.T) {
	m := readyModel(t, &fakeClient{})
	m.State = StateScanning

	m, _ = update(t, m, ScanUpdateMsg{Snapshot: &shared.Snapshot{ID: "s1", Status: shared.StatusIdle}})
	assert.Equal(t, StateInput, m.State)
}

func TestQuitKeys(t *testing.T) {
	m := readyModel(t, &fakeClient{})

	_, cmd := update(t, m, key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m.State = StateComplete
	m.Snapshot = completedSnapshot()
	_, cmd = update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderWaveform(t *testing.T) {
	m := newModel(&fakeClient{})
	wave := m.renderWaveform()
	assert.Equal(t, waveBars, len([]rune(wave)))
	for _, r := range wave {
		assert.True(t, strings.ContainsRune(waveformGlyph, r))
	}
}

func TestRenderHeatmap(t *testing.T) {
	assert.Contains(t, renderHeatmap(nil), "no hotspots")

	out := renderHeatmap(scan.Heatmap(scan.Pool()[0]))
	assert.Contains(t, out, "Facial inconsistency")
	assert.Equal(t, 2, strings.Count(out, "●")+strings.Count(out, "◉")-2)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/clip.mp4", expandHome("~/clip.mp4"))
	assert.Equal(t, "/abs/clip.mp4", expandHome("/abs/clip.mp4"))
	assert.Equal(t, "~user/clip.mp4", expandHome("~user/clip.mp4"))
}
