package tui

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"verisight/demo/client"
	"verisight/scan"
	shared "verisight/shared/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State represents the dashboard's view state
type State string

const (
	StateConnecting State = "connecting"
	StateInput      State = "input"
	StateUploading  State = "uploading"
	StateScanning   State = "scanning"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// waveBars is the number of columns in the scanning waveform
const waveBars = 40

// ScanClient is the part of the API client the dashboard uses
type ScanClient interface {
	CreateScan(ctx context.Context) (*shared.Snapshot, error)
	UploadFile(ctx context.Context, id, path string) (*shared.Snapshot, error)
	GetScan(ctx context.Context, id string) (*shared.Snapshot, error)
	ResetScan(ctx context.Context, id string) (*shared.Snapshot, error)
}

var _ ScanClient = (*client.Client)(nil)

// Model represents the TUI client state (thin client)
type Model struct {
	Client ScanClient

	State     State
	SessionID string
	Snapshot  *shared.Snapshot
	Err       error

	ShowHeatmap bool

	input   textinput.Model
	spinner spinner.Model

	// Waveform animation
	bars        []scan.Bar
	scanStarted time.Time
	now         time.Time
}

// NewModel creates a dashboard talking to the server at baseURL
func NewModel(baseURL string) Model {
	return newModel(client.NewClient(baseURL))
}

func newModel(c ScanClient) Model {
	ti := textinput.New()
	ti.Placeholder = TextPlaceholder
	ti.Prompt = "📁 "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary))

	return Model{
		Client:      c,
		State:       StateConnecting,
		ShowHeatmap: true,
		input:       ti,
		spinner:     sp,
		bars:        scan.Waveform(waveBars, rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		createSession(m.Client),
		textinput.Blink,
		m.spinner.Tick,
	)
}

// elapsed is how far the waveform animation has run, in seconds
func (m Model) elapsed() float64 {
	if m.scanStarted.IsZero() || m.now.Before(m.scanStarted) {
		return 0
	}
	return m.now.Sub(m.scanStarted).Seconds()
}

// expandHome resolves a leading ~ the way a shell would
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
