package tui

import (
	"fmt"
	"strings"
	"time"

	shared "verisight/shared/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.input.Width = max(20, min(80, msg.Width-8))
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case SessionCreatedMsg:
		return m.handleSessionCreated(msg)
	case UploadedMsg:
		return m.handleUploaded(msg)
	case TickMsg:
		return m.handleTick(msg)
	case ScanUpdateMsg:
		return m.handleScanUpdate(msg)
	case ResetMsg:
		return m.handleReset(msg)
	}

	if m.State == StateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}

	// While typing a path every other key belongs to the input
	if m.State == StateInput {
		if msg.Type == tea.KeyEnter {
			path := strings.TrimSpace(m.input.Value())
			if path == "" {
				return m, nil
			}
			m.State = StateUploading
			m.Err = nil
			return m, uploadFile(m.Client, m.SessionID, path)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "Q":
		return m, tea.Quit
	case "h", "H":
		if m.State == StateComplete {
			m.ShowHeatmap = !m.ShowHeatmap
		}
	case "n", "N":
		switch m.State {
		case StateComplete:
			return m, resetScan(m.Client, m.SessionID)
		case StateError:
			return m.retry()
		}
	case "enter":
		if m.State == StateError {
			return m.retry()
		}
	}
	return m, nil
}

// retry starts over on a fresh session after an error
func (m Model) retry() (tea.Model, tea.Cmd) {
	m.State = StateConnecting
	m.Err = nil
	m.Snapshot = nil
	m.SessionID = ""
	return m, createSession(m.Client)
}

// handleSessionCreated stores the new session and opens the upload zone
func (m Model) handleSessionCreated(msg SessionCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = fmt.Errorf("failed to connect: %w", msg.Err)
		return m, nil
	}
	m.SessionID = msg.Snapshot.ID
	m.Snapshot = msg.Snapshot
	return m.openInput(), textinput.Blink
}

// handleUploaded starts polling once the server accepted the file
func (m Model) handleUploaded(msg UploadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = fmt.Errorf("upload failed: %w", msg.Err)
		return m, nil
	}
	m.Snapshot = msg.Snapshot
	m.State = StateScanning
	m.scanStarted = time.Now()
	m.now = m.scanStarted
	return m, tickCmd()
}

// handleTick advances the waveform and polls while a scan is running
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	m.now = msg.Time
	if m.State != StateScanning {
		return m, nil
	}
	return m, tea.Batch(pollScan(m.Client, m.SessionID), tickCmd())
}

// handleScanUpdate syncs the local view with the polled snapshot
func (m Model) handleScanUpdate(msg ScanUpdateMsg) (tea.Model, tea.Cmd) {
	if m.State != StateScanning {
		return m, nil
	}
	if msg.Err != nil {
		m.State = StateError
		m.Err = fmt.Errorf("lost scan status: %w", msg.Err)
		return m, nil
	}

	m.Snapshot = msg.Snapshot
	switch msg.Snapshot.Status {
	case shared.StatusComplete:
		m.State = StateComplete
		m.ShowHeatmap = true
	case shared.StatusIdle:
		return m.openInput(), nil
	}
	return m, nil
}

// handleReset returns to the upload zone after "new scan"
func (m Model) handleReset(msg ResetMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = fmt.Errorf("failed to start a new scan: %w", msg.Err)
		return m, nil
	}
	m.Snapshot = msg.Snapshot
	return m.openInput(), textinput.Blink
}

func (m Model) openInput() Model {
	m.State = StateInput
	m.input.Reset()
	m.input.Focus()
	return m
}
