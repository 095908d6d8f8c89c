package tui

import (
	"context"
	"strings"
	"time"

	"verisight/config"

	tea "github.com/charmbracelet/bubbletea"
)

const requestTimeout = 10 * time.Second

// createSession opens a fresh idle session on the server
func createSession(c ScanClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		snap, err := c.CreateScan(ctx)
		return SessionCreatedMsg{Snapshot: snap, Err: err}
	}
}

// uploadFile streams the local file at path to the session
func uploadFile(c ScanClient, id, path string) tea.Cmd {
	path = expandHome(strings.TrimSpace(path))
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		snap, err := c.UploadFile(ctx, id, path)
		return UploadedMsg{Snapshot: snap, Err: err}
	}
}

// pollScan fetches the session snapshot
func pollScan(c ScanClient, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		snap, err := c.GetScan(ctx, id)
		return ScanUpdateMsg{Snapshot: snap, Err: err}
	}
}

// resetScan performs "new scan" on the session
func resetScan(c ScanClient, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		snap, err := c.ResetScan(ctx, id)
		return ResetMsg{Snapshot: snap, Err: err}
	}
}

// tickCmd creates a command that ticks every poll interval
func tickCmd() tea.Cmd {
	return tea.Tick(config.PollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
