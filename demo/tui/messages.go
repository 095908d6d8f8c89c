package tui

import (
	"time"

	shared "verisight/shared/types"
)

// Messages for the tea program (polling-based)

// SessionCreatedMsg is sent once the server has opened a session for us
type SessionCreatedMsg struct {
	Snapshot *shared.Snapshot
	Err      error
}

// UploadedMsg is sent when the upload request returns
type UploadedMsg struct {
	Snapshot *shared.Snapshot
	Err      error
}

// ScanUpdateMsg carries a polled snapshot
type ScanUpdateMsg struct {
	Snapshot *shared.Snapshot
	Err      error
}

// ResetMsg is sent when "new scan" has been applied on the server
type ResetMsg struct {
	Snapshot *shared.Snapshot
	Err      error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}
