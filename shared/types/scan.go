package types

import (
	"time"

	domain "verisight/types"
)

// Status represents the scan session state machine
type Status string

const (
	StatusIdle     Status = "idle"
	StatusScanning Status = "scanning"
	StatusComplete Status = "complete"
)

// LogEntry represents a single activity line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Transition records one state change of a session
type Transition struct {
	From Status    `json:"from"`
	To   Status    `json:"to"`
	At   time.Time `json:"at"`
}

// Verdict is the presentation of a result's trust score
type Verdict struct {
	Category        string `json:"category"`
	Tone            string `json:"tone"`
	Label           string `json:"label"`
	Headline        string `json:"headline"`
	Color           string `json:"color"`
	ProbabilityTone string `json:"probability_tone"`
}

// Snapshot is the JSON view of a scan session, shared by the API and its clients
type Snapshot struct {
	ID          string               `json:"id"`
	Status      Status               `json:"status"`
	Upload      *domain.Upload       `json:"upload,omitempty"`
	Result      *domain.ScanResult   `json:"result,omitempty"`
	Verdict     *Verdict             `json:"verdict,omitempty"`
	Heatmap     []domain.HeatmapSpot `json:"heatmap,omitempty"`
	Steps       []string             `json:"steps,omitempty"`
	History     []Transition         `json:"history"`
	Logs        []LogEntry           `json:"logs"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// ActivityItem is one line of the dashboard's recent activity panel
type ActivityItem struct {
	ID        string           `json:"id"`
	MediaType domain.MediaType `json:"media_type"`
	Category  string           `json:"category"`
	At        time.Time        `json:"at"`
}

// ScanEvent is published when a session completes. It never carries media bytes.
type ScanEvent struct {
	Type       string           `json:"type"`
	SessionID  string           `json:"session_id"`
	MediaType  domain.MediaType `json:"media_type"`
	Category   string           `json:"category"`
	TrustScore int              `json:"trust_score"`
	At         time.Time        `json:"at"`
}
