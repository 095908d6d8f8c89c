package config

import "time"

// Scan Flow Constants
const (
	// ScanDelay is how long a mock scan stays in the scanning state
	ScanDelay = 3 * time.Second

	// MaxSessionLogs is the number of activity lines kept per session
	MaxSessionLogs = 50

	// RecentActivityLimit is the default size of the recent activity panel
	RecentActivityLimit = 3

	// SessionTTL is how long an untouched session survives before the janitor drops it
	SessionTTL = 30 * time.Minute

	// JanitorSchedule is the cron spec for the expired session sweep
	JanitorSchedule = "*/5 * * * *"
)

// Classification Thresholds
const (
	// AuthenticThreshold is the lowest trust score classified as authentic
	AuthenticThreshold = 80

	// SuspiciousThreshold is the lowest trust score classified as suspicious
	SuspiciousThreshold = 50

	// ProbabilityAlertThreshold marks deepfake probabilities above it as destructive
	ProbabilityAlertThreshold = 50
)

// Upload Constants
const (
	// MaxUploadMB caps the multipart body accepted by the upload endpoints
	MaxUploadMB = 100

	// MultipartOverhead is the allowance for boundaries, headers and small form fields on top of the file limit
	MultipartOverhead = 64 << 10

	// SniffBytes is how much of an upload is read to detect its MIME type
	SniffBytes = 3072

	// UploadField is the multipart form field carrying the media file
	UploadField = "media"
)

// Pricing Constants
const (
	// AnnualDiscount is the multiplier applied to monthly prices on annual billing
	AnnualDiscount = 0.8
)

// Server Constants
const (
	// DefaultPort is the HTTP port used when PORT is unset
	DefaultPort = "8080"

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout = 10 * time.Second

	// PollInterval is how often the terminal dashboard polls scan status
	PollInterval = 500 * time.Millisecond

	// ScanningRefreshSeconds is the meta refresh interval of the dashboard page while scanning
	ScanningRefreshSeconds = 1
)

// Event Constants
const (
	// DefaultKafkaTopic carries scan.completed events
	DefaultKafkaTopic = "verisight-scan-events"

	// DefaultKafkaGroup is the consumer group used by the events command
	DefaultKafkaGroup = "verisight-events-tail"

	// EventScanCompleted is the event type published when a session completes
	EventScanCompleted = "scan.completed"
)
