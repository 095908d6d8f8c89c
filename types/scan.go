package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// MediaType is the kind of media a scan result describes
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// Valid reports whether t is one of the supported media types
func (t MediaType) Valid() bool {
	switch t {
	case MediaImage, MediaVideo, MediaAudio:
		return true
	}
	return false
}

// ScanResult is a single canned analysis outcome.
// Values are percentages in 0..100 except ProcessingTime, which is seconds.
type ScanResult struct {
	TrustScore          int       `json:"trust_score"`
	DeepfakeProbability int       `json:"deepfake_probability"`
	Confidence          int       `json:"confidence"`
	MediaType           MediaType `json:"media_type"`
	Anomalies           []string  `json:"anomalies"`
	ProcessingTime      float64   `json:"processing_time"`
}

// Clone returns a deep copy so callers can never mutate pool literals
func (r ScanResult) Clone() ScanResult {
	out := r
	out.Anomalies = append([]string(nil), r.Anomalies...)
	return out
}

// HeatmapSpot is one highlighted region drawn over an image result
type HeatmapSpot struct {
	X         int     `json:"x"` // percent from left
	Y         int     `json:"y"` // percent from top
	Intensity float64 `json:"intensity"`
	Label     string  `json:"label,omitempty"`
}

// Upload is the metadata kept for a submitted file. The body itself is never stored.
type Upload struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	MIME     string    `json:"mime"`
	Kind     MediaType `json:"kind"`
	Received time.Time `json:"received"`
}

// SizeMB formats the upload size the way the upload zone shows it
func (u Upload) SizeMB() float64 {
	return float64(u.Size) / 1024 / 1024
}

// GenerateID creates a short stable identifier from arbitrary input
func GenerateID(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])[:16]
}
