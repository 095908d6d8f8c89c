package scan

import (
	"context"
	"errors"

	shared "verisight/shared/types"
)

// ErrNotFound is returned when a session id is unknown or expired
var ErrNotFound = errors.New("scan session not found")

// Store defines the interface for keeping scan session snapshots.
// Implementations can use any backend: in-memory, Redis, etc.
// Snapshots passed in and returned are copies; callers may mutate them freely.
type Store interface {
	// Get retrieves a session; returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*shared.Snapshot, error)

	// Save creates or replaces a session.
	Save(ctx context.Context, snap *shared.Snapshot) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored session in no particular order.
	List(ctx context.Context) ([]*shared.Snapshot, error)
}

// cloneSnapshot deep-copies a snapshot so stored state never aliases caller state
func cloneSnapshot(s *shared.Snapshot) *shared.Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	if s.Upload != nil {
		u := *s.Upload
		out.Upload = &u
	}
	if s.Result != nil {
		r := s.Result.Clone()
		out.Result = &r
	}
	if s.Verdict != nil {
		v := *s.Verdict
		out.Verdict = &v
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	out.Heatmap = append(out.Heatmap[:0:0], s.Heatmap...)
	out.Steps = append(out.Steps[:0:0], s.Steps...)
	out.History = append(out.History[:0:0], s.History...)
	out.Logs = append(out.Logs[:0:0], s.Logs...)
	return &out
}
