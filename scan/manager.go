package scan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"verisight/config"
	"verisight/scoring"
	shared "verisight/shared/types"
	"verisight/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrScanInProgress is returned when an operation is not allowed in the session's current state
var ErrScanInProgress = errors.New("scan already in progress")

// ManagerConfig holds the manager's dependencies and tunables.
// Zero values fall back to the defaults in the config package.
type ManagerConfig struct {
	Store     Store
	Picker    *Picker
	Publisher Publisher
	Logger    *zap.Logger

	Delay   time.Duration
	TTL     time.Duration
	MaxLogs int

	// Now is the clock used for timestamps
	Now func() time.Time
}

// Manager drives scan sessions through idle -> scanning -> complete.
// Each upload schedules exactly one delayed completion; there is no cancellation.
type Manager struct {
	mu sync.Mutex

	store     Store
	picker    *Picker
	publisher Publisher
	logger    *zap.Logger

	delay   time.Duration
	ttl     time.Duration
	maxLogs int
	now     func() time.Time

	// Completed scans, oldest first, capped at maxLogs
	recent []shared.ActivityItem

	pending sync.WaitGroup
}

// NewManager creates a new session manager
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		store:     cfg.Store,
		picker:    cfg.Picker,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		delay:     cfg.Delay,
		ttl:       cfg.TTL,
		maxLogs:   cfg.MaxLogs,
		now:       cfg.Now,
	}
	if m.store == nil {
		m.store = NewMemoryStore()
	}
	if m.picker == nil {
		m.picker = NewPicker(nil)
	}
	if m.publisher == nil {
		m.publisher = nopPublisher{}
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.delay <= 0 {
		m.delay = config.ScanDelay
	}
	if m.ttl <= 0 {
		m.ttl = config.SessionTTL
	}
	if m.maxLogs <= 0 {
		m.maxLogs = config.MaxSessionLogs
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Delay reports how long a scan stays in the scanning state
func (m *Manager) Delay() time.Duration { return m.delay }

// Create opens a new idle session
func (m *Manager) Create(ctx context.Context) (*shared.Snapshot, error) {
	now := m.now()
	snap := &shared.Snapshot{
		ID:        uuid.New().String(),
		Status:    shared.StatusIdle,
		History:   []shared.Transition{},
		Logs:      []shared.LogEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.addLog(snap, "Ready to scan. Drop an image, video or audio file.")

	if err := m.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	m.logger.Debug("session created", zap.String("session", snap.ID))
	return snap, nil
}

// Get returns a snapshot of the session
func (m *Manager) Get(ctx context.Context, id string) (*shared.Snapshot, error) {
	return m.store.Get(ctx, id)
}

// Upload accepts a file for an idle session and starts the mock analysis.
// The session moves to scanning now and to complete after the configured delay.
func (m *Manager) Upload(ctx context.Context, id string, upload types.Upload) (*shared.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap.Status != shared.StatusIdle {
		return nil, fmt.Errorf("%w (state=%s)", ErrScanInProgress, snap.Status)
	}

	u := upload
	snap.Upload = &u
	snap.Result = nil
	snap.Verdict = nil
	snap.Heatmap = nil
	snap.CompletedAt = nil
	snap.Steps = append([]string(nil), Steps...)
	m.transition(snap, shared.StatusScanning)
	m.addLog(snap, fmt.Sprintf("Received %s (%.2f MB, %s)", u.Name, u.SizeMB(), u.MIME))
	m.addLog(snap, "Running AI models to detect manipulations...")

	if err := m.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("start scan: %w", err)
	}

	m.pending.Add(1)
	time.AfterFunc(m.delay, func() {
		defer m.pending.Done()
		m.complete(id)
	})

	m.logger.Info("scan started",
		zap.String("session", id),
		zap.String("kind", string(u.Kind)),
		zap.Int64("size", u.Size),
		zap.Duration("delay", m.delay))
	return snap, nil
}

// complete is the single delayed callback of an upload
func (m *Manager) complete(id string) {
	result := m.picker.Pick()
	ctx := context.Background()

	m.mu.Lock()
	snap, err := m.store.Get(ctx, id)
	if err != nil {
		m.mu.Unlock()
		m.logger.Warn("scan finished for unknown session", zap.String("session", id), zap.Error(err))
		return
	}
	if snap.Status != shared.StatusScanning {
		m.mu.Unlock()
		return
	}

	verdict := scoring.Verdict(result.TrustScore, result.DeepfakeProbability)
	snap.Result = &result
	snap.Verdict = &verdict
	snap.Heatmap = Heatmap(result)
	m.transition(snap, shared.StatusComplete)
	completedAt := snap.UpdatedAt
	snap.CompletedAt = &completedAt
	m.addLog(snap, fmt.Sprintf("%s: trust score %d, processed in %.1fs",
		verdict.Headline, result.TrustScore, result.ProcessingTime))

	if err := m.store.Save(ctx, snap); err != nil {
		m.mu.Unlock()
		m.logger.Error("failed to save completed scan", zap.String("session", id), zap.Error(err))
		return
	}

	m.recent = append(m.recent, shared.ActivityItem{
		ID:        id,
		MediaType: result.MediaType,
		Category:  verdict.Category,
		At:        completedAt,
	})
	if len(m.recent) > m.maxLogs {
		m.recent = m.recent[len(m.recent)-m.maxLogs:]
	}
	m.mu.Unlock()

	m.logger.Info("scan complete",
		zap.String("session", id),
		zap.String("category", verdict.Category),
		zap.Int("trust_score", result.TrustScore))

	event := shared.ScanEvent{
		Type:       config.EventScanCompleted,
		SessionID:  id,
		MediaType:  result.MediaType,
		Category:   verdict.Category,
		TrustScore: result.TrustScore,
		At:         completedAt,
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.publisher.Publish(pubCtx, event); err != nil {
		m.logger.Warn("failed to publish scan event", zap.String("session", id), zap.Error(err))
	}
}

// Reset returns a completed session to idle ("New Scan").
// Resetting an idle session is a no-op; resetting while scanning is refused.
func (m *Manager) Reset(ctx context.Context, id string) (*shared.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch snap.Status {
	case shared.StatusIdle:
		return snap, nil
	case shared.StatusScanning:
		return nil, fmt.Errorf("%w (state=%s)", ErrScanInProgress, snap.Status)
	}

	snap.Upload = nil
	snap.Result = nil
	snap.Verdict = nil
	snap.Heatmap = nil
	snap.Steps = nil
	snap.CompletedAt = nil
	m.transition(snap, shared.StatusIdle)
	m.addLog(snap, "New scan")

	if err := m.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}
	return snap, nil
}

// Recent returns up to n completed scans, newest first
func (m *Manager) Recent(n int) []shared.ActivityItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || n > len(m.recent) {
		n = len(m.recent)
	}
	out := make([]shared.ActivityItem, 0, n)
	for i := len(m.recent) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.recent[i])
	}
	return out
}

// PurgeExpired deletes sessions untouched for longer than the TTL.
// Sessions that are still scanning are kept so their timer can land.
func (m *Manager) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snaps, err := m.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	cutoff := now.Add(-m.ttl)
	purged := 0
	for _, s := range snaps {
		if s.Status == shared.StatusScanning || !s.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return purged, fmt.Errorf("delete session %s: %w", s.ID, err)
		}
		purged++
	}
	if purged > 0 {
		m.logger.Info("purged expired sessions", zap.Int("count", purged))
	}
	return purged, nil
}

// Sessions lists all stored sessions, most recently updated first
func (m *Manager) Sessions(ctx context.Context) ([]*shared.Snapshot, error) {
	snaps, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].UpdatedAt.After(snaps[j].UpdatedAt)
	})
	return snaps, nil
}

// Wait blocks until every scheduled completion has fired
func (m *Manager) Wait() {
	m.pending.Wait()
}

// transition appends to the history and moves the session (must hold lock or own snap)
func (m *Manager) transition(snap *shared.Snapshot, to shared.Status) {
	now := m.now()
	snap.History = append(snap.History, shared.Transition{From: snap.Status, To: to, At: now})
	snap.Status = to
	snap.UpdatedAt = now
}

// addLog appends an activity line, keeping the last maxLogs entries
func (m *Manager) addLog(snap *shared.Snapshot, message string) {
	snap.Logs = append(snap.Logs, shared.LogEntry{
		Timestamp: m.now(),
		Message:   message,
	})
	if len(snap.Logs) > m.maxLogs {
		snap.Logs = snap.Logs[len(snap.Logs)-m.maxLogs:]
	}
}
