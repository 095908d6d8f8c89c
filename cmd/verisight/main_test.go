package main

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"verisight/config"
	"verisight/scan"
	shared "verisight/shared/types"
	"verisight/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "portrait.png")
	require.NoError(t, os.WriteFile(img, pngHeader, 0o600))

	out, err := execute(t, "scan", "--seed", "7", img)
	require.NoError(t, err)

	assert.Contains(t, out, "portrait.png (image/png")
	assert.Contains(t, out, "Trust score")
	assert.Contains(t, out, "Deepfake probability")
	found := false
	for _, h := range []string{"Verified Authentic", "Requires Review", "Likely Deepfake"} {
		found = found || strings.Contains(out, h)
	}
	assert.True(t, found, out)
}

func TestScanCommandRejectsNonMedia(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("just some text"), 0o600))

	out, err := execute(t, "scan", txt, filepath.Join(dir, "missing.mp4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 files")
	assert.Contains(t, out, "unsupported media type")
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	u := types.Upload{Name: "face.png", MIME: "image/png", Size: 1 << 20, Kind: types.MediaImage}
	printResult(&out, u, scan.Pool()[0])

	s := out.String()
	assert.Contains(t, s, "Likely Deepfake")
	assert.Contains(t, s, "23/100")
	assert.Contains(t, s, "87%")
	assert.Contains(t, s, "Hotspot at (35%, 30%) GAN artifacts")

	out.Reset()
	printResult(&out, types.Upload{Name: "clip.mp4", MIME: "video/mp4", Kind: types.MediaVideo}, scan.Pool()[1])
	assert.Contains(t, out.String(), "No anomalies detected")
	assert.NotContains(t, out.String(), "Hotspot")
}

func TestFlagOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("KAFKA_BROKERS", "env:9092")
	t.Setenv("REDIS_ADDR", "")

	a := &app{}
	root := a.rootCmd()
	require.NoError(t, root.PersistentFlags().Parse([]string{
		"--port", ":9100",
		"--scan-delay", "250ms",
		"--kafka-brokers", "k1:9092,k2:9092",
		"--kafka-topic", "scans",
	}))
	require.NoError(t, a.setup())

	assert.Equal(t, "9100", a.cfg.Port)
	assert.Equal(t, 250*time.Millisecond, a.cfg.ScanDelay)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, a.cfg.KafkaBrokers)
	assert.Equal(t, "scans", a.cfg.KafkaTopic)
	assert.Empty(t, a.cfg.RedisAddr)
	assert.NotNil(t, a.logger)
}

func TestEnvWithoutFlags(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("KAFKA_BROKERS", "")

	a := &app{}
	a.rootCmd()
	require.NoError(t, a.setup())
	assert.Equal(t, "7000", a.cfg.Port)
	assert.Equal(t, config.ScanDelay, a.cfg.ScanDelay)
	assert.Empty(t, a.cfg.KafkaBrokers)
}

func TestEventsRequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	_, err := execute(t, "events")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no kafka brokers")
}

func TestEventPrinter(t *testing.T) {
	var out bytes.Buffer
	h := eventPrinter(&out)
	ctx := context.Background()

	mark, err := h.HandleMessage(ctx, []byte(`{"type":"scan.completed","session_id":"abc","media_type":"audio","category":"suspicious","trust_score":67,"at":"2026-01-02T03:04:05Z"}`))
	require.NoError(t, err)
	assert.True(t, mark)
	assert.Contains(t, out.String(), "audio")
	assert.Contains(t, out.String(), "suspicious")
	assert.Contains(t, out.String(), " 67 ")
	assert.Contains(t, out.String(), "abc")

	out.Reset()
	mark, err = h.HandleMessage(ctx, []byte(`{"type":"other","session_id":"abc"}`))
	require.NoError(t, err)
	assert.True(t, mark)
	assert.Empty(t, out.String())

	mark, err = h.HandleMessage(ctx, []byte(`not json`))
	assert.Error(t, err)
	assert.True(t, mark)
}

func TestNewStoreAndPublisherDefaults(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := config.Default()

	store, closeStore, err := newStore(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &scan.MemoryStore{}, store)

	pub, closePub, err := newPublisher(cfg, logger)
	require.NoError(t, err)
	defer closePub()
	assert.Nil(t, pub)

	// the manager falls back to dropping events
	m := scan.NewManager(scan.ManagerConfig{
		Store:     store,
		Publisher: pub,
		Picker:    scan.NewPicker(rand.NewSource(1)),
		Logger:    logger,
		Delay:     10 * time.Millisecond,
	})
	snap, err := m.Create(context.Background())
	require.NoError(t, err)
	_, err = m.Upload(context.Background(), snap.ID, types.Upload{Name: "a.png", Kind: types.MediaImage, MIME: "image/png"})
	require.NoError(t, err)
	m.Wait()

	got, err := m.Get(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.StatusComplete, got.Status)
}

func TestNewStoreUnreachableRedis(t *testing.T) {
	cfg := config.Default()
	cfg.RedisAddr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := newStore(ctx, cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
