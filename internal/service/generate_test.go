package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterforge/chapterforge-server/internal/catalog"
	"github.com/chapterforge/chapterforge-server/internal/chapterfile"
	"github.com/chapterforge/chapterforge-server/internal/config"
	"github.com/chapterforge/chapterforge-server/internal/dispatch"
	apperrors "github.com/chapterforge/chapterforge-server/internal/errors"
	"github.com/chapterforge/chapterforge-server/internal/logger"
	"github.com/chapterforge/chapterforge-server/internal/segments"
	"github.com/chapterforge/chapterforge-server/internal/sse"
)

func testGenerateConfig() config.GenerateConfig {
	return config.GenerateConfig{
		GapSeconds:     10,
		MaxParallelism: 2,
		IntroLabel:     "Intro",
		OutroLabel:     "Credits",
		UnknownLabel:   "Chapter",
		PrologueLabel:  "Prologue",
		MainLabel:      "Main",
		EpilogueLabel:  "Epilogue",
	}
}

func newTestService(t *testing.T, cat *catalog.Memory) *GenerateService {
	t.Helper()
	log := logger.New(logger.Config{Writer: io.Discard, Environment: "production"})
	cfg := testGenerateConfig()
	d := dispatch.New(cat, chapterfile.NewWriter(log.Logger), cfg.SynthesisConfig(), log.Logger)
	return NewGenerateService(cat, d, sse.NewManager(log.Logger), cfg, log.Logger)
}

func seedItem(t *testing.T, cat *catalog.Memory, dir, itemID string) string {
	t.Helper()
	path := filepath.Join(dir, itemID+".mkv")
	require.NoError(t, os.WriteFile(path, []byte("media"), 0o644))
	cat.AddItem(catalog.Item{ID: itemID, Path: path, RuntimeTicks: 600_000_000})
	cat.AddSegments(segments.Segment{ItemID: itemID, StartTicks: 0, EndTicks: 50_000_000, Type: segments.TypeIntro})
	return path
}

func TestRunBatch_WritesAndRecordsSummary(t *testing.T) {
	cat := catalog.NewMemory()
	dir := t.TempDir()
	first := seedItem(t, cat, dir, "ep1")
	second := seedItem(t, cat, dir, "ep2")

	svc := newTestService(t, cat)
	summary, err := svc.RunBatch(context.Background(), BatchOptions{})

	require.NoError(t, err)
	require.NotNil(t, summary.Result)
	assert.Equal(t, 2, summary.Result.Written)
	assert.True(t, strings.HasPrefix(summary.RunID, "run-"))
	assert.False(t, summary.CompletedAt.IsZero())

	for _, p := range []string{first, second} {
		_, statErr := os.Stat(chapterfile.TargetPath(p))
		assert.NoError(t, statErr)
	}

	assert.Equal(t, summary, svc.LastRun())
}

func TestRunBatch_ConflictWhileRunning(t *testing.T) {
	svc := newTestService(t, catalog.NewMemory())

	svc.mu.Lock()
	svc.running = true
	svc.mu.Unlock()

	_, err := svc.RunBatch(context.Background(), BatchOptions{})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestStartBatch_CompletesInBackground(t *testing.T) {
	cat := catalog.NewMemory()
	seedItem(t, cat, t.TempDir(), "ep1")

	svc := newTestService(t, cat)
	runID, err := svc.StartBatch(BatchOptions{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "run-"))

	require.Eventually(t, func() bool {
		last := svc.LastRun()
		return last != nil && last.RunID == runID && last.Result != nil
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, svc.LastRun().Result.Written)
}

func TestRunItem_PropagatesNotFound(t *testing.T) {
	svc := newTestService(t, catalog.NewMemory())

	_, err := svc.RunItem(context.Background(), "missing", false)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestRunItem_Writes(t *testing.T) {
	cat := catalog.NewMemory()
	path := seedItem(t, cat, t.TempDir(), "ep1")

	svc := newTestService(t, cat)
	outcome, err := svc.RunItem(context.Background(), "ep1", false)

	require.NoError(t, err)
	assert.Equal(t, dispatch.StatusWritten, outcome.Status)
	assert.Equal(t, chapterfile.TargetPath(path), outcome.Path)
}
