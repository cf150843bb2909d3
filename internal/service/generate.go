// Package service orchestrates chapter generation runs over the catalog.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chapterforge/chapterforge-server/internal/catalog"
	"github.com/chapterforge/chapterforge-server/internal/config"
	"github.com/chapterforge/chapterforge-server/internal/dispatch"
	apperrors "github.com/chapterforge/chapterforge-server/internal/errors"
	"github.com/chapterforge/chapterforge-server/internal/id"
	"github.com/chapterforge/chapterforge-server/internal/sse"
)

// RunSummary records the outcome of one generation run for inspection.
type RunSummary struct {
	RunID       string           `json:"runId"`
	StartedAt   time.Time        `json:"startedAt"`
	CompletedAt time.Time        `json:"completedAt,omitzero"`
	Result      *dispatch.Result `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// GenerateService runs chapter generation and streams progress over SSE.
// Only one batch run may be active at a time.
type GenerateService struct {
	source     catalog.SegmentSource
	dispatcher *dispatch.Dispatcher
	events     *sse.Manager
	cfg        config.GenerateConfig
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
	lastRun *RunSummary
}

// NewGenerateService creates a new generation service.
func NewGenerateService(
	source catalog.SegmentSource,
	dispatcher *dispatch.Dispatcher,
	events *sse.Manager,
	cfg config.GenerateConfig,
	logger *slog.Logger,
) *GenerateService {
	return &GenerateService{
		source:     source,
		dispatcher: dispatcher,
		events:     events,
		cfg:        cfg,
		logger:     logger,
	}
}

// BatchOptions tunes a single batch run. Zero values fall back to the
// configured defaults.
type BatchOptions struct {
	// Force replaces existing chapter files regardless of the configured
	// overwrite policy.
	Force bool

	// MaxParallelism overrides the configured worker count when positive.
	MaxParallelism int
}

// RunBatch runs a full generation pass over every item with segments and
// blocks until it finishes.
func (s *GenerateService) RunBatch(ctx context.Context, opts BatchOptions) (*RunSummary, error) {
	runID, err := s.begin()
	if err != nil {
		return nil, err
	}
	return s.run(ctx, runID, opts)
}

// StartBatch kicks off a batch run in the background and returns its run ID
// immediately. The run detaches from the caller's request context.
func (s *GenerateService) StartBatch(opts BatchOptions) (string, error) {
	runID, err := s.begin()
	if err != nil {
		return "", err
	}

	go func() {
		if _, err := s.run(context.Background(), runID, opts); err != nil {
			s.logger.Error("background generation run failed",
				"run_id", runID, "error", err)
		}
	}()

	return runID, nil
}

// RunItem generates chapters for a single item. Item-level problems are
// returned to the caller rather than swallowed.
func (s *GenerateService) RunItem(ctx context.Context, itemID string, force bool) (*dispatch.ItemOutcome, error) {
	segs, err := s.source.ListSegmentsForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.dispatcher.RunItem(ctx, itemID, segs, force || s.cfg.OverwriteExisting)
}

// LastRun returns the most recent run summary, or nil when no run has
// happened yet.
func (s *GenerateService) LastRun() *RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// begin claims the single-run slot and assigns a run ID.
func (s *GenerateService) begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return "", apperrors.Conflict("a generation run is already in progress")
	}

	runID, err := id.Generate("run")
	if err != nil {
		return "", err
	}

	s.running = true
	return runID, nil
}

func (s *GenerateService) run(ctx context.Context, runID string, opts BatchOptions) (*RunSummary, error) {
	summary := &RunSummary{RunID: runID, StartedAt: time.Now()}
	defer func() {
		summary.CompletedAt = time.Now()
		s.mu.Lock()
		s.running = false
		s.lastRun = summary
		s.mu.Unlock()
	}()

	segs, err := s.source.ListSegments(ctx)
	if err != nil {
		summary.Error = err.Error()
		s.emitFailed(runID, err)
		return summary, err
	}

	items := make(map[string]bool)
	for _, seg := range segs {
		items[seg.ItemID] = true
	}

	parallelism := s.cfg.MaxParallelism
	if opts.MaxParallelism > 0 {
		parallelism = opts.MaxParallelism
	}

	s.logger.Info("generation run starting",
		"run_id", runID, "items", len(items), "segments", len(segs), "force", opts.Force)
	s.events.Emit(sse.NewEvent(sse.EventGenerationStarted, sse.GenerationStartedData{
		StartedAt: summary.StartedAt,
		RunID:     runID,
		Items:     len(items),
	}))

	result, err := s.dispatcher.Run(ctx, segs, dispatch.Options{
		ForceOverwrite:    opts.Force,
		OverwriteExisting: s.cfg.OverwriteExisting,
		MaxParallelism:    parallelism,
		SkipChaptered:     s.cfg.SkipChaptered,
		OnProgress: func(percent int) {
			s.events.Emit(sse.NewEvent(sse.EventGenerationProgress, sse.GenerationProgressData{
				RunID:   runID,
				Percent: percent,
			}))
		},
	})
	if err != nil {
		summary.Error = err.Error()
		s.emitFailed(runID, err)
		return summary, err
	}

	summary.Result = result
	s.events.Emit(sse.NewEvent(sse.EventGenerationCompleted, sse.GenerationCompletedData{
		CompletedAt: time.Now(),
		RunID:       runID,
		Total:       result.Total,
		Written:     result.Written,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
	}))

	return summary, nil
}

func (s *GenerateService) emitFailed(runID string, err error) {
	s.events.Emit(sse.NewEvent(sse.EventGenerationFailed, sse.GenerationFailedData{
		FailedAt: time.Now(),
		RunID:    runID,
		Error:    err.Error(),
	}))
}
