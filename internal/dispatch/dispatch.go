// Package dispatch runs chapter generation across many media items with a
// bounded worker pool. One item failing never stops its siblings.
package dispatch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/chapterforge/chapterforge-server/internal/catalog"
	"github.com/chapterforge/chapterforge-server/internal/chapterfile"
	"github.com/chapterforge/chapterforge-server/internal/chapters"
	apperrors "github.com/chapterforge/chapterforge-server/internal/errors"
	"github.com/chapterforge/chapterforge-server/internal/segments"
)

// DefaultParallelism is the worker count used when Options leaves it unset.
const DefaultParallelism = 2

// Status classifies what happened to one item during a run.
type Status string

const (
	StatusWritten Status = "written"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Skip reasons reported in ItemOutcome.Reason.
const (
	ReasonNotFound         = "item_not_found"
	ReasonNoPath           = "no_media_path"
	ReasonMediaAbsent      = "media_absent"
	ReasonAlreadyChaptered = "already_chaptered"
	ReasonNoChapters       = "no_chapters"
	ReasonFileExists       = "file_exists"
)

// ItemOutcome records the result for one media item.
type ItemOutcome struct {
	ItemID   string `json:"itemId"`
	Path     string `json:"path,omitempty"`
	Status   Status `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Chapters int    `json:"chapters,omitempty"`
	Err      error  `json:"-"`

	canceled bool
}

// Result summarizes a batch run.
type Result struct {
	Total    int           `json:"total"`
	Written  int           `json:"written"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Outcomes []ItemOutcome `json:"outcomes"`
}

// Options configures a batch run.
type Options struct {
	// ForceOverwrite replaces existing chapter files regardless of the
	// configured overwrite policy.
	ForceOverwrite bool

	// OverwriteExisting is the configured overwrite policy.
	OverwriteExisting bool

	// MaxParallelism bounds the worker count. Values below 1 fall back to
	// DefaultParallelism.
	MaxParallelism int

	// SkipChaptered skips items that already carry embedded chapters.
	SkipChaptered bool

	// OnProgress, when set, receives completion percentages. Reports are
	// strictly increasing and the last report of a completed run is 100.
	OnProgress func(percent int)
}

// Dispatcher fans chapter generation out over a flat segment collection.
type Dispatcher struct {
	resolver catalog.Resolver
	writer   *chapterfile.Writer
	cfg      chapters.Config
	logger   *slog.Logger
}

// New creates a dispatcher.
func New(resolver catalog.Resolver, writer *chapterfile.Writer, cfg chapters.Config, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		writer:   writer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run groups segments by item and generates a chapter file per item.
//
// Cancellation is cooperative: items already being processed run to
// completion, items not yet started are abandoned. When the context is
// canceled Run waits for in-flight items to drain, then returns ctx.Err().
func (d *Dispatcher) Run(ctx context.Context, segs []segments.Segment, opts Options) (*Result, error) {
	grouped := segments.GroupByItem(segs)

	// First-appearance order keeps scheduling deterministic.
	order := make([]string, 0, len(grouped))
	seen := make(map[string]bool, len(grouped))
	for _, s := range segs {
		if !seen[s.ItemID] {
			seen[s.ItemID] = true
			order = append(order, s.ItemID)
		}
	}

	total := len(order)
	if total == 0 {
		return &Result{Outcomes: []ItemOutcome{}}, nil
	}

	workers := opts.MaxParallelism
	if workers < 1 {
		workers = DefaultParallelism
	}
	if workers > total {
		workers = total
	}

	type job struct {
		itemID string
		group  []segments.Segment
	}

	jobs := make(chan job, total)
	results := make(chan ItemOutcome, total)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				// Cancellation check before each not-yet-started item.
				select {
				case <-ctx.Done():
					results <- ItemOutcome{ItemID: j.itemID, canceled: true}
					continue
				default:
				}

				results <- d.processItem(ctx, j.itemID, j.group, opts)
			}
		}()
	}

	// Aggregator: single owner of the result counters and the progress
	// cursor, so reported percentages can never go backwards.
	res := &Result{Total: total, Outcomes: make([]ItemOutcome, 0, total)}
	canceled := 0
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		done := 0
		lastPercent := 0
		for r := range results {
			if r.canceled {
				canceled++
				continue
			}

			res.Outcomes = append(res.Outcomes, r)
			switch r.Status {
			case StatusWritten:
				res.Written++
			case StatusSkipped:
				res.Skipped++
			case StatusFailed:
				res.Failed++
			}

			done++
			if opts.OnProgress != nil {
				if percent := done * 100 / total; percent > lastPercent {
					opts.OnProgress(percent)
					lastPercent = percent
				}
			}
		}
	}()

	// The jobs channel is buffered for every group, so these sends never block.
	for _, itemID := range order {
		jobs <- job{itemID: itemID, group: grouped[itemID]}
	}
	close(jobs)

	wg.Wait()
	close(results)
	<-aggDone

	if canceled > 0 {
		d.logger.Info("batch run canceled",
			"completed", total-canceled,
			"abandoned", canceled)
		return nil, ctx.Err()
	}

	d.logger.Info("batch run complete",
		"total", res.Total,
		"written", res.Written,
		"skipped", res.Skipped,
		"failed", res.Failed)
	return res, nil
}

// RunItem generates a chapter file for a single item. Unlike Run, which
// logs per-item problems and moves on, RunItem propagates them: the caller
// asked about this specific item and needs the real error.
func (d *Dispatcher) RunItem(ctx context.Context, itemID string, segs []segments.Segment, overwrite bool) (*ItemOutcome, error) {
	item, err := d.resolver.Resolve(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Path == "" {
		return nil, apperrors.MissingPath("item " + itemID + " has no media path")
	}
	if _, err := os.Stat(item.Path); err != nil {
		if apperrors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.MediaAbsent("media file for item " + itemID + " does not exist")
		}
		return nil, apperrors.Wrapf(err, apperrors.CodeWriteFailed, "stat media for item %s", itemID)
	}

	group := make([]segments.Segment, len(segs))
	copy(group, segs)
	segments.SortByStart(group)

	chs := chapters.Synthesize(group, item.RuntimeTicks, d.cfg)
	if len(chs) == 0 {
		return &ItemOutcome{ItemID: itemID, Status: StatusSkipped, Reason: ReasonNoChapters}, nil
	}

	target := chapterfile.TargetPath(item.Path)
	outcome, err := d.writer.Write(target, chs, overwrite)
	if err != nil {
		return nil, err
	}

	return &ItemOutcome{
		ItemID:   itemID,
		Path:     target,
		Status:   statusFor(outcome),
		Reason:   reasonFor(outcome),
		Chapters: len(chs),
	}, nil
}

func (d *Dispatcher) processItem(ctx context.Context, itemID string, group []segments.Segment, opts Options) ItemOutcome {
	item, err := d.resolver.Resolve(ctx, itemID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			d.logger.Warn("item not in catalog, skipping", "item", itemID)
			return ItemOutcome{ItemID: itemID, Status: StatusSkipped, Reason: ReasonNotFound}
		}
		d.logger.Error("catalog lookup failed", "item", itemID, "error", err)
		return ItemOutcome{ItemID: itemID, Status: StatusFailed, Err: err}
	}

	if item.Path == "" {
		d.logger.Warn("item has no media path, skipping", "item", itemID)
		return ItemOutcome{ItemID: itemID, Status: StatusSkipped, Reason: ReasonNoPath}
	}

	if _, err := os.Stat(item.Path); err != nil {
		if apperrors.Is(err, fs.ErrNotExist) {
			d.logger.Warn("media file absent, skipping", "item", itemID, "path", item.Path)
			return ItemOutcome{ItemID: itemID, Status: StatusSkipped, Reason: ReasonMediaAbsent}
		}
		d.logger.Error("media file unreadable", "item", itemID, "path", item.Path, "error", err)
		return ItemOutcome{ItemID: itemID, Status: StatusFailed, Err: err}
	}

	if opts.SkipChaptered && item.HasChapters {
		d.logger.Debug("item already has chapters, skipping", "item", itemID)
		return ItemOutcome{ItemID: itemID, Status: StatusSkipped, Reason: ReasonAlreadyChaptered}
	}

	sorted := make([]segments.Segment, len(group))
	copy(sorted, group)
	segments.SortByStart(sorted)

	chs := chapters.Synthesize(sorted, item.RuntimeTicks, d.cfg)
	if len(chs) == 0 {
		d.logger.Debug("synthesis produced no chapters", "item", itemID)
		return ItemOutcome{ItemID: itemID, Status: StatusSkipped, Reason: ReasonNoChapters}
	}

	target := chapterfile.TargetPath(item.Path)
	outcome, err := d.writer.Write(target, chs, opts.OverwriteExisting || opts.ForceOverwrite)
	if err != nil {
		d.logger.Error("chapter file write failed", "item", itemID, "path", target, "error", err)
		return ItemOutcome{ItemID: itemID, Path: target, Status: StatusFailed, Err: err}
	}

	return ItemOutcome{
		ItemID:   itemID,
		Path:     target,
		Status:   statusFor(outcome),
		Reason:   reasonFor(outcome),
		Chapters: len(chs),
	}
}

func statusFor(outcome chapterfile.Outcome) Status {
	if outcome == chapterfile.OutcomeWritten {
		return StatusWritten
	}
	return StatusSkipped
}

func reasonFor(outcome chapterfile.Outcome) string {
	switch outcome {
	case chapterfile.OutcomeSkippedExists:
		return ReasonFileExists
	case chapterfile.OutcomeSkippedEmpty:
		return ReasonNoChapters
	default:
		return ""
	}
}
