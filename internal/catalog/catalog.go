// Package catalog resolves media item identifiers to file paths and
// runtimes, and supplies the classified segment collection for batch runs.
//
// The host library service owns this data; the implementations here are
// adapters. Chapter generation itself never discovers items or segments.
package catalog

import (
	"context"

	"github.com/chapterforge/chapterforge-server/internal/segments"
)

// Item is the catalog's view of one media item.
type Item struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	RuntimeTicks int64  `json:"runtimeTicks"` // 0 when unknown
	HasChapters  bool   `json:"hasChapters"`  // embedded chapters already present
}

// Resolver resolves an item ID to its catalog entry.
// Returns a domain not-found error for unknown items.
type Resolver interface {
	Resolve(ctx context.Context, itemID string) (*Item, error)
}

// SegmentSource supplies the flat classified segment collection spanning
// many items.
type SegmentSource interface {
	ListSegments(ctx context.Context) ([]segments.Segment, error)
	ListSegmentsForItem(ctx context.Context, itemID string) ([]segments.Segment, error)
}
