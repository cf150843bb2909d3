package catalog

import (
	"context"
	"sync"

	apperrors "github.com/chapterforge/chapterforge-server/internal/errors"
	"github.com/chapterforge/chapterforge-server/internal/segments"
)

// Memory is a map-backed catalog used by tests and one-shot CLI runs.
type Memory struct {
	mu    sync.RWMutex
	items map[string]Item
	segs  []segments.Segment
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]Item),
	}
}

// AddItem registers or replaces an item.
func (m *Memory) AddItem(item Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

// AddSegments appends segments in arrival order.
func (m *Memory) AddSegments(segs ...segments.Segment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segs = append(m.segs, segs...)
}

// Resolve implements Resolver.
func (m *Memory) Resolve(_ context.Context, itemID string) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemID]
	if !ok {
		return nil, apperrors.NotFoundf("item %s not in catalog", itemID)
	}
	return &item, nil
}

// ListSegments implements SegmentSource.
func (m *Memory) ListSegments(_ context.Context) ([]segments.Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]segments.Segment, len(m.segs))
	copy(out, m.segs)
	return out, nil
}

// ListSegmentsForItem implements SegmentSource.
func (m *Memory) ListSegmentsForItem(_ context.Context, itemID string) ([]segments.Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []segments.Segment
	for _, s := range m.segs {
		if s.ItemID == itemID {
			out = append(out, s)
		}
	}
	return out, nil
}
