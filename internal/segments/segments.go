// Package segments defines the classified time ranges supplied by the
// segment-provider service and helpers to prepare them for chapter synthesis.
package segments

import (
	"sort"
	"strings"
)

// Type classifies a segment within a media item.
type Type int

const (
	TypeUnknown Type = iota
	TypeIntro
	TypeOutro
	TypeRecap
	TypePreview
	TypeCommercial
)

// String returns the canonical name of the segment type.
func (t Type) String() string {
	switch t {
	case TypeIntro:
		return "intro"
	case TypeOutro:
		return "outro"
	case TypeRecap:
		return "recap"
	case TypePreview:
		return "preview"
	case TypeCommercial:
		return "commercial"
	default:
		return "unknown"
	}
}

// ParseType converts a provider-supplied type name into a Type.
// Unrecognized names fall back to TypeUnknown.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intro":
		return TypeIntro
	case "outro":
		return TypeOutro
	case "recap":
		return TypeRecap
	case "preview":
		return TypePreview
	case "commercial":
		return TypeCommercial
	default:
		return TypeUnknown
	}
}

// Segment is a classified time range within one media item.
// Ticks are 100-nanosecond units and EndTicks is exclusive of StartTicks
// (end > start is a provider contract).
type Segment struct {
	ItemID     string `json:"itemId"`
	StartTicks int64  `json:"startTicks"`
	EndTicks   int64  `json:"endTicks"`
	Type       Type   `json:"type"`
}

// GroupByItem buckets a flat segment collection by item ID.
// Within each bucket the provider's arrival order is preserved.
func GroupByItem(segs []Segment) map[string][]Segment {
	grouped := make(map[string][]Segment)
	for _, s := range segs {
		grouped[s.ItemID] = append(grouped[s.ItemID], s)
	}
	return grouped
}

// SortByStart orders segments ascending by start tick.
// The sort is stable: ties keep their arrival order.
func SortByStart(segs []Segment) {
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].StartTicks < segs[j].StartTicks
	})
}
