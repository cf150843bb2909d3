// Package chapters synthesizes a gapless chapter timeline from a media
// item's classified time segments.
package chapters

import (
	"github.com/chapterforge/chapterforge-server/internal/segments"
)

// Chapter is a named, time-bounded navigation unit derived from segments
// and gaps. Times are pre-formatted "HH:MM:SS.cc" strings. Chapters exist
// only transiently between synthesis and serialization; they are never
// persisted as a standalone entity.
type Chapter struct {
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Config controls gap detection and chapter naming during synthesis.
type Config struct {
	// MaxGapTicks is the threshold at or above which an uncovered span
	// between segments is filled with a placeholder chapter.
	MaxGapTicks int64

	// Labels per segment type. An empty label suppresses emission of
	// that type's chapter (its time range still advances the cursor).
	IntroLabel      string
	OutroLabel      string
	RecapLabel      string
	PreviewLabel    string
	CommercialLabel string
	UnknownLabel    string

	// Placeholder labels for gap-filling chapters.
	PrologueLabel string
	MainLabel     string
	EpilogueLabel string
}

// LabelFor returns the configured display label for a segment type.
// Types without a dedicated label use the Unknown label.
func (c Config) LabelFor(t segments.Type) string {
	switch t {
	case segments.TypeIntro:
		return c.IntroLabel
	case segments.TypeOutro:
		return c.OutroLabel
	case segments.TypeRecap:
		return c.RecapLabel
	case segments.TypePreview:
		return c.PreviewLabel
	case segments.TypeCommercial:
		return c.CommercialLabel
	default:
		return c.UnknownLabel
	}
}
