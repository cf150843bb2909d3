package chapters

import (
	"github.com/chapterforge/chapterforge-server/internal/segments"
	"github.com/chapterforge/chapterforge-server/internal/ticks"
)

// Synthesize converts one item's segments into an ordered chapter list,
// filling every uncovered span of at least cfg.MaxGapTicks with a
// placeholder chapter. Segments must already be sorted ascending by start
// tick. An empty segment list yields an empty chapter list.
//
// Placeholder naming is a position heuristic, not a semantic guess:
// "prologue" applies only to the gap immediately preceding the first-ever
// intro, "epilogue" to any gap encountered after an outro has been seen,
// and everything else is "main". A trailing placeholder up to runtimeTicks
// is emitted only when an outro was seen at all; items with no outro
// segment never receive a remaining-runtime filler.
func Synthesize(segs []segments.Segment, runtimeTicks int64, cfg Config) []Chapter {
	if len(segs) == 0 {
		return []Chapter{}
	}

	chapters := make([]Chapter, 0, len(segs)*2)

	var previousEnd int64
	hasSeenIntro := false
	hasSeenOutro := false

	for i, s := range segs {
		// Gap decision uses the intro/outro flags as they stood before
		// this segment.
		if gap := s.StartTicks - previousEnd; gap >= cfg.MaxGapTicks {
			chapters = append(chapters, Chapter{
				Title:     placeholderTitle(s.Type, hasSeenIntro, hasSeenOutro, cfg),
				StartTime: ticks.Format(previousEnd),
				EndTime:   ticks.Format(s.StartTicks),
			})
		}

		if s.Type == segments.TypeIntro {
			hasSeenIntro = true
		}
		if s.Type == segments.TypeOutro {
			hasSeenOutro = true
		}

		if label := cfg.LabelFor(s.Type); label != "" {
			chapters = append(chapters, Chapter{
				Title:     label,
				StartTime: ticks.Format(s.StartTicks),
				EndTime:   ticks.Format(s.EndTicks),
			})
		}

		last := i == len(segs)-1
		if last && hasSeenOutro && runtimeTicks > 0 && runtimeTicks-s.EndTicks >= cfg.MaxGapTicks {
			chapters = append(chapters, Chapter{
				Title:     cfg.EpilogueLabel,
				StartTime: ticks.Format(s.EndTicks),
				EndTime:   ticks.Format(runtimeTicks),
			})
		}

		previousEnd = s.EndTicks
	}

	return chapters
}

// placeholderTitle picks the label for a gap preceding a segment of type t.
func placeholderTitle(t segments.Type, hasSeenIntro, hasSeenOutro bool, cfg Config) string {
	switch {
	case t == segments.TypeIntro && !hasSeenIntro:
		return cfg.PrologueLabel
	case hasSeenOutro:
		return cfg.EpilogueLabel
	default:
		return cfg.MainLabel
	}
}
