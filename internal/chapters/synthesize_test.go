package chapters

import (
	"reflect"
	"testing"

	"github.com/chapterforge/chapterforge-server/internal/segments"
)

func testConfig() Config {
	return Config{
		MaxGapTicks:     30_000_000, // 3 seconds
		IntroLabel:      "Opening",
		OutroLabel:      "Ending",
		RecapLabel:      "Recap",
		PreviewLabel:    "Preview",
		CommercialLabel: "Commercial",
		UnknownLabel:    "Segment",
		PrologueLabel:   "Prologue",
		MainLabel:       "Main",
		EpilogueLabel:   "Epilogue",
	}
}

func TestSynthesize_Empty(t *testing.T) {
	got := Synthesize(nil, 200_000_000, testConfig())
	if len(got) != 0 {
		t.Fatalf("expected no chapters for empty input, got %d", len(got))
	}
}

func TestSynthesize_SingleIntroNoGaps(t *testing.T) {
	// Intro at the very start, no outro: exactly one chapter, no leading
	// placeholder (gap is zero) and no trailing placeholder (outro never seen).
	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 50_000_000, Type: segments.TypeIntro},
	}

	got := Synthesize(segs, 200_000_000, testConfig())

	want := []Chapter{
		{Title: "Opening", StartTime: "00:00:00.00", EndTime: "00:00:05.00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSynthesize_InteriorAndTrailingGaps(t *testing.T) {
	// Interior gap before the outro is "Main" (outro not yet seen when the
	// gap is evaluated); the trailing gap after the outro is "Epilogue".
	cfg := testConfig()
	cfg.MaxGapTicks = 10_000_000 // 1 second

	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 50_000_000, Type: segments.TypeIntro},
		{ItemID: "i1", StartTicks: 150_000_000, EndTicks: 180_000_000, Type: segments.TypeOutro},
	}

	got := Synthesize(segs, 200_000_000, cfg)

	want := []Chapter{
		{Title: "Opening", StartTime: "00:00:00.00", EndTime: "00:00:05.00"},
		{Title: "Main", StartTime: "00:00:05.00", EndTime: "00:00:15.00"},
		{Title: "Ending", StartTime: "00:00:15.00", EndTime: "00:00:18.00"},
		{Title: "Epilogue", StartTime: "00:00:18.00", EndTime: "00:00:20.00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSynthesize_PrologueOnlyBeforeFirstIntro(t *testing.T) {
	cfg := testConfig()

	// Gap before the first intro is "Prologue".
	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 40_000_000, EndTicks: 90_000_000, Type: segments.TypeIntro},
	}
	got := Synthesize(segs, 0, cfg)
	if len(got) != 2 || got[0].Title != "Prologue" {
		t.Fatalf("expected leading Prologue, got %+v", got)
	}

	// Gap before a second intro is not a prologue.
	segs = []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 10_000_000, Type: segments.TypeIntro},
		{ItemID: "i1", StartTicks: 100_000_000, EndTicks: 120_000_000, Type: segments.TypeIntro},
	}
	got = Synthesize(segs, 0, cfg)
	if len(got) != 3 || got[1].Title != "Main" {
		t.Fatalf("expected interior Main before repeated intro, got %+v", got)
	}
}

func TestSynthesize_EpilogueForGapAfterOutro(t *testing.T) {
	// Any gap encountered after an outro has been observed is "Epilogue",
	// even when the following segment is not an outro.
	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 20_000_000, Type: segments.TypeOutro},
		{ItemID: "i1", StartTicks: 100_000_000, EndTicks: 130_000_000, Type: segments.TypeCommercial},
	}

	got := Synthesize(segs, 0, testConfig())

	if len(got) != 3 {
		t.Fatalf("expected 3 chapters, got %d: %+v", len(got), got)
	}
	if got[1].Title != "Epilogue" {
		t.Errorf("gap after outro should be Epilogue, got %q", got[1].Title)
	}
}

func TestSynthesize_GapThresholdIsInclusive(t *testing.T) {
	cfg := testConfig()
	cfg.MaxGapTicks = 30_000_000

	// Gap exactly equal to the threshold is filled.
	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 30_000_000, EndTicks: 60_000_000, Type: segments.TypeRecap},
	}
	got := Synthesize(segs, 0, cfg)
	if len(got) != 2 {
		t.Fatalf("gap == threshold should emit a placeholder, got %+v", got)
	}

	// One tick below the threshold is not.
	segs[0].StartTicks = 29_999_999
	got = Synthesize(segs, 0, cfg)
	if len(got) != 1 {
		t.Fatalf("gap < threshold should not emit a placeholder, got %+v", got)
	}
}

func TestSynthesize_EmptyLabelSuppressesChapter(t *testing.T) {
	cfg := testConfig()
	cfg.CommercialLabel = ""

	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 50_000_000, Type: segments.TypeCommercial},
		{ItemID: "i1", StartTicks: 50_000_000, EndTicks: 80_000_000, Type: segments.TypeIntro},
	}

	got := Synthesize(segs, 0, cfg)

	// The commercial chapter is suppressed but its span still advances the
	// cursor, so no placeholder appears before the intro either.
	if len(got) != 1 || got[0].Title != "Opening" {
		t.Fatalf("expected only the intro chapter, got %+v", got)
	}
}

func TestSynthesize_UnknownTypeUsesFallbackLabel(t *testing.T) {
	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 10_000_000, Type: segments.TypeUnknown},
	}

	got := Synthesize(segs, 0, testConfig())

	if len(got) != 1 || got[0].Title != "Segment" {
		t.Fatalf("expected unknown fallback label, got %+v", got)
	}
}

func TestSynthesize_NoTrailingFillerWithoutOutro(t *testing.T) {
	// Most of the runtime is unaccounted for, but no outro was ever seen,
	// so no trailing filler is emitted.
	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 50_000_000, Type: segments.TypeIntro},
		{ItemID: "i1", StartTicks: 60_000_000, EndTicks: 90_000_000, Type: segments.TypeRecap},
	}

	got := Synthesize(segs, 10_000_000_000, testConfig())

	for _, ch := range got {
		if ch.EndTime == "00:16:40.00" {
			t.Errorf("unexpected trailing filler chapter: %+v", ch)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chapters, got %+v", got)
	}
}

func TestSynthesize_NoTrailingFillerWithZeroRuntime(t *testing.T) {
	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 20_000_000, Type: segments.TypeOutro},
	}

	got := Synthesize(segs, 0, testConfig())

	if len(got) != 1 {
		t.Fatalf("runtime 0 must not produce a trailing filler, got %+v", got)
	}
}

func TestSynthesize_GaplessInputCountsMatchLabels(t *testing.T) {
	// A gap-free list yields exactly one chapter per non-suppressed segment.
	cfg := testConfig()
	cfg.PreviewLabel = ""

	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 10_000_000, Type: segments.TypeIntro},
		{ItemID: "i1", StartTicks: 10_000_000, EndTicks: 20_000_000, Type: segments.TypePreview},
		{ItemID: "i1", StartTicks: 20_000_000, EndTicks: 30_000_000, Type: segments.TypeRecap},
	}

	got := Synthesize(segs, 0, cfg)

	if len(got) != 2 {
		t.Fatalf("expected 2 chapters (preview suppressed), got %+v", got)
	}
}

func TestSynthesize_Idempotent(t *testing.T) {
	cfg := testConfig()
	segs := []segments.Segment{
		{ItemID: "i1", StartTicks: 0, EndTicks: 50_000_000, Type: segments.TypeIntro},
		{ItemID: "i1", StartTicks: 150_000_000, EndTicks: 180_000_000, Type: segments.TypeOutro},
	}

	first := Synthesize(segs, 200_000_000, cfg)
	second := Synthesize(segs, 200_000_000, cfg)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("synthesis not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}
