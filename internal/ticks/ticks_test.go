package ticks

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		name  string
		ticks int64
		want  string
	}{
		{"zero", 0, "00:00:00.00"},
		{"five seconds", 50_000_000, "00:00:05.00"},
		{"fifteen seconds", 150_000_000, "00:00:15.00"},
		{"twenty seconds", 200_000_000, "00:00:20.00"},
		{"centiseconds", 1_230_000, "00:00:00.12"},
		{"sub centisecond truncates", 99_999, "00:00:00.00"},
		{"one minute", PerMinute, "00:01:00.00"},
		{"one hour", PerHour, "01:00:00.00"},
		{"mixed", PerHour + 23*PerMinute + 45*PerSecond + 67*PerCentisecond, "01:23:45.67"},
		{"beyond a day", 26*PerHour + PerSecond, "26:00:01.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.ticks); got != tc.want {
				t.Errorf("Format(%d) = %q, want %q", tc.ticks, got, tc.want)
			}
		})
	}
}

func TestFormatDeterministic(t *testing.T) {
	// Same input must always produce the same output.
	for i := 0; i < 10; i++ {
		if got := Format(987_654_321); got != "00:01:38.76" {
			t.Fatalf("Format not deterministic: got %q", got)
		}
	}
}

func TestFromSeconds(t *testing.T) {
	if got := FromSeconds(3); got != 30_000_000 {
		t.Errorf("FromSeconds(3) = %d, want 30000000", got)
	}
	if got := FromSeconds(0); got != 0 {
		t.Errorf("FromSeconds(0) = %d, want 0", got)
	}
}
