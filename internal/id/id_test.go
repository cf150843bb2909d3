package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("run")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.HasPrefix(got, "run-") {
		t.Errorf("expected run- prefix, got %q", got)
	}
	if len(got) != len("run-")+21 {
		t.Errorf("unexpected ID length: %q", got)
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := MustGenerate("run")
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
