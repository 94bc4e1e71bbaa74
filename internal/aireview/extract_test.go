package aireview

import (
	"errors"
	"testing"
)

func TestExtract_SuggestionsAndScore(t *testing.T) {
	reply := "Refactor foo().\nAdd type hints.\nConfidence: 0.92"

	suggestions, score, err := Extract(reply)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if score != 0.92 {
		t.Errorf("score = %v, want 0.92", score)
	}
	want := []string{"Refactor foo().", "Add type hints."}
	if len(suggestions) != len(want) {
		t.Fatalf("got %d suggestions, want %d: %v", len(suggestions), len(want), suggestions)
	}
	for i := range want {
		if suggestions[i] != want[i] {
			t.Errorf("suggestion[%d] = %q, want %q", i, suggestions[i], want[i])
		}
	}
}

func TestExtract_MissingConfidenceLine(t *testing.T) {
	_, _, err := Extract("Looks fine to me.\nShip it.")
	if !errors.Is(err, ErrNoConfidence) {
		t.Errorf("err = %v, want ErrNoConfidence", err)
	}
}

func TestExtract_EmptyReply(t *testing.T) {
	_, _, err := Extract("")
	if !errors.Is(err, ErrNoConfidence) {
		t.Errorf("err = %v, want ErrNoConfidence", err)
	}
}

func TestExtract_OutOfRangeConfidence(t *testing.T) {
	_, _, err := Extract("Tighten error handling.\nConfidence: 1.5")
	if !errors.Is(err, ErrConfidenceRange) {
		t.Errorf("err = %v, want ErrConfidenceRange", err)
	}
}

func TestExtract_LastMatchingLineWins(t *testing.T) {
	reply := "Confidence: 0.10 is mentioned mid-text.\nUse a context here.\nConfidence: 0.33\n\nConfidence: 0.80"

	suggestions, score, err := Extract(reply)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if score != 0.80 {
		t.Errorf("score = %v, want 0.80", score)
	}
	// the earlier exact confidence line is consumed into neither score nor
	// suggestions blindly: only lines before the scoring line remain
	for _, s := range suggestions {
		if s == "Confidence: 0.80" {
			t.Errorf("scoring line leaked into suggestions: %v", suggestions)
		}
	}
}

func TestExtract_SkipsFormattingNoise(t *testing.T) {
	reply := "```\n- Use errors.Is for the sentinel check.\n---\n\n* Rename the exported field.\n```\nConfidence: 0.75"

	suggestions, score, err := Extract(reply)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if score != 0.75 {
		t.Errorf("score = %v, want 0.75", score)
	}
	want := []string{"Use errors.Is for the sentinel check.", "Rename the exported field."}
	if len(suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %v", len(suggestions), suggestions)
	}
	for i := range want {
		if suggestions[i] != want[i] {
			t.Errorf("suggestion[%d] = %q, want %q", i, suggestions[i], want[i])
		}
	}
}

func TestExtract_TrailingWhitespaceTolerated(t *testing.T) {
	_, score, err := Extract("Something.\nConfidence: 0.5   \n\n")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if score != 0.5 {
		t.Errorf("score = %v, want 0.5", score)
	}
}
