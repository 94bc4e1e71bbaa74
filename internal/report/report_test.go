package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vetgate/internal/aireview"
	"vetgate/internal/analyzers"
	"vetgate/internal/config"
)

func sampleResults() []analyzers.Result {
	return []analyzers.Result{
		{
			Category: analyzers.CategorySecurity,
			Tool:     "bandit",
			Status:   analyzers.StatusOK,
			Findings: []analyzers.Finding{
				{Category: analyzers.CategorySecurity, File: "app.py", Line: 10, Description: "[B602] shell=True"},
			},
		},
		{
			Category: analyzers.CategoryNaming,
			Tool:     "flake8",
			Status:   analyzers.StatusOK,
			Findings: []analyzers.Finding{
				{Category: analyzers.CategoryNaming, File: "app.py", Line: 3, Description: "N802 function name should be lowercase"},
				{Category: analyzers.CategoryNaming, File: "app.py", Line: 8, Description: "N806 variable should be lowercase"},
			},
		},
		{
			Category: analyzers.CategoryComplexity,
			Tool:     "radon",
			Status:   analyzers.StatusOK,
			Findings: []analyzers.Finding{},
		},
	}
}

func sampleAI() AIResult {
	return AIResult{
		Status: AIStatusOK,
		Suggestions: []aireview.Suggestion{
			{Text: "Add type hints.", Confidence: 0.9},
		},
		Score: 0.9,
	}
}

func TestAggregate_FixedCategoryOrder(t *testing.T) {
	// Results arrive unordered; sections must not.
	rep := Aggregate(sampleResults(), sampleAI(), config.Default(), "diff")

	want := []analyzers.Category{
		analyzers.CategoryNaming,
		analyzers.CategoryComplexity,
		analyzers.CategorySecurity,
	}
	if len(rep.Sections) != len(want) {
		t.Fatalf("got %d sections, want %d", len(rep.Sections), len(want))
	}
	for i, cat := range want {
		if rep.Sections[i].Category != cat {
			t.Errorf("section %d = %s, want %s", i, rep.Sections[i].Category, cat)
		}
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	cfg := config.Default()

	a := Aggregate(sampleResults(), sampleAI(), cfg, "diff")
	b := Aggregate(sampleResults(), sampleAI(), cfg, "diff")

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("reports differ (-first +second):\n%s", diff)
	}

	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	jb, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(ja, jb) {
		t.Errorf("serialized reports not byte-identical:\n%s\n%s", ja, jb)
	}
}

func TestAggregate_OverallViolationsCountsRetainedFindings(t *testing.T) {
	rep := Aggregate(sampleResults(), sampleAI(), config.Default(), "diff")
	if rep.OverallViolations != 3 {
		t.Errorf("OverallViolations = %d, want 3", rep.OverallViolations)
	}
}

func TestAggregate_AutoReject(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		threshold int
		want      bool
	}{
		{"disabled never rejects", false, 0, false},
		{"enabled above threshold", true, 2, true},
		{"enabled at threshold", true, 3, false},
		{"enabled below threshold", true, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.AutoReject.Enabled = tt.enabled
			cfg.AutoReject.OverallThreshold = tt.threshold
			rep := Aggregate(sampleResults(), sampleAI(), cfg, "diff")
			if rep.AutoReject != tt.want {
				t.Errorf("AutoReject = %v, want %v", rep.AutoReject, tt.want)
			}
		})
	}
}

func TestAggregate_FailedAnalyzerDistinctFromEmpty(t *testing.T) {
	results := []analyzers.Result{
		{Category: analyzers.CategoryNaming, Tool: "flake8", Status: analyzers.StatusOK, Findings: []analyzers.Finding{}},
		{Category: analyzers.CategoryComplexity, Tool: "radon", Status: analyzers.StatusFailed, ErrorDetail: "exec: radon: not found"},
		{Category: analyzers.CategorySecurity, Tool: "bandit", Status: analyzers.StatusTimedOut, ErrorDetail: "context deadline exceeded"},
	}
	rep := Aggregate(results, sampleAI(), config.Default(), "diff")

	if rep.Sections[0].Status != analyzers.StatusOK {
		t.Errorf("clean section status = %s", rep.Sections[0].Status)
	}
	if rep.Sections[1].Status != analyzers.StatusFailed || rep.Sections[1].ErrorDetail == "" {
		t.Errorf("failed section should carry status and detail: %+v", rep.Sections[1])
	}
	if rep.Sections[2].Status != analyzers.StatusTimedOut {
		t.Errorf("timed out section status = %s", rep.Sections[2].Status)
	}
	if rep.OverallViolations != 0 {
		t.Errorf("failed analyzers must not contribute violations, got %d", rep.OverallViolations)
	}
	for _, s := range rep.Sections {
		if s.Findings == nil {
			t.Errorf("%s findings should be an empty slice, not nil", s.Category)
		}
	}
}

func TestAggregate_FailedAIBranchKeptInReport(t *testing.T) {
	ai := AIResult{Status: AIStatusFailed, ErrorDetail: "ai review transport failure: connection refused"}
	rep := Aggregate(sampleResults(), ai, config.Default(), "diff")

	if rep.AI.Status != AIStatusFailed {
		t.Errorf("AI status = %s, want failed", rep.AI.Status)
	}
	if rep.AI.Suggestions == nil {
		t.Error("failed AI suggestions should be an empty slice, not nil")
	}
	if len(rep.AI.Suggestions) != 0 {
		t.Errorf("failed AI should carry no suggestions, got %d", len(rep.AI.Suggestions))
	}
	if rep.OverallViolations != 3 {
		t.Errorf("analyzer findings lost when AI failed: %d", rep.OverallViolations)
	}
}

func TestReport_FindingsByCategory(t *testing.T) {
	rep := Aggregate(sampleResults(), sampleAI(), config.Default(), "diff")

	naming := rep.Findings(analyzers.CategoryNaming)
	if len(naming) != 2 {
		t.Errorf("naming findings = %d, want 2", len(naming))
	}
	if got := rep.Findings(analyzers.Category("unknown")); got != nil {
		t.Errorf("unknown category should return nil, got %v", got)
	}
}

func TestAggregate_TruncationCarriedIntoSection(t *testing.T) {
	results := []analyzers.Result{
		{
			Category:  analyzers.CategoryNaming,
			Tool:      "flake8",
			Status:    analyzers.StatusOK,
			Findings:  []analyzers.Finding{{Category: analyzers.CategoryNaming, File: "a.py", Line: 1, Description: "N801"}},
			Truncated: 4,
		},
	}
	rep := Aggregate(results, sampleAI(), config.Default(), "diff")
	if rep.Sections[0].Truncated != 4 {
		t.Errorf("Truncated = %d, want 4", rep.Sections[0].Truncated)
	}
	if rep.OverallViolations != 1 {
		t.Errorf("OverallViolations = %d, want retained count only", rep.OverallViolations)
	}
}
