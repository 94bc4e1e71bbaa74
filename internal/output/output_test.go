package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"vetgate/internal/aireview"
	"vetgate/internal/analyzers"
	"vetgate/internal/report"
)

func sampleReport() *report.Report {
	return &report.Report{
		Tool:    "vetgate",
		Version: "0.3.0",
		Mode:    "diff",
		Sections: []report.Section{
			{
				Category: analyzers.CategoryNaming,
				Tool:     "flake8",
				Status:   analyzers.StatusOK,
				Findings: []analyzers.Finding{
					{Category: analyzers.CategoryNaming, File: "app.py", Line: 3, Description: "N802 function name should be lowercase"},
				},
			},
			{
				Category:    analyzers.CategoryComplexity,
				Tool:        "radon",
				Status:      analyzers.StatusFailed,
				ErrorDetail: "exec: radon: not found",
				Findings:    []analyzers.Finding{},
			},
			{
				Category: analyzers.CategorySecurity,
				Tool:     "bandit",
				Status:   analyzers.StatusOK,
				Findings: []analyzers.Finding{},
			},
		},
		AI: report.AIResult{
			Status:      report.AIStatusOK,
			Suggestions: []aireview.Suggestion{{Text: "Add type hints.", Confidence: 0.9}},
			Score:       0.9,
		},
		OverallViolations: 1,
	}
}

func render(t *testing.T, w Writer, rep *report.Report) string {
	t.Helper()
	var buf bytes.Buffer
	if err := w.Write(&buf, rep); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	return buf.String()
}

func TestMarkdown_FailedAnalyzerDistinctFromClean(t *testing.T) {
	out := render(t, &MarkdownWriter{}, sampleReport())

	if !strings.Contains(out, "radon did not run: exec: radon: not found") {
		t.Errorf("missing failure caveat:\n%s", out)
	}
	// The clean bandit section reports zero findings without a caveat.
	if !strings.Contains(out, "### security (0)") {
		t.Errorf("missing clean zero-finding section:\n%s", out)
	}
	if strings.Contains(out, "bandit did not run") {
		t.Errorf("clean section rendered as failed:\n%s", out)
	}
}

func TestMarkdown_TimedOutCaveat(t *testing.T) {
	rep := sampleReport()
	rep.Sections[1].Status = analyzers.StatusTimedOut
	rep.Sections[1].ErrorDetail = "context deadline exceeded"

	out := render(t, &MarkdownWriter{}, rep)
	if !strings.Contains(out, "radon timed out") {
		t.Errorf("missing timeout caveat:\n%s", out)
	}
}

func TestMarkdown_SkippedAINote(t *testing.T) {
	rep := sampleReport()
	rep.AI = report.AIResult{Status: report.AIStatusOK, Suggestions: []aireview.Suggestion{}, Score: 0.42, Gated: true}

	out := render(t, &MarkdownWriter{}, rep)
	if !strings.Contains(out, "Skipped AI feedback (confidence 0.42 below threshold)") {
		t.Errorf("missing skipped note:\n%s", out)
	}
}

func TestMarkdown_EmptyAISuccessNotCalledGated(t *testing.T) {
	rep := sampleReport()
	rep.AI = report.AIResult{Status: report.AIStatusOK, Suggestions: []aireview.Suggestion{}, Score: 0.90}

	out := render(t, &MarkdownWriter{}, rep)
	if strings.Contains(out, "below threshold") {
		t.Errorf("empty successful review rendered as gated:\n%s", out)
	}
	if !strings.Contains(out, "No AI suggestions (confidence 0.90)") {
		t.Errorf("missing empty-review note:\n%s", out)
	}
}

func TestText_GatedVsEmptyAI(t *testing.T) {
	rep := sampleReport()
	rep.AI = report.AIResult{Status: report.AIStatusOK, Suggestions: []aireview.Suggestion{}, Score: 0.42, Gated: true}
	out := render(t, &TextWriter{}, rep)
	if !strings.Contains(out, "suggestions withheld (confidence 0.42 below threshold)") {
		t.Errorf("missing gated line:\n%s", out)
	}

	rep.AI = report.AIResult{Status: report.AIStatusOK, Suggestions: []aireview.Suggestion{}, Score: 0.90}
	out = render(t, &TextWriter{}, rep)
	if !strings.Contains(out, "no suggestions (confidence 0.90)") {
		t.Errorf("missing empty line:\n%s", out)
	}
	if strings.Contains(out, "below threshold") {
		t.Errorf("empty successful review rendered as gated:\n%s", out)
	}
}

func TestMarkdown_FailedAICaveat(t *testing.T) {
	rep := sampleReport()
	rep.AI = report.AIResult{Status: report.AIStatusFailed, Suggestions: []aireview.Suggestion{}, ErrorDetail: "ai review transport failure: connection refused"}

	out := render(t, &MarkdownWriter{}, rep)
	if !strings.Contains(out, "AI review unavailable: ai review transport failure") {
		t.Errorf("missing AI failure caveat:\n%s", out)
	}
	if strings.Contains(out, "Skipped AI feedback") {
		t.Errorf("failed AI rendered as low-confidence skip:\n%s", out)
	}
}

func TestMarkdown_TruncationNote(t *testing.T) {
	rep := sampleReport()
	rep.Sections[0].Truncated = 4

	out := render(t, &MarkdownWriter{}, rep)
	if !strings.Contains(out, "4 more finding(s) over the naming_convention threshold omitted") {
		t.Errorf("missing truncation note:\n%s", out)
	}
}

func TestMarkdown_AutoRejectFooter(t *testing.T) {
	rep := sampleReport()
	out := render(t, &MarkdownWriter{}, rep)
	if strings.Contains(out, "auto-reject threshold exceeded") {
		t.Errorf("auto-reject note shown on accepted report:\n%s", out)
	}

	rep.AutoReject = true
	out = render(t, &MarkdownWriter{}, rep)
	if !strings.Contains(out, "auto-reject threshold exceeded") {
		t.Errorf("missing auto-reject note:\n%s", out)
	}
}

func TestText_FailedAndCleanSections(t *testing.T) {
	out := render(t, &TextWriter{}, sampleReport())

	if !strings.Contains(out, "complexity [radon]: FAILED (exec: radon: not found)") {
		t.Errorf("missing failed line:\n%s", out)
	}
	if !strings.Contains(out, "security [bandit]: 0 finding(s)") {
		t.Errorf("missing clean zero-finding line:\n%s", out)
	}
	if !strings.Contains(out, "total violations: 1") {
		t.Errorf("missing total line:\n%s", out)
	}
}

func TestJSON_RoundTripsReport(t *testing.T) {
	out := render(t, &JSONWriter{}, sampleReport())

	var decoded report.Report
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.OverallViolations != 1 {
		t.Errorf("OverallViolations = %d", decoded.OverallViolations)
	}
	if decoded.Sections[1].Status != analyzers.StatusFailed {
		t.Errorf("failed status lost in JSON: %+v", decoded.Sections[1])
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"", "text", "markdown", "json"} {
		if _, err := GetWriter(format); err != nil {
			t.Errorf("GetWriter(%q) error: %v", format, err)
		}
	}
	if _, err := GetWriter("xml"); err == nil {
		t.Error("GetWriter(xml) should fail")
	}
}
