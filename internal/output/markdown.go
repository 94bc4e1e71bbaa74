package output

import (
	"fmt"
	"io"

	"vetgate/internal/analyzers"
	"vetgate/internal/report"
)

// MarkdownWriter renders a PR-comment-friendly report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, rep *report.Report) error {
	fmt.Fprintf(w, "# Code Quality Report\n\n")

	fmt.Fprintf(w, "## Rule-based Violations\n\n")
	for _, s := range rep.Sections {
		fmt.Fprintf(w, "### %s (%d)\n\n", s.Category, len(s.Findings))
		switch s.Status {
		case analyzers.StatusFailed:
			fmt.Fprintf(w, "> :warning: %s did not run: %s\n\n", s.Tool, s.ErrorDetail)
			continue
		case analyzers.StatusTimedOut:
			fmt.Fprintf(w, "> :warning: %s timed out; results for this category are missing.\n\n", s.Tool)
			continue
		}
		for _, f := range s.Findings {
			fmt.Fprintf(w, "- %s\n", findingLine(f))
		}
		if s.Truncated > 0 {
			fmt.Fprintf(w, "- *(%d more finding(s) over the %s threshold omitted)*\n", s.Truncated, s.Category)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "## AI Suggestions\n\n")
	switch {
	case rep.AI.Status == report.AIStatusFailed:
		fmt.Fprintf(w, "> :warning: AI review unavailable: %s\n\n", rep.AI.ErrorDetail)
	case rep.AI.Gated:
		fmt.Fprintf(w, "*Skipped AI feedback (confidence %.2f below threshold).*\n\n", rep.AI.Score)
	case len(rep.AI.Suggestions) == 0:
		fmt.Fprintf(w, "*No AI suggestions (confidence %.2f).*\n\n", rep.AI.Score)
	default:
		for _, s := range rep.AI.Suggestions {
			fmt.Fprintf(w, "- %s\n", s.Text)
		}
		fmt.Fprintf(w, "\n*Model confidence: %.2f*\n\n", rep.AI.Score)
	}

	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "**Total violations: %d**", rep.OverallViolations)
	if rep.AutoReject {
		fmt.Fprintf(w, " :no_entry: auto-reject threshold exceeded")
	}
	fmt.Fprintln(w)
	return nil
}

func findingLine(f analyzers.Finding) string {
	switch {
	case f.Line > 0 && f.Function != "":
		return fmt.Sprintf("`%s:%d` %s (%s)", f.File, f.Line, f.Description, f.Function)
	case f.Line > 0:
		return fmt.Sprintf("`%s:%d` %s", f.File, f.Line, f.Description)
	case f.File != "":
		return fmt.Sprintf("`%s` %s", f.File, f.Description)
	default:
		return f.Description
	}
}
