package output

import (
	"fmt"
	"io"

	"vetgate/internal/analyzers"
	"vetgate/internal/report"
)

// TextWriter renders a plain terminal report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, rep *report.Report) error {
	fmt.Fprintf(w, "vetgate review report\n")
	fmt.Fprintf(w, "=====================\n\n")

	for _, s := range rep.Sections {
		fmt.Fprintf(w, "%s [%s]: ", s.Category, s.Tool)
		switch s.Status {
		case analyzers.StatusFailed:
			fmt.Fprintf(w, "FAILED (%s)\n", s.ErrorDetail)
			continue
		case analyzers.StatusTimedOut:
			fmt.Fprintf(w, "TIMED OUT\n")
			continue
		}
		fmt.Fprintf(w, "%d finding(s)\n", len(s.Findings))
		for _, f := range s.Findings {
			fmt.Fprintf(w, "  %s\n", findingLine(f))
		}
		if s.Truncated > 0 {
			fmt.Fprintf(w, "  (%d more over threshold omitted)\n", s.Truncated)
		}
	}

	fmt.Fprintf(w, "\nai review: ")
	switch {
	case rep.AI.Status == report.AIStatusFailed:
		fmt.Fprintf(w, "FAILED (%s)\n", rep.AI.ErrorDetail)
	case rep.AI.Gated:
		fmt.Fprintf(w, "suggestions withheld (confidence %.2f below threshold)\n", rep.AI.Score)
	case len(rep.AI.Suggestions) == 0:
		fmt.Fprintf(w, "no suggestions (confidence %.2f)\n", rep.AI.Score)
	default:
		fmt.Fprintf(w, "%d suggestion(s), confidence %.2f\n", len(rep.AI.Suggestions), rep.AI.Score)
		for _, s := range rep.AI.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s.Text)
		}
	}

	fmt.Fprintf(w, "\ntotal violations: %d\n", rep.OverallViolations)
	if rep.AutoReject {
		fmt.Fprintf(w, "auto-reject: threshold exceeded\n")
	}
	return nil
}
