package output

import (
	"fmt"
	"io"
	"os"

	"vetgate/internal/report"
)

// Writer renders a report in one format.
type Writer interface {
	Write(w io.Writer, rep *report.Report) error
}

// GetWriter returns the renderer for a format name.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "", "text":
		return &TextWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport renders the report to outPath, or stdout when outPath is
// empty.
func WriteReport(rep *report.Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return writer.Write(w, rep)
}
