package output

import (
	"encoding/json"
	"fmt"
	"io"

	"vetgate/internal/report"
)

// JSONWriter emits the full structured report.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, rep *report.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
