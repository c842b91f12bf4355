// Package report prints the outcome of a reference vs Wikipedia comparison.
package report

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/ultimate-geography/ugwp/internal/reconcile"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatCSV}
}

// ValidFormat reports whether f is a supported format.
func ValidFormat(f string) bool {
	return slices.Contains(Formats(), f)
}

// Report is everything a printer needs.
type Report struct {
	Generated time.Time
	Source    string
	Snapshot  string
	Summary   *reconcile.Summary
}

// Write prints r to w in the given format.
func Write(w io.Writer, format string, r *Report) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
