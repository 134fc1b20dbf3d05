package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"postcodelookup/internal/config"
	"postcodelookup/pkg/contracts/domain"
)

// FormatMissingReport renders the missing-data sets as plain text. An empty
// report renders as the empty string.
func FormatMissingReport(m domain.MissingData) string {
	if m.Empty() {
		return ""
	}

	var b strings.Builder
	section := func(title string, postcodes []string) {
		if len(postcodes) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%d):\n", title, len(postcodes))
		for _, p := range postcodes {
			b.WriteString(p)
			b.WriteString("\n")
		}
	}

	section("Postcodes with no output area", m.UnresolvedPostcodes)
	section("Postcodes in output areas missing from variable data", m.SuppressedPostcodes)

	if len(m.SuppressedByVariable) > 0 {
		names := make([]string, 0, len(m.SuppressedByVariable))
		for name := range m.SuppressedByVariable {
			names = append(names, name)
		}
		sort.Sort(natural.StringSlice(names))

		b.WriteString("\nBy variable:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %s\n", name, strings.Join(m.SuppressedByVariable[name], domain.PostcodeSeparator))
		}
	}
	return b.String()
}

// WriteMissingReport writes the report only when there is something to
// report. It returns the written path, or "" when nothing was written.
func WriteMissingReport(paths *config.Paths, filePath string, m domain.MissingData) (string, error) {
	report := FormatMissingReport(m)
	if report == "" {
		slog.Debug("No missing data to report")
		return "", nil
	}

	fullPath := filePath
	if paths != nil {
		fullPath = paths.GetOutputPath(filePath)
	}
	err := WriteFileAtomic(fullPath, func(w io.Writer) error {
		_, err := io.WriteString(w, report)
		return err
	})
	if err != nil {
		return "", err
	}
	return fullPath, nil
}
