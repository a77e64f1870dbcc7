// package formatter renders a result snapshot to CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/desertthunder/spotsearch/internal/results"
	"github.com/desertthunder/spotsearch/internal/shared"
)

// Format names an export format accepted by --format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// ParseFormat accepts a format name in any case; "md" is an alias for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Export renders snap in the given format.
func Export(snap results.Snapshot, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return ExportToText(snap)
	case FormatJSON:
		return ExportToJSON(snap)
	case FormatCSV:
		return ExportToCSV(snap)
	case FormatMarkdown:
		return ExportToMarkdown(snap)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
}

// ExportToCSV converts a snapshot to CSV with columns: ID, Type, Title, Subtitle, Extra, Cover
func ExportToCSV(snap results.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Type", "Title", "Subtitle", "Extra", "Cover"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range snap.Items {
		record := []string{item.ID, item.Kind.String(), item.Title, item.Subtitle, item.Extra, item.CoverURL}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a snapshot to a Markdown list with cover thumbnails
func ExportToMarkdown(snap results.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s results\n\n", snap.Kind.Label()))
	buf.WriteString(fmt.Sprintf("**Found**: %d\n\n", snap.Len()))

	for i, item := range snap.Items {
		buf.WriteString(fmt.Sprintf("%d. **%s**", i+1, escapeMarkdown(item.Title)))
		if line := item.Line(); line != "" {
			buf.WriteString(" - " + escapeMarkdown(line))
		}
		buf.WriteString("\n")
		if item.CoverURL != "" {
			buf.WriteString(fmt.Sprintf("   ![%s](%s)\n", escapeMarkdown(item.Title), item.CoverURL))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a snapshot to plain numbered lines
func ExportToText(snap results.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s results: %d\n\n", snap.Kind.Label(), snap.Len()))
	for i, item := range snap.Items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, item.Title, item.Line()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a snapshot to indented JSON. Raw resource JSON is left out.
func ExportToJSON(snap results.Snapshot) ([]byte, error) {
	stripped := results.Snapshot{Kind: snap.Kind, Items: make([]models.Item, len(snap.Items))}
	for i, item := range snap.Items {
		item.Raw = nil
		stripped.Items[i] = item
	}
	return shared.MarshalJSON(stripped, true)
}

// WriteExport renders snap and writes it to path.
//
// Defaults to {kind}_results.{ext} when path is empty.
func WriteExport(snap results.Snapshot, f Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_results.%s", snap.Kind, Extension(f))
	}

	data, err := Export(snap, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

// Extension returns the file extension used for f.
func Extension(f Format) string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	}
	return string(f)
}

var markdownEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`)

func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }
