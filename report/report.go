// Package report renders coding results for people and for other tools.
//
// Three formats are supported: [FormatText] renders aligned columns,
// [FormatJSON] and [FormatYAML] render the values with their field tags.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"golang.org/x/term"

	"github.com/qualdocs/qualdocs/coding"
)

// Format is an output format name.
type Format string

const (
	// FormatText renders aligned, tab-separated columns.
	FormatText Format = "text"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

var (
	// ErrUnknownFormat indicates an unrecognized output format string.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrWriteOutput indicates the output could not be written.
	ErrWriteOutput = errors.New("write output")
)

var allFormats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat parses a case-insensitive output format name.
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	for _, known := range allFormats {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// GetAllFormatStrings returns every accepted format name.
func GetAllFormatStrings() []string {
	out := make([]string, 0, len(allFormats))
	for _, f := range allFormats {
		out = append(out, string(f))
	}

	return out
}

// DefaultFormat returns [FormatText] when f is a terminal and [FormatJSON]
// otherwise.
func DefaultFormat(f *os.File) Format {
	if term.IsTerminal(int(f.Fd())) { //nolint:gosec // File descriptors fit in an int.
		return FormatText
	}

	return FormatJSON
}

// Writer writes reports in one [Format].
type Writer struct {
	w      io.Writer
	format Format
}

// NewWriter creates a [Writer] for w.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Table writes every record of t in table order.
func (w *Writer) Table(t *coding.Table) error {
	records := t.Records()
	if records == nil {
		records = []coding.Record{}
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Code, r.Subcode, r.SubSubcode, r.Document, r.Annotator, r.Text})
	}

	return w.Write(records, []string{"code", "subcode", "sub_subcode", "document", "annotator", "text"}, rows)
}

// Codes writes a flattened code list, one code per line in text format.
func (w *Writer) Codes(codes []string) error {
	if codes == nil {
		codes = []string{}
	}

	rows := make([][]string, 0, len(codes))
	for _, c := range codes {
		rows = append(rows, []string{c})
	}

	return w.Write(codes, nil, rows)
}

// Counts writes ranked code counts.
func (w *Writer) Counts(counts []coding.CodeCount) error {
	if counts == nil {
		counts = []coding.CodeCount{}
	}

	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{strconv.Itoa(c.Count), c.Code})
	}

	return w.Write(counts, []string{"count", "code"}, rows)
}

// Codings writes the result of parsing a single annotation.
func (w *Writer) Codings(codings []coding.Coding) error {
	if codings == nil {
		codings = []coding.Coding{}
	}

	rows := make([][]string, 0, len(codings))
	for _, c := range codings {
		rows = append(rows, []string{c.Code, c.Text})
	}

	return w.Write(codings, []string{"code", "text"}, rows)
}

// Write renders v in JSON or YAML, or header and rows in text format.
// A nil header omits the header line.
func (w *Writer) Write(v any, header []string, rows [][]string) error {
	var err error

	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)

	case FormatYAML:
		var out []byte

		out, err = yaml.Marshal(v)
		if err == nil {
			_, err = w.w.Write(out)
		}

	default:
		err = w.text(header, rows)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

func (w *Writer) text(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w.w, 0, 0, 2, ' ', 0)

	if header != nil {
		cols := make([]string, 0, len(header))
		for _, h := range header {
			cols = append(cols, strings.ToUpper(h))
		}

		_, err := fmt.Fprintln(tw, strings.Join(cols, "\t"))
		if err != nil {
			return err
		}
	}

	for _, row := range rows {
		cols := make([]string, 0, len(row))
		for _, c := range row {
			cols = append(cols, cellReplacer.Replace(c))
		}

		_, err := fmt.Fprintln(tw, strings.Join(cols, "\t"))
		if err != nil {
			return err
		}
	}

	return tw.Flush()
}

var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ")
