// Package output provides fragment output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-digest/internal/fragment"
	"github.com/inodb/vibe-digest/internal/plan"
)

// TabWriter writes fragments in tab-delimited format, one row per fragment.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Plan",
			"Fragment",
			"P_left",
			"P_right",
			"C_left",
			"C_right",
			"Primary",
			"Complement",
			"Double_stranded",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes every fragment of a plan.
func (tw *TabWriter) Write(p *plan.Plan, frags *fragment.Fragments) error {
	for i, df := range frags.ForDisplay() {
		f := frags.At(i)

		ds := "-"
		if f.DoubleStranded() {
			ds = "YES"
		}

		values := []string{
			p.ID,
			strconv.Itoa(i + 1),
			position(df.PLeft),
			position(df.PRight),
			position(df.CLeft),
			position(df.CRight),
			strand(df.Primary),
			strand(df.Complement),
			ds,
		}

		if _, err := tw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func position(i *int) string {
	if i == nil {
		return "-"
	}
	return strconv.Itoa(*i)
}

// strand renders an absent strand as "-" and keeps blanks elsewhere as ".".
func strand(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return strings.ReplaceAll(s, " ", ".")
}
