package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vibe-digest/internal/fragment"
	"github.com/inodb/vibe-digest/internal/plan"
)

// DisplayWriter draws each fragment as two aligned strands.
//
//	>sticky 1/2 p=0..1 c=0..3
//	5' AC   3'
//	3' TGCA 5'
type DisplayWriter struct {
	w *bufio.Writer
}

// NewDisplayWriter creates a new two-strand display writer.
func NewDisplayWriter(w io.Writer) *DisplayWriter {
	return &DisplayWriter{w: bufio.NewWriter(w)}
}

// WriteHeader is a no-op; every plan carries its own heading.
func (dw *DisplayWriter) WriteHeader() error {
	return nil
}

// Write writes every fragment of a plan.
func (dw *DisplayWriter) Write(p *plan.Plan, frags *fragment.Fragments) error {
	display := frags.ForDisplay()
	for i, df := range display {
		if _, err := fmt.Fprintf(dw.w, ">%s %d/%d p=%s c=%s\n",
			p.ID, i+1, len(display), span(df.PLeft, df.PRight), span(df.CLeft, df.CRight)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(dw.w, "5' %s 3'\n3' %s 5'\n", df.Primary, df.Complement); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (dw *DisplayWriter) Flush() error {
	return dw.w.Flush()
}

func span(left, right *int) string {
	if left == nil {
		return "-"
	}
	return fmt.Sprintf("%d..%d", *left, *right)
}
