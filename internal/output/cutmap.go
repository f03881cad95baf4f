package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vibe-digest/internal/fragment"
	"github.com/inodb/vibe-digest/internal/plan"
)

// CutMapWriter draws each plan's uncut strands with its resolved cuts.
//
//	>ecori 2 fragments
//	5' G|A A T T C 3'
//	    +-------+
//	3' C T T A A|G 5'
type CutMapWriter struct {
	w *bufio.Writer
}

// NewCutMapWriter creates a new cut map writer.
func NewCutMapWriter(w io.Writer) *CutMapWriter {
	return &CutMapWriter{w: bufio.NewWriter(w)}
}

// WriteHeader is a no-op.
func (cw *CutMapWriter) WriteHeader() error {
	return nil
}

// Write rebuilds the plan's cuts and draws them over the fragment text.
func (cw *CutMapWriter) Write(p *plan.Plan, frags *fragment.Fragments) error {
	sr, err := p.Build()
	if err != nil {
		return err
	}
	primary, mid, complement, err := sr.CutMap(frags.Primary(), frags.Complement())
	if err != nil {
		return fmt.Errorf("plan %s: %w", p.ID, err)
	}

	_, err = fmt.Fprintf(cw.w, ">%s %d fragments\n5' %s 3'\n   %s\n3' %s 5'\n",
		p.ID, frags.Len(), primary, mid, complement)
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (cw *CutMapWriter) Flush() error {
	return cw.w.Flush()
}
