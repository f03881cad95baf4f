package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/inodb/vibe-digest/internal/fragment"
	"github.com/inodb/vibe-digest/internal/plan"
)

// SummaryWriter writes one aligned row of fragment counts per plan.
type SummaryWriter struct {
	w              *tabwriter.Writer
	plans          int
	fragments      int
	singleStranded int
}

// NewSummaryWriter creates a new summary writer.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{
		w: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
	}
}

// WriteHeader writes the summary table header.
func (s *SummaryWriter) WriteHeader() error {
	_, err := fmt.Fprintln(s.w, "Plan\tTopology\tFragments\tDouble_stranded\tSingle_stranded")
	return err
}

// Write writes the counts for one plan.
func (s *SummaryWriter) Write(p *plan.Plan, frags *fragment.Fragments) error {
	s.plans++

	ds := 0
	for _, f := range frags.All() {
		if f.DoubleStranded() {
			ds++
		}
	}
	ss := frags.Len() - ds
	s.fragments += frags.Len()
	s.singleStranded += ss

	topology := "linear"
	if p.Circular {
		topology = "circular"
	}

	_, err := fmt.Fprintf(s.w, "%s\t%s\t%d\t%d\t%d\n", p.ID, topology, frags.Len(), ds, ss)
	return err
}

// Flush flushes the writer.
func (s *SummaryWriter) Flush() error {
	return s.w.Flush()
}

// Summary returns totals across all plans written.
func (s *SummaryWriter) Summary() (plans, fragments, singleStranded int) {
	return s.plans, s.fragments, s.singleStranded
}

// WriteSummary writes the totals.
func (s *SummaryWriter) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "\nDigest Summary:\n")
	fmt.Fprintf(w, "  Plans:            %d\n", s.plans)
	fmt.Fprintf(w, "  Fragments:        %d\n", s.fragments)
	fmt.Fprintf(w, "  Single-stranded:  %d\n", s.singleStranded)
}
