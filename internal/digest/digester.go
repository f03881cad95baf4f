// Package digest computes the fragments of digest plans.
package digest

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/inodb/vibe-digest/internal/fasta"
	"github.com/inodb/vibe-digest/internal/fragment"
	"github.com/inodb/vibe-digest/internal/plan"
)

var (
	// ErrUnknownSequence is returned when a plan names a sequence that
	// cannot be found.
	ErrUnknownSequence = errors.New("unknown sequence")
	// ErrSequenceTooShort is returned when plan bounds exceed the sequence.
	ErrSequenceTooShort = errors.New("sequence shorter than plan bounds")
)

// SequenceLookup defines the interface for finding sequence text by ID.
type SequenceLookup interface {
	GetSequence(id string) string
}

// Digester turns plans into fragments.
type Digester struct {
	sequences SequenceLookup
	workers   int
	logger    *zap.Logger
}

// NewDigester creates a digester. sequences may be nil when plans carry
// their sequence inline or need no text.
func NewDigester(sequences SequenceLookup) *Digester {
	return &Digester{
		sequences: sequences,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and debug messages.
func (d *Digester) SetLogger(l *zap.Logger) {
	d.logger = l
}

// SetWorkers sets the worker count used by DigestAll. 0 means runtime.NumCPU().
func (d *Digester) SetWorkers(n int) {
	d.workers = n
}

// Digest computes the fragments of a single plan. When the plan has
// sequence text, the fragments are bound to it and its complement;
// otherwise they carry placeholder digits.
func (d *Digester) Digest(p *plan.Plan) (*fragment.Fragments, error) {
	sr, err := p.Build()
	if err != nil {
		return nil, err
	}
	sr.SetLogger(d.logger.With(zap.String("plan", p.ID)))

	frags, err := sr.Fragments()
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", p.ID, err)
	}

	seq, err := d.sequenceFor(p)
	if err != nil {
		return nil, err
	}
	if seq == "" {
		return frags, nil
	}

	text, ok := fasta.Slice(seq, sr.Left, sr.Right)
	if !ok {
		return nil, fmt.Errorf("plan %s: %w: [%d, %d] of %d", p.ID, ErrSequenceTooShort, sr.Left, sr.Right, len(seq))
	}
	return frags.WithSequence(text, fasta.Complement(text)), nil
}

func (d *Digester) sequenceFor(p *plan.Plan) (string, error) {
	if p.Sequence != "" || p.SequenceID == "" {
		return p.Sequence, nil
	}
	if d.sequences == nil {
		return "", fmt.Errorf("plan %s: %w: %s (no FASTA loaded)", p.ID, ErrUnknownSequence, p.SequenceID)
	}
	seq := d.sequences.GetSequence(p.SequenceID)
	if seq == "" {
		return "", fmt.Errorf("plan %s: %w: %s", p.ID, ErrUnknownSequence, p.SequenceID)
	}
	return seq, nil
}

// DigestAll digests every plan from a source and writes the fragments in
// input order. Plans that fail are logged and skipped.
func (d *Digester) DigestAll(src plan.Source, writer FragmentWriter) error {
	workers := d.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	items := make(chan WorkItem, 2*workers)
	var parseErr error
	planCount := 0

	go func() {
		defer close(items)
		seq := 0
		for {
			p, err := src.Next()
			if err != nil {
				parseErr = fmt.Errorf("read plan: %w", err)
				return
			}
			if p == nil {
				return
			}
			planCount++
			items <- WorkItem{Seq: seq, Document: src.Document(), Plan: p}
			seq++
		}
	}()

	results := d.ParallelDigest(items, workers)

	failed := 0
	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			failed++
			d.logger.Warn("failed to digest plan",
				zap.String("plan", r.Plan.ID),
				zap.Int("document", r.Document),
				zap.Error(r.Err))
			return nil
		}
		if err := writer.Write(r.Plan, r.Fragments); err != nil {
			return fmt.Errorf("write fragments: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	if parseErr != nil {
		return parseErr
	}

	d.logger.Info("digest complete",
		zap.Int("plans", planCount),
		zap.Int("failed", failed))

	return writer.Flush()
}

// FragmentWriter defines the interface for writing digest results.
type FragmentWriter interface {
	WriteHeader() error
	Write(p *plan.Plan, frags *fragment.Fragments) error
	Flush() error
}
