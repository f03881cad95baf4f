// Package seqrange assembles the fragments produced by cutting a
// double-stranded sequence.
//
// A SequenceRange holds the bounds of the primary and complement strands and
// the cut ranges registered against them. Fragments partitions every index
// of both strands into contiguous pieces and memoizes the result until the
// next cut is registered.
package seqrange

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/vibe-digest/internal/cuts"
	"github.com/inodb/vibe-digest/internal/cutrange"
	"github.com/inodb/vibe-digest/internal/fragment"
)

var (
	// ErrInvalidBounds is returned for strand bounds that do not describe a range.
	ErrInvalidBounds = errors.New("invalid sequence bounds")
	// ErrOutOfRange is returned for cut coordinates outside [Left, Right].
	ErrOutOfRange = errors.New("cut position outside sequence range")
	// ErrNotCutRange is returned when bulk registration receives a foreign value.
	ErrNotCutRange = errors.New("not a cut range")
)

// CutCalculator resolves registered cut ranges into per-index cut sets.
// *cuts.CalculatedCuts is the production implementation.
type CutCalculator interface {
	AddCutsFromCutRanges(cutrange.CutRanges)
	RemoveIncompleteCuts() error
	VCPrimary() []int
	VCComplement() []int
	HCBetweenStrands() []int
	Origin() int
}

func newCalculatedCuts(size int, circular bool) CutCalculator {
	cc := cuts.New(size)
	cc.SetCircular(circular)
	return cc
}

// SequenceRange is a double-stranded sequence with independently bounded
// strands. Nil bounds are undefined.
type SequenceRange struct {
	PLeft, PRight *int
	CLeft, CRight *int

	// Left and Right are the envelope of both strands.
	Left, Right int
	Size        int

	mu        sync.Mutex
	circular  bool
	cutRanges cutrange.CutRanges
	frags     *fragment.Fragments // nil when stale

	calculator func(size int, circular bool) CutCalculator
	logger     *zap.Logger
}

// New creates a sequence range from the four strand bounds. At least one
// left and one right bound must be set, and each strand's left must not
// exceed its right.
func New(pLeft, pRight, cLeft, cRight *int) (*SequenceRange, error) {
	if pLeft == nil && cLeft == nil {
		return nil, fmt.Errorf("%w: no left bound on either strand", ErrInvalidBounds)
	}
	if pRight == nil && cRight == nil {
		return nil, fmt.Errorf("%w: no right bound on either strand", ErrInvalidBounds)
	}
	if pLeft != nil && pRight != nil && *pLeft > *pRight {
		return nil, fmt.Errorf("%w: primary left %d > right %d", ErrInvalidBounds, *pLeft, *pRight)
	}
	if cLeft != nil && cRight != nil && *cLeft > *cRight {
		return nil, fmt.Errorf("%w: complement left %d > right %d", ErrInvalidBounds, *cLeft, *cRight)
	}

	sr := &SequenceRange{
		PLeft:      copyBound(pLeft),
		PRight:     copyBound(pRight),
		CLeft:      copyBound(cLeft),
		CRight:     copyBound(cRight),
		calculator: newCalculatedCuts,
		logger:     zap.NewNop(),
	}
	sr.Left = envelope(pLeft, cLeft, true)
	sr.Right = envelope(pRight, cRight, false)
	sr.Size = sr.Right - sr.Left + 1
	return sr, nil
}

// NewLinear creates a sequence range whose strands share the same bounds.
func NewLinear(left, right int) (*SequenceRange, error) {
	return New(&left, &right, &left, &right)
}

// SetLogger sets the logger for debug messages.
func (sr *SequenceRange) SetLogger(l *zap.Logger) {
	sr.logger = l
}

// SetCircular configures the topology and invalidates cached fragments.
func (sr *SequenceRange) SetCircular(circular bool) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.circular = circular
	sr.frags = nil
}

// Circular reports whether the sequence is circular.
func (sr *SequenceRange) Circular() bool {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return sr.circular
}

// CutRanges returns a copy of the registered cut ranges.
func (sr *SequenceRange) CutRanges() cutrange.CutRanges {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return append(cutrange.CutRanges(nil), sr.cutRanges...)
}

// AddCutRange registers a vertical cut. A cut occurs immediately after the
// index supplied: a cut at 0 falls between 0 and 1.
func (sr *SequenceRange) AddCutRange(pCutLeft, pCutRight, cCutLeft, cCutRight *int) error {
	for _, c := range []*int{pCutLeft, pCutRight, cCutLeft, cCutRight} {
		if c != nil {
			if err := sr.checkBounds(*c); err != nil {
				return err
			}
		}
	}

	v, err := cutrange.NewVertical(pCutLeft, pCutRight, cCutLeft, cCutRight)
	if err != nil {
		return err
	}
	sr.append(v)
	return nil
}

// AddCut registers an already built cut range.
func (sr *SequenceRange) AddCut(cr cutrange.CutRange) error {
	if err := sr.validate(cr); err != nil {
		return err
	}
	sr.append(cr)
	return nil
}

// AddCutRanges registers several cut ranges at once. Items may be
// cutrange.CutRange values or nested slices of them. Nothing is registered
// unless every item is valid.
func (sr *SequenceRange) AddCutRanges(items ...any) error {
	flat, err := flatten(items)
	if err != nil {
		return err
	}
	for _, cr := range flat {
		if err := sr.validate(cr); err != nil {
			return err
		}
	}
	sr.append(flat...)
	return nil
}

// AddHorizontalCutRange detaches the strands over left..right inclusive.
// right defaults to left.
func (sr *SequenceRange) AddHorizontalCutRange(left int, right ...int) error {
	h, err := cutrange.NewHorizontal(left, right...)
	if err != nil {
		return err
	}
	return sr.AddCut(h)
}

// Fragments returns the fragments produced by all registered cuts.
// The result is cached until another cut is registered.
func (sr *SequenceRange) Fragments() (*fragment.Fragments, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if sr.frags != nil {
		return sr.frags, nil
	}

	placeholder := placeholderSequence(sr.Size)
	frags := fragment.New(placeholder, placeholder)

	cc := sr.calculator(sr.Size, sr.circular)
	cc.AddCutsFromCutRanges(sr.cutRanges.Shift(-sr.Left))
	if err := cc.RemoveIncompleteCuts(); err != nil {
		return nil, fmt.Errorf("resolve cuts: %w", err)
	}

	var bins map[int]*bin
	if sr.circular {
		bins = createCircularBins(sr.Size, cc)
	} else {
		bins = createBins(sr.Size, cc)
	}

	for _, id := range sortedIDs(bins) {
		b := bins[id]
		frags.Append(fragment.Fragment{Primary: b.p, Complement: b.c, Layout: b.layout})
	}

	sr.logger.Debug("computed fragments",
		zap.Int("size", sr.Size),
		zap.Int("cut_ranges", len(sr.cutRanges)),
		zap.Bool("circular", sr.circular),
		zap.Int("fragments", frags.Len()))

	sr.frags = frags
	return frags, nil
}

// CutMap draws primary and complement with the resolved cuts between their
// letters: '|' after a vertical cut and '-' where the strands are detached.
// Both texts are indexed from Left.
func (sr *SequenceRange) CutMap(primary, complement string) (p, mid, c string, err error) {
	sr.mu.Lock()
	ranges := sr.cutRanges.Shift(-sr.Left)
	sr.mu.Unlock()

	cc := cuts.New(sr.Size)
	cc.SetCircular(sr.circular)
	cc.AddCutsFromCutRanges(ranges)
	if err := cc.RemoveIncompleteCuts(); err != nil {
		return "", "", "", fmt.Errorf("resolve cuts: %w", err)
	}
	p, mid, c = cc.StrandsForDisplay(primary, complement)
	return p, mid, c, nil
}

func (sr *SequenceRange) append(crs ...cutrange.CutRange) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.cutRanges = append(sr.cutRanges, crs...)
	sr.frags = nil
}

func (sr *SequenceRange) validate(cr cutrange.CutRange) error {
	if cr == nil {
		return fmt.Errorf("%w: nil", ErrNotCutRange)
	}
	for _, c := range cr.Coordinates() {
		if err := sr.checkBounds(c); err != nil {
			return err
		}
	}
	return nil
}

func (sr *SequenceRange) checkBounds(i int) error {
	if i < sr.Left || i > sr.Right {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, i, sr.Left, sr.Right)
	}
	return nil
}

func flatten(items []any) ([]cutrange.CutRange, error) {
	var out []cutrange.CutRange
	for _, item := range items {
		switch v := item.(type) {
		case cutrange.CutRange:
			out = append(out, v)
		case cutrange.CutRanges:
			out = append(out, v...)
		case []cutrange.CutRange:
			out = append(out, v...)
		case []any:
			nested, err := flatten(v)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		default:
			return nil, fmt.Errorf("%w: %T", ErrNotCutRange, item)
		}
	}
	return out, nil
}

// placeholderSequence returns size characters of repeating digits.
func placeholderSequence(size int) string {
	const digits = "0123456789"
	b := make([]byte, size)
	for i := range b {
		b[i] = digits[i%len(digits)]
	}
	return string(b)
}

// envelope returns the lower (or upper) of the defined bounds a and b.
func envelope(a, b *int, lower bool) int {
	switch {
	case a == nil:
		return *b
	case b == nil:
		return *a
	case lower:
		return min(*a, *b)
	default:
		return max(*a, *b)
	}
}

func copyBound(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
