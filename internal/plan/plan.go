// Package plan reads digest plans: a sequence range plus the cuts to apply.
package plan

import (
	"errors"
	"fmt"

	"github.com/inodb/vibe-digest/internal/cutrange"
	"github.com/inodb/vibe-digest/internal/seqrange"
)

// ErrInvalidCut is returned for a cut entry that is neither vertical nor
// horizontal, or both.
var ErrInvalidCut = errors.New("cut must be exactly one of vertical or horizontal")

// Plan describes one sequence and its cuts.
type Plan struct {
	ID       string `yaml:"id"`
	Bounds   Bounds `yaml:"bounds"`
	Circular bool   `yaml:"circular,omitempty"`

	// Sequence is inline primary strand text. SequenceID names a FASTA
	// record instead. Bounds index into either one.
	Sequence   string `yaml:"sequence,omitempty"`
	SequenceID string `yaml:"sequence_id,omitempty"`

	Cuts []Cut `yaml:"cuts,omitempty"`
}

// Bounds are the strand bounds of a plan. Nil means undefined.
type Bounds struct {
	PLeft  *int `yaml:"p_left,omitempty"`
	PRight *int `yaml:"p_right,omitempty"`
	CLeft  *int `yaml:"c_left,omitempty"`
	CRight *int `yaml:"c_right,omitempty"`
}

// Cut is a single cut entry; exactly one field is set.
type Cut struct {
	Vertical   *VerticalCut   `yaml:"vertical,omitempty"`
	Horizontal *HorizontalCut `yaml:"horizontal,omitempty"`
}

// VerticalCut severs backbones immediately after the given indices.
type VerticalCut struct {
	PLeft  *int `yaml:"p_left,omitempty"`
	PRight *int `yaml:"p_right,omitempty"`
	CLeft  *int `yaml:"c_left,omitempty"`
	CRight *int `yaml:"c_right,omitempty"`
}

// HorizontalCut detaches the strands over Left..Right. Right defaults to Left.
type HorizontalCut struct {
	Left  int  `yaml:"left"`
	Right *int `yaml:"right,omitempty"`
}

// CutRange converts the entry into its cut range.
func (c Cut) CutRange() (cutrange.CutRange, error) {
	switch {
	case c.Vertical != nil && c.Horizontal != nil, c.Vertical == nil && c.Horizontal == nil:
		return nil, ErrInvalidCut
	case c.Vertical != nil:
		v := c.Vertical
		return cutrange.NewVertical(v.PLeft, v.PRight, v.CLeft, v.CRight)
	default:
		h := c.Horizontal
		if h.Right == nil {
			return cutrange.NewHorizontal(h.Left)
		}
		return cutrange.NewHorizontal(h.Left, *h.Right)
	}
}

// Build creates the sequence range described by the plan with every cut
// registered. No cut is registered if any of them is invalid.
func (p *Plan) Build() (*seqrange.SequenceRange, error) {
	b := p.Bounds
	sr, err := seqrange.New(b.PLeft, b.PRight, b.CLeft, b.CRight)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", p.ID, err)
	}
	sr.SetCircular(p.Circular)

	ranges := make(cutrange.CutRanges, 0, len(p.Cuts))
	for i, c := range p.Cuts {
		cr, err := c.CutRange()
		if err != nil {
			return nil, fmt.Errorf("plan %s: cut %d: %w", p.ID, i, err)
		}
		ranges = append(ranges, cr)
	}
	if err := sr.AddCutRanges(ranges); err != nil {
		return nil, fmt.Errorf("plan %s: %w", p.ID, err)
	}
	return sr, nil
}
