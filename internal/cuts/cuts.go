// Package cuts turns registered cut ranges into per-index cut sets.
//
// Positions are 0-based offsets into a sequence of a known size. A vertical
// cut at i severs the backbone between i and i+1; -1 denotes the boundary in
// front of index 0.
package cuts

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/inodb/vibe-digest/internal/cutrange"
)

var (
	// ErrNoSize is returned when cuts are resolved without a sequence size.
	ErrNoSize = errors.New("sequence size must be positive")
	// ErrOutOfRange is returned when a cut lies outside [-1, size-1].
	ErrOutOfRange = errors.New("cut position out of range")
)

// CalculatedCuts holds the vertical cuts of each strand and the indices
// where the strands are detached from each other.
type CalculatedCuts struct {
	size     int
	circular bool
	origin   int

	vcPrimary        []int
	vcComplement     []int
	hcBetweenStrands []int
}

// New creates an empty set of cuts for a sequence of the given size.
func New(size int) *CalculatedCuts {
	return &CalculatedCuts{size: size}
}

// SetCircular configures whether the sequence is circular.
func (cc *CalculatedCuts) SetCircular(circular bool) {
	cc.circular = circular
}

// VCPrimary returns the sorted primary-strand cut positions.
func (cc *CalculatedCuts) VCPrimary() []int { return cc.vcPrimary }

// VCComplement returns the sorted complement-strand cut positions.
func (cc *CalculatedCuts) VCComplement() []int { return cc.vcComplement }

// HCBetweenStrands returns the sorted indices where strands are detached.
func (cc *CalculatedCuts) HCBetweenStrands() []int { return cc.hcBetweenStrands }

// Origin returns the index a circular scan starts from: the position after
// the last surviving vertical cut. It is 0 for linear sequences.
func (cc *CalculatedCuts) Origin() int { return cc.origin }

// AddCutsFromCutRanges records the cut positions of every range.
// A staggered vertical cut also detaches the strands between its outermost
// positions, Min()+1 through Max().
func (cc *CalculatedCuts) AddCutsFromCutRanges(ranges cutrange.CutRanges) {
	for _, r := range ranges {
		switch cr := r.(type) {
		case *cutrange.VerticalCutRange:
			cc.vcPrimary = append(cc.vcPrimary, cr.Primary()...)
			cc.vcComplement = append(cc.vcComplement, cr.Complement()...)
			for i := cr.Min() + 1; i <= cr.Max(); i++ {
				cc.hcBetweenStrands = append(cc.hcBetweenStrands, i)
			}
		case *cutrange.HorizontalCutRange:
			for i := cr.Left; i <= cr.Right; i++ {
				cc.hcBetweenStrands = append(cc.hcBetweenStrands, i)
			}
		}
	}
	cc.clean()
}

// RemoveIncompleteCuts drops cuts that cannot release a fragment.
//
// A run of detached indices survives only if it starts right after a
// vertical cut and ends on one, on either strand. For linear sequences
// both ends of the sequence count as cuts. A vertical cut survives when
// the opposing strand is cut at the same position or when it borders a
// surviving detached run.
func (cc *CalculatedCuts) RemoveIncompleteCuts() error {
	if cc.size <= 0 {
		return ErrNoSize
	}
	last := cc.size - 1
	for _, set := range [][]int{cc.vcPrimary, cc.vcComplement, cc.hcBetweenStrands} {
		for _, i := range set {
			if i < -1 || i > last {
				return fmt.Errorf("%w: %d not in [-1, %d]", ErrOutOfRange, i, last)
			}
		}
	}

	if !cc.circular {
		cc.vcPrimary, cc.vcComplement, cc.hcBetweenStrands =
			filterIncomplete(cc.vcPrimary, cc.vcComplement, cc.hcBetweenStrands, last, false)
		cc.origin = 0
		return nil
	}

	all := union(cc.vcPrimary, cc.vcComplement)
	if len(all) == 0 {
		cc.hcBetweenStrands = nil
		cc.origin = 0
		return nil
	}

	// Rotate so the last cut sits on the final index; the circle then
	// behaves like a linear sequence whose leading boundary is that cut.
	shift := all[len(all)-1] + 1
	rotate := func(set []int, by int) []int {
		out := make([]int, len(set))
		for i, v := range set {
			out[i] = mod(v+by, cc.size)
		}
		slices.Sort(out)
		return slices.Compact(out)
	}

	p, c, h := filterIncomplete(
		rotate(cc.vcPrimary, -shift),
		rotate(cc.vcComplement, -shift),
		rotate(cc.hcBetweenStrands, -shift),
		last,
		true,
	)
	cc.vcPrimary = rotate(p, shift)
	cc.vcComplement = rotate(c, shift)
	cc.hcBetweenStrands = rotate(h, shift)

	cc.origin = 0
	if kept := union(p, c); len(kept) > 0 {
		cc.origin = mod(kept[len(kept)-1]+1+shift, cc.size)
	}
	return nil
}

// StrandsForDisplay renders both strands with '|' after every vertical cut
// and a connector line marking where the strands are detached.
func (cc *CalculatedCuts) StrandsForDisplay(primary, complement string) (string, string, string) {
	pCut := toSet(cc.vcPrimary)
	cCut := toSet(cc.vcComplement)
	hCut := toSet(cc.hcBetweenStrands)

	var p, mid, c strings.Builder
	for i := 0; i < cc.size; i++ {
		p.WriteByte(charAt(primary, i))
		c.WriteByte(charAt(complement, i))
		if hCut[i] {
			mid.WriteByte('-')
		} else {
			mid.WriteByte(' ')
		}

		if i == cc.size-1 {
			break
		}
		p.WriteByte(marker(pCut[i], '|'))
		c.WriteByte(marker(cCut[i], '|'))
		switch {
		case (pCut[i] || cCut[i]) && (hCut[i] || hCut[i+1]):
			mid.WriteByte('+')
		case hCut[i] && hCut[i+1]:
			mid.WriteByte('-')
		default:
			mid.WriteByte(' ')
		}
	}

	trim := func(s string) string { return strings.TrimRight(s, " ") }
	return trim(p.String()), trim(mid.String()), trim(c.String())
}

func (cc *CalculatedCuts) clean() {
	for _, set := range []*[]int{&cc.vcPrimary, &cc.vcComplement, &cc.hcBetweenStrands} {
		slices.Sort(*set)
		*set = slices.Compact(*set)
	}
}

// filterIncomplete implements RemoveIncompleteCuts on sorted, unique sets
// for the index space 0..last. When wrap is set, index 0 follows last.
func filterIncomplete(vcP, vcC, hc []int, last int, wrap bool) ([]int, []int, []int) {
	vcuts := toSet(union(vcP, vcC))
	vcuts[-1] = true
	vcuts[last] = true

	var good, potential []int
	for _, h := range hc {
		if len(potential) > 0 && h-potential[len(potential)-1] > 1 {
			potential = potential[:0]
		}

		if len(potential) == 0 {
			switch {
			case vcuts[h] && vcuts[h-1]:
				good = append(good, h)
			case vcuts[h-1]:
				potential = append(potential, h)
			}
			continue
		}

		potential = append(potential, h)
		if vcuts[h] {
			good = append(good, potential...)
			potential = potential[:0]
		}
	}

	goodSet := toSet(good)
	keep := func(vc, opposing []int) []int {
		opp := toSet(opposing)
		var out []int
		for _, v := range vc {
			next := v + 1
			if wrap && next > last {
				next = 0
			}
			if opp[v] || goodSet[v] || goodSet[next] {
				out = append(out, v)
			}
		}
		return out
	}

	return keep(vcP, vcC), keep(vcC, vcP), good
}

func union(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}

func toSet(s []int) map[int]bool {
	m := make(map[int]bool, len(s))
	for _, v := range s {
		m[v] = true
	}
	return m
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

func charAt(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return '.'
}

func marker(on bool, b byte) byte {
	if on {
		return b
	}
	return ' '
}
