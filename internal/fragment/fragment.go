// Package fragment holds the pieces a cut sequence falls apart into.
package fragment

import (
	"slices"
	"strings"
)

// Column is one position of a fragment as laid out left to right. A column
// may carry the primary strand, the complement strand, or both.
type Column struct {
	Index      int
	Primary    bool
	Complement bool
}

// Fragment is one physically contiguous piece of a cut sequence.
type Fragment struct {
	Primary    []int // primary-strand indices, in layout order
	Complement []int // complement-strand indices, in layout order

	// Layout places both strands side by side. When nil, the sorted union
	// of Primary and Complement is used.
	Layout []Column
}

// DisplayFragment is a fragment rendered against strand text. A blank marks
// a column where that strand is absent.
type DisplayFragment struct {
	Primary    string
	Complement string

	PLeft, PRight *int
	CLeft, CRight *int
}

// Columns returns the fragment layout, deriving it when not recorded.
func (f Fragment) Columns() []Column {
	if f.Layout != nil {
		return f.Layout
	}

	p := make(map[int]bool, len(f.Primary))
	for _, i := range f.Primary {
		p[i] = true
	}
	c := make(map[int]bool, len(f.Complement))
	for _, i := range f.Complement {
		c[i] = true
	}

	all := append(slices.Clone(f.Primary), f.Complement...)
	slices.Sort(all)
	all = slices.Compact(all)

	cols := make([]Column, len(all))
	for i, idx := range all {
		cols[i] = Column{Index: idx, Primary: p[idx], Complement: c[idx]}
	}
	return cols
}

// DoubleStranded reports whether both strands are present.
func (f Fragment) DoubleStranded() bool {
	return len(f.Primary) > 0 && len(f.Complement) > 0
}

// ForDisplay renders the fragment against the given strand text.
func (f Fragment) ForDisplay(primary, complement string) DisplayFragment {
	var p, c strings.Builder
	for _, col := range f.Columns() {
		if col.Primary {
			p.WriteByte(charAt(primary, col.Index))
		} else {
			p.WriteByte(' ')
		}
		if col.Complement {
			c.WriteByte(charAt(complement, col.Index))
		} else {
			c.WriteByte(' ')
		}
	}

	df := DisplayFragment{Primary: p.String(), Complement: c.String()}
	df.PLeft, df.PRight = ends(f.Primary)
	df.CLeft, df.CRight = ends(f.Complement)
	return df
}

// Equal reports whether two fragments cover the same indices in the same order.
func (f Fragment) Equal(o Fragment) bool {
	return slices.Equal(f.Primary, o.Primary) &&
		slices.Equal(f.Complement, o.Complement) &&
		slices.Equal(f.Columns(), o.Columns())
}

func ends(s []int) (*int, *int) {
	if len(s) == 0 {
		return nil, nil
	}
	first, last := s[0], s[len(s)-1]
	return &first, &last
}

func charAt(s string, i int) byte {
	if i >= 0 && i < len(s) {
		return s[i]
	}
	return '.'
}
