package fragment

import "slices"

// Fragments is the ordered result of cutting a sequence.
type Fragments struct {
	primary    string
	complement string
	items      []Fragment
}

// New creates an empty collection for the given strand text.
func New(primary, complement string) *Fragments {
	return &Fragments{primary: primary, complement: complement}
}

// Append adds a fragment at the end.
func (fs *Fragments) Append(f Fragment) {
	fs.items = append(fs.items, f)
}

// Len returns the number of fragments.
func (fs *Fragments) Len() int {
	return len(fs.items)
}

// At returns the i-th fragment.
func (fs *Fragments) At(i int) Fragment {
	return fs.items[i]
}

// All returns a copy of the fragments in order.
func (fs *Fragments) All() []Fragment {
	return slices.Clone(fs.items)
}

// Primary returns the primary strand text the fragments were built against.
func (fs *Fragments) Primary() string { return fs.primary }

// Complement returns the complement strand text.
func (fs *Fragments) Complement() string { return fs.complement }

// ForDisplay renders every fragment against the stored strand text.
func (fs *Fragments) ForDisplay() []DisplayFragment {
	return fs.Render(fs.primary, fs.complement)
}

// Render renders every fragment against the given strand text.
func (fs *Fragments) Render(primary, complement string) []DisplayFragment {
	out := make([]DisplayFragment, len(fs.items))
	for i, f := range fs.items {
		out[i] = f.ForDisplay(primary, complement)
	}
	return out
}

// Equal reports whether both collections hold equal fragments in the same order.
func (fs *Fragments) Equal(o *Fragments) bool {
	return slices.EqualFunc(fs.items, o.items, Fragment.Equal)
}

// WithSequence returns a copy of the collection bound to new strand text.
// The fragments themselves are shared.
func (fs *Fragments) WithSequence(primary, complement string) *Fragments {
	return &Fragments{primary: primary, complement: complement, items: fs.items}
}
