package cutrange

// CutRanges is an ordered collection of cut ranges.
type CutRanges []CutRange

// Shift returns a copy of the collection with every range moved by offset.
func (cr CutRanges) Shift(offset int) CutRanges {
	if cr == nil {
		return nil
	}
	out := make(CutRanges, len(cr))
	for i, c := range cr {
		out[i] = c.Shift(offset)
	}
	return out
}
