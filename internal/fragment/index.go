package fragment

import (
	"slices"
	"sort"
)

// Index answers which fragments cover a position, using a sorted-slice
// interval tree over the contiguous runs of each fragment's layout.
// It is built once and never modified.
type Index struct {
	intervals []interval
	maxEnd    []int // maxEnd[i] = max(end) for intervals[:i+1]
}

type interval struct {
	start    int
	end      int
	fragment int
}

// BuildIndex creates an index over the fragments of fs.
func BuildIndex(fs *Fragments) *Index {
	var intervals []interval
	for n, f := range fs.items {
		intervals = append(intervals, runs(f, n)...)
	}
	if len(intervals) == 0 {
		return &Index{}
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	maxEnd := make([]int, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = max(intervals[i].end, maxEnd[i-1])
	}

	return &Index{intervals: intervals, maxEnd: maxEnd}
}

// Containing returns the numbers of all fragments that include pos on
// either strand, in ascending order.
func (x *Index) Containing(pos int) []int {
	if len(x.intervals) == 0 {
		return nil
	}

	// Candidates are [0, hi): every interval starting at or before pos.
	// Walking down, nothing at or below i reaches pos once maxEnd[i] < pos.
	hi := sort.Search(len(x.intervals), func(i int) bool {
		return x.intervals[i].start > pos
	})

	var result []int
	for i := hi - 1; i >= 0; i-- {
		if x.maxEnd[i] < pos {
			break
		}
		if x.intervals[i].end >= pos {
			result = append(result, x.intervals[i].fragment)
		}
	}

	slices.Sort(result)
	return slices.Compact(result)
}

// runs splits a fragment layout into ascending runs of consecutive indices.
func runs(f Fragment, n int) []interval {
	var out []interval
	for _, col := range f.Columns() {
		if k := len(out) - 1; k >= 0 && out[k].end+1 == col.Index {
			out[k].end = col.Index
			continue
		}
		out = append(out, interval{start: col.Index, end: col.Index, fragment: n})
	}
	return out
}
