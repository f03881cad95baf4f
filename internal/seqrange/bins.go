package seqrange

import (
	"fmt"
	"maps"
	"slices"

	"github.com/inodb/vibe-digest/internal/fragment"
)

// sentinelBin anchors a linear scan in front of index 0 so a detached
// first index still starts its own bins.
const sentinelBin = -1

// bin collects the indices of one fragment on each strand. layout records
// one column per index touched, in scan order.
type bin struct {
	p, c   []int
	layout []fragment.Column
}

func (b *bin) empty() bool {
	return len(b.p) == 0 && len(b.c) == 0
}

// binScan walks the sequence once, assigning every index of each strand to
// a bin. Strands that were split apart by a one-sided cut are merged back
// together at the first index where they are still bonded.
type binScan struct {
	bins     map[int]*bin
	pID, cID int
	uniqueID int

	pCut, cCut, hCut map[int]bool
}

func newBinScan(start int, cc CutCalculator) *binScan {
	return &binScan{
		bins:     map[int]*bin{start: {}},
		pID:      start,
		cID:      start,
		uniqueID: start,
		pCut:     toSet(cc.VCPrimary()),
		cCut:     toSet(cc.VCComplement()),
		hCut:     toSet(cc.HCBetweenStrands()),
	}
}

func (s *binScan) visit(idx int) {
	if s.pID != s.cID && !s.hCut[idx] {
		s.merge()
	}

	pb, cb := s.bin(s.pID), s.bin(s.cID)
	pb.p = append(pb.p, idx)
	cb.c = append(cb.c, idx)
	if pb == cb {
		pb.layout = append(pb.layout, fragment.Column{Index: idx, Primary: true, Complement: true})
	} else {
		pb.layout = append(pb.layout, fragment.Column{Index: idx, Primary: true})
		cb.layout = append(cb.layout, fragment.Column{Index: idx, Complement: true})
	}

	// A cut at idx opens a new bin for the following index.
	if s.pCut[idx] {
		s.pID = s.open()
	}
	if s.cCut[idx] {
		s.cID = s.open()
	}
}

// merge folds the newer of the two strand bins into the older one.
func (s *binScan) merge() {
	lo, hi := min(s.pID, s.cID), max(s.pID, s.cID)
	if !s.bin(hi).empty() {
		panic(fmt.Sprintf("seqrange: merging bin %d into %d would drop indices", hi, lo))
	}
	delete(s.bins, hi)
	s.pID, s.cID = lo, lo
}

func (s *binScan) open() int {
	s.uniqueID++
	s.bins[s.uniqueID] = &bin{}
	return s.uniqueID
}

func (s *binScan) bin(id int) *bin {
	b, ok := s.bins[id]
	if !ok {
		panic(fmt.Sprintf("seqrange: bin %d missing", id))
	}
	return b
}

func (s *binScan) dropEmpty() {
	maps.DeleteFunc(s.bins, func(_ int, b *bin) bool { return b.empty() })
}

// createBins assigns indices -1..size-1 of a linear sequence to bins.
// The sentinel bin is removed before returning.
func createBins(size int, cc CutCalculator) map[int]*bin {
	s := newBinScan(sentinelBin, cc)
	s.startAtSentinel()
	for idx := 0; idx < size; idx++ {
		s.visit(idx)
	}

	delete(s.bins, sentinelBin)
	s.dropEmpty()
	return s.bins
}

// createCircularBins scans a circular sequence starting at the calculator's
// origin, the index right after the last vertical cut. A strand that is not
// cut at the end of the scan continues into the bin it started in, so its
// trailing bin is folded in front of that first bin.
func createCircularBins(size int, cc CutCalculator) map[int]*bin {
	origin := cc.Origin()
	s := newBinScan(sentinelBin, cc)
	s.startAtSentinel()

	s.visit(origin)
	pFirst, cFirst := s.pID, s.cID
	if s.pCut[origin] {
		pFirst = s.owner(origin, true)
	}
	if s.cCut[origin] {
		cFirst = s.owner(origin, false)
	}

	for j := 1; j < size; j++ {
		s.visit((origin + j) % size)
	}

	last := (origin + size - 1) % size
	if !s.pCut[last] {
		s.fold(s.pID, pFirst)
	}
	if !s.cCut[last] {
		s.fold(s.cID, cFirst)
	}

	delete(s.bins, sentinelBin)
	s.dropEmpty()
	return s.bins
}

// startAtSentinel places a virtual cut on both strands in front of the
// first scanned index.
func (s *binScan) startAtSentinel() {
	s.pCut[sentinelBin] = true
	s.cCut[sentinelBin] = true
	s.visit(sentinelBin)
}

// owner returns the id of the bin holding idx on the given strand.
func (s *binScan) owner(idx int, primary bool) int {
	for id, b := range s.bins {
		list := b.c
		if primary {
			list = b.p
		}
		if slices.Contains(list, idx) {
			return id
		}
	}
	panic(fmt.Sprintf("seqrange: index %d not assigned", idx))
}

// fold moves every index of bin from in front of bin into.
func (s *binScan) fold(from, into int) {
	if from == into {
		return
	}
	tail, ok := s.bins[from]
	if !ok {
		return
	}
	head := s.bin(into)
	head.p = append(slices.Clone(tail.p), head.p...)
	head.c = append(slices.Clone(tail.c), head.c...)
	head.layout = append(slices.Clone(tail.layout), head.layout...)
	delete(s.bins, from)
}

func sortedIDs(bins map[int]*bin) []int {
	return slices.Sorted(maps.Keys(bins))
}

func toSet(s []int) map[int]bool {
	m := make(map[int]bool, len(s))
	for _, v := range s {
		m[v] = true
	}
	return m
}
