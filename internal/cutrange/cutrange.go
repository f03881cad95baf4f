// Package cutrange describes where a double-stranded sequence is cut.
//
// A VerticalCutRange severs the backbone of one or both strands immediately
// after the given index. A HorizontalCutRange breaks only the bonding between
// the strands over a closed index range.
package cutrange

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCut is returned when a vertical cut has no coordinate at all.
	ErrEmptyCut = errors.New("vertical cut range has no coordinates")
	// ErrInvalidRange is returned when a horizontal cut has left > right.
	ErrInvalidRange = errors.New("horizontal cut range left exceeds right")
)

// CutRange is implemented by VerticalCutRange and HorizontalCutRange.
type CutRange interface {
	// Coordinates returns every defined index the cut refers to.
	Coordinates() []int

	// Shift returns a copy with every coordinate moved by offset.
	Shift(offset int) CutRange

	cutRange()
}

// Index returns a pointer to i, for building nullable coordinates.
func Index(i int) *int {
	return &i
}

// VerticalCutRange cuts the primary and/or complement backbone. Each
// coordinate is optional; a cut at 0 falls between index 0 and index 1.
type VerticalCutRange struct {
	PCutLeft  *int
	PCutRight *int
	CCutLeft  *int
	CCutRight *int

	min, max int
}

// NewVertical builds a vertical cut from up to four nullable coordinates.
func NewVertical(pCutLeft, pCutRight, cCutLeft, cCutRight *int) (*VerticalCutRange, error) {
	v := &VerticalCutRange{
		PCutLeft:  copyIndex(pCutLeft),
		PCutRight: copyIndex(pCutRight),
		CCutLeft:  copyIndex(cCutLeft),
		CCutRight: copyIndex(cCutRight),
	}

	coords := v.Coordinates()
	if len(coords) == 0 {
		return nil, ErrEmptyCut
	}

	v.min, v.max = coords[0], coords[0]
	for _, c := range coords[1:] {
		v.min = min(v.min, c)
		v.max = max(v.max, c)
	}
	return v, nil
}

// Min returns the smallest defined coordinate.
func (v *VerticalCutRange) Min() int { return v.min }

// Max returns the largest defined coordinate.
func (v *VerticalCutRange) Max() int { return v.max }

// Primary returns the defined primary-strand cut positions.
func (v *VerticalCutRange) Primary() []int {
	return defined(v.PCutLeft, v.PCutRight)
}

// Complement returns the defined complement-strand cut positions.
func (v *VerticalCutRange) Complement() []int {
	return defined(v.CCutLeft, v.CCutRight)
}

// Coordinates returns every defined coordinate in field order.
func (v *VerticalCutRange) Coordinates() []int {
	return defined(v.PCutLeft, v.PCutRight, v.CCutLeft, v.CCutRight)
}

// Shift returns a copy with every defined coordinate moved by offset.
func (v *VerticalCutRange) Shift(offset int) CutRange {
	shifted := &VerticalCutRange{min: v.min + offset, max: v.max + offset}
	shifted.PCutLeft = shiftIndex(v.PCutLeft, offset)
	shifted.PCutRight = shiftIndex(v.PCutRight, offset)
	shifted.CCutLeft = shiftIndex(v.CCutLeft, offset)
	shifted.CCutRight = shiftIndex(v.CCutRight, offset)
	return shifted
}

func (v *VerticalCutRange) String() string {
	return fmt.Sprintf("vertical(p=%s,%s c=%s,%s)",
		formatIndex(v.PCutLeft), formatIndex(v.PCutRight),
		formatIndex(v.CCutLeft), formatIndex(v.CCutRight))
}

func (*VerticalCutRange) cutRange() {}

// HorizontalCutRange separates the strands over Left..Right inclusive
// without severing either backbone.
type HorizontalCutRange struct {
	Left  int
	Right int
}

// NewHorizontal builds a horizontal cut. Right defaults to left.
func NewHorizontal(left int, right ...int) (*HorizontalCutRange, error) {
	h := &HorizontalCutRange{Left: left, Right: left}
	if len(right) > 0 {
		h.Right = right[0]
	}
	if h.Left > h.Right {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidRange, h.Left, h.Right)
	}
	return h, nil
}

// Coordinates returns the two range ends.
func (h *HorizontalCutRange) Coordinates() []int {
	return []int{h.Left, h.Right}
}

// Shift returns a copy moved by offset.
func (h *HorizontalCutRange) Shift(offset int) CutRange {
	return &HorizontalCutRange{Left: h.Left + offset, Right: h.Right + offset}
}

func (h *HorizontalCutRange) String() string {
	return fmt.Sprintf("horizontal(%d..%d)", h.Left, h.Right)
}

func (*HorizontalCutRange) cutRange() {}

func defined(idx ...*int) []int {
	var out []int
	for _, i := range idx {
		if i != nil {
			out = append(out, *i)
		}
	}
	return out
}

func copyIndex(i *int) *int {
	if i == nil {
		return nil
	}
	return Index(*i)
}

func shiftIndex(i *int, offset int) *int {
	if i == nil {
		return nil
	}
	return Index(*i + offset)
}

func formatIndex(i *int) string {
	if i == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *i)
}
