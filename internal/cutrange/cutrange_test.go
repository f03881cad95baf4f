package cutrange

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVertical_MinMax(t *testing.T) {
	v, err := NewVertical(Index(3), nil, Index(1), Index(7))
	require.NoError(t, err)

	assert.Equal(t, 1, v.Min())
	assert.Equal(t, 7, v.Max())
	assert.Equal(t, []int{3}, v.Primary())
	assert.Equal(t, []int{1, 7}, v.Complement())
	assert.Equal(t, []int{3, 1, 7}, v.Coordinates())
}

func TestNewVertical_Empty(t *testing.T) {
	_, err := NewVertical(nil, nil, nil, nil)
	assert.True(t, errors.Is(err, ErrEmptyCut))
}

func TestNewVertical_CopiesInput(t *testing.T) {
	p := 2
	v, err := NewVertical(&p, nil, nil, nil)
	require.NoError(t, err)

	p = 9
	assert.Equal(t, 2, *v.PCutLeft, "later writes to the caller's int must not leak in")
}

func TestVertical_Shift(t *testing.T) {
	v, err := NewVertical(Index(5), nil, Index(8), nil)
	require.NoError(t, err)

	s := v.Shift(-5).(*VerticalCutRange)
	assert.Equal(t, 0, *s.PCutLeft)
	assert.Nil(t, s.PCutRight)
	assert.Equal(t, 3, *s.CCutLeft)
	assert.Equal(t, 0, s.Min())
	assert.Equal(t, 3, s.Max())

	assert.Equal(t, 5, *v.PCutLeft, "original unchanged")
}

func TestNewHorizontal(t *testing.T) {
	tests := []struct {
		name      string
		left      int
		right     []int
		wantLeft  int
		wantRight int
		wantErr   error
	}{
		{name: "right defaults to left", left: 4, wantLeft: 4, wantRight: 4},
		{name: "explicit range", left: 2, right: []int{6}, wantLeft: 2, wantRight: 6},
		{name: "inverted", left: 6, right: []int{2}, wantErr: ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHorizontal(tt.left, tt.right...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeft, h.Left)
			assert.Equal(t, tt.wantRight, h.Right)
		})
	}
}

func TestCutRanges_Shift(t *testing.T) {
	var empty CutRanges
	assert.Nil(t, empty.Shift(4))

	v, err := NewVertical(Index(3), nil, Index(5), nil)
	require.NoError(t, err)
	h, err := NewHorizontal(8, 10)
	require.NoError(t, err)

	cr := CutRanges{v, h}
	shifted := cr.Shift(-3)
	require.Len(t, shifted, 2)
	assert.Equal(t, []int{0, 2}, shifted[0].Coordinates())
	assert.Equal(t, []int{5, 7}, shifted[1].Coordinates())
	assert.Equal(t, []int{3, 5}, cr[0].Coordinates(), "original untouched")
}
