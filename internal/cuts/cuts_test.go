package cuts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-digest/internal/cutrange"
)

func vertical(t *testing.T, pl, pr, cl, cr *int) *cutrange.VerticalCutRange {
	t.Helper()
	v, err := cutrange.NewVertical(pl, pr, cl, cr)
	require.NoError(t, err)
	return v
}

func horizontal(t *testing.T, left, right int) *cutrange.HorizontalCutRange {
	t.Helper()
	h, err := cutrange.NewHorizontal(left, right)
	require.NoError(t, err)
	return h
}

var at = cutrange.Index

func TestAddCutsFromCutRanges(t *testing.T) {
	cc := New(10)
	cc.AddCutsFromCutRanges(cutrange.CutRanges{
		vertical(t, at(5), nil, at(2), nil),
		vertical(t, at(2), nil, at(2), nil),
		horizontal(t, 7, 8),
	})

	assert.Equal(t, []int{2, 5}, cc.VCPrimary())
	assert.Equal(t, []int{2}, cc.VCComplement())
	assert.Equal(t, []int{3, 4, 5, 7, 8}, cc.HCBetweenStrands())
}

func TestRemoveIncompleteCuts(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		ranges func(t *testing.T) cutrange.CutRanges
		wantP  []int
		wantC  []int
		wantH  []int
	}{
		{
			name: "staggered cut keeps its overhang",
			size: 6,
			ranges: func(t *testing.T) cutrange.CutRanges {
				return cutrange.CutRanges{vertical(t, at(1), nil, at(3), nil)}
			},
			wantP: []int{1},
			wantC: []int{3},
			wantH: []int{2, 3},
		},
		{
			name: "blunt cut survives",
			size: 6,
			ranges: func(t *testing.T) cutrange.CutRanges {
				return cutrange.CutRanges{vertical(t, at(2), nil, at(2), nil)}
			},
			wantP: []int{2},
			wantC: []int{2},
		},
		{
			name: "nick alone is dropped",
			size: 6,
			ranges: func(t *testing.T) cutrange.CutRanges {
				return cutrange.CutRanges{vertical(t, at(2), nil, nil, nil)}
			},
		},
		{
			name: "floating horizontal cut is dropped",
			size: 10,
			ranges: func(t *testing.T) cutrange.CutRanges {
				return cutrange.CutRanges{horizontal(t, 3, 5)}
			},
		},
		{
			name: "horizontal cut spanning the sequence survives",
			size: 6,
			ranges: func(t *testing.T) cutrange.CutRanges {
				return cutrange.CutRanges{horizontal(t, 0, 5)}
			},
			wantH: []int{0, 1, 2, 3, 4, 5},
		},
		{
			name: "horizontal run split by cuts keeps bounded pieces",
			size: 10,
			ranges: func(t *testing.T) cutrange.CutRanges {
				return cutrange.CutRanges{
					vertical(t, at(4), nil, nil, nil),
					vertical(t, nil, nil, at(6), nil),
					horizontal(t, 3, 7),
				}
			},
			wantP: []int{4},
			wantC: []int{6},
			wantH: []int{5, 6},
		},
		{
			name: "horizontal cut bounded by nicks excises a strand piece",
			size: 6,
			ranges: func(t *testing.T) cutrange.CutRanges {
				return cutrange.CutRanges{
					vertical(t, at(1), at(3), nil, nil),
					horizontal(t, 2, 3),
				}
			},
			wantP: []int{1, 3},
			wantH: []int{2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := New(tt.size)
			cc.AddCutsFromCutRanges(tt.ranges(t))
			require.NoError(t, cc.RemoveIncompleteCuts())

			assert.Equal(t, tt.wantP, cc.VCPrimary(), "primary")
			assert.Equal(t, tt.wantC, cc.VCComplement(), "complement")
			assert.Equal(t, tt.wantH, cc.HCBetweenStrands(), "horizontal")
			assert.Zero(t, cc.Origin())
		})
	}
}

func TestRemoveIncompleteCuts_Errors(t *testing.T) {
	cc := New(0)
	assert.ErrorIs(t, cc.RemoveIncompleteCuts(), ErrNoSize)

	cc = New(4)
	cc.AddCutsFromCutRanges(cutrange.CutRanges{horizontal(t, 2, 6)})
	assert.ErrorIs(t, cc.RemoveIncompleteCuts(), ErrOutOfRange)
}

func TestRemoveIncompleteCuts_Circular(t *testing.T) {
	t.Run("no cuts", func(t *testing.T) {
		cc := New(10)
		cc.SetCircular(true)
		cc.AddCutsFromCutRanges(cutrange.CutRanges{horizontal(t, 2, 4)})
		require.NoError(t, cc.RemoveIncompleteCuts())

		assert.Empty(t, cc.HCBetweenStrands())
		assert.Zero(t, cc.Origin())
	})

	t.Run("blunt", func(t *testing.T) {
		cc := New(10)
		cc.SetCircular(true)
		cc.AddCutsFromCutRanges(cutrange.CutRanges{vertical(t, at(3), nil, at(3), nil)})
		require.NoError(t, cc.RemoveIncompleteCuts())

		assert.Equal(t, []int{3}, cc.VCPrimary())
		assert.Equal(t, []int{3}, cc.VCComplement())
		assert.Equal(t, 4, cc.Origin())
	})

	t.Run("staggered", func(t *testing.T) {
		cc := New(10)
		cc.SetCircular(true)
		cc.AddCutsFromCutRanges(cutrange.CutRanges{vertical(t, at(2), nil, at(5), nil)})
		require.NoError(t, cc.RemoveIncompleteCuts())

		assert.Equal(t, []int{2}, cc.VCPrimary())
		assert.Equal(t, []int{5}, cc.VCComplement())
		assert.Equal(t, []int{3, 4, 5}, cc.HCBetweenStrands())
		assert.Equal(t, 6, cc.Origin())
	})

	t.Run("detached run through the origin keeps its nicks", func(t *testing.T) {
		cc := New(10)
		cc.SetCircular(true)
		cc.AddCutsFromCutRanges(cutrange.CutRanges{
			vertical(t, at(9), nil, nil, nil),
			vertical(t, nil, nil, at(2), nil),
			horizontal(t, 0, 2),
		})
		require.NoError(t, cc.RemoveIncompleteCuts())

		assert.Equal(t, []int{9}, cc.VCPrimary())
		assert.Equal(t, []int{2}, cc.VCComplement())
		assert.Equal(t, []int{0, 1, 2}, cc.HCBetweenStrands())
		assert.Equal(t, 0, cc.Origin())
	})

	t.Run("last index cut wraps origin to zero", func(t *testing.T) {
		cc := New(8)
		cc.SetCircular(true)
		cc.AddCutsFromCutRanges(cutrange.CutRanges{vertical(t, at(7), nil, at(7), nil)})
		require.NoError(t, cc.RemoveIncompleteCuts())

		assert.Equal(t, 0, cc.Origin())
	})
}

func TestStrandsForDisplay(t *testing.T) {
	cc := New(6)
	cc.AddCutsFromCutRanges(cutrange.CutRanges{vertical(t, at(1), nil, at(3), nil)})
	require.NoError(t, cc.RemoveIncompleteCuts())

	p, mid, c := cc.StrandsForDisplay("ACGTAC", "TGCATG")
	assert.Equal(t, "A C|G T A C", p)
	assert.Equal(t, "   +---+", mid)
	assert.Equal(t, "T G C A|T G", c)
}
