package vegheight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nd = DEFAULT_NODATA

func TestFillGapsSingleCell(t *testing.T) {
	l := layerOf(t, 3, 3,
		5, 5, 5,
		5, nd, 5,
		5, 5, 5)
	out, err := FillGaps(l, InvalidMask(l, nd), FillOptions{MaxSearchDistance: 1})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, out.At(1, 1), 1e-12)
	assert.Equal(t, nd, l.At(1, 1), "input must not change")
}

func TestFillGapsOutOfReach(t *testing.T) {
	l := layerOf(t, 1, 5, 3, nd, nd, nd, nd)
	out, err := FillGaps(l, InvalidMask(l, nd), FillOptions{MaxSearchDistance: 1})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, out.At(0, 1), 1e-9)
	assert.Equal(t, []float64{nd, nd, nd}, out.Data[2:], "unfilled cells stay invalid")
}

func TestFillGapsReachesDiagonalSource(t *testing.T) {
	// (1,1)到(0,0)距离为根号2，在搜索半径内
	l := layerOf(t, 3, 3,
		5, nd, nd,
		nd, nd, nd,
		nd, nd, nd)
	out, err := FillGaps(l, InvalidMask(l, nd), FillOptions{MaxSearchDistance: 2})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, out.At(1, 1), 1e-9)
	assert.Equal(t, 5.0, out.At(0, 0))
	for i, v := range out.Data {
		if v != nd {
			assert.InDelta(t, 5.0, v, 1e-9, "cell %d", i)
		}
	}
}

func TestFillGapsNearerSourceWeighsMore(t *testing.T) {
	l := layerOf(t, 1, 4, 10, nd, nd, 20)
	out, err := FillGaps(l, InvalidMask(l, nd), FillOptions{MaxSearchDistance: 2})
	require.NoError(t, err)
	assert.Greater(t, out.At(0, 1), 10.0)
	assert.Less(t, out.At(0, 1), 15.0)
	assert.Greater(t, out.At(0, 2), 15.0)
	assert.Less(t, out.At(0, 2), 20.0)
	assert.InDelta(t, 30.0, out.At(0, 1)+out.At(0, 2), 1e-9)
}

func TestFillGapsZeroDistanceFillsNothing(t *testing.T) {
	l := layerOf(t, 1, 3, 1, nd, 3)
	out, err := FillGaps(l, InvalidMask(l, nd), FillOptions{MaxSearchDistance: 0, SmoothingPasses: 3})
	require.NoError(t, err)
	assert.Equal(t, l.Data, out.Data)
	assert.NotSame(t, l, out)
}

func TestFillGapsMaskDrivesValidity(t *testing.T) {
	l := layerOf(t, 1, 3, 2, 1000, 4)
	mask := []bool{false, true, false}
	out, err := FillGaps(l, mask, FillOptions{MaxSearchDistance: 1})
	require.NoError(t, err)
	assert.Equal(t, 2.0, out.At(0, 0))
	assert.InDelta(t, 3.0, out.At(0, 1), 1e-9)
	assert.Equal(t, 4.0, out.At(0, 2))
	assert.Equal(t, 1000.0, l.At(0, 1), "input must not change")
}

func TestFillGapsSmoothingKeepsValidCells(t *testing.T) {
	l := layerOf(t, 3, 3,
		0, 0, 0,
		0, nd, 9,
		0, 0, 0)
	mask := InvalidMask(l, nd)
	plain, err := FillGaps(l, mask, FillOptions{MaxSearchDistance: 1})
	require.NoError(t, err)
	smooth, err := FillGaps(l, mask, FillOptions{MaxSearchDistance: 1, SmoothingPasses: 2})
	require.NoError(t, err)
	for _, out := range []*Layer{plain, smooth} {
		assert.GreaterOrEqual(t, out.At(1, 1), 0.0)
		assert.LessOrEqual(t, out.At(1, 1), 9.0)
		for i, v := range l.Data {
			if !mask[i] {
				assert.Equal(t, v, out.Data[i])
			}
		}
	}
}

func TestFillGapsDeterministic(t *testing.T) {
	l := layerOf(t, 2, 3, 1, nd, 3, nd, 5, nd)
	mask := InvalidMask(l, nd)
	opts := FillOptions{MaxSearchDistance: 2, SmoothingPasses: 2}
	a, err := FillGaps(l, mask, opts)
	require.NoError(t, err)
	b, err := FillGaps(l, mask, opts)
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)
}

func TestFillGapsValidation(t *testing.T) {
	l := NewLayer(2, 2)
	_, err := FillGaps(l, make([]bool, 3), FillOptions{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = FillGaps(l, make([]bool, 4), FillOptions{MaxSearchDistance: -1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = FillGaps(l, make([]bool, 4), FillOptions{SmoothingPasses: -1})
	assert.ErrorIs(t, err, ErrValidation)
}
