package vegheight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighVegetation(t *testing.T) {
	o := DefaultClassifyOptions()
	index := layerOf(t, 1, 5, 0.35, 0.2, 0.5, 0.3, nd)
	height := layerOf(t, 1, 5, 2.5, 5, 1.5, 2, 10)
	out, err := HighVegetation(index, height, o)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.35, nd, nd, nd, nd}, out.Data)
}

func TestHighVegetationThresholds(t *testing.T) {
	o := ClassifyOptions{NoData: nd, HighVegThreshold: 0.5, MinVegHeight: 1}
	index := layerOf(t, 1, 2, 0.5, 0.45)
	height := layerOf(t, 1, 2, 1.5, 1.5)
	out, err := HighVegetation(index, height, o)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, nd}, out.Data)
}

func TestGreenMask(t *testing.T) {
	o := DefaultClassifyOptions()
	index := layerOf(t, 1, 4, 0, 0.7, -0.1, nd)
	assert.Equal(t, []float64{1, 1, nd, nd}, GreenMask(index, o).Data)
}

func TestVegetationHeight(t *testing.T) {
	o := DefaultClassifyOptions()
	index := layerOf(t, 1, 4, 0.1, -0.2, 0.4, 0.4)
	height := layerOf(t, 1, 4, 3, 3, nd, 0.5)
	out, err := VegetationHeight(index, height, o)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, nd, nd, 0.5}, out.Data)
}

func TestClassifyShapeMismatch(t *testing.T) {
	o := DefaultClassifyOptions()
	_, err := HighVegetation(NewLayer(2, 2), NewLayer(2, 1), o)
	assert.ErrorIs(t, err, ErrAlignment)
	_, err = VegetationHeight(NewLayer(2, 2), NewLayer(1, 2), o)
	assert.ErrorIs(t, err, ErrAlignment)
}
