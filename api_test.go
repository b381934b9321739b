package vegheight

import (
	"testing"

	gdal "github.com/airbusgeo/godal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layerOf(t *testing.T, rows, cols int, vals ...float64) *Layer {
	t.Helper()
	l, err := NewLayerFrom(rows, cols, vals)
	require.NoError(t, err)
	return l
}

func TestNewLayerFrom(t *testing.T) {
	l, err := NewLayerFrom(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 6.0, l.At(1, 2))
	assert.Equal(t, 2.0, l.At(0, 1))

	_, err = NewLayerFrom(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLayerCloneIsIndependent(t *testing.T) {
	l := NewFilledLayer(2, 2, 7)
	c := l.Clone()
	c.Set(0, 0, 1)
	assert.Equal(t, 7.0, l.At(0, 0))
	assert.True(t, l.SameShape(c))
}

func TestProfileDerived(t *testing.T) {
	p := Profile{DataType: gdal.Byte, BandCount: 3, Creation: []string{"COMPRESS=JPEG"}}
	d := p.Derived(-9999)
	assert.Equal(t, gdal.Float32, d.DataType)
	assert.Equal(t, 1, d.BandCount)
	assert.True(t, d.HasNoData)
	assert.Equal(t, -9999.0, d.NoData)
	assert.Equal(t, DefaultCreationOptions, d.Creation)
	assert.Equal(t, []string{"COMPRESS=JPEG"}, p.Creation)
}

func TestProfileShifted(t *testing.T) {
	p := Profile{GeoTransform: [6]float64{100, 0.25, 0, 500, 0, -0.25}, HasTransform: true}
	s := p.Shifted(1, 1)
	assert.Equal(t, [6]float64{100.25, 0.25, 0, 499.75, 0, -0.25}, s.GeoTransform)

	none := Profile{}.Shifted(1, 1)
	assert.Equal(t, [6]float64{}, none.GeoTransform)
}
