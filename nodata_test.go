package vegheight

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemap(t *testing.T) {
	in := layerOf(t, 2, 3, -32768, 1, 2, -32768, 1500, 0)
	out := Remap(in, -32768, -9999)
	assert.Equal(t, []float64{-9999, 1, 2, -9999, 1500, 0}, out.Data)
	assert.Equal(t, -32768.0, in.At(0, 0), "input must not change")
}

func TestRemapNaNSentinel(t *testing.T) {
	in := layerOf(t, 1, 3, math.NaN(), 3, math.NaN())
	out := Remap(in, math.NaN(), -9999)
	assert.Equal(t, []float64{-9999, 3, -9999}, out.Data)
}

func TestRemapOutOfRange(t *testing.T) {
	r := ValidRange{Min: -1000, Max: 1000}
	in := layerOf(t, 2, 4,
		3.4e38, 12.5, -9999, 1000,
		-1000.5, 322.7, math.NaN(), math.Inf(1))
	out := RemapOutOfRange(in, -9999, -9999, r)
	want := []float64{-9999, 12.5, -9999, 1000, -9999, 322.7, -9999, -9999}
	assert.Equal(t, want, out.Data)

	for i, v := range in.Data {
		invalid := v == -9999 || !r.Contains(v)
		assert.Equal(t, invalid, out.Data[i] == -9999, "cell %d", i)
		if !invalid {
			assert.Equal(t, v, out.Data[i])
		}
	}
}

func TestInvalidMask(t *testing.T) {
	l := layerOf(t, 1, 4, -9999, 0, -9999, 5)
	mask := InvalidMask(l, -9999)
	assert.Equal(t, []bool{true, false, true, false}, mask)
	assert.Equal(t, 2, countTrue(mask))
}

func TestNormalizeDeclared(t *testing.T) {
	l := layerOf(t, 1, 3, 0, 255, math.NaN())
	out := normalizeDeclared(l, Profile{NoData: 255, HasNoData: true}, -9999)
	assert.Equal(t, 0.0, out.Data[0])
	assert.Equal(t, -9999.0, out.Data[1])
	assert.True(t, math.IsNaN(out.Data[2]))

	out = normalizeDeclared(l, Profile{}, -9999)
	assert.Equal(t, []float64{0, 255, -9999}, out.Data)
}
