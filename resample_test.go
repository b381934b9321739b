package vegheight

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGdalwarpArgs(t *testing.T) {
	args := GdalwarpCommand{}.Args("in.tif", "out.tif", 0.25, -9999)
	want := []string{
		"-overwrite", "-dstnodata", "-9999", "in.tif",
		"-r", "near", "-tr", "0.25", "0.25",
		"-co", "COMPRESS=DEFLATE", "-co", "PREDICTOR=2", "-co", "ZLEVEL=9",
		"out.tif",
	}
	assert.Equal(t, want, args)

	args = GdalwarpCommand{Method: "bilinear"}.Args("a", "b", 1, -1)
	assert.Contains(t, args, "bilinear")
}

func TestResampleValidation(t *testing.T) {
	for _, rs := range []Resampler{GdalwarpCommand{}, WarpResampler{}} {
		assert.ErrorIs(t, rs.Resample("", "b.tif", 1, nd), ErrValidation)
		assert.ErrorIs(t, rs.Resample("a.tif", "b.tif", 0, nd), ErrValidation)
	}
}

func TestGdalwarpCommandFailure(t *testing.T) {
	dir := t.TempDir()
	c := GdalwarpCommand{Binary: filepath.Join(dir, "no-such-gdalwarp")}
	err := c.Resample(filepath.Join(dir, "a.tif"), filepath.Join(dir, "b.tif"), 1, nd)
	assert.ErrorIs(t, err, ErrResample)
}

func TestWarpResamplerRoundTrip(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()
	src, dst := filepath.Join(dir, "rh.tif"), filepath.Join(dir, "rh_resampled.tif")
	writeLayer(t, s, src, NewFilledLayer(4, 4, 7), testProfile())
	// 已存在的输出需被替换
	writeLayer(t, s, dst, NewFilledLayer(3, 3, 1), testProfile())

	require.NoError(t, WarpResampler{}.Resample(src, dst, 0.5, nd))
	got, gp, err := s.Read(dst)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, 2, got.Cols)
	assert.InDeltaSlice(t, []float64{7, 7, 7, 7}, got.Data, 1e-6)
	assert.True(t, gp.HasNoData)
	assert.Equal(t, nd, gp.NoData)
	assert.InDeltaSlice(t, []float64{5.1, 0.5, 0, 52.3, 0, -0.5}, gp.GeoTransform[:], 1e-9)
}

func TestWarpResamplerMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := WarpResampler{}.Resample(filepath.Join(dir, "missing.tif"), filepath.Join(dir, "out.tif"), 0.5, nd)
	assert.ErrorIs(t, err, ErrFormat)
}
