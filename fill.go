package vegheight

import (
	"fmt"

	"github.com/wgdzlh/vegheight/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	fillLogTag = "FillGaps:"

	maskValid byte = 255
	maskFill  byte = 0
)

type FillOptions struct {
	MaxSearchDistance int // pixels
	SmoothingPasses   int
}

// 在内存数据集上调用GDAL FillNodata补洞，invalid为true的像元待填，找不到源的保持原值
func FillGaps(l *Layer, invalid []bool, opts FillOptions) (out *Layer, err error) {
	if len(invalid) != len(l.Data) {
		err = fmt.Errorf("%w: mask has %d cells, layer has %d", ErrValidation, len(invalid), len(l.Data))
		return
	}
	if opts.MaxSearchDistance < 0 || opts.SmoothingPasses < 0 {
		err = fmt.Errorf("%w: negative fill parameters %+v", ErrValidation, opts)
		return
	}
	out = l.Clone()
	if opts.MaxSearchDistance == 0 || countTrue(invalid) == 0 || l.Rows == 0 || l.Cols == 0 {
		return
	}
	mask := make([]byte, len(invalid))
	for i, bad := range invalid {
		if bad {
			mask[i] = maskFill
		} else {
			mask[i] = maskValid
		}
	}
	if err = fillInMemory(out, mask, opts); err != nil {
		out = nil
	}
	return
}

func fillInMemory(l *Layer, mask []byte, opts FillOptions) (err error) {
	ds, err := gdal.Create(gdal.Memory, "", 1, gdal.Float64, l.Cols, l.Rows)
	if err != nil {
		log.Error(fillLogTag+"create mem dataset failed", zap.Error(err))
		return fmt.Errorf("%w: fill dataset: %v", ErrFormat, err)
	}
	defer func() {
		err = multierr.Append(err, ds.Close())
	}()
	mds, err := gdal.Create(gdal.Memory, "", 1, gdal.Byte, l.Cols, l.Rows)
	if err != nil {
		log.Error(fillLogTag+"create mask dataset failed", zap.Error(err))
		return fmt.Errorf("%w: fill mask: %v", ErrFormat, err)
	}
	defer func() {
		err = multierr.Append(err, mds.Close())
	}()

	band, mband := ds.Bands()[0], mds.Bands()[0]
	if err = band.Write(0, 0, l.Data, l.Cols, l.Rows); err != nil {
		log.Error(fillLogTag+"write mem band failed", zap.Error(err))
		return fmt.Errorf("%w: fill band: %v", ErrFormat, err)
	}
	if err = mband.Write(0, 0, mask, l.Cols, l.Rows); err != nil {
		log.Error(fillLogTag+"write mask band failed", zap.Error(err))
		return fmt.Errorf("%w: fill mask: %v", ErrFormat, err)
	}
	err = band.FillNoData(
		gdal.MaxDistance(float64(opts.MaxSearchDistance)),
		gdal.SmoothingIterations(opts.SmoothingPasses),
		gdal.Mask(mband),
	)
	if err != nil {
		log.Error(fillLogTag+"fill nodata failed", zap.Error(err))
		return fmt.Errorf("%w: fill nodata: %v", ErrFormat, err)
	}
	if err = band.Read(0, 0, l.Data, l.Cols, l.Rows); err != nil {
		log.Error(fillLogTag+"read mem band failed", zap.Error(err))
		return fmt.Errorf("%w: fill band: %v", ErrFormat, err)
	}
	log.Debug(fillLogTag+"gaps filled", zap.Int("cells", countZero(mask)),
		zap.Int("maxDist", opts.MaxSearchDistance), zap.Int("passes", opts.SmoothingPasses))
	return
}

func countZero(m []byte) (n int) {
	for _, v := range m {
		if v == 0 {
			n++
		}
	}
	return
}
