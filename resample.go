package vegheight

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/wgdzlh/vegheight/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// Resampler 将src栅格重采样到指定分辨率并写入dst
type Resampler interface {
	Resample(src, dst string, resolution, nodata float64) error
}

func checkResampleArgs(src, dst string, resolution float64) error {
	if src == "" || dst == "" {
		return fmt.Errorf("%w: resample needs source and destination paths", ErrValidation)
	}
	if resolution <= 0 {
		return fmt.Errorf("%w: resample resolution %g", ErrValidation, resolution)
	}
	return nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func warpOptions(resolution float64, method string) []string {
	if method == "" {
		method = DEFAULT_RESAMPLE_METHOD
	}
	res := fmtFloat(resolution)
	opts := []string{"-r", method, "-tr", res, res}
	for _, co := range DefaultCreationOptions {
		opts = append(opts, "-co", co)
	}
	return opts
}

// 调用外部gdalwarp命令
type GdalwarpCommand struct {
	Binary string // defaults to gdalwarp on PATH
	Method string // defaults to near
}

func (c GdalwarpCommand) Args(src, dst string, resolution, nodata float64) []string {
	args := []string{"-overwrite", "-dstnodata", fmtFloat(nodata), src}
	args = append(args, warpOptions(resolution, c.Method)...)
	return append(args, dst)
}

func (c GdalwarpCommand) Resample(src, dst string, resolution, nodata float64) (err error) {
	if err = checkResampleArgs(src, dst, resolution); err != nil {
		return
	}
	bin := c.Binary
	if bin == "" {
		bin = DEFAULT_GDALWARP
	}
	args := c.Args(src, dst, resolution, nodata)
	log.Info("Gdalwarp:start resample", zap.String("bin", bin), zap.Strings("args", args))
	out, err := exec.Command(bin, args...).CombinedOutput()
	if err != nil {
		log.Error("Gdalwarp:resample failed", zap.String("output", string(out)), zap.Error(err))
		err = fmt.Errorf("%w: %s: %v: %s", ErrResample, bin, err, strings.TrimSpace(string(out)))
		return
	}
	log.Debug("Gdalwarp:resample done", zap.String("output", string(out)))
	return
}

// 进程内通过GDAL Warp重采样
type WarpResampler struct {
	Method string
}

func (w WarpResampler) Resample(src, dst string, resolution, nodata float64) (err error) {
	if err = checkResampleArgs(src, dst, resolution); err != nil {
		return
	}
	sds, err := gdal.Open(src, gdal.RasterOnly())
	if err != nil {
		log.Error("Warp:open source tif failed", zap.String("src", src), zap.Error(err))
		err = fmt.Errorf("%w: %s: %v", ErrFormat, src, err)
		return
	}
	defer sds.Close()
	// -overwrite只被gdalwarp命令识别，这里先删除已有的输出
	if e := os.Remove(dst); e != nil && !os.IsNotExist(e) {
		log.Error("Warp:remove old output failed", zap.String("dst", dst), zap.Error(e))
		err = fmt.Errorf("%w: %s: %v", ErrWrite, dst, e)
		return
	}
	opts := append([]string{"-of", string(gdal.GTiff), "-dstnodata", fmtFloat(nodata)}, warpOptions(resolution, w.Method)...)
	ods, err := gdal.Warp(dst, []*gdal.Dataset{sds}, opts)
	if err != nil {
		log.Error("Warp:resample failed", zap.String("dst", dst), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrResample, err)
		return
	}
	if err = ods.Close(); err != nil {
		err = fmt.Errorf("%w: %v", ErrResample, err)
	}
	return
}
