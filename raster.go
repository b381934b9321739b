package vegheight

import (
	"fmt"
	"os"

	"github.com/wgdzlh/vegheight/log"
	"github.com/wgdzlh/vegheight/utils"

	gdal "github.com/airbusgeo/godal"
	lgdal "github.com/lukeroth/gdal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func init() {
	gdal.RegisterAll()
}

// RasterStore 负责栅格波段及其地理参考的读写
type RasterStore struct {
	refMap map[string]lgdal.SpatialReference
	tmpDir string
	logTag string
}

// 初始化RasterStore，tmpDir为可选的临时目录路径（未提供的话为系统临时目录）
func NewRasterStore(tmpDir ...string) *RasterStore {
	s := &RasterStore{
		refMap: map[string]lgdal.SpatialReference{},
		logTag: "RasterStore:",
	}
	if len(tmpDir) > 0 && tmpDir[0] != "" {
		s.tmpDir = tmpDir[0]
	}
	return s
}

func (s *RasterStore) TmpDir() string {
	return s.tmpDir
}

// 释放缓存的坐标系
func (s *RasterStore) Close() {
	for k, ref := range s.refMap {
		ref.Destroy()
		delete(s.refMap, k)
	}
}

// 读取第一波段
func (s *RasterStore) Read(path string) (l *Layer, p Profile, err error) {
	ls, p, err := s.ReadBands(path, 1)
	if err != nil {
		return
	}
	l = ls[0]
	return
}

// 读取指定波段（从1开始），未指定时读取第一波段
func (s *RasterStore) ReadBands(path string, bands ...int) (ls []*Layer, p Profile, err error) {
	if path == "" {
		err = fmt.Errorf("%w: empty raster path", ErrValidation)
		return
	}
	if len(bands) == 0 {
		bands = []int{1}
	}
	if _, e := os.Stat(path); e != nil {
		if os.IsNotExist(e) {
			err = fmt.Errorf("%w: %s", ErrNotFound, path)
		} else {
			err = fmt.Errorf("%w: %s: %v", ErrFormat, path, e)
		}
		log.Error(s.logTag+"stat raster failed", zap.String("path", path), zap.Error(e))
		return
	}
	ds, err := gdal.Open(path, gdal.RasterOnly())
	if err != nil {
		log.Error(s.logTag+"open tif failed", zap.String("path", path), zap.Error(err))
		err = fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
		return
	}
	defer ds.Close()
	tifBands := ds.Bands()
	if len(tifBands) == 0 {
		err = fmt.Errorf("%w: %s has no bands", ErrFormat, path)
		return
	}
	p = profileOf(ds, tifBands[0])
	log.Info(s.logTag+"start read tif", zap.String("path", path), zap.Int("bands", p.BandCount),
		zap.Ints("bufBands", bands), zap.String("dt", p.DataType.String()),
		zap.Int("width", p.Width), zap.Int("height", p.Height))
	ls = make([]*Layer, len(bands))
	for i, b := range bands {
		if b < 1 || b > len(tifBands) {
			err = fmt.Errorf("%w: %s has %d bands, band %d requested", ErrFormat, path, len(tifBands), b)
			return
		}
		l := NewLayer(p.Height, p.Width)
		if e := tifBands[b-1].Read(0, 0, l.Data, p.Width, p.Height); e != nil {
			log.Error(s.logTag+"read tif band failed", zap.Int("band", b), zap.Error(e))
			err = fmt.Errorf("%w: %s band %d: %v", ErrFormat, path, b, e)
			return
		}
		ls[i] = l
	}
	if srid, e := s.Srid(p); e == nil {
		log.Debug(s.logTag+"tif srs", zap.String("path", path), zap.Int("srid", srid))
	}
	return
}

func profileOf(ds *gdal.Dataset, first gdal.Band) (p Profile) {
	st := ds.Structure()
	p.Width = st.SizeX
	p.Height = st.SizeY
	p.BandCount = st.NBands
	p.DataType = first.Structure().DataType
	p.Projection = ds.Projection()
	if gt, err := ds.GeoTransform(); err == nil {
		p.GeoTransform = gt
		p.HasTransform = true
	}
	p.NoData, p.HasNoData = first.NoData()
	return
}

// 写出单波段Float32 GeoTIFF，Creation为空时用DefaultCreationOptions
func (s *RasterStore) Write(path string, l *Layer, p Profile) (err error) {
	if path == "" {
		err = fmt.Errorf("%w: empty output path", ErrValidation)
		return
	}
	if l.Rows <= 0 || l.Cols <= 0 || len(l.Data) != l.Rows*l.Cols {
		err = fmt.Errorf("%w: cannot write %dx%d grid with %d values", ErrValidation, l.Rows, l.Cols, len(l.Data))
		return
	}
	if !utils.IsTifPath(path) {
		log.Warn(s.logTag+"output is written as GeoTIFF", zap.String("path", path))
	}
	opts := p.Creation
	if len(opts) == 0 {
		opts = DefaultCreationOptions
	}
	ds, err := gdal.Create(gdal.GTiff, path, 1, gdal.Float32, l.Cols, l.Rows, gdal.CreationOption(opts...))
	if err != nil {
		log.Error(s.logTag+"create tif failed", zap.String("path", path), zap.Error(err))
		err = writeErr(path, err)
		return
	}
	defer func() {
		if e := ds.Close(); e != nil {
			log.Error(s.logTag+"close tif failed", zap.String("path", path), zap.Error(e))
			err = multierr.Append(err, writeErr(path, e))
		}
	}()
	if p.Projection != "" {
		if err = ds.SetProjection(p.Projection); err != nil {
			err = writeErr(path, err)
			return
		}
	}
	if p.HasTransform {
		if err = ds.SetGeoTransform(p.GeoTransform); err != nil {
			err = writeErr(path, err)
			return
		}
	}
	band := ds.Bands()[0]
	if p.HasNoData {
		if err = band.SetNoData(p.NoData); err != nil {
			err = writeErr(path, err)
			return
		}
	}
	buf := make([]float32, len(l.Data))
	for i, v := range l.Data {
		buf[i] = float32(v)
	}
	if err = band.Write(0, 0, buf, l.Cols, l.Rows); err != nil {
		log.Error(s.logTag+"write tif band failed", zap.String("path", path), zap.Error(err))
		err = writeErr(path, err)
		return
	}
	log.Info(s.logTag+"raster saved", zap.String("path", path), zap.Int("width", l.Cols), zap.Int("height", l.Rows))
	return
}

func writeErr(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
}
