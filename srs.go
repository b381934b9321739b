package vegheight

import (
	"errors"
	"strconv"

	"github.com/wgdzlh/vegheight/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

var ErrVoidSrid = errors.New("raster with void srid")

// 获取WKT对应的坐标系（缓存复用，由Close统一回收）
func (s *RasterStore) getSrsRef(wkt string) (ref gdal.SpatialReference, err error) {
	ref, ok := s.refMap[wkt]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromWKT(wkt); err != nil {
		log.Error(s.logTag+"parse srs wkt failed", zap.Error(err))
		ref.Destroy()
		return
	}
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	s.refMap[wkt] = ref
	return
}

// 获取栅格坐标系的EPSG代码
func (s *RasterStore) Srid(p Profile) (srid int, err error) {
	if p.Projection == "" {
		err = ErrVoidSrid
		return
	}
	ref, err := s.getSrsRef(p.Projection)
	if err != nil {
		return
	}
	rawId, ok := ref.AttrValue("AUTHORITY", 1)
	if !ok {
		if ref.AutoIdentifyEPSG() != nil {
			err = ErrVoidSrid
			return
		}
		if rawId, ok = ref.AttrValue("AUTHORITY", 1); !ok {
			err = ErrVoidSrid
			return
		}
	}
	srid, err = strconv.Atoi(rawId)
	return
}

// 判断两个栅格是否同一坐标系，均无坐标系时视为相同
func (s *RasterStore) SameSrs(a, b Profile) (same bool, err error) {
	if a.Projection == "" || b.Projection == "" {
		same = a.Projection == b.Projection
		return
	}
	if a.Projection == b.Projection {
		same = true
		return
	}
	refA, err := s.getSrsRef(a.Projection)
	if err != nil {
		return
	}
	refB, err := s.getSrsRef(b.Projection)
	if err != nil {
		return
	}
	same = refA.IsSame(refB)
	return
}
