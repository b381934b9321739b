package vegheight

import (
	"fmt"

	gdal "github.com/airbusgeo/godal"
)

// 二维栅格，按行存储
type Layer struct {
	Rows int
	Cols int
	Data []float64
}

func NewLayer(rows, cols int) *Layer {
	return &Layer{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// 以已有数据构造栅格，长度需与行列数一致
func NewLayerFrom(rows, cols int, data []float64) (l *Layer, err error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		err = fmt.Errorf("%w: %d values for a %dx%d grid", ErrValidation, len(data), rows, cols)
		return
	}
	l = &Layer{Rows: rows, Cols: cols, Data: data}
	return
}

// 填充同一值的栅格
func NewFilledLayer(rows, cols int, v float64) *Layer {
	l := NewLayer(rows, cols)
	for i := range l.Data {
		l.Data[i] = v
	}
	return l
}

func (l *Layer) At(row, col int) float64 {
	return l.Data[row*l.Cols+col]
}

func (l *Layer) Set(row, col int, v float64) {
	l.Data[row*l.Cols+col] = v
}

func (l *Layer) Shape() (rows, cols int) {
	return l.Rows, l.Cols
}

func (l *Layer) SameShape(o *Layer) bool {
	return l.Rows == o.Rows && l.Cols == o.Cols
}

func (l *Layer) Clone() *Layer {
	c := &Layer{Rows: l.Rows, Cols: l.Cols, Data: make([]float64, len(l.Data))}
	copy(c.Data, l.Data)
	return c
}

// 两个栅格行列数之差 (primary - reference)
type ShapeDelta struct {
	Rows int
	Cols int
}

func ShapeDeltaOf(primary, reference *Layer) ShapeDelta {
	return ShapeDelta{Rows: primary.Rows - reference.Rows, Cols: primary.Cols - reference.Cols}
}

func (d ShapeDelta) String() string {
	return fmt.Sprintf("(%d,%d)", d.Rows, d.Cols)
}

// 栅格的地理参考及存储信息
type Profile struct {
	Projection   string // WKT
	GeoTransform [6]float64
	HasTransform bool
	DataType     gdal.DataType
	NoData       float64
	HasNoData    bool
	BandCount    int
	Width        int
	Height       int
	Creation     []string // GTiff creation options, e.g. COMPRESS=DEFLATE
}

// 派生栅格的profile：Float32、单波段、指定nodata、默认压缩
func (p Profile) Derived(nodata float64) Profile {
	d := p
	d.DataType = gdal.Float32
	d.BandCount = 1
	d.NoData = nodata
	d.HasNoData = true
	d.Creation = append([]string(nil), DefaultCreationOptions...)
	return d
}

// 原点平移rows行cols列后的profile，宽高相应缩减
func (p Profile) Shifted(rows, cols int) Profile {
	s := p
	if p.HasTransform {
		gt := p.GeoTransform
		s.GeoTransform[0] = gt[0] + float64(cols)*gt[1] + float64(rows)*gt[2]
		s.GeoTransform[3] = gt[3] + float64(cols)*gt[4] + float64(rows)*gt[5]
	}
	return s
}
