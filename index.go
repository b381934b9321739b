package vegheight

import (
	"fmt"
	"math"
)

type IndexOptions struct {
	NoData          float64 // output sentinel
	SourceNoData    float64
	HasSourceNoData bool
	Scale           float64 // applied to both bands before the formula, 0 means 1
}

// MSAVI = (2b+1-sqrt((2b+1)^2-8(b-a)))/2，根号内负值截为0，任一波段无效则输出NoData
func Msavi(a, b *Layer, opts IndexOptions) (out *Layer, err error) {
	if err = checkSameShape(a, b, "index bands"); err != nil {
		return
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	out = NewLayer(a.Rows, a.Cols)
	for i := range a.Data {
		va, vb := a.Data[i], b.Data[i]
		if !validBand(va, opts) || !validBand(vb, opts) {
			out.Data[i] = opts.NoData
			continue
		}
		out.Data[i] = msavi(va*scale, vb*scale)
	}
	return
}

func validBand(v float64, opts IndexOptions) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return !(opts.HasSourceNoData && v == opts.SourceNoData)
}

func msavi(a, b float64) float64 {
	t := 2*b + 1
	rad := t*t - 8*(b-a)
	if rad < 0 {
		rad = 0
	}
	return (t - math.Sqrt(rad)) / 2
}

func (o IndexOptions) String() string {
	return fmt.Sprintf("nodata=%g scale=%g", o.NoData, o.Scale)
}
