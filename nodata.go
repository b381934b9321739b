package vegheight

import "math"

// 有效值区间，超出的值视为nodata
type ValidRange struct {
	Min float64
	Max float64
}

func (r ValidRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func isSentinel(v, sentinel float64) bool {
	if math.IsNaN(sentinel) {
		return math.IsNaN(v)
	}
	return v == sentinel
}

// 将等于from的像元替换为to，其余不变
func Remap(l *Layer, from, to float64) *Layer {
	out := l.Clone()
	for i, v := range out.Data {
		if isSentinel(v, from) {
			out.Data[i] = to
		}
	}
	return out
}

// 同Remap，另将区间外（含NaN）的值一并替换为to
func RemapOutOfRange(l *Layer, from, to float64, r ValidRange) *Layer {
	out := l.Clone()
	for i, v := range out.Data {
		if isSentinel(v, from) || !r.Contains(v) {
			out.Data[i] = to
		}
	}
	return out
}

// 按profile声明的nodata归一化，未声明时只处理NaN
func normalizeDeclared(l *Layer, p Profile, sentinel float64) *Layer {
	if p.HasNoData {
		return Remap(l, p.NoData, sentinel)
	}
	return Remap(l, math.NaN(), sentinel)
}

// 等于sentinel的像元为true
func InvalidMask(l *Layer, sentinel float64) []bool {
	mask := make([]bool, len(l.Data))
	for i, v := range l.Data {
		mask[i] = isSentinel(v, sentinel)
	}
	return mask
}

func countTrue(mask []bool) (n int) {
	for _, m := range mask {
		if m {
			n++
		}
	}
	return
}
