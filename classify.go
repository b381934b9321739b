package vegheight

type ClassifyOptions struct {
	NoData           float64
	GreenThreshold   float64
	HighVegThreshold float64
	MinVegHeight     float64
}

func DefaultClassifyOptions() ClassifyOptions {
	return DefaultConfig().ClassifyOptions()
}

// 植被指数>=GreenThreshold的像元为1，其余为NoData
func GreenMask(index *Layer, o ClassifyOptions) *Layer {
	out := NewLayer(index.Rows, index.Cols)
	for i, v := range index.Data {
		if v != o.NoData && v >= o.GreenThreshold {
			out.Data[i] = 1
		} else {
			out.Data[i] = o.NoData
		}
	}
	return out
}

// 指数达到HighVegThreshold且高度超过MinVegHeight时保留指数值，否则为NoData
func HighVegetation(index, height *Layer, o ClassifyOptions) (out *Layer, err error) {
	if err = checkSameShape(index, height, "index/height"); err != nil {
		return
	}
	out = NewLayer(index.Rows, index.Cols)
	for i, v := range index.Data {
		h := height.Data[i]
		if v != o.NoData && v >= o.HighVegThreshold && h != o.NoData && h > o.MinVegHeight {
			out.Data[i] = v
		} else {
			out.Data[i] = o.NoData
		}
	}
	return
}

// 绿色像元上的相对高度
func VegetationHeight(index, height *Layer, o ClassifyOptions) (out *Layer, err error) {
	if err = checkSameShape(index, height, "index/height"); err != nil {
		return
	}
	out = NewLayer(index.Rows, index.Cols)
	for i, v := range index.Data {
		h := height.Data[i]
		if v != o.NoData && v >= o.GreenThreshold && h > o.NoData {
			out.Data[i] = h
		} else {
			out.Data[i] = o.NoData
		}
	}
	return
}
