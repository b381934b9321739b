package vegheight

// 相对高度 = DSM - DTM，有效性只看DSM（水面上的树冠DTM无效）
func RelativeHeight(terrain, surface *Layer, sentinel float64) (out *Layer, err error) {
	if err = checkSameShape(terrain, surface, "terrain/surface"); err != nil {
		return
	}
	out = NewLayer(surface.Rows, surface.Cols)
	for i, s := range surface.Data {
		if s > sentinel {
			out.Data[i] = s - terrain.Data[i]
		} else {
			out.Data[i] = sentinel
		}
	}
	return
}
