package vegheight

import "fmt"

// 裁剪primary对齐reference，仅支持(1,1)去掉末行末列和(2,2)去掉外圈
func Reconcile(primary, reference *Layer) (out *Layer, err error) {
	d := ShapeDeltaOf(primary, reference)
	switch d {
	case ShapeDelta{}:
		out = primary.Clone()
	case ShapeDelta{Rows: 1, Cols: 1}:
		out = crop(primary, 0, 0, reference.Rows, reference.Cols)
	case ShapeDelta{Rows: 2, Cols: 2}:
		out = crop(primary, 1, 1, reference.Rows, reference.Cols)
	default:
		err = fmt.Errorf("%w: %dx%d vs %dx%d, delta %s", ErrAlignment,
			primary.Rows, primary.Cols, reference.Rows, reference.Cols, d)
	}
	return
}

// 与Reconcile对应的profile：(2,2)时原点下移一行右移一列
func ReconcileProfile(p Profile, d ShapeDelta) Profile {
	if d == (ShapeDelta{Rows: 2, Cols: 2}) {
		p = p.Shifted(1, 1)
	}
	p.Width -= d.Cols
	p.Height -= d.Rows
	return p
}

func crop(l *Layer, row0, col0, rows, cols int) *Layer {
	out := NewLayer(rows, cols)
	for r := 0; r < rows; r++ {
		copy(out.Data[r*cols:(r+1)*cols], l.Data[(row0+r)*l.Cols+col0:])
	}
	return out
}

func checkSameShape(a, b *Layer, what string) error {
	if !a.SameShape(b) {
		return fmt.Errorf("%w: %s %dx%d vs %dx%d", ErrAlignment, what, a.Rows, a.Cols, b.Rows, b.Cols)
	}
	return nil
}
