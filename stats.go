package vegheight

import (
	"math"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// 有效像元统计
type Summary struct {
	Valid   int
	Invalid int
	Min     float64
	Max     float64
	Mean    float64
	StdDev  float64
}

func Summarize(l *Layer, sentinel float64) (s Summary) {
	vals := make([]float64, 0, len(l.Data))
	for _, v := range l.Data {
		if isSentinel(v, sentinel) || math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
	}
	s.Valid = len(vals)
	s.Invalid = len(l.Data) - s.Valid
	if s.Valid == 0 {
		return
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	if s.Valid == 1 {
		s.StdDev = 0
	}
	return
}

func (s Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("valid", s.Valid)
	enc.AddInt("invalid", s.Invalid)
	if s.Valid > 0 {
		enc.AddFloat64("min", s.Min)
		enc.AddFloat64("max", s.Max)
		enc.AddFloat64("mean", s.Mean)
		enc.AddFloat64("std", s.StdDev)
	}
	return nil
}

func summaryField(l *Layer, sentinel float64) zap.Field {
	return zap.Object("stats", Summarize(l, sentinel))
}
