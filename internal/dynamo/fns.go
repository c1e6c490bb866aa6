package dynamo

import "math"

// Fn is a pure scalar response curve. Implementations are immutable value
// objects: any parameter values they depend on are frozen when the value
// is built, not read live. Models that want a curve to track parameter
// edits rebuild it in InitVars.
type Fn interface {
	Eval(x float64) float64
}

// Point is one sample of a response curve.
type Point struct {
	X float64
	Y float64
}

// LinFn is a linear ramp crossing zero at XZero.
type LinFn struct {
	Slope float64
	XZero float64
}

func (f LinFn) Eval(x float64) float64 {
	return f.Slope * (x - f.XZero)
}

// ExpFn is an exponential response anchored at (XVal, YVal) with floor YMin.
type ExpFn struct {
	XVal  float64
	YVal  float64
	Scale float64
	YMin  float64
}

func (f ExpFn) Eval(x float64) float64 {
	yDiff := f.YVal - f.YMin
	return yDiff*math.Exp(f.Scale*(x-f.XVal)/yDiff) + f.YMin
}

// SqFn is the rational curve A/(B-C*x)^2 - D, with a pole at x = B/C.
type SqFn struct {
	A float64
	B float64
	C float64
	D float64
}

func (f SqFn) Eval(x float64) float64 {
	den := f.B - f.C*x
	return f.A/(den*den) - f.D
}

// ApproachFn rises from YInit toward YFinal, reaching halfway at XMid.
// Negative inputs hold at YInit.
type ApproachFn struct {
	YInit  float64
	YFinal float64
	XMid   float64
}

func (f ApproachFn) Eval(x float64) float64 {
	if x < 0 {
		return f.YInit
	}
	return f.YInit + (f.YFinal-f.YInit)*(x/(f.XMid+x))
}

// CutoffFn clamps Inner to its value at XMax, both for inputs past XMax
// and for any inner value that would exceed it (the inner curve may have
// a pole before XMax).
type CutoffFn struct {
	Inner Fn
	XMax  float64
}

func (f CutoffFn) Eval(x float64) float64 {
	yMax := f.Inner.Eval(f.XMax)
	if x > f.XMax {
		return yMax
	}
	y := f.Inner.Eval(x)
	if y > yMax {
		return yMax
	}
	return y
}

// CapacityFn is a saturating capacity multiplier: 1 at or below zero,
// approaching 1+Diff as x grows, half the gain at XHalf.
type CapacityFn struct {
	Diff  float64
	XHalf float64
}

func (f CapacityFn) Eval(x float64) float64 {
	if x < 0 {
		return 1
	}
	return 1 + f.Diff*(x/(f.XHalf+x))
}

// sampleCurve evaluates fn at n evenly spaced points across [xMin, xMax].
func sampleCurve(fn Fn, xMin, xMax float64, n int) []Point {
	if n < 2 {
		n = 2
	}
	step := (xMax - xMin) / float64(n-1)
	points := make([]Point, n)
	for i := range points {
		x := xMin + float64(i)*step
		points[i] = Point{X: x, Y: fn.Eval(x)}
	}
	return points
}
