package dynamo

import (
	"math"
	"testing"
)

func TestLinFn(t *testing.T) {
	fn := LinFn{Slope: 2, XZero: 3}
	if fn.Eval(3) != 0 {
		t.Errorf("Eval(3) = %f, want 0", fn.Eval(3))
	}
	if fn.Eval(5) != 4 {
		t.Errorf("Eval(5) = %f, want 4", fn.Eval(5))
	}
}

func TestExpFn_Anchor(t *testing.T) {
	fn := ExpFn{XVal: 0.95, YVal: 0.0, Scale: 0.5, YMin: -0.01}
	got := fn.Eval(0.95)
	if math.Abs(got-0.0) > 1e-12 {
		t.Errorf("Eval at anchor = %f, want 0", got)
	}
	// far below the anchor the curve flattens onto its floor
	if got := fn.Eval(-100); math.Abs(got-(-0.01)) > 1e-6 {
		t.Errorf("Eval(-100) = %f, want ~-0.01", got)
	}
}

func TestSqFn_Pole(t *testing.T) {
	fn := SqFn{A: 0.0000641, B: 1, C: 1, D: 0.0400641}
	// rises steeply toward the pole at x = 1
	if fn.Eval(0.99) <= fn.Eval(0.9) {
		t.Error("expected curve to rise toward the pole")
	}
	if math.Abs(fn.Eval(0)-(0.0000641-0.0400641)) > 1e-12 {
		t.Errorf("Eval(0) = %f", fn.Eval(0))
	}
}

func TestApproachFn(t *testing.T) {
	fn := ApproachFn{YInit: 1, YFinal: 3, XMid: 10}
	if fn.Eval(-5) != 1 {
		t.Error("negative inputs should hold at YInit")
	}
	if math.Abs(fn.Eval(10)-2) > 1e-12 {
		t.Errorf("Eval(XMid) = %f, want halfway (2)", fn.Eval(10))
	}
	if got := fn.Eval(1e9); math.Abs(got-3) > 1e-6 {
		t.Errorf("Eval(large) = %f, want ~3", got)
	}
}

func TestCutoffFn(t *testing.T) {
	inner := SqFn{A: 0.0000641, B: 1, C: 1, D: 0.0400641}
	fn := CutoffFn{Inner: inner, XMax: 0.9999}
	yMax := inner.Eval(0.9999)

	if fn.Eval(2) != yMax {
		t.Error("inputs past XMax should clamp to the cutoff value")
	}
	// past the pole the inner curve comes back down but still exceeds yMax
	if fn.Eval(1.00001) != yMax {
		t.Error("inner values above the cutoff should clamp")
	}
	if fn.Eval(0.9) != inner.Eval(0.9) {
		t.Error("inputs below XMax should pass through")
	}
}

func TestCapacityFn(t *testing.T) {
	fn := CapacityFn{Diff: 3, XHalf: 10}
	if fn.Eval(-1) != 1 {
		t.Error("negative input should give 1")
	}
	if math.Abs(fn.Eval(10)-2.5) > 1e-12 {
		t.Errorf("Eval(XHalf) = %f, want 2.5 (half the gain)", fn.Eval(10))
	}
	if got := fn.Eval(1e9); math.Abs(got-4) > 1e-6 {
		t.Errorf("Eval(large) = %f, want ~4", got)
	}
}

func TestSampleCurve(t *testing.T) {
	points := sampleCurve(LinFn{Slope: 1}, 0, 10, 11)
	if len(points) != 11 {
		t.Fatalf("expected 11 points, got %d", len(points))
	}
	if points[0].X != 0 || points[10].X != 10 {
		t.Errorf("endpoints wrong: %f, %f", points[0].X, points[10].X)
	}
	if points[5].Y != 5 {
		t.Errorf("points[5].Y = %f, want 5", points[5].Y)
	}
}
