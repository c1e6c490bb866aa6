package dynamo

import "math"

// timeGrid builds the output grid 0, dt, 2dt, ... with floor(total/dt)
// points. The small epsilon absorbs binary rounding in total/dt so that
// e.g. 200/0.2 yields exactly 1000 points.
func timeGrid(total, dt float64) []float64 {
	if dt <= 0 || total <= 0 {
		return nil
	}
	n := int(math.Floor(total/dt + 1e-9))
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * dt
	}
	return times
}

func finiteAll(y []float64) bool {
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// record appends one row of state values and its time point.
func (m *Model) record(t float64, y []float64) {
	for i, k := range m.keys {
		m.sol.push(k, y[i])
	}
	m.sol.pushTime(t)
}

// recordSentinel marks a diverged step: NaN for every state variable.
func (m *Model) recordSentinel(t float64) {
	for _, k := range m.keys {
		m.sol.push(k, math.NaN())
	}
	m.sol.pushTime(t)
}

func (m *Model) stateVector() []float64 {
	y := make([]float64, len(m.keys))
	for i, k := range m.keys {
		y[i] = m.Var.Get(k)
	}
	return y
}

// eulerIntegrate steps the state in place across the grid: evaluate aux
// vars and derivatives at each grid time, advance by dvar*dt, record. The
// literal per-step recomputation is what lets models with age-cohort
// delays read their own recorded history.
func (m *Model) eulerIntegrate() {
	dt := m.Params.Get("dt")
	for _, t := range m.Times {
		m.evalDerivs(t)
		for _, k := range m.keys {
			m.Var.Add(k, m.DVar.Get(k)*dt)
		}
		ok := true
		for _, k := range m.keys {
			v := m.Var.Get(k)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				ok = false
				break
			}
		}
		if !ok {
			m.recordSentinel(t)
			return
		}
		m.record(t, m.stateVector())
	}
}

// derive maps the flat vector back into the named state, evaluates the
// model at t, and returns the derivative vector in key order.
func (m *Model) derive(y []float64, t float64) []float64 {
	for i, k := range m.keys {
		m.Var.Set(k, y[i])
	}
	m.evalDerivs(t)
	dy := make([]float64, len(m.keys))
	for i, k := range m.keys {
		dy[i] = m.DVar.Get(k)
	}
	return dy
}

// adaptiveIntegrate records the state at each output grid point while a
// Dormand-Prince stepper controls its own sub-step size inside each
// interval. Output shape matches the Euler path exactly.
func (m *Model) adaptiveIntegrate() {
	const tol = 1e-6

	y := m.stateVector()
	for i, t := range m.Times {
		if i > 0 {
			next, ok := m.advance(y, m.Times[i-1], t, tol)
			if !ok {
				m.recordSentinel(t)
				return
			}
			y = next
		}
		if !finiteAll(y) {
			m.recordSentinel(t)
			return
		}
		m.record(t, y)
	}
}

// advance integrates from t0 to t1 with adaptive sub-steps. Returns false
// as soon as the state goes non-finite.
func (m *Model) advance(y []float64, t0, t1, tol float64) ([]float64, bool) {
	const minDt = 1e-10

	t := t0
	dt := t1 - t0
	for t < t1 {
		if dt > t1-t {
			dt = t1 - t
		}
		yNew, errRatio, dtNext := m.rk45Step(y, t, dt, tol)
		if !finiteAll(yNew) {
			return nil, false
		}
		if errRatio <= 1 || dt <= minDt {
			y = yNew
			t += dt
		}
		dt = dtNext
		if dt < minDt {
			dt = minDt
		}
	}
	return y, true
}

// Dormand-Prince coefficients.
var (
	dpA2 = 1.0 / 5.0
	dpA3 = 3.0 / 10.0
	dpA4 = 4.0 / 5.0
	dpA5 = 8.0 / 9.0

	dpB21 = 1.0 / 5.0
	dpB31 = 3.0 / 40.0
	dpB32 = 9.0 / 40.0
	dpB41 = 44.0 / 45.0
	dpB42 = -56.0 / 15.0
	dpB43 = 32.0 / 9.0
	dpB51 = 19372.0 / 6561.0
	dpB52 = -25360.0 / 2187.0
	dpB53 = 64448.0 / 6561.0
	dpB54 = -212.0 / 729.0
	dpB61 = 9017.0 / 3168.0
	dpB62 = -355.0 / 33.0
	dpB63 = 46732.0 / 5247.0
	dpB64 = 49.0 / 176.0
	dpB65 = -5103.0 / 18656.0

	dpC1 = 35.0 / 384.0
	dpC3 = 500.0 / 1113.0
	dpC4 = 125.0 / 192.0
	dpC5 = -2187.0 / 6784.0
	dpC6 = 11.0 / 84.0

	dpD1 = dpC1 - 5179.0/57600.0
	dpD3 = dpC3 - 7571.0/16695.0
	dpD4 = dpC4 - 393.0/640.0
	dpD5 = dpC5 - -92097.0/339200.0
	dpD6 = dpC6 - 187.0/2100.0
	dpD7 = -1.0 / 40.0
)

const (
	dpSafety   = 0.9
	dpMinScale = 0.2
	dpMaxScale = 10.0
)

// rk45Step takes one embedded Dormand-Prince step of size dt. It returns
// the fifth-order estimate, the error ratio against tol (accept when
// <= 1), and a suggested next step size.
func (m *Model) rk45Step(y []float64, t, dt, tol float64) ([]float64, float64, float64) {
	n := len(y)

	k1 := m.derive(y, t)

	y2 := make([]float64, n)
	for i := 0; i < n; i++ {
		y2[i] = y[i] + dt*dpB21*k1[i]
	}
	k2 := m.derive(y2, t+dpA2*dt)

	y3 := make([]float64, n)
	for i := 0; i < n; i++ {
		y3[i] = y[i] + dt*(dpB31*k1[i]+dpB32*k2[i])
	}
	k3 := m.derive(y3, t+dpA3*dt)

	y4 := make([]float64, n)
	for i := 0; i < n; i++ {
		y4[i] = y[i] + dt*(dpB41*k1[i]+dpB42*k2[i]+dpB43*k3[i])
	}
	k4 := m.derive(y4, t+dpA4*dt)

	y5 := make([]float64, n)
	for i := 0; i < n; i++ {
		y5[i] = y[i] + dt*(dpB51*k1[i]+dpB52*k2[i]+dpB53*k3[i]+dpB54*k4[i])
	}
	k5 := m.derive(y5, t+dpA5*dt)

	y6 := make([]float64, n)
	for i := 0; i < n; i++ {
		y6[i] = y[i] + dt*(dpB61*k1[i]+dpB62*k2[i]+dpB63*k3[i]+dpB64*k4[i]+dpB65*k5[i])
	}
	k6 := m.derive(y6, t+dt)

	yNew := make([]float64, n)
	for i := 0; i < n; i++ {
		yNew[i] = y[i] + dt*(dpC1*k1[i]+dpC3*k3[i]+dpC4*k4[i]+dpC5*k5[i]+dpC6*k6[i])
	}

	k7 := m.derive(yNew, t+dt)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dpD1*k1[i] + dpD3*k3[i] + dpD4*k4[i] + dpD5*k5[i] + dpD6*k6[i] + dpD7*k7[i])
		scale := math.Abs(y[i]) + math.Abs(dt*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	errRatio := errMax / tol

	var dtNext float64
	switch {
	case errRatio > 1:
		dtNext = dt * math.Max(dpMinScale, dpSafety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		dtNext = dt * math.Min(dpMaxScale, dpSafety*math.Pow(errRatio, -0.2))
	default:
		dtNext = dt * dpMaxScale
	}

	return yNew, errRatio, dtNext
}
