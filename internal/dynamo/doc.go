// Package dynamo is a small framework for first-order ODE models with
// named state variables.
//
// A model implements the [System] interface, declaring how its state is
// initialized from parameters and how auxiliary quantities and derivatives
// are computed at an instant. The [Model] container owns the parameter set,
// the variable stores, the function registry, and the run lifecycle:
//
//	m := dynamo.New("ecology", sys)
//	m.Params.Set("time", 200)
//	m.Params.Set("dt", 0.2)
//	if err := m.Run(); err != nil { ... }
//	prey, _ := m.Trajectory("prey")
//
// Only state variables are integrated. Auxiliary variables are recomputed
// from the recorded state trajectories after the run, so their time series
// line up point-for-point with the state series.
//
// A run that drives a state variable to NaN or infinity is truncated, not
// failed: the offending step is recorded as NaN for every variable and
// integration halts. Callers detect truncation by comparing a trajectory's
// length against len(m.Times).
package dynamo
