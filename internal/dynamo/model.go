package dynamo

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Method selects the stepping strategy for a model.
type Method int

const (
	// AdaptiveRK integrates with an adaptive Dormand-Prince solver that
	// controls its own step size between output grid points.
	AdaptiveRK Method = iota
	// FixedStepEuler recomputes aux vars and derivatives literally at
	// every grid point. Needed by models that look back into the
	// recorded solution (age-cohort delays).
	FixedStepEuler
)

func (m Method) String() string {
	if m == FixedStepEuler {
		return "euler"
	}
	return "rk45"
}

// ParseMethod maps a config/CLI name to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "rk45", "adaptive", "":
		return AdaptiveRK, nil
	case "euler":
		return FixedStepEuler, nil
	}
	return AdaptiveRK, fmt.Errorf("unknown method %q", s)
}

// System supplies the model-specific equations. All three methods read and
// write through the Model's variable stores; they must be pure functions of
// (state, params) at an instant, with no memory between calls.
type System interface {
	// InitVars sets the initial state vector from the parameter set. It
	// runs at the start of every run, so parameter edits take effect and
	// any registered curves that depend on parameters can be rebuilt.
	InitVars(m *Model)
	// CalcAuxVars derives the auxiliary vector from state and params.
	CalcAuxVars(m *Model)
	// CalcDVars writes d(state)/dt for every state variable. Declared
	// flows are folded in by the framework afterwards.
	CalcDVars(m *Model, t float64)
}

// Plot declares a group of variables (or one registered function) that a
// front end should display together. Validated before every run.
type Plot struct {
	Title    string
	Vars     []string
	Fn       string
	XLims    [2]float64
	Markdown string
}

// EditableParam describes a parameter exposed for external tuning.
type EditableParam struct {
	Key   string
	Max   float64
	Min   float64
	IsLog bool
}

// ParamDescriptor is an EditableParam joined with the current value, as
// handed to front ends.
type ParamDescriptor struct {
	Key   string
	Value float64
	Min   float64
	Max   float64
	IsLog bool
}

// Model bundles a System with its parameters, variable stores, function
// registry, declarations, and the trajectories of the most recent run.
//
// The exported stores are meant to be accessed from System methods during
// evaluation. A Model must not be shared between concurrent runs; Run
// rejects overlap with ErrRunInProgress.
type Model struct {
	Name   string
	Method Method

	Params *Vars
	Var    *Vars
	DVar   *Vars
	AuxVar *Vars

	Flows          []Flow
	Plots          []Plot
	EditableParams []EditableParam

	// Times is the full output grid of the most recent run. A truncated
	// run records fewer points than len(Times).
	Times []float64

	system  System
	fns     map[string]Fn
	keys    []string
	sol     *Solution
	running sync.Mutex
}

// New creates a model around sys with the reserved duration and step
// parameters at their defaults. Constructors then fill in parameters,
// flows, plots, and editable descriptors before the first run.
func New(name string, sys System) *Model {
	m := &Model{
		Name:   name,
		Params: NewVars(),
		Var:    NewVars(),
		DVar:   NewVars(),
		AuxVar: NewVars(),
		system: sys,
		fns:    make(map[string]Fn),
		sol:    newSolution(),
	}
	m.Params.Set("time", 100)
	m.Params.Set("dt", 1)
	return m
}

// RegisterFn stores a response curve under name, replacing any previous
// registration (models rebuild parameter-dependent curves in InitVars).
func (m *Model) RegisterFn(name string, fn Fn) {
	m.fns[name] = fn
}

// Fn looks up a registered curve.
func (m *Model) Fn(name string) (Fn, error) {
	fn, ok := m.fns[name]
	if !ok {
		return nil, FnError{Name: name}
	}
	return fn, nil
}

// EvalFn evaluates a registered curve at x.
func (m *Model) EvalFn(name string, x float64) (float64, error) {
	fn, err := m.Fn(name)
	if err != nil {
		return 0, err
	}
	return fn.Eval(x), nil
}

// FnNames lists registered curves, sorted for stable display.
func (m *Model) FnNames() []string {
	names := make([]string, 0, len(m.fns))
	for name := range m.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FnCurve samples a registered curve at n points across [xMin, xMax],
// independent of any run.
func (m *Model) FnCurve(name string, xMin, xMax float64, n int) ([]Point, error) {
	fn, err := m.Fn(name)
	if err != nil {
		return nil, err
	}
	return sampleCurve(fn, xMin, xMax, n), nil
}

// SetParam sets one parameter by name. Unknown names are a caller error
// and leave the model, including prior trajectories, untouched.
func (m *Model) SetParam(name string, value float64) error {
	if !m.Params.Has(name) {
		return ParamError{Name: name}
	}
	m.Params.Set(name, value)
	return nil
}

// AddPlot appends a plot declaration.
func (m *Model) AddPlot(p Plot) {
	m.Plots = append(m.Plots, p)
}

// SetEditable declares the explicitly tunable parameters.
func (m *Model) SetEditable(ps ...EditableParam) {
	m.EditableParams = append(m.EditableParams, ps...)
}

// StateKeys returns the state-variable names captured at the start of the
// most recent run, in insertion order.
func (m *Model) StateKeys() []string {
	return m.keys
}

// Solution exposes the trajectory store of the most recent run. Models
// with delayed lookups read their own history through it mid-run.
func (m *Model) Solution() *Solution {
	return m.sol
}

// Trajectory returns the recorded series for a state or auxiliary
// variable. ok is false before any run or for unknown names.
func (m *Model) Trajectory(name string) ([]float64, bool) {
	return m.sol.Series(name)
}

// SolutionTimes returns the time points actually reached by the most
// recent run (shorter than Times when the run truncated).
func (m *Model) SolutionTimes() []float64 {
	return m.sol.Times
}

// Truncated reports whether the most recent run halted early on a
// non-finite state value.
func (m *Model) Truncated() bool {
	n := m.sol.Len()
	if n == 0 {
		return false
	}
	if n < len(m.Times) {
		return true
	}
	for _, k := range m.keys {
		if traj, ok := m.sol.Series(k); ok && math.IsNaN(traj[n-1]) {
			return true
		}
	}
	return false
}

// Run executes one simulation: reinitialize state from parameters, verify
// the declaration, integrate over a fresh time grid, then reconstruct the
// auxiliary trajectories. Divergence truncates the trajectories and still
// returns nil; only declaration errors fail the run.
func (m *Model) Run() error {
	if !m.running.TryLock() {
		return ErrRunInProgress
	}
	defer m.running.Unlock()

	m.sol = newSolution()
	m.Var.Clear()
	m.DVar.Clear()
	m.AuxVar.Clear()

	m.system.InitVars(m)
	m.keys = append([]string(nil), m.Var.Keys()...)

	if err := m.checkConsistency(); err != nil {
		return err
	}

	m.Times = timeGrid(m.Params.Get("time"), m.Params.Get("dt"))

	if m.Method == FixedStepEuler {
		m.eulerIntegrate()
	} else {
		m.adaptiveIntegrate()
	}

	m.calcAuxVarSolutions()
	return nil
}

// evalDerivs performs one full evaluation at (current state, t): aux vars,
// model derivatives, then flow contributions.
func (m *Model) evalDerivs(t float64) {
	m.system.CalcAuxVars(m)
	m.system.CalcDVars(m, t)
	m.applyFlows()
}

// checkConsistency runs one throwaway evaluation at t=0 and then verifies
// every cross-reference in the declaration. All failures are reported
// together, each naming its key.
func (m *Model) checkConsistency() error {
	m.evalDerivs(0)

	var errs []error

	for _, k := range m.keys {
		if !m.DVar.Has(k) {
			errs = append(errs, CheckError{Field: "var", Key: k, Want: "dvar"})
		}
	}
	for _, k := range m.DVar.Keys() {
		if !m.Var.Has(k) {
			errs = append(errs, CheckError{Field: "dvar", Key: k, Want: "var"})
		}
	}

	for _, p := range m.Plots {
		for _, v := range p.Vars {
			if !m.Var.Has(v) && !m.AuxVar.Has(v) {
				errs = append(errs, CheckError{Field: "plot", Key: v, Want: "var or aux var"})
			}
		}
		if p.Fn != "" {
			if _, ok := m.fns[p.Fn]; !ok {
				errs = append(errs, CheckError{Field: "plot", Key: p.Fn, Want: "fn registry"})
			}
		}
	}

	for _, p := range m.EditableParams {
		if !m.Params.Has(p.Key) {
			errs = append(errs, CheckError{Field: "editable param", Key: p.Key, Want: "params"})
		}
	}

	for _, f := range m.Flows {
		if !m.Var.Has(f.From) {
			errs = append(errs, CheckError{Field: "flow source", Key: f.From, Want: "var"})
		}
		if !m.Var.Has(f.To) {
			errs = append(errs, CheckError{Field: "flow destination", Key: f.To, Want: "var"})
		}
		switch f.Kind {
		case ParamRate:
			if !m.Params.Has(f.Rate) {
				errs = append(errs, CheckError{Field: "flow rate", Key: f.Rate, Want: "params"})
			}
		default:
			if !m.AuxVar.Has(f.Rate) {
				errs = append(errs, CheckError{Field: "flow rate", Key: f.Rate, Want: "aux var"})
			}
		}
	}

	if err := m.extractEditableParams(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// extractEditableParams completes the editable-parameter list with
// descriptors for any parameter not explicitly declared, deriving display
// bounds from the current value: 5x for positive values, 1 for zero.
// Negative values cannot be auto-bounded. The reserved dt is never
// exposed.
func (m *Model) extractEditableParams() error {
	declared := make(map[string]bool, len(m.EditableParams))
	for _, p := range m.EditableParams {
		declared[p.Key] = true
	}
	var errs []error
	for _, k := range m.Params.Keys() {
		if k == "dt" || declared[k] {
			continue
		}
		val := m.Params.Get(k)
		var max float64
		switch {
		case val > 0:
			max = 5 * val
		case val == 0:
			max = 1
		default:
			errs = append(errs, BoundsError{Name: k, Value: val})
			continue
		}
		m.EditableParams = append(m.EditableParams, EditableParam{Key: k, Max: max})
		declared[k] = true
	}
	return errors.Join(errs...)
}

// DescribeParams returns the editable parameters with their current
// values and display bounds, deriving missing descriptors first.
func (m *Model) DescribeParams() ([]ParamDescriptor, error) {
	if err := m.extractEditableParams(); err != nil {
		return nil, err
	}
	descs := make([]ParamDescriptor, 0, len(m.EditableParams))
	for _, p := range m.EditableParams {
		if !m.Params.Has(p.Key) {
			return nil, CheckError{Field: "editable param", Key: p.Key, Want: "params"}
		}
		descs = append(descs, ParamDescriptor{
			Key:   p.Key,
			Value: m.Params.Get(p.Key),
			Min:   p.Min,
			Max:   p.Max,
			IsLog: p.IsLog,
		})
	}
	return descs, nil
}

// calcAuxVarSolutions replays each recorded time point's state through
// CalcAuxVars and appends the derived values to their own trajectories.
// Sentinel (NaN) state rows propagate to NaN aux values, keeping every
// series the same length.
func (m *Model) calcAuxVarSolutions() {
	n := m.sol.Len()
	for i := 0; i < n; i++ {
		for _, k := range m.keys {
			traj, ok := m.sol.Series(k)
			if ok && i < len(traj) {
				m.Var.Set(k, traj[i])
			} else {
				m.Var.Set(k, math.NaN())
			}
		}
		m.system.CalcAuxVars(m)
		for _, k := range m.AuxVar.Keys() {
			m.sol.push(k, m.AuxVar.Get(k))
		}
	}
}
