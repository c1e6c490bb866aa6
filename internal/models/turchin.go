package models

import "github.com/boscoh/modeldrop/internal/dynamo"

type turchin struct{}

// carryCapacityFn builds the saturating capacity multiplier from the
// model's current carryCapacityDiff and stateAtHalfCapacity parameters.
func carryCapacityFn(m *dynamo.Model) dynamo.CapacityFn {
	return dynamo.CapacityFn{
		Diff:  m.Params.Get("carryCapacityDiff"),
		XHalf: m.Params.Get("stateAtHalfCapacity"),
	}
}

// NewTurchin builds Turchin's demographic-state model: a population grows
// on surplus production, the state taxes that surplus, and state revenue
// lifts the carrying capacity in turn.
func NewTurchin() *dynamo.Model {
	m := dynamo.New("turchin", turchin{})

	m.Params.Set("time", 500)
	m.Params.Set("maxSurplus", 1)
	m.Params.Set("taxOnSurplus", 1)
	m.Params.Set("growth", 0.02)
	m.Params.Set("expenditurePerCapita", 0.25)
	m.Params.Set("stateAtHalfCapacity", 10)
	m.Params.Set("carryCapacityDiff", 3)

	// Registered here so the curve can be sampled without a run, and
	// rebuilt in InitVars so parameter edits take effect.
	m.RegisterFn("carryCapacityFromStateRevenue", carryCapacityFn(m))

	m.SetEditable(
		dynamo.EditableParam{Key: "time", Max: 1000},
		dynamo.EditableParam{Key: "maxSurplus", Max: 2},
		dynamo.EditableParam{Key: "taxOnSurplus", Max: 2},
		dynamo.EditableParam{Key: "growth", Max: 0.1},
	)

	m.AddPlot(dynamo.Plot{
		Title: "People",
		Vars:  []string{"populationDensity", "carryingCapacity"},
		Markdown: "Population grows logistically against a carrying " +
			"capacity that is itself raised by state revenue. When the state " +
			"runs out of money the capacity collapses and the population " +
			"crashes with it.",
	})
	m.AddPlot(dynamo.Plot{
		Title: "Surplus",
		Vars:  []string{"surplus"},
	})
	m.AddPlot(dynamo.Plot{
		Title: "State Revenue",
		Vars:  []string{"state"},
	})
	m.AddPlot(dynamo.Plot{
		Title: "Carrying Capacity Function",
		Fn:    "carryCapacityFromStateRevenue",
		XLims: [2]float64{0, 100},
	})
	return m
}

func (turchin) InitVars(m *dynamo.Model) {
	m.RegisterFn("carryCapacityFromStateRevenue", carryCapacityFn(m))

	m.Var.Set("populationDensity", 0.2)
	m.Var.Set("state", 0)
}

func (turchin) CalcAuxVars(m *dynamo.Model) {
	capacity, _ := m.EvalFn("carryCapacityFromStateRevenue", m.Var.Get("state"))
	m.AuxVar.Set("carryingCapacity", capacity)
	m.AuxVar.Set("surplus", m.Params.Get("maxSurplus")*(
		1-m.Var.Get("populationDensity")/capacity))
}

func (turchin) CalcDVars(m *dynamo.Model, t float64) {
	density := m.Var.Get("populationDensity")
	surplus := m.AuxVar.Get("surplus")

	m.DVar.Set("populationDensity", m.Params.Get("growth")*density*surplus)
	m.DVar.Set("state",
		m.Params.Get("taxOnSurplus")*density*surplus-
			m.Params.Get("expenditurePerCapita")*density)
}
