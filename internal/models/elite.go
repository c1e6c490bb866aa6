package models

import "github.com/boscoh/modeldrop/internal/dynamo"

type elite struct{}

// NewElite builds Turchin's elite demographic model, a three-variable
// extension of the demographic-state model that splits society into
// producers, elites, and state revenue.
func NewElite() *dynamo.Model {
	m := dynamo.New("elite", elite{})

	m.Params.Set("time", 100)
	m.Params.Set("dt", 1)
	m.Params.Set("b1", 0.02)
	m.Params.Set("b2", 0.5)
	m.Params.Set("d1", 0.02)
	m.Params.Set("d2", 0.025)
	m.Params.Set("gam", 10)
	m.Params.Set("al", 0.2)
	m.Params.Set("stateAtHalfCapacity", 5)
	m.Params.Set("carryCapacityDiff", 1.5)
	m.Params.Set("initProducers", 1)
	m.Params.Set("initElites", 0.01)
	m.Params.Set("initState", 0)

	// Registered here so the curve can be sampled without a run, and
	// rebuilt in InitVars so parameter edits take effect.
	m.RegisterFn("carryCapacityFromStateRevenue", carryCapacityFn(m))

	m.SetEditable(
		dynamo.EditableParam{Key: "time", Max: 1000},
	)

	m.AddPlot(dynamo.Plot{
		Title: "People",
		Vars:  []string{"producers", "elites", "state"},
		Markdown: "Producers generate the surplus, elites skim it, and the " +
			"state accumulates what elite growth leaves behind.",
	})
	m.AddPlot(dynamo.Plot{
		Title: "Carrying Capacity Function",
		Fn:    "carryCapacityFromStateRevenue",
		XLims: [2]float64{0, 100},
	})
	return m
}

func (elite) InitVars(m *dynamo.Model) {
	m.RegisterFn("carryCapacityFromStateRevenue", carryCapacityFn(m))

	m.Var.Set("producers", m.Params.Get("initProducers"))
	m.Var.Set("elites", m.Params.Get("initElites"))
	m.Var.Set("state", m.Params.Get("initState"))
}

func (elite) CalcAuxVars(m *dynamo.Model) {
	producers := m.Var.Get("producers")
	capacity, _ := m.EvalFn("carryCapacityFromStateRevenue", m.Var.Get("state"))
	m.AuxVar.Set("carryingCapacity", capacity)
	m.AuxVar.Set("surplus",
		producers*(1-producers/capacity)/(1+m.Var.Get("elites")))
}

func (elite) CalcDVars(m *dynamo.Model, t float64) {
	elites := m.Var.Get("elites")
	surplus := m.AuxVar.Get("surplus")

	dElites := m.Params.Get("b2")*elites*surplus -
		m.Params.Get("d2")*elites/(1+m.Var.Get("state"))

	m.DVar.Set("producers",
		m.Params.Get("b1")*surplus-m.Params.Get("d1")*m.Var.Get("producers"))
	m.DVar.Set("elites", dElites)
	m.DVar.Set("state", m.Params.Get("gam")*dElites-m.Params.Get("al")*elites)
}
