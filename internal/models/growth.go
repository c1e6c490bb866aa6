package models

import "github.com/boscoh/modeldrop/internal/dynamo"

type growth struct{}

// NewGrowth builds the fundamental population model: one unconstrained
// exponential population next to one held back by a carrying capacity.
func NewGrowth() *dynamo.Model {
	m := dynamo.New("growth", growth{})

	m.Params.Set("time", 400)
	m.Params.Set("dt", 1)
	m.Params.Set("growthRate", 0.035)
	m.Params.Set("carryingCapacity", 1000)

	m.AddPlot(dynamo.Plot{
		Title: "Exponential Growth",
		Vars:  []string{"population"},
		Markdown: "All dynamic population models have an exponential growth " +
			"equation at their heart; this population grows without limits.",
	})
	m.AddPlot(dynamo.Plot{
		Title: "Resource Constrained",
		Vars:  []string{"boundedPopulation"},
		Markdown: "The logistic equation reduces the growth rate by crowding " +
			"as the population approaches the carrying capacity.",
	})
	return m
}

func (growth) InitVars(m *dynamo.Model) {
	m.Var.Set("population", 10)
	m.Var.Set("boundedPopulation", 10)
}

func (growth) CalcAuxVars(m *dynamo.Model) {}

func (growth) CalcDVars(m *dynamo.Model, t float64) {
	r := m.Params.Get("growthRate")
	k := m.Params.Get("carryingCapacity")
	pop := m.Var.Get("population")
	bounded := m.Var.Get("boundedPopulation")

	m.DVar.Set("population", r*pop)
	m.DVar.Set("boundedPopulation", r*bounded*(1-bounded/k))
}
