package models

import "github.com/boscoh/modeldrop/internal/dynamo"

type spring struct{}

// NewSpring builds the elastic spring model, the second-order equation
// x'' = -a*x split into first-order position and velocity equations.
func NewSpring() *dynamo.Model {
	m := dynamo.New("spring", spring{})

	m.Params.Set("time", 5)
	m.Params.Set("dt", 0.1)
	m.Params.Set("a", 1)
	m.Params.Set("initX", 1)
	m.Params.Set("initV", 0)

	m.AddPlot(dynamo.Plot{
		Title:    "Spring",
		Vars:     []string{"x", "v"},
		Markdown: "The spring equation x'' = -a*x restated as dx/dt = v and dv/dt = -a*x.",
	})
	return m
}

func (spring) InitVars(m *dynamo.Model) {
	m.Var.Set("x", m.Params.Get("initX"))
	m.Var.Set("v", m.Params.Get("initV"))
}

func (spring) CalcAuxVars(m *dynamo.Model) {}

func (spring) CalcDVars(m *dynamo.Model, t float64) {
	m.DVar.Set("x", m.Var.Get("v"))
	m.DVar.Set("v", -m.Params.Get("a")*m.Var.Get("x"))
}
