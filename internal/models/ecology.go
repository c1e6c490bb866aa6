package models

import "github.com/boscoh/modeldrop/internal/dynamo"

type ecology struct{}

// NewEcology builds the Lotka-Volterra predator-prey model, the first
// population model to reproduce oscillating populations over time.
func NewEcology() *dynamo.Model {
	m := dynamo.New("ecology", ecology{})

	m.Params.Set("time", 200)
	m.Params.Set("dt", 0.2)
	m.Params.Set("initialPrey", 10)
	m.Params.Set("initialPredator", 5)
	m.Params.Set("preyBirthRate", 0.2)
	m.Params.Set("predationRate", 0.1)
	m.Params.Set("digestionRate", 0.1)
	m.Params.Set("predatorDeathRate", 0.2)

	m.AddPlot(dynamo.Plot{
		Title: "Ecology",
		Vars:  []string{"predator", "prey"},
		Markdown: "Prey grow at their birth rate and are eaten at the " +
			"predation rate; predators grow by digesting prey and die by " +
			"natural attrition. The coupling produces sustained cycles.",
	})
	m.SetEditable(
		dynamo.EditableParam{Key: "time", Max: 300},
		dynamo.EditableParam{Key: "initialPrey", Max: 20},
		dynamo.EditableParam{Key: "initialPredator", Max: 20},
		dynamo.EditableParam{Key: "preyBirthRate", Max: 2},
		dynamo.EditableParam{Key: "predationRate", Max: 2},
		dynamo.EditableParam{Key: "predatorDeathRate", Max: 2},
		dynamo.EditableParam{Key: "digestionRate", Max: 2},
	)
	return m
}

func (ecology) InitVars(m *dynamo.Model) {
	m.Var.Set("predator", m.Params.Get("initialPredator"))
	m.Var.Set("prey", m.Params.Get("initialPrey"))
}

func (ecology) CalcAuxVars(m *dynamo.Model) {}

func (ecology) CalcDVars(m *dynamo.Model, t float64) {
	prey := m.Var.Get("prey")
	predator := m.Var.Get("predator")

	m.DVar.Set("prey",
		prey*m.Params.Get("preyBirthRate")-
			m.Params.Get("predationRate")*prey*predator)
	m.DVar.Set("predator",
		m.Params.Get("digestionRate")*prey*predator-
			predator*m.Params.Get("predatorDeathRate"))
}
