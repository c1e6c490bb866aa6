package models

import "github.com/boscoh/modeldrop/internal/dynamo"

type epidemiology struct{}

// NewEpidemiology builds the standard three-compartment SIR model. All
// derivative contributions come from the two declared flows, so the total
// population is conserved by construction.
func NewEpidemiology() *dynamo.Model {
	m := dynamo.New("epi", epidemiology{})

	m.Params.Set("time", 300)
	m.Params.Set("dt", 1)
	m.Params.Set("initialPopulation", 50000)
	m.Params.Set("initialPrevalence", 3000)
	m.Params.Set("recoverRate", 0.1)
	m.Params.Set("reproductionNumber", 1.5)
	m.Params.Set("infectiousPeriod", 10)

	m.AddAuxFlow("susceptible", "infectious", "forceOfInfection")
	m.AddParamFlow("infectious", "recovered", "recoverRate")

	m.AddPlot(dynamo.Plot{
		Title: "Populations",
		Vars:  []string{"susceptible", "infectious", "recovered"},
		Markdown: "The SIR model moves people between compartments through " +
			"balanced flows: susceptible people are infected through the " +
			"force of infection, and infectious people recover at " +
			"1/infectiousPeriod. Declines in one compartment are exactly " +
			"matched by growth in another.",
	})
	m.AddPlot(dynamo.Plot{
		Title: "Effective Reproduction Number",
		Vars:  []string{"rn"},
	})
	m.SetEditable(
		dynamo.EditableParam{Key: "time", Max: 1000},
		dynamo.EditableParam{Key: "infectiousPeriod", Max: 100},
		dynamo.EditableParam{Key: "reproductionNumber", Max: 15},
		dynamo.EditableParam{Key: "initialPrevalence", Max: 100000},
		dynamo.EditableParam{Key: "initialPopulation", Max: 100000},
	)
	return m
}

func (epidemiology) InitVars(m *dynamo.Model) {
	// recoverRate and contactRate are derived parameters, recomputed at
	// run start so infectiousPeriod edits take effect.
	m.Params.Set("recoverRate", 1/m.Params.Get("infectiousPeriod"))
	m.Params.Set("contactRate",
		m.Params.Get("reproductionNumber")*m.Params.Get("recoverRate"))

	m.Var.Set("infectious", m.Params.Get("initialPrevalence"))
	m.Var.Set("susceptible",
		m.Params.Get("initialPopulation")-m.Params.Get("initialPrevalence"))
	m.Var.Set("recovered", 0)
}

func (epidemiology) CalcAuxVars(m *dynamo.Model) {
	population := m.Var.Total()
	m.AuxVar.Set("population", population)
	m.AuxVar.Set("forceOfInfection",
		m.Params.Get("contactRate")/population*m.Var.Get("infectious"))
	m.AuxVar.Set("rn",
		m.Var.Get("susceptible")/population*m.Params.Get("reproductionNumber"))
}

func (epidemiology) CalcDVars(m *dynamo.Model, t float64) {
	// Compartment changes come entirely from the declared flows.
	for _, key := range m.Var.Keys() {
		m.DVar.Set(key, 0)
	}
}
