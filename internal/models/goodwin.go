package models

import "github.com/boscoh/modeldrop/internal/dynamo"

type goodwin struct{}

// NewGoodwin builds the Goodwin business cycle, one of the earliest fully
// dynamical models of an economy: labor and capital incomes cycle through
// their own interaction, with no external shocks.
func NewGoodwin() *dynamo.Model {
	m := dynamo.New("goodwin", goodwin{})

	m.Params.Set("time", 100)
	m.Params.Set("dt", 0.1)
	m.Params.Set("accelerator", 3)
	m.Params.Set("depreciation", 0.01)
	m.Params.Set("productivityRate", 0.02)
	m.Params.Set("birthRate", 0.01)

	// The wage response has a pole just past full employment; the cutoff
	// clamps it so the integrator never crosses the asymptote. Curve
	// constants are not editable parameters, so building once is enough.
	m.RegisterFn("wageChangeFn", dynamo.CutoffFn{
		Inner: dynamo.SqFn{A: 0.0000641, B: 1, C: 1, D: 0.0400641},
		XMax:  0.9999,
	})

	m.SetEditable(
		dynamo.EditableParam{Key: "time", Max: 500},
		dynamo.EditableParam{Key: "birthRate", Max: 0.1},
		dynamo.EditableParam{Key: "accelerator", Max: 5},
		dynamo.EditableParam{Key: "depreciation", Max: 0.1},
		dynamo.EditableParam{Key: "productivityRate", Max: 0.1},
	)

	m.AddPlot(dynamo.Plot{
		Title: "Share",
		Vars:  []string{"wageShare", "profitShare"},
		Markdown: "The relative incomes of labor and capital, generated " +
			"purely by self-interacting dynamics.",
	})
	m.AddPlot(dynamo.Plot{
		Title: "Output",
		Vars:  []string{"output", "wages", "capital"},
		Markdown: "Standard macro relationships: output = labor x " +
			"productivity, capital = output x accelerator, with capitalists " +
			"reinvesting all profit.",
	})
	m.AddPlot(dynamo.Plot{
		Title:    "People",
		Vars:     []string{"population", "labor"},
		Markdown: "The workforce grows exponentially at the birth rate.",
	})
	m.AddPlot(dynamo.Plot{
		Title: "Wage Change Function",
		Fn:    "wageChangeFn",
		XLims: [2]float64{0.8, 0.995},
		Markdown: "Workers demand wage rises as employment approaches " +
			"saturation, squeezing profit and turning the cycle.",
	})
	return m
}

func (goodwin) InitVars(m *dynamo.Model) {
	m.Var.Set("wage", 0.95)
	m.Var.Set("productivity", 1)
	m.Var.Set("population", 50)
	m.Var.Set("labor", 0.9*m.Var.Get("population"))
}

func (goodwin) CalcAuxVars(m *dynamo.Model) {
	labor := m.Var.Get("labor")
	output := labor * m.Var.Get("productivity")
	wages := labor * m.Var.Get("wage")

	m.AuxVar.Set("laborFraction", labor/m.Var.Get("population"))
	m.AuxVar.Set("output", output)
	m.AuxVar.Set("capital", output*m.Params.Get("accelerator"))
	m.AuxVar.Set("wages", wages)
	m.AuxVar.Set("wageShare", wages/output)
	m.AuxVar.Set("profitShare", 1-wages/output)
}

func (goodwin) CalcDVars(m *dynamo.Model, t float64) {
	wage := m.Var.Get("wage")
	productivity := m.Var.Get("productivity")

	wageChange, _ := m.EvalFn("wageChangeFn", m.AuxVar.Get("laborFraction"))

	m.DVar.Set("labor", m.Var.Get("labor")*(
		(1-wage/productivity)/m.Params.Get("accelerator")-
			m.Params.Get("depreciation")-
			m.Params.Get("productivityRate")))
	m.DVar.Set("wage", wageChange*wage)
	m.DVar.Set("productivity", m.Params.Get("productivityRate")*productivity)
	m.DVar.Set("population", m.Params.Get("birthRate")*m.Var.Get("population"))
}
