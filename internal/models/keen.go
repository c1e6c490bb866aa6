package models

import "github.com/boscoh/modeldrop/internal/dynamo"

type keen struct{}

// NewKeen builds the Keen model: the Goodwin cycle extended with private
// debt, where investment beyond profit is financed by borrowing and bank
// interest claims a share of output.
func NewKeen() *dynamo.Model {
	m := dynamo.New("keen", keen{})

	m.Params.Set("time", 100)
	m.Params.Set("dt", 0.1)
	m.Params.Set("birthRate", 0.01)
	m.Params.Set("accelerator", 3)
	m.Params.Set("depreciation", 0.01)
	m.Params.Set("productivityRate", 0.02)
	m.Params.Set("interestMultiplier", 0.04)
	m.Params.Set("interest", 0.04)

	m.RegisterFn("wageChange", dynamo.ExpFn{XVal: 0.95, YVal: 0.0, Scale: 0.5, YMin: -0.01})
	m.RegisterFn("investChange", dynamo.ExpFn{XVal: 0.05, YVal: 0.05, Scale: 1.75, YMin: 0})

	m.SetEditable(
		dynamo.EditableParam{Key: "time", Max: 500},
		dynamo.EditableParam{Key: "birthRate", Max: 0.1},
		dynamo.EditableParam{Key: "accelerator", Max: 5},
		dynamo.EditableParam{Key: "depreciation", Max: 0.1},
		dynamo.EditableParam{Key: "productivityRate", Max: 0.1},
		dynamo.EditableParam{Key: "interestMultiplier", Max: 0.5},
		dynamo.EditableParam{Key: "interest", Max: 0.2},
	)

	m.AddPlot(dynamo.Plot{
		Title: "Share of Output",
		Vars:  []string{"bankShare", "wageShare", "profitShare"},
		Markdown: "Adding debt-financed investment lets banks claim a " +
			"growing share of output, which can destabilize the cycle into " +
			"a debt spiral.",
	})
	m.AddPlot(dynamo.Plot{
		Title: "People",
		Vars:  []string{"population", "labor"},
	})
	m.AddPlot(dynamo.Plot{
		Title: "Output",
		Vars:  []string{"output", "wages", "debt", "profit", "bank"},
	})
	m.AddPlot(dynamo.Plot{
		Title: "Wage Change",
		Fn:    "wageChange",
		XLims: [2]float64{0.8, 1.1},
	})
	m.AddPlot(dynamo.Plot{
		Title: "Investment Change",
		Fn:    "investChange",
		XLims: [2]float64{-0.5, 0.3},
	})
	return m
}

func (keen) InitVars(m *dynamo.Model) {
	m.Var.Set("wage", 0.95)
	m.Var.Set("productivity", 1)
	m.Var.Set("population", 50)
	m.Var.Set("output", 0.9*m.Var.Get("population")*m.Var.Get("productivity"))
	m.Var.Set("debt", 0)
}

func (keen) CalcAuxVars(m *dynamo.Model) {
	output := m.Var.Get("output")
	labor := output / m.Var.Get("productivity")
	wages := m.Var.Get("wage") * labor
	debtRatio := m.Var.Get("debt") / output
	interest := m.Params.Get("interest") +
		m.Params.Get("interestMultiplier")*debtRatio
	bank := interest * m.Var.Get("debt")
	profit := output - wages - bank
	capital := output * m.Params.Get("accelerator")

	m.AuxVar.Set("labor", labor)
	m.AuxVar.Set("laborFraction", labor/m.Var.Get("population"))
	m.AuxVar.Set("wages", wages)
	m.AuxVar.Set("debtRatio", debtRatio)
	m.AuxVar.Set("interest", interest)
	m.AuxVar.Set("bank", bank)
	m.AuxVar.Set("profit", profit)
	m.AuxVar.Set("wageShare", wages/output)
	m.AuxVar.Set("bankShare", bank/output)
	m.AuxVar.Set("profitShare", 1-wages/output-bank/output)
	m.AuxVar.Set("capital", capital)
	m.AuxVar.Set("profitRate", profit/capital)

	investmentChange, _ := m.EvalFn("investChange", profit/capital)
	m.AuxVar.Set("investmentChange", investmentChange)
}

func (keen) CalcDVars(m *dynamo.Model, t float64) {
	output := m.Var.Get("output")
	investmentChange := m.AuxVar.Get("investmentChange")

	wageChange, _ := m.EvalFn("wageChange", m.AuxVar.Get("laborFraction"))

	m.DVar.Set("output", output*(
		investmentChange/m.Params.Get("accelerator")-
			m.Params.Get("depreciation")))
	m.DVar.Set("wage", wageChange*m.Var.Get("wage"))
	m.DVar.Set("productivity",
		m.Params.Get("productivityRate")*m.Var.Get("productivity"))
	m.DVar.Set("population",
		m.Params.Get("birthRate")*m.Var.Get("population"))
	m.DVar.Set("debt", investmentChange*output-m.AuxVar.Get("profit"))
}
