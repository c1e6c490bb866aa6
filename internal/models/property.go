package models

import (
	"math"

	"github.com/boscoh/modeldrop/internal/dynamo"
)

// minPayment returns the level annual payment that retires principal over
// nPayment years at the given interest rate.
func minPayment(principal, rate, nPayment float64) float64 {
	return rate * principal / (1 - math.Pow(1+rate, -nPayment))
}

type property struct{}

// NewProperty builds a rent-versus-buy comparison: one track pays down a
// mortgage on an appreciating property, the other rents and invests the
// deposit plus the payment difference in a fund.
func NewProperty() *dynamo.Model {
	m := dynamo.New("property", property{})

	m.Params.Set("time", 50)
	m.Params.Set("initialProperty", 600000)
	m.Params.Set("deposit", 150000)
	m.Params.Set("interestRate", 0.05)
	m.Params.Set("propertyRate", 0.045)
	m.Params.Set("mortgageLength", 30)
	m.Params.Set("fundRate", 0.08)
	m.Params.Set("rentMonth", 2000)
	m.Params.Set("inflation", 0.02)

	m.SetEditable(
		dynamo.EditableParam{Key: "time", Max: 100},
		dynamo.EditableParam{Key: "mortgageLength", Max: 100},
		dynamo.EditableParam{Key: "interestRate", Max: 0.5},
		dynamo.EditableParam{Key: "initialProperty", Max: 1000000},
		dynamo.EditableParam{Key: "deposit", Max: 1000000},
		dynamo.EditableParam{Key: "propertyRate", Max: 0.5},
		dynamo.EditableParam{Key: "fundRate", Max: 0.5},
	)

	m.AddPlot(dynamo.Plot{
		Title: "Month",
		Vars: []string{
			"paymentMonth", "interestMonth", "rentMonth", "fundChangeMonth",
		},
		Markdown: "Monthly cash flows of the two tracks: mortgage payment " +
			"and its interest component against rent and the surplus " +
			"invested in the fund.",
	})
	m.AddPlot(dynamo.Plot{
		Title: "Property",
		Vars: []string{
			"paid", "property", "totalInterest", "propertyProfit", "principal",
		},
	})
	m.AddPlot(dynamo.Plot{
		Title: "Fund",
		Vars:  []string{"paid", "fund", "totalRent", "fundProfit"},
	})
	return m
}

func (property) InitVars(m *dynamo.Model) {
	m.Var.Set("property", m.Params.Get("initialProperty"))
	m.Var.Set("principal",
		m.Params.Get("initialProperty")-m.Params.Get("deposit"))
	m.Var.Set("totalInterest", 0)
	m.Var.Set("fund", m.Params.Get("deposit"))
	m.Var.Set("rent", m.Params.Get("rentMonth")*12)
	m.Var.Set("totalRent", 0)
	m.Var.Set("paid", m.Params.Get("deposit"))
}

func (property) CalcAuxVars(m *dynamo.Model) {
	deposit := m.Params.Get("deposit")
	paymentRate := minPayment(
		m.Params.Get("initialProperty")-deposit,
		m.Params.Get("interestRate"),
		m.Params.Get("mortgageLength"))
	interestPaid := m.Params.Get("interestRate") * m.Var.Get("principal")
	fundChange := paymentRate - m.Var.Get("rent")

	m.AuxVar.Set("paymentRate", paymentRate)
	m.AuxVar.Set("interestPaid", interestPaid)
	m.AuxVar.Set("fundChange", fundChange)
	m.AuxVar.Set("interestMonth", interestPaid/12)
	m.AuxVar.Set("paymentMonth", paymentRate/12)
	m.AuxVar.Set("rentMonth", m.Var.Get("rent")/12)
	m.AuxVar.Set("fundChangeMonth", fundChange/12)
	m.AuxVar.Set("propertyProfit",
		m.Var.Get("property")-deposit-m.Var.Get("principal")-
			m.Var.Get("totalInterest"))
	m.AuxVar.Set("fundProfit",
		m.Var.Get("fund")-deposit-m.Var.Get("totalRent"))
}

func (property) CalcDVars(m *dynamo.Model, t float64) {
	m.DVar.Set("totalInterest", m.AuxVar.Get("interestPaid"))
	m.DVar.Set("property",
		m.Params.Get("propertyRate")*m.Var.Get("property"))
	if m.Var.Get("principal") >= 0 {
		m.DVar.Set("principal",
			-(m.AuxVar.Get("paymentRate") - m.AuxVar.Get("interestPaid")))
	} else {
		// Mortgage paid off; stop drawing down the principal.
		m.DVar.Set("principal", 0)
	}
	m.DVar.Set("fund",
		m.Params.Get("fundRate")*m.Var.Get("fund")+m.AuxVar.Get("fundChange"))
	m.DVar.Set("paid", m.AuxVar.Get("paymentRate"))
	m.DVar.Set("rent", m.Params.Get("inflation")*m.Var.Get("rent"))
	m.DVar.Set("totalRent", m.Var.Get("rent"))
}
