package models

import (
	"fmt"

	"github.com/boscoh/modeldrop/internal/dynamo"
)

var fatherGroups = []string{"naive", "moderate", "radical"}

type fathers struct {
	nAge int
	pops map[string][]string
}

// NewFathers builds Turchin's fathers-and-sons model of generational
// violence. Radicalization spreads like an infection through age-structured
// naive, radical, and moderate cohorts, producing cycles of roughly fifty
// years.
func NewFathers() *dynamo.Model {
	m := dynamo.New("fathers", &fathers{})

	// Age cohorts shift by one group per year, which an adaptive stepper
	// would smear out. Fixed-step Euler keeps the cohort progression exact.
	m.Method = dynamo.FixedStepEuler

	m.Params.Set("time", 100)
	m.Params.Set("dt", 0.5)
	m.Params.Set("nAge", 25)
	m.Params.Set("radicalisation", 0.3)
	m.Params.Set("aversion", 1)
	m.Params.Set("disenchantment", 0.5)
	m.Params.Set("delay", 10)

	m.SetEditable(
		dynamo.EditableParam{Key: "time", Max: 500},
		dynamo.EditableParam{Key: "nAge", Max: 50},
	)
	return m
}

func (f *fathers) cohortKeys(group string) []string {
	keys := make([]string, f.nAge)
	for age := 0; age < f.nAge; age++ {
		keys[age] = fmt.Sprintf("%s_%d", group, age)
	}
	return keys
}

func (f *fathers) InitVars(m *dynamo.Model) {
	f.nAge = int(m.Params.Get("nAge"))
	f.pops = map[string][]string{}
	for _, group := range fatherGroups {
		f.pops[group] = f.cohortKeys(group)
	}

	for age := 0; age < f.nAge; age++ {
		m.Var.Set(fmt.Sprintf("naive_%d", age), 0.5/float64(f.nAge))
		m.Var.Set(fmt.Sprintf("radical_%d", age), 0.1/float64(f.nAge))
		m.Var.Set(fmt.Sprintf("moderate_%d", age), 0.4/float64(f.nAge))
	}

	// Cohort plots depend on nAge, so the plot list is rebuilt per run.
	m.Plots = m.Plots[:0]
	m.AddPlot(dynamo.Plot{
		Title: "All",
		Vars:  []string{"naive_total", "radical_total", "moderate_total"},
		Markdown: "Naive people are radicalized at a rate proportional to " +
			"the number of radicals, damped by the number of moderates. " +
			"Radicals become disenchanted after a delay and turn moderate. " +
			"Each age cohort progresses to the next over one year.",
	})
	m.AddPlot(dynamo.Plot{Title: "Naive Age Groups", Vars: f.pops["naive"]})
	m.AddPlot(dynamo.Plot{Title: "Radical Age Groups", Vars: f.pops["radical"]})
	m.AddPlot(dynamo.Plot{Title: "Moderate Age Groups", Vars: f.pops["moderate"]})
}

func (f *fathers) CalcAuxVars(m *dynamo.Model) {
	for _, group := range fatherGroups {
		total := 0.0
		for _, key := range f.pops[group] {
			total += m.Var.Get(key)
		}
		m.AuxVar.Set(group+"_total", total)
	}

	// Disenchantment responds to the radical population as it stood
	// delay years ago, read back from the recorded trajectory.
	lag := int(m.Params.Get("delay") / m.Params.Get("dt"))
	if lag < 1 {
		lag = 1
	}
	delayed := 0.0
	for _, key := range f.pops["radical"] {
		series, ok := m.Solution().Series(key)
		if !ok || len(series) <= lag {
			continue
		}
		delayed += series[len(series)-lag]
	}
	m.AuxVar.Set("radical_total_delayed", delayed)

	m.AuxVar.Set("rho", m.Params.Get("disenchantment")*delayed)
	m.AuxVar.Set("sigma", m.AuxVar.Get("radical_total")*(
		m.Params.Get("radicalisation")-
			m.Params.Get("aversion")*m.AuxVar.Get("moderate_total")))
}

func (f *fathers) CalcDVars(m *dynamo.Model, t float64) {
	for _, key := range m.Var.Keys() {
		m.DVar.Set(key, -m.Var.Get(key))
	}

	m.DVar.Add("naive_0", 1.0/float64(f.nAge))

	rho := m.AuxVar.Get("rho")
	sigma := m.AuxVar.Get("sigma")
	for age := 1; age < f.nAge; age++ {
		prev := age - 1
		naivePrev := m.Var.Get(fmt.Sprintf("naive_%d", prev))
		radicalPrev := m.Var.Get(fmt.Sprintf("radical_%d", prev))

		m.DVar.Add(fmt.Sprintf("naive_%d", age), naivePrev*(1-sigma))
		m.DVar.Add(fmt.Sprintf("radical_%d", age), radicalPrev*(1-rho))
		m.DVar.Add(fmt.Sprintf("radical_%d", age), naivePrev*sigma)
		m.DVar.Add(fmt.Sprintf("moderate_%d", age),
			m.Var.Get(fmt.Sprintf("moderate_%d", prev)))
		m.DVar.Add(fmt.Sprintf("moderate_%d", age), radicalPrev*rho)
	}
}
