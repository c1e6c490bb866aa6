package dynamo

// RateKind says where a flow's rate value is read from at each evaluation.
type RateKind int

const (
	// AuxRate reads the rate from the auxiliary vector.
	AuxRate RateKind = iota
	// ParamRate reads the rate from the parameter set.
	ParamRate
)

func (k RateKind) String() string {
	if k == ParamRate {
		return "param"
	}
	return "aux"
}

// Flow declares a conserved transfer between two state variables: at each
// evaluation the rate is subtracted from the source derivative and added
// to the destination derivative, so the pair cancels exactly.
type Flow struct {
	From string
	To   string
	Rate string
	Kind RateKind
}

// AddAuxFlow declares a transfer whose rate is an auxiliary variable.
func (m *Model) AddAuxFlow(from, to, auxName string) {
	m.Flows = append(m.Flows, Flow{From: from, To: to, Rate: auxName, Kind: AuxRate})
}

// AddParamFlow declares a transfer whose rate is a parameter.
func (m *Model) AddParamFlow(from, to, paramName string) {
	m.Flows = append(m.Flows, Flow{From: from, To: to, Rate: paramName, Kind: ParamRate})
}

// applyFlows folds every declared flow into the derivative vector. It runs
// after the model's own CalcDVars, and contributions accumulate: a state
// variable may be source of one flow and destination of another in the
// same step.
func (m *Model) applyFlows() {
	for _, f := range m.Flows {
		var rate float64
		if f.Kind == ParamRate {
			rate = m.Params.Get(f.Rate)
		} else {
			rate = m.AuxVar.Get(f.Rate)
		}
		m.DVar.Add(f.From, -rate)
		m.DVar.Add(f.To, rate)
	}
}
