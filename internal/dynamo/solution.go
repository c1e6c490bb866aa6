package dynamo

// Solution stores the trajectories of one run: a shared time axis plus one
// value series per state and auxiliary variable. It is rebuilt from scratch
// on every run, never patched.
type Solution struct {
	Times  []float64
	order  []string
	series map[string][]float64
}

func newSolution() *Solution {
	return &Solution{series: make(map[string][]float64)}
}

func (s *Solution) push(name string, v float64) {
	if _, ok := s.series[name]; !ok {
		s.order = append(s.order, name)
	}
	s.series[name] = append(s.series[name], v)
}

func (s *Solution) pushTime(t float64) {
	s.Times = append(s.Times, t)
}

// Series returns the recorded values for one variable.
func (s *Solution) Series(name string) ([]float64, bool) {
	vals, ok := s.series[name]
	return vals, ok
}

// Names lists recorded variables in recording order: state variables
// first, auxiliary variables after reconstruction.
func (s *Solution) Names() []string {
	return s.order
}

// Len is the number of time points actually reached.
func (s *Solution) Len() int {
	return len(s.Times)
}
