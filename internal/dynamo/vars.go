package dynamo

// Vars is an insertion-ordered mapping from variable name to value.
// The adaptive integrator relies on the iteration order being stable to
// marshal the named state into a flat vector and back, so order is part
// of the contract: a name keeps its position for as long as it is set.
type Vars struct {
	keys []string
	vals map[string]float64
}

func NewVars() *Vars {
	return &Vars{vals: make(map[string]float64)}
}

// Set stores val under name, appending name to the iteration order on
// first use.
func (v *Vars) Set(name string, val float64) {
	if _, ok := v.vals[name]; !ok {
		v.keys = append(v.keys, name)
	}
	v.vals[name] = val
}

// Add increments the stored value, treating a missing name as zero.
func (v *Vars) Add(name string, delta float64) {
	v.Set(name, v.vals[name]+delta)
}

// Get returns the value for name, or zero if it was never set. Structural
// mistakes (a derivative with no matching state, a dangling flow rate) are
// caught by the consistency check rather than here.
func (v *Vars) Get(name string) float64 {
	return v.vals[name]
}

func (v *Vars) Has(name string) bool {
	_, ok := v.vals[name]
	return ok
}

// Keys returns the names in insertion order. The slice is shared; callers
// must not modify it.
func (v *Vars) Keys() []string {
	return v.keys
}

func (v *Vars) Len() int {
	return len(v.keys)
}

// Total sums all stored values in insertion order.
func (v *Vars) Total() float64 {
	sum := 0.0
	for _, k := range v.keys {
		sum += v.vals[k]
	}
	return sum
}

// Clear removes every entry. Used to rebuild the per-run stores.
func (v *Vars) Clear() {
	v.keys = v.keys[:0]
	for k := range v.vals {
		delete(v.vals, k)
	}
}

func (v *Vars) Clone() *Vars {
	c := NewVars()
	for _, k := range v.keys {
		c.Set(k, v.vals[k])
	}
	return c
}
