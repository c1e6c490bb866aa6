package models

import (
	"fmt"
	"sort"

	"github.com/boscoh/modeldrop/internal/dynamo"
)

var builders = map[string]func() *dynamo.Model{
	"growth":   NewGrowth,
	"spring":   NewSpring,
	"ecology":  NewEcology,
	"epi":      NewEpidemiology,
	"goodwin":  NewGoodwin,
	"keen":     NewKeen,
	"turchin":  NewTurchin,
	"elite":    NewElite,
	"fathers":  NewFathers,
	"property": NewProperty,
}

// Lookup returns a freshly constructed model by name.
func Lookup(name string) (*dynamo.Model, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (try one of %v)", name, Names())
	}
	return build(), nil
}

// Names lists the available model names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All constructs every model in the catalog, sorted by name.
func All() []*dynamo.Model {
	ms := make([]*dynamo.Model, 0, len(builders))
	for _, name := range Names() {
		ms = append(ms, builders[name]())
	}
	return ms
}
