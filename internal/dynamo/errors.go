package dynamo

import (
	"errors"
	"fmt"
)

// ErrRunInProgress is returned by Run when the model is already running.
// A Model is not re-entrant; overlapping runs must be serialized by the
// caller.
var ErrRunInProgress = errors.New("dynamo: run already in progress")

// CheckError reports one consistency failure in a model declaration,
// naming the offending key so the declaration can be fixed.
type CheckError struct {
	Field string // which declaration is broken: "var", "dvar", "plot", ...
	Key   string
	Want  string // where the key was expected to resolve
}

func (e CheckError) Error() string {
	return fmt.Sprintf("%s %q has no match in %s", e.Field, e.Key, e.Want)
}

// ParamError reports a reference to a parameter that does not exist.
type ParamError struct {
	Name string
}

func (e ParamError) Error() string {
	return fmt.Sprintf("unknown parameter %q", e.Name)
}

// FnError reports a reference to a function that was never registered.
type FnError struct {
	Name string
}

func (e FnError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// BoundsError reports a parameter whose display bounds cannot be derived.
type BoundsError struct {
	Name  string
	Value float64
}

func (e BoundsError) Error() string {
	return fmt.Sprintf("cannot derive bounds for negative parameter %q = %g", e.Name, e.Value)
}
