// Package models provides the illustrative coupled-ODE models built on
// [dynamo.Model]:
//
//   - [NewGrowth]: exponential and logistic population growth
//   - [NewSpring]: elastic spring as a pair of first-order equations
//   - [NewEcology]: Lotka-Volterra predator-prey oscillations
//   - [NewEpidemiology]: SIR compartments wired with conserved flows
//   - [NewGoodwin]: Goodwin business cycle
//   - [NewKeen]: Keen debt-driven economy
//   - [NewTurchin]: Turchin demographic-fiscal state model
//   - [NewElite]: Turchin elite-demographic interaction
//   - [NewFathers]: Turchin fathers-and-sons generational violence,
//     age cohorts on fixed-step Euler with a delayed lookup
//   - [NewProperty]: property purchase vs fund investment
//
// Each constructor declares parameters, plots, and editable descriptors;
// the equations live in the System methods. Use [Lookup] or [Names] to
// reach them by name.
package models
