// Package claspy compiles high-level finite-domain expressions — booleans,
// bounded non-negative integers, and finite-value enumerations — into the
// ground rule format understood by a stable-model (answer-set) solver.
//
// A program builds a *Model, constructs variables against it, asserts
// constraints with Require, and calls Solve to spawn the external solver,
// stream the accumulated rules to it, and bind the resulting model back onto
// the constructed variables so their values can be read with Value.
//
//	m := claspy.New()
//	a := m.NewBool()
//	b := m.NewBool()
//	m.Require(a.Xor(b))
//	ok, err := m.Solve(context.Background())
package claspy
