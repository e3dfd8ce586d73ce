package claspy

// Atom is a BoolVar with no choice rule: under stable-model semantics it can
// only become true through an explicitly registered proof body, never by the
// solver picking it freely. This is the mechanism grid puzzles use to encode
// reachability — a cell is reachable iff some neighbor is reachable and
// passable, proven via one ProveIf call per neighbor.
type Atom struct {
	bv *BoolVar
}

// NewAtom allocates an Atom: an internal BoolVar (literal, no choice rule).
func (m *Model) NewAtom() *Atom {
	return &Atom{bv: m.internalBool()}
}

// ProveIf registers body as one sufficient proof of the atom: a basic rule
// with the atom as head and body as its sole body literal. Multiple calls
// register multiple alternative proofs (the solver's minimality then forces
// the atom false unless at least one proof body holds).
func (a *Atom) ProveIf(body *BoolVar) {
	a.bv.m.appendBasic(a.bv.lit, []Literal{body.lit})
}

// Bool returns the underlying BoolVar so an Atom can be used anywhere a
// BoolVar is expected (inside Require, boolean operators, and so on).
func (a *Atom) Bool() *BoolVar { return a.bv }

// Value reports whether the atom was proven true in the most recent model.
func (a *Atom) Value() bool { return a.bv.Value() }
