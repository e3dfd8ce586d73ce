package claspy

// BoolVar is a handle onto a single literal. Two BoolVars are the same
// variable iff they share |literal|, and complements iff they share |literal|
// with opposite sign — negation never allocates, it just flips the sign.
type BoolVar struct {
	m   *Model
	lit Literal
}

func (*BoolVar) isVar() {}

// boolCaches are lazily created the first time a Model needs one; see
// (*Model).boolCaches.
type boolCaches struct {
	eq  *cache[boolKey, *BoolVar]
	and *cache[boolKey, *BoolVar]
	or  *cache[boolKey, *BoolVar]
	xor *cache[boolKey, *BoolVar]
	gt  *cache[boolKey, *BoolVar]
}

func (m *Model) boolCaches() *boolCaches {
	if m.bc == nil {
		m.bc = &boolCaches{
			eq:  newCache[boolKey, *BoolVar](m),
			and: newCache[boolKey, *BoolVar](m),
			or:  newCache[boolKey, *BoolVar](m),
			xor: newCache[boolKey, *BoolVar](m),
			gt:  newCache[boolKey, *BoolVar](m),
		}
	}
	return m.bc
}

// NewBool allocates a fresh, freely-chosen boolean variable: a literal plus a
// choice rule permitting either truth value.
func (m *Model) NewBool() *BoolVar {
	b := &BoolVar{m: m, lit: m.allocate()}
	m.lockBits()
	m.appendChoice([]Literal{b.lit}, nil)
	return b
}

// internalBool allocates a literal with no choice rule: used for derived
// variables whose truth is fully pinned down by the basic rules an operator
// goes on to emit for it.
func (m *Model) internalBool() *BoolVar {
	b := &BoolVar{m: m, lit: m.allocate()}
	m.lockBits()
	return b
}

// Bool lifts a Go bool constant to the canonical TRUE/FALSE sentinel,
// without allocating.
func (m *Model) Bool(v bool) *BoolVar {
	if v {
		return m.trueVar
	}
	return m.falseVar
}

// BoolFromInt is truthy iff any bit of i is set.
func BoolFromInt(i *IntVar) *BoolVar {
	result := i.m.False()
	for _, b := range i.bits {
		result = result.Or(b)
	}
	return result
}

// BoolFromMulti is truthy under the host value domain's own truthiness,
// computed by comparing the MultiVar's value against the type's zero value.
func BoolFromMulti[T comparable](v *MultiVar[T]) *BoolVar {
	var zero T
	return NotEqual(v, newMultiVar(v.m, []T{zero}))
}

// Not returns a's negation. This allocates no literal and emits no rule: it
// is the O(1) sign-flip identity trick described in spec §9.
func (a *BoolVar) Not() *BoolVar {
	return &BoolVar{m: a.m, lit: a.lit.Negate()}
}

// Eq returns a BoolVar that is true iff a and b have the same truth value.
func (a *BoolVar) Eq(b *BoolVar) *BoolVar {
	if b.lit == a.m.trueVar.lit {
		return a
	}
	if b.lit == a.m.falseVar.lit {
		return a.Not()
	}
	key := symBoolKey(a.lit, b.lit)
	c := a.m.boolCaches().eq
	if r, ok := c.get(key); ok {
		return r
	}
	r := a.m.internalBool()
	a.m.appendBasic(r.lit, []Literal{a.lit, b.lit})
	a.m.appendBasic(r.lit, []Literal{a.lit.Negate(), b.lit.Negate()})
	c.put(key, r)
	return r
}

// Ne is the negation of Eq.
func (a *BoolVar) Ne(b *BoolVar) *BoolVar { return a.Eq(b).Not() }

// And returns a BoolVar true iff both a and b are true.
func (a *BoolVar) And(b *BoolVar) *BoolVar {
	if b.lit == a.m.trueVar.lit {
		return a
	}
	if b.lit == a.m.falseVar.lit {
		return a.m.falseVar
	}
	key := symBoolKey(a.lit, b.lit)
	c := a.m.boolCaches().and
	if r, ok := c.get(key); ok {
		return r
	}
	r := a.m.internalBool()
	a.m.appendBasic(r.lit, []Literal{a.lit, b.lit})
	c.put(key, r)
	return r
}

// Or returns a BoolVar true iff either a or b is true.
func (a *BoolVar) Or(b *BoolVar) *BoolVar {
	if b.lit == a.m.trueVar.lit {
		return a.m.trueVar
	}
	if b.lit == a.m.falseVar.lit {
		return a
	}
	key := symBoolKey(a.lit, b.lit)
	c := a.m.boolCaches().or
	if r, ok := c.get(key); ok {
		return r
	}
	r := a.m.internalBool()
	a.m.appendBasic(r.lit, []Literal{a.lit})
	a.m.appendBasic(r.lit, []Literal{b.lit})
	c.put(key, r)
	return r
}

// Xor returns a BoolVar true iff exactly one of a, b is true.
func (a *BoolVar) Xor(b *BoolVar) *BoolVar {
	if b.lit == a.m.trueVar.lit {
		return a.Not()
	}
	if b.lit == a.m.falseVar.lit {
		return a
	}
	key := symBoolKey(a.lit, b.lit)
	c := a.m.boolCaches().xor
	if r, ok := c.get(key); ok {
		return r
	}
	r := a.m.internalBool()
	a.m.appendBasic(r.lit, []Literal{a.lit, b.lit.Negate()})
	a.m.appendBasic(r.lit, []Literal{a.lit.Negate(), b.lit})
	c.put(key, r)
	return r
}

// Gt returns a BoolVar true iff a is true and b is false.
func (a *BoolVar) Gt(b *BoolVar) *BoolVar {
	if b.lit == a.m.trueVar.lit {
		return a.m.falseVar
	}
	if b.lit == a.m.falseVar.lit {
		return a
	}
	key := boolKey{a.lit, b.lit}
	c := a.m.boolCaches().gt
	if r, ok := c.get(key); ok {
		return r
	}
	r := a.m.internalBool()
	a.m.appendBasic(r.lit, []Literal{a.lit, b.lit.Negate()})
	c.put(key, r)
	return r
}

// Lt, Ge, Le are defined in terms of Gt and Not.
func (a *BoolVar) Lt(b *BoolVar) *BoolVar { return b.Gt(a) }
func (a *BoolVar) Ge(b *BoolVar) *BoolVar { return a.Lt(b).Not() }
func (a *BoolVar) Le(b *BoolVar) *BoolVar { return a.Gt(b).Not() }

// Cond implements "if pred then a else alt" for booleans.
func (a *BoolVar) Cond(pred, alt *BoolVar) *BoolVar {
	if pred.lit == a.m.trueVar.lit {
		return a
	}
	if pred.lit == a.m.falseVar.lit {
		return alt
	}
	if a.lit == alt.lit {
		return a
	}
	r := a.m.internalBool()
	a.m.appendBasic(r.lit, []Literal{pred.lit, a.lit})
	a.m.appendBasic(r.lit, []Literal{pred.lit.Negate(), alt.lit})
	return r
}

// Value reports a's truth value in the most recently found model. Before
// any Solve the model is empty, so a positive literal reads false and a
// negated one reads true; no error is reported.
func (a *BoolVar) Value() bool {
	if a.lit > 0 {
		return a.m.modelSet.Test(uint(a.lit))
	}
	return !a.m.modelSet.Test(uint(-a.lit))
}

// DebugString is a developer-facing summary of the literal backing a and its
// current value, mirroring the original system's variable info() helper.
func (a *BoolVar) DebugString() string {
	if !a.m.solved {
		return boolDebugUnsolved(a.lit)
	}
	v := "0"
	if a.Value() {
		v = "1"
	}
	return boolDebugSolved(a.lit, v)
}

func boolDebugUnsolved(lit Literal) string {
	return "BoolVar[" + litStr(lit) + "]=?"
}

func boolDebugSolved(lit Literal, v string) string {
	return "BoolVar[" + litStr(lit) + "]=" + v
}

// AtLeast returns a BoolVar true iff at least n of bools are true. n is a
// compile-time bound, not itself a variable.
func (m *Model) AtLeast(n int, bools []*BoolVar) *BoolVar {
	body := make([]Literal, len(bools))
	for i, b := range bools {
		body[i] = b.lit
	}
	r := m.internalBool()
	m.appendWeight(r.lit, n, body)
	return r
}

// AtMost returns a BoolVar true iff at most n of bools are true.
func (m *Model) AtMost(n int, bools []*BoolVar) *BoolVar {
	return m.AtLeast(n+1, bools).Not()
}

// SumBools returns a BoolVar true iff exactly n of bools are true.
func (m *Model) SumBools(n int, bools []*BoolVar) *BoolVar {
	return m.AtLeast(n, bools).And(m.AtMost(n, bools))
}
