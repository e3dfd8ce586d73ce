package claspy

// Literal is a signed propositional atom identifier. Positive values >= 2
// name distinct atoms; the sign encodes polarity (negative = negation of the
// atom named by the absolute value). Literal 1 is reserved: it is the
// conventional "false" head used by headless constraint rules and is never
// itself allocated to a variable.
type Literal int32

// Negate returns the complementary literal. It never allocates and never
// touches the rule buffer — this is the identity trick that makes BoolVar
// negation free.
func (l Literal) Negate() Literal { return -l }

// id returns the unsigned atom id backing l, regardless of polarity.
func (l Literal) id() Literal {
	if l < 0 {
		return -l
	}
	return l
}

// bootLiteral is the literal reserved for the TRUE sentinel at reset. Any
// literal beyond it means a user (or internal) variable has been allocated,
// which is what locks the bit width.
const bootLiteral Literal = 2

// allocate returns the next unused positive literal >= 2. Literals are dense
// and monotonically increasing for the lifetime of the Model.
func (m *Model) allocate() Literal {
	m.literalCounter++
	return m.literalCounter
}
