package claspy

import "github.com/bits-and-blooms/bitset"

// factSet tracks, for each atom id, whether it is known unconditionally true
// or known unconditionally false — the accumulated facts the basic-rule
// peephole optimizer (optimizeBasic below) checks against and grows. Atom
// ids are dense and start at 2, which is exactly the shape bitset.BitSet is
// built for, so membership tests and insertions are O(1) word operations
// instead of map lookups.
type factSet struct {
	known *bitset.BitSet
	value *bitset.BitSet // valid only where known is set
}

func newFactSet() *factSet {
	return &factSet{known: bitset.New(64), value: bitset.New(64)}
}

// isTrue reports whether the signed literal l is already known to hold.
func (f *factSet) isTrue(l Literal) bool {
	id := uint(l.id())
	if !f.known.Test(id) {
		return false
	}
	want := l > 0
	return f.value.Test(id) == want
}

// assertTrue records that the signed literal l holds unconditionally.
// Reports whether this was new information (false if already known).
func (f *factSet) assertTrue(l Literal) bool {
	if f.isTrue(l) {
		return false
	}
	id := uint(l.id())
	f.known.Set(id)
	if l > 0 {
		f.value.Set(id)
	} else {
		f.value.Clear(id)
	}
	return true
}

// optimizeBasic implements the peephole simplification of spec §4.2. It
// returns the (possibly shortened) body and whether the rule should still be
// emitted.
func (m *Model) optimizeBasic(head Literal, body []Literal) ([]Literal, bool) {
	switch {
	case len(body) == 0:
		// The head is asserted unconditionally true.
		if !m.facts.assertTrue(head) {
			return nil, false
		}
		return body, true
	case head == 1 && len(body) == 1:
		// Headless unit rule: the single body literal is asserted false.
		if !m.facts.assertTrue(body[0].Negate()) {
			return nil, false
		}
		return body, true
	case head == 1:
		for i, l := range body {
			if m.facts.isTrue(l.Negate()) {
				// A false literal makes the whole conjunction vacuous.
				return nil, false
			}
			if m.facts.isTrue(l) {
				// A true literal is redundant; drop it and restart.
				shortened := make([]Literal, 0, len(body)-1)
				shortened = append(shortened, body[:i]...)
				shortened = append(shortened, body[i+1:]...)
				return m.optimizeBasic(head, shortened)
			}
		}
		return body, true
	default:
		return body, true
	}
}
