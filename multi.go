package claspy

import (
	"cmp"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Number is the capability trait a MultiVar's host value type must satisfy
// for arithmetic lifting (Add, Sub, Mul). This, together with cmp.Ordered
// for ordering and plain `comparable` for equality, is how this package
// expresses spec §9's "expose these as capability traits the value type may
// or may not implement" using Go generics instead of reflection.
type Number interface {
	~int | ~int32 | ~int64 | ~float64
}

// MultiVar is a finite-domain variable over an arbitrary comparable host
// value type T: a mapping from each distinct value to the BoolVar asserting
// the variable equals it, with exactly one of those BoolVars true in any
// model.
type MultiVar[T comparable] struct {
	m    *Model
	vals map[T]*BoolVar
	// order records insertion order so rule emission (and therefore the
	// literal numbering two equivalently-built MultiVars end up with) is
	// deterministic despite Go's randomized map iteration.
	order []T
}

// NewMultiVar constructs a MultiVar over the given distinct host values.
// Duplicate values collapse. A single value binds directly to True with no
// rule; two or more values get one fresh BoolVar each plus a "sum equals
// one" constraint. It returns ErrVarInMultiVar if any value is itself a
// BoolVar, IntVar, or MultiVar — only plain host values belong in a value
// set (spec §7).
//
// Go methods can't carry their own type parameters, so unlike the rest of
// this package's constructors this isn't a (*Model) method: the value type T
// is inferred from the values passed here instead of from the receiver.
func NewMultiVar[T comparable](m *Model, values ...T) (*MultiVar[T], error) {
	for _, val := range values {
		if err := rejectVarValue(val); err != nil {
			return nil, err
		}
	}
	return newMultiVar[T](m, values), nil
}

// rejectVarValue reports ErrVarInMultiVar if val is a BoolVar, IntVar, or
// MultiVar. Pointers to all three satisfy the Var interface and are caught
// there; a value whose type name starts with "MultiVar" (including a
// non-pointer MultiVar) is also rejected by reflecting on its type name.
func rejectVarValue[T comparable](val T) error {
	if _, ok := any(val).(Var); ok {
		return fmt.Errorf("claspy: %w: %T", ErrVarInMultiVar, val)
	}
	t := reflect.TypeOf(val)
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if strings.HasPrefix(t.Name(), "MultiVar") {
		return fmt.Errorf("claspy: %w: %T", ErrVarInMultiVar, val)
	}
	return nil
}

// newMultiVar builds a MultiVar without re-checking values for variable
// leakage; callers that already hold known-safe host values (internal
// construction, BoolFromMulti's synthetic zero value) use this directly.
func newMultiVar[T comparable](m *Model, values []T) *MultiVar[T] {
	v := &MultiVar[T]{m: m, vals: make(map[T]*BoolVar)}
	seen := make(map[T]bool)
	var distinct []T
	for _, val := range values {
		if !seen[val] {
			seen[val] = true
			distinct = append(distinct, val)
		}
	}
	switch len(distinct) {
	case 0:
		// No values: an empty, uninitialized MultiVar; no rule is emitted.
		return v
	case 1:
		v.vals[distinct[0]] = m.trueVar
		v.order = distinct
		return v
	}
	bools := make([]*BoolVar, len(distinct))
	for i, val := range distinct {
		b := m.NewBool()
		v.vals[val] = b
		bools[i] = b
	}
	v.order = distinct
	m.Require(m.SumBools(1, bools))
	return v
}

func (*MultiVar[T]) isVar() {}

// Value returns the host value whose BoolVar is true in the most recent
// model, or the zero value of T if none is (which should not happen for a
// MultiVar built by NewMultiVar against a satisfiable problem).
func (v *MultiVar[T]) Value() T {
	for _, val := range v.order {
		if v.vals[val].Value() {
			return val
		}
	}
	var zero T
	return zero
}

// DebugString summarizes the literal backing each value and the variable's
// current value, mirroring the original system's info() helper.
func (v *MultiVar[T]) DebugString() string {
	var entries []string
	for _, val := range v.order {
		entries = append(entries, fmt.Sprintf("%v:%s", val, litStr(v.vals[val].lit)))
	}
	return fmt.Sprintf("MultiVar[%v]=%v", entries, v.Value())
}

func typeTag[T any]() string {
	var zero T
	return reflect.TypeOf(&zero).Elem().String()
}

// opCache returns a Model-scoped, reset-aware cache for one named MultiVar
// operation over one host value type T. Cache storage can't be a typed
// field on Model (Model isn't generic), so the cache is looked up in a
// map[string]any keyed by operation name + T's type string and lazily
// created — this is the MultiVar analogue of the typed per-op caches
// BoolVar and IntVar keep as plain struct fields.
func opCache[V any, T any](m *Model, op string) *cache[string, V] {
	key := op + "@" + typeTag[T]()
	if m.multiCaches == nil {
		m.multiCaches = make(map[string]any)
	}
	if c, ok := m.multiCaches[key]; ok {
		return c.(*cache[string, V])
	}
	c := newCache[string, V](m)
	m.multiCaches[key] = c
	return c
}

// BooleanOp computes a binary predicate over the cross product of a and b's
// values, returning a BoolVar. It picks whichever of {pairs where op holds}
// or {pairs where op doesn't hold} is smaller and builds the OR over that
// set, XORing in an inversion flag — keeping rule count proportional to the
// smaller side (spec §4.7).
func BooleanOp[T comparable](a, b *MultiVar[T], op func(x, y T) bool) *BoolVar {
	trueCount, falseCount := 0, 0
	for _, av := range a.order {
		for _, bv := range b.order {
			if op(av, bv) {
				trueCount++
			} else {
				falseCount++
			}
		}
	}
	invert := falseCount < trueCount
	var terms []*BoolVar
	for _, av := range a.order {
		for _, bv := range b.order {
			want := op(av, bv) != invert
			if !want {
				continue
			}
			terms = append(terms, a.vals[av].And(b.vals[bv]))
		}
	}
	var result *BoolVar
	if len(terms) == 0 {
		result = a.m.falseVar
	} else {
		result = terms[0]
		for _, t := range terms[1:] {
			result = result.Or(t)
		}
	}
	if invert {
		return result.Not()
	}
	return result
}

// GenericOp computes op over the cross product of a and b's values,
// returning a new MultiVar[R] whose value->BoolVar map OR-combines the body
// literal whenever multiple pairs produce the same result value.
func GenericOp[T comparable, R comparable](a *MultiVar[T], b *MultiVar[T], op func(x, y T) R) *MultiVar[R] {
	result := &MultiVar[R]{m: a.m, vals: make(map[R]*BoolVar)}
	for _, av := range a.order {
		for _, bv := range b.order {
			rv := op(av, bv)
			cond := a.vals[av].And(b.vals[bv])
			if existing, ok := result.vals[rv]; ok {
				result.vals[rv] = existing.Or(cond)
			} else {
				result.vals[rv] = cond
				result.order = append(result.order, rv)
			}
		}
	}
	return result
}

// Equal returns a BoolVar true iff a and b hold the same value.
func Equal[T comparable](a, b *MultiVar[T]) *BoolVar {
	c := opCache[*BoolVar, T](a.m, "multi.eq")
	key := symMultiBinKey(a, b)
	if r, ok := c.get(key); ok {
		return r
	}
	r := BooleanOp(a, b, func(x, y T) bool { return x == y })
	c.put(key, r)
	return r
}

// NotEqual is the negation of Equal.
func NotEqual[T comparable](a, b *MultiVar[T]) *BoolVar { return Equal(a, b).Not() }

// Greater returns a BoolVar true iff a's value orders strictly after b's.
func Greater[T cmp.Ordered](a, b *MultiVar[T]) *BoolVar {
	return BooleanOp(a, b, func(x, y T) bool { return x > y })
}

// Less returns a BoolVar true iff a's value orders strictly before b's.
func Less[T cmp.Ordered](a, b *MultiVar[T]) *BoolVar { return Greater(b, a) }

// GreaterEq returns a BoolVar true iff a's value does not order before b's.
func GreaterEq[T cmp.Ordered](a, b *MultiVar[T]) *BoolVar { return Less(a, b).Not() }

// LessEq returns a BoolVar true iff a's value does not order after b's.
func LessEq[T cmp.Ordered](a, b *MultiVar[T]) *BoolVar { return Greater(a, b).Not() }

// Add lifts T's addition over a and b's cross product.
func Add[T Number](a, b *MultiVar[T]) *MultiVar[T] {
	c := opCache[*MultiVar[T], T](a.m, "multi.add")
	key := symMultiBinKey(a, b)
	if r, ok := c.get(key); ok {
		return r
	}
	r := GenericOp(a, b, func(x, y T) T { return x + y })
	c.put(key, r)
	return r
}

// Sub lifts T's subtraction over a and b's cross product. Unlike Add/Mul,
// this uses the order-sensitive multiBinKey rather than symMultiBinKey,
// since subtraction isn't commutative and Sub(a,b) must not collide with
// Sub(b,a) in the cache.
func Sub[T Number](a, b *MultiVar[T]) *MultiVar[T] {
	c := opCache[*MultiVar[T], T](a.m, "multi.sub")
	key := multiBinKey(a, b)
	if r, ok := c.get(key); ok {
		return r
	}
	r := GenericOp(a, b, func(x, y T) T { return x - y })
	c.put(key, r)
	return r
}

// Mul lifts T's multiplication over a and b's cross product.
func Mul[T Number](a, b *MultiVar[T]) *MultiVar[T] {
	c := opCache[*MultiVar[T], T](a.m, "multi.mul")
	key := symMultiBinKey(a, b)
	if r, ok := c.get(key); ok {
		return r
	}
	r := GenericOp(a, b, func(x, y T) T { return x * y })
	c.put(key, r)
	return r
}

// CondMulti implements "if pred then cons else alt" for MultiVars: the
// result's value set is the union of cons's and alt's, and each value's
// BoolVar is (pred AND cons[v]) OR (NOT pred AND alt[v]), treating an
// absent side as False.
func CondMulti[T comparable](pred *BoolVar, cons, alt *MultiVar[T]) *MultiVar[T] {
	result := &MultiVar[T]{m: pred.m, vals: make(map[T]*BoolVar)}
	for _, v := range cons.order {
		result.vals[v] = cons.vals[v].And(pred)
		result.order = append(result.order, v)
	}
	notPred := pred.Not()
	for _, v := range alt.order {
		term := alt.vals[v].And(notPred)
		if existing, ok := result.vals[v]; ok {
			result.vals[v] = existing.Or(term)
		} else {
			result.vals[v] = term
			result.order = append(result.order, v)
		}
	}
	return result
}

// sortedValueStrings is a small helper used by tests to assert on a
// MultiVar's value set independent of map/slice ordering.
func sortedValueStrings[T comparable](v *MultiVar[T]) []string {
	out := make([]string, 0, len(v.order))
	for _, val := range v.order {
		out = append(out, fmt.Sprintf("%v", val))
	}
	sort.Strings(out)
	return out
}
