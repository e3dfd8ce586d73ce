package claspy

import (
	"fmt"
	"sort"
	"strings"
)

// resetter is implemented by every memoization cache so Model.Reset can
// clear them all in one pass without knowing their key/value types.
type resetter interface {
	reset()
}

// cache is a generic memoization table keyed by a structural hash of its
// operands. Each operator constructor (BoolVar.And, IntVar.Add, ...) owns
// one cache instance and registers it with the Model at construction time so
// a reset clears every cache uniformly — this is the Go shape of spec §4.3's
// "list of all memoization caches (for bulk clearing)".
type cache[K comparable, V any] struct {
	data map[K]V
}

func newCache[K comparable, V any](m *Model) *cache[K, V] {
	c := &cache[K, V]{data: make(map[K]V)}
	m.caches = append(m.caches, c)
	return c
}

func (c *cache[K, V]) reset() { c.data = make(map[K]V) }

func (c *cache[K, V]) get(k K) (V, bool) {
	v, ok := c.data[k]
	return v, ok
}

func (c *cache[K, V]) put(k K, v V) { c.data[k] = v }

// boolKey is the structural hash of a pair of BoolVar operands: the hash of
// a BoolVar is simply its signed literal (spec §4.3), so an ordered pair of
// literals is already a canonical, comparable memoization key — no hashing
// indirection needed.
type boolKey struct{ a, b Literal }

// symBoolKey builds a boolKey for a symmetric (order-independent) operator
// by sorting the two literals first, so a op b and b op a land on the same
// cache entry.
func symBoolKey(a, b Literal) boolKey {
	if a > b {
		a, b = b, a
	}
	return boolKey{a, b}
}

// hashKey is an IntVar's structural hash: the ordered sequence of its bit
// literals. Go map keys must be comparable, and NumBits is a runtime setting
// (not a compile-time constant), so the sequence is flattened to a
// string rather than a fixed-size array — the same canonicalization the
// original performs by hashing a tuple.
func (v *IntVar) hashKey() string {
	var b strings.Builder
	for i, bit := range v.bits {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", bit.lit)
	}
	return b.String()
}

func intBinKey(a, b *IntVar) string { return a.hashKey() + "|" + b.hashKey() }

func symIntBinKey(a, b *IntVar) string {
	ka, kb := a.hashKey(), b.hashKey()
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

// multiHashKey is a MultiVar's structural hash: its value->literal mapping,
// canonicalized by sorting on the string form of each value (spec §4.3: "the
// hash of a MultiVar is its value→literal mapping"). Because MultiVar's
// value type is constrained to `comparable`, every MultiVar is hashable in
// this sense — the "uncacheable operand" escape hatch in §4.3 has no Go
// analogue here, since Go's type system already rules out unhashable
// operands at compile time (documented in DESIGN.md).
func multiHashKey[T comparable](v *MultiVar[T]) string {
	type pair struct {
		val string
		lit Literal
	}
	pairs := make([]pair, 0, len(v.vals))
	for val, bv := range v.vals {
		pairs = append(pairs, pair{fmt.Sprintf("%v", val), bv.lit})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].val < pairs[j].val })
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%s=%d;", p.val, p.lit)
	}
	return b.String()
}

func multiBinKey[T comparable](a, b *MultiVar[T]) string {
	return multiHashKey(a) + "||" + multiHashKey(b)
}

func symMultiBinKey[T comparable](a, b *MultiVar[T]) string {
	ka, kb := multiHashKey(a), multiHashKey(b)
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "||" + kb
}
