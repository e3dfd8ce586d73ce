package claspy

import "fmt"

// IntVar is a fixed-width, non-negative integer: an ordered sequence of
// BoolVar bits, least-significant first, with length equal to the Model's
// current NumBits. Individual bits may be pinned to a constant BoolVar
// (TRUE/FALSE) as an optimization; such bits never change and cost no
// literal.
type IntVar struct {
	m    *Model
	bits []*BoolVar
}

func (*IntVar) isVar() {}

type intCaches struct {
	eq  *cache[string, *BoolVar]
	add *cache[string, *IntVar]
	sub *cache[string, *IntVar]
	gt  *cache[string, *BoolVar]
	shl *cache[string, *IntVar]
	shr *cache[string, *IntVar]
	mul *cache[string, *IntVar]
}

func (m *Model) intCaches() *intCaches {
	if m.ic == nil {
		m.ic = &intCaches{
			eq:  newCache[string, *BoolVar](m),
			add: newCache[string, *IntVar](m),
			sub: newCache[string, *IntVar](m),
			gt:  newCache[string, *BoolVar](m),
			shl: newCache[string, *IntVar](m),
			shr: newCache[string, *IntVar](m),
			mul: newCache[string, *IntVar](m),
		}
	}
	return m.ic
}

// NewInt allocates a fully free IntVar: NumBits fresh BoolVar bits.
func (m *Model) NewInt() *IntVar {
	bits := make([]*BoolVar, m.numBits)
	for i := range bits {
		bits[i] = m.NewBool()
	}
	return &IntVar{m: m, bits: bits}
}

// IntConst returns an IntVar with every bit pinned to v's binary
// representation. Fails with ErrLiteralTooWide if v doesn't fit NumBits
// bits.
func (m *Model) IntConst(v uint64) (*IntVar, error) {
	if m.numBits < 64 && v>>uint(m.numBits) != 0 {
		return nil, fmt.Errorf("%w: %d needs more than %d bits", ErrLiteralTooWide, v, m.numBits)
	}
	bits := make([]*BoolVar, m.numBits)
	for i := range bits {
		if (v>>uint(i))&1 == 1 {
			bits[i] = m.trueVar
		} else {
			bits[i] = m.falseVar
		}
	}
	return &IntVar{m: m, bits: bits}, nil
}

// MustIntConst is IntConst but panics on error; for tests and call sites
// constructing known-good compile-time constants.
func (m *Model) MustIntConst(v uint64) *IntVar {
	iv, err := m.IntConst(v)
	if err != nil {
		panic(err)
	}
	return iv
}

// IntRange returns an IntVar constrained to [lo, hi]. Only the bits needed
// to represent hi are allocated; higher bits are pinned FALSE.
func (m *Model) IntRange(lo, hi uint64) (*IntVar, error) {
	if hi < lo {
		return nil, fmt.Errorf("%w: lo=%d > hi=%d", ErrInvalidRange, lo, hi)
	}
	if m.numBits < 64 && hi>>uint(m.numBits) != 0 {
		return nil, fmt.Errorf("%w: hi=%d needs more than %d bits", ErrInvalidRange, hi, m.numBits)
	}
	bits := make([]*BoolVar, m.numBits)
	for i := range bits {
		if (hi>>uint(i)) == 0 {
			bits[i] = m.falseVar
		} else {
			bits[i] = m.NewBool()
		}
	}
	v := &IntVar{m: m, bits: bits}
	loConst, err := m.IntConst(lo)
	if err != nil {
		return nil, err
	}
	if lo > 0 {
		m.Require(v.Ge(loConst))
	}
	hiConst, err := m.IntConst(hi)
	if err != nil {
		return nil, err
	}
	m.Require(v.Le(hiConst))
	return v, nil
}

// IntOneOf returns an IntVar constrained to equal one of vals.
func (m *Model) IntOneOf(vals []uint64) (*IntVar, error) {
	v := m.NewInt()
	var disjunction *BoolVar
	for _, val := range vals {
		c, err := m.IntConst(val)
		if err != nil {
			return nil, err
		}
		eq := v.Eq(c)
		if disjunction == nil {
			disjunction = eq
		} else {
			disjunction = disjunction.Or(eq)
		}
	}
	if disjunction == nil {
		return nil, fmt.Errorf("%w: IntOneOf requires at least one value", ErrInvalidRange)
	}
	m.Require(disjunction)
	return v, nil
}

// IntFromBool casts a BoolVar to an IntVar: bit 0 is the BoolVar, every
// higher bit is pinned FALSE.
func IntFromBool(b *BoolVar) *IntVar {
	bits := make([]*BoolVar, b.m.numBits)
	bits[0] = b
	for i := 1; i < len(bits); i++ {
		bits[i] = b.m.falseVar
	}
	return &IntVar{m: b.m, bits: bits}
}

// intZero builds an all-FALSE IntVar without allocating any bits, used
// internally as a scratch result before bits are filled in by callers.
func (m *Model) intZero() *IntVar {
	bits := make([]*BoolVar, m.numBits)
	for i := range bits {
		bits[i] = m.falseVar
	}
	return &IntVar{m: m, bits: bits}
}

// Value sums 1<<i over every bit whose BoolVar is true in the current model.
func (v *IntVar) Value() uint64 {
	var total uint64
	for i, b := range v.bits {
		if b.Value() {
			total |= 1 << uint(i)
		}
	}
	return total
}

// Eq returns a BoolVar true iff every bit of v and x agree.
func (v *IntVar) Eq(x *IntVar) *BoolVar {
	key := symIntBinKey(v, x)
	c := v.m.intCaches().eq
	if r, ok := c.get(key); ok {
		return r
	}
	result := v.m.trueVar
	for i := range v.bits {
		result = result.And(v.bits[i].Eq(x.bits[i]))
	}
	c.put(key, result)
	return result
}

// Ne is the negation of Eq.
func (v *IntVar) Ne(x *IntVar) *BoolVar { return v.Eq(x).Not() }

// highestLiveBit returns the highest bit index among a, b, and result that
// isn't pinned FALSE, or -1 if every bit is pinned FALSE. It bounds how far
// the ripple-carry adder needs to walk.
func highestLiveBit(vs ...*IntVar) int {
	max := -1
	for _, v := range vs {
		for i, b := range v.bits {
			if b.lit != v.m.falseVar.lit && i > max {
				max = i
			}
		}
	}
	return max
}

// constrainSum requires result == a + b via a ripple-carry adder, and
// forbids the final carry out — overflow is always forbidden, even if the
// sum is discarded by the caller, because the solver still sees the
// constraint (spec §4.6 / §9).
func (m *Model) constrainSum(a, b, result *IntVar) {
	maxBit := highestLiveBit(a, b, result)
	carry := m.falseVar
	for i := 0; i <= maxBit && i < m.numBits; i++ {
		d := a.bits[i].Xor(b.bits[i])
		m.Require(result.bits[i].Eq(d.Xor(carry)))
		carry = a.bits[i].And(b.bits[i]).Or(d.And(carry))
	}
	m.Require(carry.Not())
}

// Add returns a fresh IntVar constrained to equal v + x. Overflow (a carry
// out of the top allocated bit) makes the containing problem unsatisfiable.
func (v *IntVar) Add(x *IntVar) *IntVar {
	key := symIntBinKey(v, x)
	c := v.m.intCaches().add
	if r, ok := c.get(key); ok {
		return r
	}
	maxBit := highestLiveBit(v, x)
	result := v.m.intZero()
	for i := range result.bits {
		if i > maxBit+1 {
			continue // already FALSE
		}
		result.bits[i] = v.m.NewBool()
	}
	v.m.constrainSum(v, x, result)
	c.put(key, result)
	return result
}

// Sub returns a fresh IntVar r constrained so that r + x == v. Valid only
// when v >= x in every model (otherwise the no-overflow invariant inherited
// from Add makes the problem unsatisfiable).
func (v *IntVar) Sub(x *IntVar) *IntVar {
	key := intBinKey(v, x)
	c := v.m.intCaches().sub
	if r, ok := c.get(key); ok {
		return r
	}
	result := v.m.NewInt()
	v.m.constrainSum(result, x, v)
	c.put(key, result)
	return result
}

// Gt returns a BoolVar true iff v > x, computed by folding a bit-scan from
// LSB to MSB: at each position, a strictly larger bit wins immediately, a
// strictly smaller bit loses immediately, and ties defer to the result so
// far.
func (v *IntVar) Gt(x *IntVar) *BoolVar {
	key := intBinKey(v, x)
	c := v.m.intCaches().gt
	if r, ok := c.get(key); ok {
		return r
	}
	result := v.m.falseVar
	for i := range v.bits {
		bitGt := v.bits[i].Gt(x.bits[i])
		bitLt := x.bits[i].Gt(v.bits[i])
		result = v.m.trueVar.Cond(bitGt, v.m.falseVar.Cond(bitLt, result))
	}
	c.put(key, result)
	return result
}

func (v *IntVar) Lt(x *IntVar) *BoolVar { return x.Gt(v) }
func (v *IntVar) Ge(x *IntVar) *BoolVar { return v.Lt(x).Not() }
func (v *IntVar) Le(x *IntVar) *BoolVar { return v.Gt(x).Not() }

// Cond implements bitwise "if pred then v else alt" for integers.
func (v *IntVar) Cond(pred *BoolVar, alt *IntVar) *IntVar {
	result := v.m.intZero()
	for i := range result.bits {
		result.bits[i] = v.bits[i].Cond(pred, alt.bits[i])
	}
	return result
}

// Shl returns v shifted left by i bits at compile time: i FALSE bits are
// prepended and the top i bits are dropped. Shifting by NumBits or more
// yields the all-FALSE IntVar.
func (v *IntVar) Shl(i int) *IntVar {
	key := fmt.Sprintf("%s<<%d", v.hashKey(), i)
	c := v.m.intCaches().shl
	if r, ok := c.get(key); ok {
		return r
	}
	var result *IntVar
	if i == 0 {
		result = v
	} else if i >= v.m.numBits {
		result = v.m.intZero()
	} else {
		result = v.m.intZero()
		for b := 0; b < i; b++ {
			result.bits[b] = v.m.falseVar
		}
		for b := i; b < v.m.numBits; b++ {
			result.bits[b] = v.bits[b-i]
		}
	}
	c.put(key, result)
	return result
}

// Shr returns v shifted right by i bits at compile time: the low i bits are
// dropped and i FALSE bits are appended at the top.
func (v *IntVar) Shr(i int) *IntVar {
	key := fmt.Sprintf("%s>>%d", v.hashKey(), i)
	c := v.m.intCaches().shr
	if r, ok := c.get(key); ok {
		return r
	}
	result := v.m.intZero()
	for b := 0; b < v.m.numBits; b++ {
		if b+i < v.m.numBits {
			result.bits[b] = v.bits[b+i]
		} else {
			result.bits[b] = v.m.falseVar
		}
	}
	c.put(key, result)
	return result
}

// Mul returns a fresh IntVar constrained to equal v * x, built shift-and-add
// style: accumulate cond(x.bit[i], v<<i, 0) for each bit of x. Each addend
// inherits Add's no-overflow invariant.
func (v *IntVar) Mul(x *IntVar) *IntVar {
	key := symIntBinKey(v, x)
	c := v.m.intCaches().mul
	if r, ok := c.get(key); ok {
		return r
	}
	zero, _ := v.m.IntConst(0)
	result := zero
	for i := range x.bits {
		term := v.Shl(i).Cond(x.bits[i], zero)
		result = result.Add(term)
	}
	c.put(key, result)
	return result
}
