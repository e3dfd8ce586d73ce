package claspy

import (
	"errors"
	"testing"
)

func TestMultiVarSingleValueBindsToTrueWithNoRule(t *testing.T) {
	m := New()
	before := m.RuleCount()
	v := mustMultiVar(t, m, "only")
	if m.RuleCount() != before {
		t.Fatalf("a single-value MultiVar should emit no rules, RuleCount() = %d", m.RuleCount())
	}
	if v.vals["only"] != m.trueVar {
		t.Fatal("a single-value MultiVar should bind directly to True")
	}
}

func TestMultiVarDuplicatesCollapse(t *testing.T) {
	m := New()
	v := mustMultiVar(t, m, "a", "a", "b", "a", "c")
	if len(v.order) != 3 {
		t.Fatalf("len(order) = %d, want 3 (duplicates should collapse)", len(v.order))
	}
	got := sortedValueStrings(v)
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("sortedValueStrings(v) = %v, want %v", got, want)
		}
	}
}

func TestMultiVarRejectsVarValue(t *testing.T) {
	m := New()
	b := m.NewBool()
	_, err := NewMultiVar(m, b)
	if err == nil {
		t.Fatal("expected error placing a BoolVar inside a MultiVar value set")
	}
	if !errors.Is(err, ErrVarInMultiVar) {
		t.Fatalf("error = %v, want wrapping ErrVarInMultiVar", err)
	}
}

func TestMultiVarRejectsNestedMultiVar(t *testing.T) {
	m := New()
	inner := mustMultiVar(t, m, "a", "b")
	_, err := NewMultiVar(m, inner)
	if err == nil {
		t.Fatal("expected error placing a MultiVar inside a MultiVar value set")
	}
	if !errors.Is(err, ErrVarInMultiVar) {
		t.Fatalf("error = %v, want wrapping ErrVarInMultiVar", err)
	}
}

func TestMultiVarExactlyOneValueHolds(t *testing.T) {
	m := newModelWithFakeSolver()
	v := mustMultiVar(t, m, "red", "green", "blue")

	if !mustSolve(t, m) {
		t.Fatal("expected satisfiable")
	}
	val := v.Value()
	if val != "red" && val != "green" && val != "blue" {
		t.Fatalf("v.Value() = %q, want one of red/green/blue", val)
	}
}

func TestMultiVarEqualForcesAgreement(t *testing.T) {
	m := newModelWithFakeSolver()
	a := mustMultiVar(t, m, "red", "green", "blue")
	b := mustMultiVar(t, m, "green", "blue", "yellow")
	agree := Equal(a, b)
	m.Require(agree)

	if !mustSolve(t, m) {
		t.Fatal("expected satisfiable")
	}
	av, bv := a.Value(), b.Value()
	if av != bv {
		t.Fatalf("a.Value()=%q, b.Value()=%q; Equal should force agreement", av, bv)
	}
	if av != "green" && av != "blue" {
		t.Fatalf("a.Value() = %q, want one of the shared values green/blue", av)
	}
}

func TestMultiVarEqualUnsatisfiableWithoutOverlap(t *testing.T) {
	m := newModelWithFakeSolver()
	a := mustMultiVar(t, m, "red", "green")
	b := mustMultiVar(t, m, "yellow", "purple")
	m.Require(Equal(a, b))

	ok := mustSolve(t, m)
	if ok {
		t.Fatal("disjoint domains constrained equal should be unsatisfiable")
	}
}

// TestMultiVarSelfInequalityOfSingleValueIsUnsat covers end-to-end scenario
// 6: a single-value MultiVar binds directly to True with no rule at all, so
// requiring it to disagree with its own (only) value must still be
// unsatisfiable, exercising the interaction between that no-rule shortcut
// and negation rather than an ordinary disjoint-domain mismatch.
func TestMultiVarSelfInequalityOfSingleValueIsUnsat(t *testing.T) {
	m := newModelWithFakeSolver()
	before := m.RuleCount()
	a := mustMultiVar(t, m, "x")
	if m.RuleCount() != before {
		t.Fatalf("a single-value MultiVar should emit no rules, RuleCount() = %d", m.RuleCount())
	}
	m.Require(NotEqual(a, mustMultiVar(t, m, "x")))

	ok := mustSolve(t, m)
	if ok {
		t.Fatal("a single-value MultiVar required unequal to its own value should be unsatisfiable")
	}
}

func TestMultiVarGreaterLess(t *testing.T) {
	m := newModelWithFakeSolver()
	a := mustMultiVar(t, m, 1, 2, 3)
	b := mustMultiVar(t, m, 1, 2, 3)
	gt := Greater(a, b)
	lt := Less(a, b)
	m.Require(gt)

	if !mustSolve(t, m) {
		t.Fatal("expected satisfiable")
	}
	if a.Value() <= b.Value() {
		t.Fatalf("a.Value()=%d should be > b.Value()=%d", a.Value(), b.Value())
	}
	if lt.Value() {
		t.Fatal("Less should be false when Greater was required true")
	}
}

func TestMultiVarAddSubMul(t *testing.T) {
	m := newModelWithFakeSolver()
	a := mustMultiVar(t, m, 2, 3)
	b := mustMultiVar(t, m, 10, 20)
	sum := Add(a, b)
	diff := Sub(b, a)
	product := Mul(a, b)
	m.Require(Equal(a, mustMultiVar(t, m, 2)))
	m.Require(Equal(b, mustMultiVar(t, m, 20)))

	if !mustSolve(t, m) {
		t.Fatal("expected satisfiable")
	}
	if sum.Value() != 22 {
		t.Fatalf("sum.Value() = %d, want 22", sum.Value())
	}
	if diff.Value() != 18 {
		t.Fatalf("diff.Value() = %d, want 18", diff.Value())
	}
	if product.Value() != 40 {
		t.Fatalf("product.Value() = %d, want 40", product.Value())
	}
}

func TestCondMulti(t *testing.T) {
	m := newModelWithFakeSolver()
	pred := m.NewBool()
	m.Require(pred.Not())
	cons := mustMultiVar(t, m, "a", "b")
	alt := mustMultiVar(t, m, "c", "d")
	r := CondMulti(pred, cons, alt)

	if !mustSolve(t, m) {
		t.Fatal("expected satisfiable")
	}
	got := r.Value()
	if got != "c" && got != "d" {
		t.Fatalf("cond(false, {a,b}, {c,d}).Value() = %q, want c or d", got)
	}
}

func TestMultiVarSubIsNotCommutativeAndMemoizes(t *testing.T) {
	m := newModelWithFakeSolver()
	a := mustMultiVar(t, m, 5, 7)
	b := mustMultiVar(t, m, 2, 3)

	forward := Sub(a, b)
	backward := Sub(b, a)
	if forward == backward {
		t.Fatal("Sub(a,b) and Sub(b,a) should not share a cache entry")
	}
	again := Sub(a, b)
	if again != forward {
		t.Fatal("Sub(a,b) should return the memoized result on a second call")
	}

	m.Require(Equal(a, mustMultiVar(t, m, 5)))
	m.Require(Equal(b, mustMultiVar(t, m, 2)))
	if !mustSolve(t, m) {
		t.Fatal("expected satisfiable")
	}
	if forward.Value() != 3 {
		t.Fatalf("Sub(a,b).Value() = %d, want 3", forward.Value())
	}
}

func TestBoolFromMulti(t *testing.T) {
	m := newModelWithFakeSolver()
	v := mustMultiVar(t, m, 0, 5)
	truthy := BoolFromMulti(v)
	m.Require(Equal(v, mustMultiVar(t, m, 5)))

	if !mustSolve(t, m) {
		t.Fatal("expected satisfiable")
	}
	if !truthy.Value() {
		t.Fatal("BoolFromMulti(5) should be true")
	}
}
