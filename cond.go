package claspy

import "fmt"

// Var is a tagged union over the variable kinds: *BoolVar, *IntVar, and
// *MultiVar[T] all satisfy it. Cond dispatches only over *BoolVar and
// *IntVar, mirroring the original's runtime type switch; a MultiVar passed
// to Cond is rejected, and callers who know their MultiVar's T call
// CondMulti directly instead.
type Var interface {
	isVar()
}

// Cond dispatches "if pred then cons else alt" across the Bool/Int Var
// union, following the original's cast-order precedence: if either operand
// is an IntVar, the result is computed over integers (a BoolVar operand is
// promoted via IntFromBool). Returns an error wrapping ErrUnsupportedValue
// if either operand is anything other than a *BoolVar or *IntVar, including
// a *MultiVar.
func Cond(pred *BoolVar, cons, alt Var) (Var, error) {
	consBool, consIsBool := cons.(*BoolVar)
	altBool, altIsBool := alt.(*BoolVar)
	if consIsBool && altIsBool {
		return consBool.Cond(pred, altBool), nil
	}

	consInt, consIsInt := cons.(*IntVar)
	altInt, altIsInt := alt.(*IntVar)
	switch {
	case consIsInt && altIsInt:
		return consInt.Cond(pred, altInt), nil
	case consIsInt && altIsBool:
		return consInt.Cond(pred, IntFromBool(altBool)), nil
	case consIsBool && altIsInt:
		return IntFromBool(consBool).Cond(pred, altInt), nil
	}
	return nil, fmt.Errorf("%w: cond operands %T/%T", ErrUnsupportedValue, cons, alt)
}
