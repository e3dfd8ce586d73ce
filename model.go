package claspy

import (
	"context"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"
)

// defaultSolverCommand is the external stable-model solver invocation used
// unless overridden with WithSolverCommand.
var defaultSolverCommand = []string{"clasp", "--sat-prepro", "--eq=1", "--trans-ext=dynamic"}

// Model is the explicit, single-threaded context that replaces the
// module-level globals of the system this package is modeled on (literal
// counter, rule buffer, known-fact set, memo caches, TRUE/FALSE sentinels,
// NUM_BITS, and the solved model set). Every variable handle returned by a
// Model's constructors is valid only until that Model's next Reset.
//
// Model is not safe for concurrent use from multiple goroutines.
type Model struct {
	logger zerolog.Logger

	numBits       int
	bitsLocked    bool
	solverCmd     []string
	solverTimeout time.Duration
	newProcess    func(ctx context.Context, argv []string) solverProcess // overridable seam for tests

	literalCounter Literal
	rules          []Rule
	facts          *factSet
	caches         []resetter

	trueVar     *BoolVar
	falseVar    *BoolVar
	bc          *boolCaches
	ic          *intCaches
	multiCaches map[string]any

	debugConstraints []debugConstraint

	solved   bool
	modelSet *bitset.BitSet
}

type debugConstraint struct {
	expr  *BoolVar
	label string
}

// Option configures a Model at construction time.
type Option func(*Model)

// WithLogger sets the structured logger used for solver progress and debug
// diagnostics. The zero Model uses a disabled logger, so library use is
// silent unless a logger is supplied.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithBits sets the initial integer bit width. Equivalent to calling
// SetBits immediately after New, but avoids a throwaway error check at
// construction time since no variable can have been allocated yet.
func WithBits(n int) Option {
	return func(m *Model) { m.numBits = n }
}

// WithSolverCommand overrides the external solver invocation (argv form).
// Defaults to "clasp --sat-prepro --eq=1 --trans-ext=dynamic".
func WithSolverCommand(argv []string) Option {
	return func(m *Model) { m.solverCmd = argv }
}

// WithSolverTimeout bounds how long Solve waits for the external solver
// before killing it and returning an error. Zero (the default) means no
// timeout beyond whatever the caller's context.Context already imposes.
func WithSolverTimeout(d time.Duration) Option {
	return func(m *Model) { m.solverTimeout = d }
}

// New creates a Model ready for variable construction, equivalent to the
// original system's module-level reset() call at program start.
func New(opts ...Option) *Model {
	m := &Model{
		logger:    zerolog.Nop(),
		numBits:   16,
		solverCmd: append([]string(nil), defaultSolverCommand...),
	}
	m.newProcess = newExecProcess
	for _, opt := range opts {
		opt(m)
	}
	m.reset()
	return m
}

// withProcessFactory swaps the solver process implementation. It is
// unexported: production callers configure the solver command via
// WithSolverCommand, and tests in this package use this seam to drive Solve
// against an in-process fake implementing the same stdin/stdout protocol.
func withProcessFactory(f func(ctx context.Context, argv []string) solverProcess) Option {
	return func(m *Model) { m.newProcess = f }
}

// Reset clears all process-wide state and re-initializes the TRUE/FALSE
// sentinels. Any variable handle obtained from this Model before Reset is
// invalid afterward — this is destructive by design (spec §5).
func (m *Model) Reset() { m.reset() }

func (m *Model) reset() {
	m.literalCounter = 1 // literal 1 is reserved for the false head
	m.rules = nil
	m.facts = newFactSet()
	m.bitsLocked = false
	m.debugConstraints = nil
	m.solved = false
	m.modelSet = bitset.New(64)

	for _, c := range m.caches {
		c.reset()
	}

	m.trueVar = &BoolVar{m: m, lit: m.allocate()}
	m.appendBasic(m.trueVar.lit, nil)
	m.falseVar = &BoolVar{m: m, lit: m.trueVar.lit.Negate()}
}

// True returns the canonical BoolVar asserted true at every reset.
func (m *Model) True() *BoolVar { return m.trueVar }

// False returns the canonical BoolVar asserted false at every reset (the
// complement of True).
func (m *Model) False() *BoolVar { return m.falseVar }

// NumBits is the current process-wide integer bit width.
func (m *Model) NumBits() int { return m.numBits }

// SetBits sets the bit width used by every subsequently constructed IntVar.
// It fails with ErrBitWidthLocked once any variable beyond the boot
// TRUE/FALSE pair has been allocated.
func (m *Model) SetBits(n int) error {
	if m.bitsLocked {
		return ErrBitWidthLocked
	}
	m.numBits = n
	return nil
}

// SetMaxVal sets the bit width to the minimum number of bits that can
// represent v, i.e. ceil(log2(v+1)), but never fewer than one bit (so
// SetMaxVal(0) sets a width of 1).
func (m *Model) SetMaxVal(v uint64) error {
	bits := 0
	for v>>uint(bits) != 0 {
		bits++
	}
	if bits == 0 {
		bits = 1
	}
	return m.SetBits(bits)
}

func (m *Model) lockBits() { m.bitsLocked = true }

// Require constrains x to be true: a headless basic rule over its negation.
func (m *Model) Require(x *BoolVar) {
	m.appendBasic(1, []Literal{x.lit.Negate()})
}

// RequireLabeled is the debug variant of Require: it behaves identically,
// but remembers label so that, after a model is found, Solve can report
// every label whose expression evaluated false — the mechanism used to
// narrow down which constraint is responsible for an unexpected outcome.
func (m *Model) RequireLabeled(x *BoolVar, label string) {
	m.Require(x)
	m.debugConstraints = append(m.debugConstraints, debugConstraint{expr: x, label: label})
}

// RuleCount returns the number of rules currently buffered, for diagnostics.
func (m *Model) RuleCount() int { return len(m.rules) }
