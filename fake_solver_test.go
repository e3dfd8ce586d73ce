package claspy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// This file implements a tiny in-process stand-in for the external solver,
// used only by this package's own tests so they don't depend on a real
// clasp binary. It understands exactly the rule shapes this package emits
// (basic, choice, weight) and computes the least fixpoint of the completion
// (non-choice heads become true only when some defining rule's body holds,
// computed bottom-up from false), which is exactly stable-model semantics
// for the tight, negation-light programs this package produces — including
// Atom proof chains, where it correctly leaves an unfounded cycle of mutual
// proofs false.

type fakeRule struct {
	kind  int
	head  int
	heads []int
	neg   []int
	pos   []int
	bound int
}

func parseFakeRules(r io.Reader) ([]fakeRule, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var rules []fakeRule
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		nums := make([]int, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("fake solver: bad int %q: %w", f, err)
			}
			nums[i] = n
		}
		kind := nums[0]
		if kind == 0 {
			break // end of rule section
		}
		switch kind {
		case 1: // basic: 1 H L N n1..nN p1..p(L-N)
			head, l, n := nums[1], nums[2], nums[3]
			rest := nums[4:]
			rules = append(rules, fakeRule{kind: 1, head: head,
				neg: append([]int(nil), rest[:n]...),
				pos: append([]int(nil), rest[n:l]...)})
		case 3: // choice: 3 K h1..hK L N n1..nN p1..p(L-N)
			k := nums[1]
			heads := append([]int(nil), nums[2:2+k]...)
			rest := nums[2+k:]
			l, n := rest[0], rest[1]
			body := rest[2:]
			rules = append(rules, fakeRule{kind: 3, heads: heads,
				neg: append([]int(nil), body[:n]...),
				pos: append([]int(nil), body[n:l]...)})
		case 2: // constraint: 2 H L N bound n1..nN p1..p(L-N)
			head, l, n, bound := nums[1], nums[2], nums[3], nums[4]
			rest := nums[5:]
			rules = append(rules, fakeRule{kind: 2, head: head, bound: bound,
				neg: append([]int(nil), rest[:n]...),
				pos: append([]int(nil), rest[n:l]...)})
		case 5: // weight: 5 H bound L N n1..nN p1..p(L-N) w1..wL (weights ignored, all 1)
			head, bound, l, n := nums[1], nums[2], nums[3], nums[4]
			rest := nums[5:]
			rules = append(rules, fakeRule{kind: 5, head: head, bound: bound,
				neg: append([]int(nil), rest[:n]...),
				pos: append([]int(nil), rest[n:l]...)})
		default:
			return nil, fmt.Errorf("fake solver: unsupported rule kind %d", kind)
		}
	}
	return rules, s.Err()
}

func bodySatisfied(vals map[int]bool, neg, pos []int) bool {
	for _, id := range pos {
		if !vals[id] {
			return false
		}
	}
	for _, id := range neg {
		if vals[id] {
			return false
		}
	}
	return true
}

func weightSatisfied(vals map[int]bool, neg, pos []int, bound int) bool {
	count := 0
	for _, id := range pos {
		if vals[id] {
			count++
		}
	}
	for _, id := range neg {
		if !vals[id] {
			count++
		}
	}
	return count >= bound
}

func ruleSatisfied(vals map[int]bool, r fakeRule) bool {
	if r.kind == 5 {
		return weightSatisfied(vals, r.neg, r.pos, r.bound)
	}
	return bodySatisfied(vals, r.neg, r.pos)
}

// solveFake brute-forces over the free (choice-declared) variables and, for
// each candidate assignment, derives every other atom by least fixpoint. It
// returns the first satisfying total assignment found, or ok=false.
func solveFake(rules []fakeRule) (map[int]bool, bool) {
	freeSet := map[int]bool{}
	completionRules := map[int][]fakeRule{}
	var constraints []fakeRule

	for _, r := range rules {
		switch r.kind {
		case 3:
			for _, h := range r.heads {
				freeSet[h] = true
			}
		case 1, 2, 5:
			if r.head == 1 {
				constraints = append(constraints, r)
			} else {
				completionRules[r.head] = append(completionRules[r.head], r)
			}
		}
	}

	var free []int
	for id := range freeSet {
		free = append(free, id)
	}
	sort.Ints(free)

	var completionIds []int
	for id := range completionRules {
		if !freeSet[id] {
			completionIds = append(completionIds, id)
		}
	}
	sort.Ints(completionIds)

	total := 1 << uint(len(free))
	for mask := 0; mask < total; mask++ {
		vals := map[int]bool{1: false}
		for i, id := range free {
			vals[id] = mask&(1<<uint(i)) != 0
		}
		for round := 0; round <= len(completionIds)+1; round++ {
			changed := false
			for _, id := range completionIds {
				if vals[id] {
					continue
				}
				for _, r := range completionRules[id] {
					if ruleSatisfied(vals, r) {
						vals[id] = true
						changed = true
						break
					}
				}
			}
			if !changed {
				break
			}
		}
		ok := true
		for _, r := range constraints {
			if ruleSatisfied(vals, r) {
				ok = false
				break
			}
		}
		if ok {
			return vals, true
		}
	}
	return nil, false
}

// fakeProcess is a solverProcess backed by in-memory pipes instead of a
// real subprocess.
type fakeProcess struct {
	stdinR     *io.PipeReader
	stdinW     *io.PipeWriter
	stdoutR    *io.PipeReader
	stdoutW    *io.PipeWriter
	done       chan struct{}
	err        error
	closeEarly bool
}

func newFakeProcess() *fakeProcess {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	return &fakeProcess{stdinR: inR, stdinW: inW, stdoutR: outR, stdoutW: outW, done: make(chan struct{})}
}

func (p *fakeProcess) StdinPipe() (io.WriteCloser, error) { return p.stdinW, nil }
func (p *fakeProcess) StdoutPipe() (io.ReadCloser, error) { return p.stdoutR, nil }

func (p *fakeProcess) Start() error {
	go func() {
		defer close(p.done)
		defer p.stdoutW.Close()

		if p.closeEarly {
			buf := make([]byte, 1)
			p.stdinR.Read(buf)
			p.stdinR.CloseWithError(io.ErrClosedPipe)
			fmt.Fprintln(p.stdoutW, "UNSATISFIABLE")
			return
		}

		rules, err := parseFakeRules(p.stdinR)
		if err != nil {
			p.err = err
			fmt.Fprintln(p.stdoutW, "ERROR")
			return
		}
		io.Copy(io.Discard, p.stdinR) // drain symbol table + compute statement
		vals, ok := solveFake(rules)
		if !ok {
			fmt.Fprintln(p.stdoutW, "UNSATISFIABLE")
			return
		}
		fmt.Fprintln(p.stdoutW, "SATISFIABLE")
		var b strings.Builder
		b.WriteByte('v')
		for id, v := range vals {
			if v {
				fmt.Fprintf(&b, " v%d", id)
			}
		}
		fmt.Fprintln(p.stdoutW, b.String())
	}()
	return nil
}

func (p *fakeProcess) Wait() error {
	<-p.done
	return p.err
}

// newModelWithFakeSolver builds a Model wired to a fresh in-process fake
// solver instead of a real clasp subprocess.
func newModelWithFakeSolver(opts ...Option) *Model {
	opts = append(opts, withProcessFactory(func(ctx context.Context, argv []string) solverProcess {
		return newFakeProcess()
	}))
	return New(opts...)
}

// newModelWithEarlyClose builds a Model whose fake solver closes stdin
// after reading one byte, simulating a solver that decided UNSAT during
// preprocessing before consuming the whole rule stream.
func newModelWithEarlyClose(opts ...Option) *Model {
	opts = append(opts, withProcessFactory(func(ctx context.Context, argv []string) solverProcess {
		p := newFakeProcess()
		p.closeEarly = true
		return p
	}))
	return New(opts...)
}
