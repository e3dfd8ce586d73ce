package claspy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/bits-and-blooms/bitset"
)

// solverProcess is the minimal subprocess surface Solve needs: a pipe to
// write the rule stream to, a pipe to read the textual answer from, and
// lifecycle control. The real implementation wraps exec.Cmd; tests
// substitute an in-process fake that speaks the same stdin/stdout protocol
// without spawning a real solver binary.
type solverProcess interface {
	StdinPipe() (io.WriteCloser, error)
	StdoutPipe() (io.ReadCloser, error)
	Start() error
	Wait() error
}

type execProcess struct {
	cmd *exec.Cmd
}

func newExecProcess(ctx context.Context, argv []string) solverProcess {
	return &execProcess{cmd: exec.CommandContext(ctx, argv[0], argv[1:]...)}
}

func (p *execProcess) StdinPipe() (io.WriteCloser, error) { return p.cmd.StdinPipe() }
func (p *execProcess) StdoutPipe() (io.ReadCloser, error) { return p.cmd.StdoutPipe() }
func (p *execProcess) Start() error                       { return p.cmd.Start() }
func (p *execProcess) Wait() error                         { return p.cmd.Wait() }

// solveOutcome is what the stdout-reading goroutine hands back.
type solveOutcome struct {
	model       *bitset.BitSet
	satisfiable bool
	foundLine   bool
	rawLines    []string
	err         error
}

// Solve flushes the buffered rule program to the external solver, reads back
// its model, and binds the global model set used by variable readout. It
// returns false (not an error) for both a solver-reported UNSAT and a
// stream closed early by the solver before every rule was consumed — both
// are normal outcomes of the constraint problem, not failures of this
// package (spec §7).
func (m *Model) Solve(ctx context.Context) (bool, error) {
	start := time.Now()
	m.logger.Debug().Int("rule_count", len(m.rules)).Int("literals", int(m.literalCounter)-1).Msg("starting solve")

	if m.solverTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.solverTimeout)
		defer cancel()
	}

	proc := m.newProcess(ctx, m.solverCmd)
	stdin, err := proc.StdinPipe()
	if err != nil {
		return false, fmt.Errorf("claspy: opening solver stdin: %w", err)
	}
	stdout, err := proc.StdoutPipe()
	if err != nil {
		return false, fmt.Errorf("claspy: opening solver stdout: %w", err)
	}
	if err := proc.Start(); err != nil {
		return false, fmt.Errorf("claspy: starting solver: %w", err)
	}

	outcomeCh := make(chan solveOutcome, 1)
	go func() {
		outcomeCh <- readSolverOutput(stdout)
	}()

	streamErr := m.streamRules(stdin)
	closeErr := stdin.Close()

	outcome := <-outcomeCh
	waitErr := proc.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, fmt.Errorf("claspy: solver did not finish: %w", ctxErr)
	}

	if streamErr != nil && errors.Is(streamErr, io.ErrClosedPipe) || isBrokenPipe(streamErr) {
		m.logger.Warn().Err(errStreamClosedEarly).Msg("stream closed early -> UNSAT")
		m.solved = true
		m.modelSet = bitset.New(64)
		return false, nil
	}
	if streamErr != nil {
		return false, fmt.Errorf("claspy: writing rules to solver: %w", streamErr)
	}
	if closeErr != nil && !errors.Is(closeErr, io.ErrClosedPipe) {
		m.logger.Debug().Err(closeErr).Msg("closing solver stdin")
	}
	if outcome.err != nil {
		return false, fmt.Errorf("claspy: reading solver output: %w", outcome.err)
	}
	if waitErr != nil && !outcome.foundLine {
		m.logger.Error().Err(waitErr).Strs("output", outcome.rawLines).Msg("solver exited abnormally")
	}

	m.solved = true
	if outcome.foundLine {
		m.modelSet = outcome.model
	} else {
		m.modelSet = bitset.New(64)
	}

	m.logger.Debug().Bool("satisfiable", outcome.satisfiable).Dur("elapsed", time.Since(start)).Msg("solve finished")
	m.reportDebugConstraints()

	return outcome.satisfiable, nil
}

// isBrokenPipe reports whether err looks like the solver closed stdin on us,
// which happens when its preprocessing already detected UNSAT.
func isBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "broken pipe") || strings.Contains(err.Error(), "EPIPE")
}

// streamRules writes the rule section, the "0" terminator, the symbol
// table, and the compute-statement block, in that order (spec §6).
func (m *Model) streamRules(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, r := range m.rules {
		if err := r.encode(bw); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("0\n"); err != nil {
		return err
	}
	for i := bootLiteral; i <= m.literalCounter; i++ {
		if _, err := fmt.Fprintf(bw, "%d %s\n", i, litStr(i)); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("0\nB+\n0\nB-\n1\n0\n1\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// readSolverOutput consumes the solver's textual answer: a model line
// beginning with 'v' listing true literal names, and elsewhere one of the
// tokens SATISFIABLE/UNSATISFIABLE.
func readSolverOutput(r io.Reader) solveOutcome {
	var out solveOutcome
	out.model = bitset.New(64)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for s.Scan() {
		line := s.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == 'v' {
			out.foundLine = true
			for _, tok := range strings.Fields(line) {
				if tok == "v" || len(tok) < 2 || tok[0] != 'v' {
					continue
				}
				n, err := strconv.Atoi(tok[1:])
				if err != nil {
					continue
				}
				out.model.Set(uint(n))
			}
			continue
		}
		out.rawLines = append(out.rawLines, line)
		if strings.Contains(line, "UNSATISFIABLE") {
			out.satisfiable = false
		} else if strings.Contains(line, "SATISFIABLE") {
			out.satisfiable = true
		}
	}
	if err := s.Err(); err != nil {
		out.err = err
	}
	if out.foundLine {
		out.satisfiable = true
	}
	return out
}

// reportDebugConstraints logs every RequireLabeled label whose expression
// evaluated false in the model just found — the debugging aid described in
// spec §7.
func (m *Model) reportDebugConstraints() {
	if len(m.debugConstraints) == 0 {
		return
	}
	for _, dc := range m.debugConstraints {
		if !dc.expr.Value() {
			m.logger.Warn().Str("label", dc.label).Msg("failed constraint")
		}
	}
}
