// Command claspy-sudoku is a worked example, not part of the core package:
// it solves a 9x9 sudoku puzzle by building one IntVar(1,9) per blank cell
// (given cells are constants), constraining rows, columns, and boxes to be
// all-different, and looping over Solve to print up to --max-solutions
// solutions, adding a "not this exact grid" constraint each time — the same
// pattern the original system's example
// scripts use. It requires a real clasp binary on PATH.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"claspy"
)

// puzzle is the "world's hardest sudoku" grid from the worked example this
// command is ported from, using "." for blanks.
var puzzle = [9][9]string{
	{"1", ".", ".", ".", ".", "7", ".", "9", "."},
	{".", "3", ".", ".", "2", ".", ".", ".", "8"},
	{".", ".", "9", "6", ".", ".", "5", ".", "."},
	{".", ".", "5", "3", ".", ".", "9", ".", "."},
	{".", "1", ".", ".", "8", ".", ".", ".", "2"},
	{"6", ".", ".", ".", ".", "4", ".", ".", "."},
	{"3", ".", ".", ".", ".", ".", ".", "1", "."},
	{".", "4", ".", ".", ".", ".", ".", ".", "7"},
	{".", ".", "7", ".", ".", ".", "3", ".", "."},
}

func main() {
	var verbose bool
	var maxSolutions int

	root := &cobra.Command{
		Use:   "claspy-sudoku",
		Short: "Solve a sudoku puzzle using the claspy constraint model",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()

			m := claspy.New(claspy.WithLogger(logger), claspy.WithBits(4))
			grid, err := buildGrid(m)
			if err != nil {
				return err
			}
			addConstraints(m, grid)

			found := 0
			for found < maxSolutions {
				ok, err := m.Solve(context.Background())
				if err != nil {
					return err
				}
				if !ok {
					if found == 0 {
						color.Red("UNSATISFIABLE")
					}
					break
				}
				found++
				color.Green("solution %d:", found)
				printGrid(grid)
				excludeSolution(m, grid)
			}
			return nil
		},
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose solver logging")
	root.Flags().IntVarP(&maxSolutions, "max-solutions", "n", 1, "stop after this many solutions")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildGrid(m *claspy.Model) ([9][9]*claspy.IntVar, error) {
	var grid [9][9]*claspy.IntVar
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			cell := puzzle[r][c]
			if cell == "." {
				v, err := m.IntRange(1, 9)
				if err != nil {
					return grid, err
				}
				grid[r][c] = v
				continue
			}
			var n uint64
			fmt.Sscanf(cell, "%d", &n)
			v, err := m.IntConst(n)
			if err != nil {
				return grid, err
			}
			grid[r][c] = v
		}
	}
	return grid, nil
}

func addConstraints(m *claspy.Model, grid [9][9]*claspy.IntVar) {
	for r := 0; r < 9; r++ {
		m.RequireAllDiff(grid[r][:])
	}
	for c := 0; c < 9; c++ {
		col := make([]*claspy.IntVar, 9)
		for r := 0; r < 9; r++ {
			col[r] = grid[r][c]
		}
		m.RequireAllDiff(col)
	}
	for br := 0; br < 9; br += 3 {
		for bc := 0; bc < 9; bc += 3 {
			var box []*claspy.IntVar
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					box = append(box, grid[br+i][bc+j])
				}
			}
			m.RequireAllDiff(box)
		}
	}
}

func excludeSolution(m *claspy.Model, grid [9][9]*claspy.IntVar) {
	same := m.True()
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			val, err := m.IntConst(grid[r][c].Value())
			if err != nil {
				continue
			}
			same = same.And(grid[r][c].Eq(val))
		}
	}
	m.Require(same.Not())
}

func printGrid(grid [9][9]*claspy.IntVar) {
	var b strings.Builder
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", grid[r][c].Value())
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}
