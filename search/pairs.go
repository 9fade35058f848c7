/*
 * pairs.go, part of trajan.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package search

import (
	"context"

	chem "github.com/rmera/trajan"
	"github.com/rmera/trajan/cellstat"
	"github.com/rmera/trajan/report"
)

//PairParams are the parameters of the searches over pairs of atoms.
type PairParams struct {
	Stream *chem.Stream
	Range  Range
	Atoms  []int //serial numbers of the selected atoms
	Stat   cellstat.Kind
	//IgnoreSameResidue excludes the pairs of atoms in the same residue.
	IgnoreSameResidue bool
}

//PairResult is the result for one pair of atoms.
type PairResult struct {
	A, B    int //serial numbers, A is the atom selected first
	Value   float64
	Samples int
	Valid   bool
}

//pairValue returns the value for the atoms in positions i and j of the topology,
//and false if the frame gives no sample for the pair.
type pairValue func(F *chem.Frame, i, j int) (float64, bool)

//pairSearch is the common part of the searches over pairs of atoms.
type pairSearch struct {
	tool    string
	engine  *Engine
	params  PairParams
	indexes []int
	arena   *cellstat.Arena
	work    *workers
	value   pairValue
	failed  int
	results []PairResult
}

func (S *pairSearch) setup(p PairParams) error {
	S.free()
	if p.Stream == nil {
		return setupErrorf(S.tool, "no trajectory")
	}
	if err := p.Range.check(p.Stream.Len()); err != nil {
		return &SetupError{S.tool, err}
	}
	if len(p.Atoms) < 2 {
		return setupErrorf(S.tool, "at least 2 atoms are needed, %d given", len(p.Atoms))
	}
	idx, err := p.Stream.Topology().Indexes(p.Atoms)
	if err != nil {
		return &SetupError{S.tool, err}
	}
	seen := make(map[int]bool, len(idx))
	for k, i := range idx {
		if seen[i] {
			return setupErrorf(S.tool, "atom %d selected twice", p.Atoms[k])
		}
		seen[i] = true
	}
	S.engine.Dispatcher.Reset()
	S.work, err = newWorkers(S.engine, p.Stream, p.Range)
	if err != nil {
		return &SetupError{S.tool, err}
	}
	S.params = p
	S.indexes = idx
	S.arena = cellstat.NewPairArena(p.Stat, S.engine.Dispatcher.Threads(), len(idx))
	return nil
}

func (S *pairSearch) perform(ctx context.Context) error {
	if S.arena == nil {
		return setupErrorf(S.tool, "Perform called before Setup")
	}
	S.results = nil
	S.arena.Reset()
	top := S.params.Stream.Topology()
	err := S.work.run(ctx, func(thread int, F *chem.Frame) {
		for i := 1; i < len(S.indexes); i++ {
			for j := 0; j < i; j++ {
				c := S.arena.PairCell(j, i)
				switch S.arena.State(thread, c) {
				case cellstat.Excluded:
					continue
				case cellstat.Empty:
					if S.params.IgnoreSameResidue && top.SameResidue(S.indexes[j], S.indexes[i]) {
						S.arena.Exclude(thread, c)
						continue
					}
				}
				if v, ok := S.value(F, S.indexes[i], S.indexes[j]); ok {
					S.arena.Update(thread, c, v)
				}
			}
		}
	})
	S.failed = S.work.failedFrames()
	if err != nil {
		return err
	}
	S.arena.JoinAll()
	valid := 0
	S.results = make([]PairResult, 0, S.arena.Cells())
	for i := 1; i < len(S.indexes); i++ {
		for j := 0; j < i; j++ {
			c := S.arena.PairCell(j, i)
			v, ok := S.arena.Finalize(c)
			if ok {
				valid++
			}
			S.results = append(S.results, PairResult{A: S.params.Atoms[j], B: S.params.Atoms[i], Value: v, Samples: S.arena.Samples(c), Valid: ok})
		}
	}
	S.engine.Log.Infof("%s search: %d frames, %d pairs, %d with results", S.tool, S.params.Range.Count, len(S.results), valid)
	if valid == 0 {
		return ErrNothingSignificant
	}
	return nil
}

func (S *pairSearch) free() {
	if S.work != nil {
		S.work.close()
	}
	S.work = nil
	S.arena = nil
	S.indexes = nil
}

//Results returns the results of the last successful Perform, in pair order: (0,1), (0,2), (1,2), (0,3)...
func (S *pairSearch) Results() []PairResult {
	return S.results
}

//FailedFrames returns the number of frames that could not be loaded in the last run.
func (S *pairSearch) FailedFrames() int {
	return S.failed
}

//Table returns the results of the last run as a table.
func (S *pairSearch) Table() *report.Table {
	T := &report.Table{
		Tool:         S.tool,
		Stat:         S.params.Stat.String(),
		Columns:      []string{"value", "samples"},
		Frames:       S.params.Range.Count,
		FailedFrames: S.FailedFrames(),
	}
	if S.params.Stream == nil {
		return T
	}
	top := S.params.Stream.Topology()
	for _, r := range S.results {
		atoms := []int{r.A, r.B}
		row := report.Row{Atoms: atoms, Labels: labels(top, atoms), Valid: r.Valid}
		if r.Valid {
			row.Values = []float64{r.Value, float64(r.Samples)}
		}
		T.Rows = append(T.Rows, row)
	}
	return T
}
