/*
 * torsion.go, part of trajan.
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

//TorsionParams are the parameters of a torsion search.
type TorsionParams struct {
	Stream   *chem.Stream
	Range    Range
	Torsions [][4]int //serial numbers of the 4 atoms of each torsion
	Stat     cellstat.Kind
}

//TorsionResult is the result for one torsion.
type TorsionResult struct {
	Atoms   [4]int
	Value   float64 //degrees, for the statistics that are angles
	Samples int
	Valid   bool
}

//TorsionSearch computes a statistic of dihedral angles over a range of frames.
type TorsionSearch struct {
	engine  *Engine
	params  TorsionParams
	indexes [][4]int
	arena   *cellstat.Arena
	work    *workers
	failed  int
	results []TorsionResult
}

//NewTorsionSearch returns a TorsionSearch that runs on E.
func NewTorsionSearch(E *Engine) *TorsionSearch {
	return &TorsionSearch{engine: E}
}

//Setup checks the parameters and allocates what the run needs.
func (S *TorsionSearch) Setup(p TorsionParams) error {
	const tool = "torsion"
	S.Free()
	if p.Stream == nil {
		return setupErrorf(tool, "no trajectory")
	}
	if err := p.Range.check(p.Stream.Len()); err != nil {
		return &SetupError{tool, err}
	}
	if len(p.Torsions) == 0 {
		return setupErrorf(tool, "no torsions given")
	}
	top := p.Stream.Topology()
	idx := make([][4]int, len(p.Torsions))
	for k, t := range p.Torsions {
		for l, serial := range t {
			i, ok := top.Index(serial)
			if !ok {
				return setupErrorf(tool, "torsion %d: no atom with serial number %d", k, serial)
			}
			for m := 0; m < l; m++ {
				if t[m] == serial {
					return setupErrorf(tool, "torsion %d: atom %d given twice", k, serial)
				}
			}
			idx[k][l] = i
		}
	}
	S.engine.Dispatcher.Reset()
	var err error
	S.work, err = newWorkers(S.engine, p.Stream, p.Range)
	if err != nil {
		return &SetupError{tool, err}
	}
	S.params = p
	S.indexes = idx
	S.arena = cellstat.NewArena(p.Stat, S.engine.Dispatcher.Threads(), len(idx))
	return nil
}

//Perform runs the search. It returns ErrCancelled if ctx is done before
//the run finishes, and ErrNothingSignificant if no torsion has a result.
func (S *TorsionSearch) Perform(ctx context.Context) error {
	if S.arena == nil {
		return setupErrorf("torsion", "Perform called before Setup")
	}
	S.results = nil
	S.arena.Reset()
	err := S.work.run(ctx, func(thread int, F *chem.Frame) {
		for c, t := range S.indexes {
			d := chem.DihedralDeg(F.Position(t[0]), F.Position(t[1]), F.Position(t[2]), F.Position(t[3]))
			S.arena.Update(thread, c, d)
		}
	})
	S.failed = S.work.failedFrames()
	if err != nil {
		return err
	}
	S.arena.JoinAll()
	valid := 0
	S.results = make([]TorsionResult, len(S.indexes))
	for c := range S.indexes {
		v, ok := S.arena.Finalize(c)
		if ok {
			valid++
		}
		S.results[c] = TorsionResult{Atoms: S.params.Torsions[c], Value: v, Samples: S.arena.Samples(c), Valid: ok}
	}
	S.engine.Log.Infof("torsion search: %d frames, %d torsions, %d with results", S.params.Range.Count, len(S.results), valid)
	if valid == 0 {
		return ErrNothingSignificant
	}
	return nil
}

//Free releases the frame providers and the statistic cells. Results are kept.
func (S *TorsionSearch) Free() {
	if S.work != nil {
		S.work.close()
	}
	S.work = nil
	S.arena = nil
	S.indexes = nil
}

//Results returns the results of the last successful Perform, in the order the torsions were given.
func (S *TorsionSearch) Results() []TorsionResult {
	return S.results
}

//FailedFrames returns the number of frames that could not be loaded in the last run.
func (S *TorsionSearch) FailedFrames() int {
	return S.failed
}

//Table returns the results of the last run as a table.
func (S *TorsionSearch) Table() *report.Table {
	T := &report.Table{
		Tool:         "torsion",
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
		atoms := r.Atoms[:]
		row := report.Row{Atoms: atoms, Labels: labels(top, atoms), Valid: r.Valid}
		if r.Valid {
			row.Values = []float64{r.Value, float64(r.Samples)}
		}
		T.Rows = append(T.Rows, row)
	}
	return T
}
