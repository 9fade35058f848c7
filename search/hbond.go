/*
 * hbond.go, part of trajan.
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
	"errors"

	chem "github.com/rmera/trajan"
	"github.com/rmera/trajan/hbond"
	"github.com/rmera/trajan/report"
)

//HBondParams are the parameters of a hydrogen bond search.
type HBondParams struct {
	Stream *chem.Stream
	Range  Range
	//MinPercent is the minimum percentage of the frames in which a bond must
	//be present to be reported, between 0 and 100.
	MinPercent float64
	Cutoff     float64 //maximum donor-acceptor distance, 0 or less means hbond.DefaultCutoff
	Group      bool
}

//HBondResult is the result for one hydrogen bond candidate.
type HBondResult struct {
	Donor         int
	Hydrogens     []int
	Acceptors     []int
	DonorClass    string
	AcceptorClass string
	hbond.Result
}

//HBondSearch finds the hydrogen bonds present in a minimum fraction of the
//frames of a range, with their mean energies and lengths.
type HBondSearch struct {
	engine   *Engine
	params   HBondParams
	config   *hbond.Config
	triplets *hbond.TripletSet
	tparams  []hbond.Param
	agg      *hbond.Aggregator
	work     *workers
	failed   int
	results  []HBondResult
}

//NewHBondSearch returns an HBondSearch that runs on E.
func NewHBondSearch(E *Engine) *HBondSearch {
	return &HBondSearch{engine: E}
}

//Setup checks the parameters and finds the hydrogen bond candidates in the first
//frame of the range. It returns ErrCancelled if ctx is done, or the engine's
//dispatcher is interrupted, during the discovery.
func (S *HBondSearch) Setup(ctx context.Context, p HBondParams) error {
	const tool = "hbond"
	S.Free()
	if p.Stream == nil {
		return setupErrorf(tool, "no trajectory")
	}
	if err := p.Range.check(p.Stream.Len()); err != nil {
		return &SetupError{tool, err}
	}
	if p.MinPercent < 0 || p.MinPercent > 100 {
		return setupErrorf(tool, "minimum percentage %g out of the [0, 100] range", p.MinPercent)
	}
	if p.Cutoff <= 0 {
		p.Cutoff = hbond.DefaultCutoff
	}
	C, err := S.engine.hbondConfig()
	if err != nil {
		return &SetupError{tool, err}
	}
	D := S.engine.Dispatcher
	D.Reset()
	S.work, err = newWorkers(S.engine, p.Stream, p.Range)
	if err != nil {
		return &SetupError{tool, err}
	}
	ref, err := S.work.providers[0].Load(p.Range.Start)
	if err != nil {
		S.Free()
		return &SetupError{tool, err}
	}
	stop := D.WatchContext(ctx)
	if ctx.Err() != nil {
		D.Interrupt()
	}
	set, err := hbond.Discover(ref, C, hbond.DiscoverOptions{Group: p.Group, Interrupted: D.Interrupted, Log: S.engine.Log})
	stop()
	if err != nil {
		S.Free()
		if errors.Is(err, hbond.ErrCancelled) {
			return ErrCancelled
		}
		return &SetupError{tool, err}
	}
	S.engine.Log.Infof("hbond search: %d candidates found in frame %d", set.Len(), p.Range.Start)
	S.params = p
	S.config = C
	S.triplets = set
	S.tparams = make([]hbond.Param, set.Len())
	for i := range S.tparams {
		t := set.At(i)
		S.tparams[i] = C.Param(t.DonorClass, t.AcceptorClass)
	}
	S.agg = hbond.NewAggregator(set, D.Threads())
	return nil
}

//Perform runs the search. It returns ErrCancelled if ctx is done before
//the run finishes, and ErrNothingSignificant if no bond is present in
//enough frames.
func (S *HBondSearch) Perform(ctx context.Context) error {
	if S.agg == nil {
		return setupErrorf("hbond", "Perform called before Setup")
	}
	S.results = nil
	S.agg.Reset()
	n := S.triplets.Len()
	err := S.work.run(ctx, func(thread int, F *chem.Frame) {
		for i := 0; i < n; i++ {
			t := S.triplets.At(i)
			if e, l, ok := t.Energy(F, S.tparams[i], S.params.Cutoff); ok {
				S.agg.Add(thread, i, e, l)
			}
		}
	})
	S.failed = S.work.failedFrames()
	if err != nil {
		return err
	}
	S.agg.Join()
	res := S.agg.Finalize(S.params.Range.Count, S.params.MinPercent)
	S.results = make([]HBondResult, n)
	valid := 0
	for i, r := range res {
		t := S.triplets.At(i)
		S.results[i] = HBondResult{
			Donor:         t.Donor,
			Hydrogens:     append([]int(nil), t.Hydrogens()...),
			Acceptors:     append([]int(nil), t.Acceptors()...),
			DonorClass:    S.config.DonorClasses[t.DonorClass],
			AcceptorClass: S.config.AcceptorClasses[t.AcceptorClass],
			Result:        r,
		}
		if r.Valid {
			valid++
		}
	}
	S.engine.Log.Infof("hbond search: %d frames, %d candidates, %d significant (threshold %d frames)",
		S.params.Range.Count, n, valid, hbond.Threshold(S.params.Range.Count, S.params.MinPercent))
	if valid == 0 {
		return ErrNothingSignificant
	}
	return nil
}

//Free releases the frame providers and the per-thread buffers. Results are kept.
func (S *HBondSearch) Free() {
	if S.work != nil {
		S.work.close()
	}
	S.work = nil
	S.agg = nil
	S.triplets = nil
	S.tparams = nil
}

//Candidates returns the number of candidates found by the last Setup, or 0 after Free.
func (S *HBondSearch) Candidates() int {
	return S.triplets.Len()
}

//Results returns the results of the last successful Perform for all the candidates,
//significant or not.
func (S *HBondSearch) Results() []HBondResult {
	return S.results
}

//FailedFrames returns the number of frames that could not be loaded in the last run.
func (S *HBondSearch) FailedFrames() int {
	return S.failed
}

//Table returns the significant bonds of the last run as a table. The atoms of each
//row are the donor, the hydrogens and the acceptors, in that order.
func (S *HBondSearch) Table() *report.Table {
	T := &report.Table{
		Tool:         "hbond",
		Stat:         "mean",
		Columns:      []string{"energy", "length", "frames", "percent"},
		Frames:       S.params.Range.Count,
		FailedFrames: S.failed,
	}
	if S.params.Stream == nil {
		return T
	}
	top := S.params.Stream.Topology()
	for _, r := range S.results {
		if !r.Valid {
			continue
		}
		atoms := append([]int{r.Donor}, r.Hydrogens...)
		atoms = append(atoms, r.Acceptors...)
		percent := 100 * float64(r.Count) / float64(S.params.Range.Count)
		T.Rows = append(T.Rows, report.Row{
			Atoms:  atoms,
			Labels: labels(top, atoms),
			Values: []float64{r.Energy, r.Length, float64(r.Count), percent},
			Valid:  true,
		})
	}
	return T
}
