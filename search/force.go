/*
 * force.go, part of trajan.
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
	"sync/atomic"

	chem "github.com/rmera/trajan"
)

//ForceSearch computes a statistic of the cosine of the angle between the forces
//on each pair of the selected atoms over a range of frames.
type ForceSearch struct {
	pairSearch
	zero atomic.Int64
}

//NewForceSearch returns a ForceSearch that runs on E.
func NewForceSearch(E *Engine) *ForceSearch {
	S := &ForceSearch{pairSearch: pairSearch{tool: "force", engine: E}}
	S.value = func(F *chem.Frame, i, j int) (float64, bool) {
		c, ok := chem.Cosine(F.Force(i), F.Force(j))
		if !ok {
			S.zero.Add(1)
		}
		return c, ok
	}
	return S
}

//Setup checks the parameters and allocates what the run needs.
//The stream must carry forces.
func (S *ForceSearch) Setup(p PairParams) error {
	if p.Stream != nil && !p.Stream.HasForces() {
		return setupErrorf(S.tool, "the trajectory %s has no forces", p.Stream.Path)
	}
	return S.setup(p)
}

//Perform runs the search. Pairs where one of the forces is zero get no
//sample in that frame. It returns ErrCancelled if ctx is done before
//the run finishes, and ErrNothingSignificant if no pair has a result.
func (S *ForceSearch) Perform(ctx context.Context) error {
	S.zero.Store(0)
	err := S.perform(ctx)
	if n := S.zero.Load(); n > 0 {
		S.engine.Log.Infof("force search: %d pair samples skipped for zero forces", n)
	}
	return err
}

//ZeroForces returns the number of pair samples skipped in the last run because
//one of the forces was zero.
func (S *ForceSearch) ZeroForces() int {
	return int(S.zero.Load())
}

//Free releases the frame providers and the statistic cells. Results are kept.
func (S *ForceSearch) Free() {
	S.free()
}
