/*
 * distance.go, part of trajan.
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
)

//DistanceSearch computes a statistic of the distance between each pair of
//the selected atoms over a range of frames.
type DistanceSearch struct {
	pairSearch
}

//NewDistanceSearch returns a DistanceSearch that runs on E.
func NewDistanceSearch(E *Engine) *DistanceSearch {
	S := &DistanceSearch{pairSearch{tool: "distance", engine: E}}
	S.value = func(F *chem.Frame, i, j int) (float64, bool) {
		return chem.Distance(F.Position(i), F.Position(j)), true
	}
	return S
}

//Setup checks the parameters and allocates what the run needs.
func (S *DistanceSearch) Setup(p PairParams) error {
	return S.setup(p)
}

//Perform runs the search. It returns ErrCancelled if ctx is done before
//the run finishes, and ErrNothingSignificant if no pair has a result.
func (S *DistanceSearch) Perform(ctx context.Context) error {
	return S.perform(ctx)
}

//Free releases the frame providers and the statistic cells. Results are kept.
func (S *DistanceSearch) Free() {
	S.free()
}
