/*
 * aggregate.go, part of trajan.
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

package hbond

import (
	"fmt"
	"math"
)

//Result is the aggregated energy of a triplet over a run.
type Result struct {
	Count  int     //frames in which the bond was present
	Energy float64 //mean energy over those frames
	Length float64 //mean donor-acceptor distance over those frames
	Valid  bool    //present in at least the minimum percentage of frames
}

//Aggregator accumulates the energies of a TripletSet in each worker thread.
type Aggregator struct {
	set     *TripletSet
	threads int
	energy  []float64
	length  []float64
	count   []int
}

//NewAggregator returns an Aggregator for the given triplets and threads.
func NewAggregator(set *TripletSet, threads int) *Aggregator {
	n := set.Len() * threads
	return &Aggregator{
		set:     set,
		threads: threads,
		energy:  make([]float64, n),
		length:  make([]float64, n),
		count:   make([]int, n),
	}
}

func (A *Aggregator) slot(thread, triplet int) int {
	if thread < 0 || thread >= A.threads || triplet < 0 || triplet >= A.set.Len() {
		panic(fmt.Sprintf("Aggregator: slot (%d, %d) out of bounds", thread, triplet))
	}
	return thread*A.set.Len() + triplet
}

//Add records the bond of a triplet in a frame processed by the given thread.
func (A *Aggregator) Add(thread, triplet int, energy, length float64) {
	s := A.slot(thread, triplet)
	A.energy[s] += energy
	A.length[s] += length
	A.count[s]++
}

//Join sums the values of all the threads into thread 0.
func (A *Aggregator) Join() {
	n := A.set.Len()
	for t := 1; t < A.threads; t++ {
		for i := 0; i < n; i++ {
			A.energy[i] += A.energy[t*n+i]
			A.length[i] += A.length[t*n+i]
			A.count[i] += A.count[t*n+i]
		}
	}
}

//Threshold returns the minimum number of frames, out of workCount, in which a bond
//must be present to be significant: minPercent percent of them, rounded up.
func Threshold(workCount int, minPercent float64) int {
	//the tolerance keeps exact products from being rounded up by floating point errors.
	return int(math.Ceil(minPercent*float64(workCount)/100 - 1e-9))
}

//Finalize returns the results for each triplet, from the values in thread 0. Triplets
//present in fewer frames than Threshold(workCount, minPercent), or in none, are not valid.
func (A *Aggregator) Finalize(workCount int, minPercent float64) []Result {
	min := Threshold(workCount, minPercent)
	ret := make([]Result, A.set.Len())
	for i := range ret {
		c := A.count[i]
		ret[i].Count = c
		if c == 0 || c < min {
			continue
		}
		ret[i].Valid = true
		ret[i].Energy = A.energy[i] / float64(c)
		ret[i].Length = A.length[i] / float64(c)
	}
	return ret
}

//Reset sets all the values to zero.
func (A *Aggregator) Reset() {
	for i := range A.count {
		A.energy[i] = 0
		A.length[i] = 0
		A.count[i] = 0
	}
}
