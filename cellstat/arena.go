/*
 * arena.go, part of trajan.
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

package cellstat

import "fmt"

//Arena keeps the cells of all the candidates of a run for each worker thread,
//in contiguous storage. The floats of the cell c of thread t start at
//(t*Cells()+c)*arity, so, in a pair arena, cell c of each thread is found at
//PairIndex(j, i, arity) within the thread's block. Thread 0 holds the joined
//results after JoinAll.
type Arena struct {
	kind    Kind
	arity   int
	threads int
	cells   int
	vals    []float64
	counts  []int
	states  []State
}

//NewArena returns an arena for cells candidates and the given number of threads.
func NewArena(k Kind, threads, cells int) *Arena {
	if threads < 1 || cells < 0 {
		panic(fmt.Sprintf("NewArena: invalid dimensions %d threads, %d cells", threads, cells))
	}
	A := &Arena{kind: k, arity: int(k.Arity()), threads: threads, cells: cells}
	A.vals = make([]float64, threads*cells*A.arity)
	A.counts = make([]int, threads*cells)
	A.states = make([]State, threads*cells)
	return A
}

//NewPairArena returns an arena with one cell per pair of n entities.
func NewPairArena(k Kind, threads, n int) *Arena {
	return NewArena(k, threads, PairBufferLen(n, k.Arity())/int(k.Arity()))
}

//Kind returns the statistic kind of the arena.
func (A *Arena) Kind() Kind { return A.kind }

//Threads returns the number of threads.
func (A *Arena) Threads() int { return A.threads }

//Cells returns the number of cells per thread.
func (A *Arena) Cells() int { return A.cells }

//PairCell returns the cell ordinal for the pair (j, i), j < i.
func (A *Arena) PairCell(j, i int) int {
	return PairIndex(j, i, Arity(A.arity)) / A.arity
}

func (A *Arena) slot(thread, cell int) int {
	if thread < 0 || thread >= A.threads || cell < 0 || cell >= A.cells {
		panic(fmt.Sprintf("Arena: slot (%d, %d) out of bounds (%d threads, %d cells)", thread, cell, A.threads, A.cells))
	}
	return thread*A.cells + cell
}

//Slot returns a copy of the cell of the given thread.
func (A *Arena) Slot(thread, cell int) Cell {
	s := A.slot(thread, cell)
	var c Cell
	copy(c.V[:A.arity], A.vals[s*A.arity:(s+1)*A.arity])
	c.N = A.counts[s]
	c.State = A.states[s]
	return c
}

func (A *Arena) store(thread, cell int, c Cell) {
	s := A.slot(thread, cell)
	copy(A.vals[s*A.arity:(s+1)*A.arity], c.V[:A.arity])
	A.counts[s] = c.N
	A.states[s] = c.State
}

//Update adds the sample v to the cell of the given thread.
func (A *Arena) Update(thread, cell int, v float64) {
	c := A.Slot(thread, cell)
	c.Update(A.kind, v)
	A.store(thread, cell, c)
}

//Exclude excludes the cell of the given thread.
func (A *Arena) Exclude(thread, cell int) {
	A.states[A.slot(thread, cell)] = Excluded
}

//State returns the state of the cell of the given thread.
func (A *Arena) State(thread, cell int) State {
	return A.states[A.slot(thread, cell)]
}

//JoinAll joins the cells of all the threads into thread 0.
func (A *Arena) JoinAll() {
	for t := 1; t < A.threads; t++ {
		for c := 0; c < A.cells; c++ {
			dst := A.Slot(0, c)
			src := A.Slot(t, c)
			dst.Join(A.kind, &src)
			A.store(0, c, dst)
		}
	}
}

//Finalize returns the statistic for the cell of thread 0, and false if there is no value.
func (A *Arena) Finalize(cell int) (float64, bool) {
	c := A.Slot(0, cell)
	return c.Finalize(A.kind)
}

//Samples returns the number of samples in the cell of thread 0.
func (A *Arena) Samples(cell int) int {
	return A.counts[A.slot(0, cell)]
}

//Reset empties all the cells.
func (A *Arena) Reset() {
	for i := range A.vals {
		A.vals[i] = 0
	}
	for i := range A.counts {
		A.counts[i] = 0
		A.states[i] = Empty
	}
}
