/*
 * options.go, part of trajan.
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

package dispatch

import "runtime"

//MaxThreads is the largest number of worker threads a Dispatcher will use.
const MaxThreads = 16

//Priority controls how eagerly the workers use the CPU.
type Priority int

const (
	//Normal workers run items back to back.
	Normal Priority = iota
	//Yield workers yield the processor between items.
	Yield
)

func (P Priority) String() string {
	if P == Yield {
		return "yield"
	}
	return "normal"
}

//Options contains the options for a Dispatcher.
type Options struct {
	threads  int
	priority Priority
}

//DefaultOptions returns options for as many threads as logical CPUs
//(up to MaxThreads) and normal priority.
func DefaultOptions() *Options {
	return &Options{threads: 0, priority: Normal}
}

//Threads returns the number of threads requested, and sets it to a new value, if given.
//0 or less means one thread per logical CPU.
func (O *Options) Threads(n ...int) int {
	if len(n) > 0 {
		O.threads = n[0]
	}
	return O.threads
}

//Priority returns the worker priority, and sets it to a new value, if given.
func (O *Options) Priority(p ...Priority) Priority {
	if len(p) > 0 {
		O.priority = p[0]
	}
	return O.priority
}

//ClampThreads returns the number of threads that will be actually used
//when n are requested.
func ClampThreads(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > MaxThreads {
		n = MaxThreads
	}
	if n < 1 {
		n = 1
	}
	return n
}
