/*
 * dispatch_test.go, part of trajan.
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

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func newDispatcher(Te *testing.T, threads int) *Dispatcher {
	O := DefaultOptions()
	O.Threads(threads)
	D, err := New(O, nil)
	if err != nil {
		Te.Fatal(err)
	}
	Te.Cleanup(D.Close)
	return D
}

//Every item is processed exactly once, whatever the number of threads.
func TestCompleteness(Te *testing.T) {
	const items = 1000
	for _, threads := range []int{1, 2, 4, 16} {
		D := newDispatcher(Te, threads)
		counts := make([]int32, items)
		D.RunOnAll(items, func(thread, item int) {
			if thread < 0 || thread >= D.Threads() {
				Te.Errorf("Thread %d out of range", thread)
			}
			atomic.AddInt32(&counts[item], 1)
		})
		for i, c := range counts {
			if c != 1 {
				Te.Errorf("%d threads: item %d processed %d times", threads, i, c)
			}
		}
		if D.Completed() != items {
			Te.Errorf("%d threads: %d items completed", threads, D.Completed())
		}
	}
}

func TestEmptyWork(Te *testing.T) {
	for _, threads := range []int{1, 4} {
		D := newDispatcher(Te, threads)
		var calls int32
		D.RunOnAll(0, func(thread, item int) {
			atomic.AddInt32(&calls, 1)
		})
		if calls != 0 || D.Completed() != 0 {
			Te.Errorf("%d threads: %d calls and %d completed for an empty job", threads, calls, D.Completed())
		}
	}
}

func TestPartitioned(Te *testing.T) {
	const items = 500
	D := newDispatcher(Te, 4)
	var total int64
	perThread := make([]int, D.Threads())
	D.RunPartitioned(items, func(thread int) {
		for {
			item, ok := D.ThreadWork()
			if !ok {
				return
			}
			atomic.AddInt64(&total, int64(item))
			perThread[thread]++
			D.Advance()
		}
	})
	if total != items*(items-1)/2 {
		Te.Errorf("Wrong sum of items: %d", total)
	}
	sum := 0
	for _, n := range perThread {
		sum += n
	}
	if sum != items {
		Te.Errorf("Processed %d items, expected %d", sum, items)
	}
}

func TestInterrupt(Te *testing.T) {
	D := newDispatcher(Te, 1)
	processed := 0
	D.RunOnAll(100, func(thread, item int) {
		processed++
		if item == 10 {
			D.Interrupt()
		}
	})
	if processed != 11 || !D.Interrupted() {
		Te.Errorf("Single thread: processed %d items after interrupting at item 10", processed)
	}
	D.Reset()
	if D.Interrupted() {
		Te.Errorf("Reset should clear the interrupt flag")
	}
	D = newDispatcher(Te, 4)
	var n int64
	D.RunOnAll(100000, func(thread, item int) {
		if atomic.AddInt64(&n, 1) == 50 {
			D.Interrupt()
		}
	})
	//each thread can finish the item it had claimed.
	if n >= 100000 || n < 50 {
		Te.Errorf("Multi thread: processed %d items", n)
	}
}

func TestWatchContext(Te *testing.T) {
	D := newDispatcher(Te, 2)
	ctx, cancel := context.WithCancel(context.Background())
	stop := D.WatchContext(ctx)
	defer stop()
	var n int64
	D.RunOnAll(100000, func(thread, item int) {
		if atomic.AddInt64(&n, 1) == 10 {
			cancel()
		}
		for !D.Interrupted() && atomic.LoadInt64(&n) >= 10 {
			//wait for the context to propagate
		}
	})
	if !D.Interrupted() || n >= 100000 {
		Te.Errorf("Cancelling the context should interrupt the run (processed %d)", n)
	}
}

func TestObserver(Te *testing.T) {
	const items = 200
	D := newDispatcher(Te, 3)
	var mu sync.Mutex
	seen := make(map[int]bool)
	D.SetObserver(ObserverFunc(func(ordinal int) {
		mu.Lock()
		seen[ordinal] = true
		mu.Unlock()
	}))
	D.RunOnAll(items, func(thread, item int) {})
	if len(seen) != items {
		Te.Errorf("Observer saw %d ordinals, expected %d", len(seen), items)
	}
	for i := 1; i <= items; i++ {
		if !seen[i] {
			Te.Errorf("Ordinal %d not reported", i)
		}
	}
}

func TestPanic(Te *testing.T) {
	D := newDispatcher(Te, 2)
	defer func() {
		if r := recover(); r == nil {
			Te.Errorf("A panic in a worker should reach the caller")
		}
	}()
	D.RunOnAll(10, func(thread, item int) {
		if item == 3 {
			panic("boom")
		}
	})
}

func TestOptions(Te *testing.T) {
	if ClampThreads(100) != MaxThreads || ClampThreads(1) != 1 || ClampThreads(0) < 1 {
		Te.Errorf("Wrong thread clamping")
	}
	O := DefaultOptions()
	if O.Priority(Yield) != Yield || O.Threads(3) != 3 {
		Te.Errorf("Options not set")
	}
	D, err := New(O, nil)
	if err != nil {
		Te.Fatal(err)
	}
	defer D.Close()
	n := 0
	D.RunOnAll(30, func(thread, item int) {})
	n = D.Completed()
	if n != 30 {
		Te.Errorf("Yield priority: completed %d items", n)
	}
}
