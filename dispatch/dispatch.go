/*
 * dispatch.go, part of trajan.
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
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

//Observer receives the progress of a run. Advance is called once
//after each completed work item, with the number of items completed so far.
//It may be called from several goroutines at the same time.
type Observer interface {
	Advance(ordinal int)
}

//ObserverFunc is a function that implements Observer.
type ObserverFunc func(ordinal int)

//Advance calls F.
func (F ObserverFunc) Advance(ordinal int) { F(ordinal) }

//Dispatcher distributes numbered work items over a fixed set of worker threads.
//Items are claimed one by one from a shared counter, so the assignment of items
//to threads is not deterministic. A Dispatcher runs one job at a time.
type Dispatcher struct {
	threads  int
	priority Priority
	pool     *ants.Pool //nil when single-threaded

	mu    sync.Mutex
	next  int
	count int

	done        atomic.Int64
	interrupted atomic.Bool
	observer    Observer
	log         *zap.SugaredLogger

	panicMu  sync.Mutex
	panicked interface{}
}

//New returns a Dispatcher with the given options. If O is nil, the default options
//are used. logger can be nil.
func New(O *Options, logger *zap.SugaredLogger) (*Dispatcher, error) {
	if O == nil {
		O = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	D := &Dispatcher{
		threads:  ClampThreads(O.Threads()),
		priority: O.Priority(),
		log:      logger,
	}
	if D.threads == 1 {
		return D, nil
	}
	var err error
	D.pool, err = ants.NewPool(D.threads, ants.WithNonblocking(true), ants.WithPanicHandler(D.recordPanic))
	if err != nil {
		return nil, fmt.Errorf("Creating a pool of %d workers: %w", D.threads, err)
	}
	logger.Debugf("Dispatcher with %d threads, %s priority", D.threads, D.priority)
	return D, nil
}

func (D *Dispatcher) recordPanic(p interface{}) {
	D.log.Errorf("Worker panicked: %v", p)
	D.panicMu.Lock()
	if D.panicked == nil {
		D.panicked = p
	}
	D.panicMu.Unlock()
}

//Threads returns the number of worker threads. Thread numbers passed to
//the work functions are in [0, Threads()).
func (D *Dispatcher) Threads() int {
	return D.threads
}

//SetObserver sets the observer for the next runs. nil removes it.
func (D *Dispatcher) SetObserver(o Observer) {
	D.observer = o
}

//Interrupt asks the running job to stop. Items already claimed are finished,
//no new items are handed out.
func (D *Dispatcher) Interrupt() {
	D.interrupted.Store(true)
}

//Interrupted returns true if Interrupt has been called since the last Reset.
func (D *Dispatcher) Interrupted() bool {
	return D.interrupted.Load()
}

//Reset clears the interrupt flag.
func (D *Dispatcher) Reset() {
	D.interrupted.Store(false)
}

//WatchContext interrupts the dispatcher when ctx is done. The returned
//function stops watching.
func (D *Dispatcher) WatchContext(ctx context.Context) (stop func()) {
	s := context.AfterFunc(ctx, D.Interrupt)
	return func() { s() }
}

//ThreadWork returns the next unclaimed work item, or false if there are
//no more items or the job was interrupted.
func (D *Dispatcher) ThreadWork() (int, bool) {
	if D.priority == Yield {
		runtime.Gosched()
	}
	if D.interrupted.Load() {
		return 0, false
	}
	if D.pool != nil {
		D.mu.Lock()
		defer D.mu.Unlock()
	}
	if D.next >= D.count {
		return 0, false
	}
	item := D.next
	D.next++
	return item, true
}

//Advance marks one work item as completed, and tells the observer, if any.
func (D *Dispatcher) Advance() {
	n := D.done.Add(1)
	if D.observer != nil {
		D.observer.Advance(int(n))
	}
}

//Completed returns the number of items marked as completed in the current or last run.
func (D *Dispatcher) Completed() int {
	return int(D.done.Load())
}

//RunOnAll calls fn once for each of the workCount items, spread over the worker threads,
//and returns when all workers are done.
func (D *Dispatcher) RunOnAll(workCount int, fn func(thread, item int)) {
	D.run(workCount, func(thread int) {
		for {
			item, ok := D.ThreadWork()
			if !ok {
				return
			}
			fn(thread, item)
			D.Advance()
		}
	})
}

//RunPartitioned calls fn once per worker thread. fn is expected to claim
//items with ThreadWork until it returns false, and to call Advance after each.
//It returns when all workers are done.
func (D *Dispatcher) RunPartitioned(workCount int, fn func(thread int)) {
	D.run(workCount, fn)
}

func (D *Dispatcher) run(workCount int, worker func(thread int)) {
	D.next = 0
	D.count = workCount
	D.done.Store(0)
	if D.pool == nil {
		worker(0)
		return
	}
	var wg sync.WaitGroup
	started := 0
	for t := 0; t < D.threads; t++ {
		thread := t
		wg.Add(1)
		err := D.pool.Submit(func() {
			defer wg.Done()
			worker(thread)
		})
		if err != nil {
			wg.Done()
			D.log.Warnf("Could not start worker %d: %s. Continuing with fewer workers", thread, err)
			continue
		}
		started++
	}
	if started == 0 {
		D.log.Warnf("No worker could be started, running on the calling goroutine")
		worker(0)
	}
	wg.Wait()
	D.panicMu.Lock()
	p := D.panicked
	D.panicked = nil
	D.panicMu.Unlock()
	if p != nil {
		panic(p)
	}
}

//Close releases the worker pool. The Dispatcher can't be used after this call.
func (D *Dispatcher) Close() {
	if D.pool != nil {
		D.pool.Release()
	}
}
