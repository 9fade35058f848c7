/*
 * engine.go, part of trajan.
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
	"fmt"
	"sync/atomic"

	chem "github.com/rmera/trajan"
	"github.com/rmera/trajan/dispatch"
	"github.com/rmera/trajan/hbond"
	"go.uber.org/zap"
)

var (
	//ErrCancelled is returned by Perform when the run is interrupted. No results are produced.
	ErrCancelled = errors.New("search cancelled")
	//ErrNothingSignificant is returned by Perform when the run completed, but no candidate
	//has a valid result. It is not a failure, the criteria may be relaxed.
	ErrNothingSignificant = errors.New("nothing significant found")
)

//SetupError is returned when a search can't be set up.
type SetupError struct {
	Tool string
	Err  error
}

func (E *SetupError) Error() string {
	return fmt.Sprintf("%s search setup: %s", E.Tool, E.Err)
}

func (E *SetupError) Unwrap() error {
	return E.Err
}

func setupErrorf(tool, format string, args ...interface{}) error {
	return &SetupError{tool, fmt.Errorf(format, args...)}
}

//Engine holds what the searches share: the dispatcher, the hydrogen bond
//configuration and the logger. Only one search runs at a time on an Engine.
type Engine struct {
	Dispatcher *dispatch.Dispatcher
	HBond      *hbond.Config //nil means hbond.Default()
	Log        *zap.SugaredLogger
}

//NewEngine returns an Engine with a new Dispatcher with the options O.
//hb can be nil, in which case the built-in configuration is used by hydrogen bond searches.
func NewEngine(O *dispatch.Options, hb *hbond.Config, logger *zap.SugaredLogger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	D, err := dispatch.New(O, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{Dispatcher: D, HBond: hb, Log: logger}, nil
}

//Close releases the dispatcher.
func (E *Engine) Close() {
	E.Dispatcher.Close()
}

func (E *Engine) hbondConfig() (*hbond.Config, error) {
	if E.HBond != nil {
		return E.HBond, nil
	}
	return hbond.Default()
}

//Range is a range of frames of a stream.
type Range struct {
	Start int
	Count int
}

//check verifies that the range is within a stream with n frames.
func (R Range) check(n int) error {
	if R.Start < 0 || R.Count < 1 || R.Start+R.Count > n {
		return fmt.Errorf("invalid frame range: start %d, count %d, for a stream of %d frames", R.Start, R.Count, n)
	}
	return nil
}

//workers holds one frame provider per worker thread.
type workers struct {
	engine    *Engine
	stream    *chem.Stream
	rng       Range
	providers []chem.FrameProvider
	failed    atomic.Int64
}

func newWorkers(E *Engine, S *chem.Stream, R Range) (*workers, error) {
	W := &workers{engine: E, stream: S, rng: R}
	for t := 0; t < E.Dispatcher.Threads(); t++ {
		p, err := S.Provider()
		if err != nil {
			W.close()
			return nil, err
		}
		W.providers = append(W.providers, p)
	}
	return W, nil
}

//run calls fn for each frame of the range that could be loaded. Frames that
//fail to load are logged and skipped.
func (W *workers) run(ctx context.Context, fn func(thread int, F *chem.Frame)) error {
	D := W.engine.Dispatcher
	D.Reset()
	stop := D.WatchContext(ctx)
	defer stop()
	if ctx.Err() != nil {
		D.Interrupt()
	}
	W.failed.Store(0)
	D.RunOnAll(W.rng.Count, func(thread, item int) {
		index := W.rng.Start + item
		F, err := W.providers[thread].Load(index)
		if err != nil {
			W.failed.Add(1)
			W.engine.Log.Warnf("Could not load frame %d, skipping it: %s", index, err)
			return
		}
		fn(thread, F)
	})
	if D.Interrupted() {
		return ErrCancelled
	}
	if n := W.failed.Load(); n > 0 {
		W.engine.Log.Warnf("%d of %d frames could not be loaded", n, W.rng.Count)
	}
	return nil
}

func (W *workers) failedFrames() int {
	return int(W.failed.Load())
}

func (W *workers) close() {
	for _, p := range W.providers {
		p.Close()
	}
	W.providers = nil
}

//label returns a short description of an atom, like A:GLY12:CA.
func label(top *chem.Topology, serial int) string {
	at := top.AtomBySerial(serial)
	if at == nil {
		return fmt.Sprintf("?%d", serial)
	}
	return fmt.Sprintf("%s:%s%d:%s", at.Chain, at.MolName, at.MolID, at.Name)
}

func labels(top *chem.Topology, serials []int) []string {
	ret := make([]string, len(serials))
	for i, s := range serials {
		ret[i] = label(top, s)
	}
	return ret
}
