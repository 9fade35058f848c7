/*
 * provider.go, part of trajan.
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

package stf

import (
	"fmt"

	chem "github.com/rmera/trajan"
	v3 "github.com/rmera/trajan/v3"
	"go.uber.org/zap"
)

//Open opens the STF trajectory in path as a stream of frames for top. If forcePath is
//not empty, it must be an STF file with the same number of frames, containing the forces on
//each atom instead of the coordinates. The trajectory is read once to count the frames.
func Open(top *chem.Topology, path, forcePath string, logger *zap.SugaredLogger) (*chem.Stream, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	n, err := CountFrames(path)
	if err != nil {
		return nil, errDecorate(err, "Open")
	}
	if forcePath != "" {
		nf, err := CountFrames(forcePath)
		if err != nil {
			return nil, errDecorate(err, "Open")
		}
		if nf != n {
			return nil, Error{fmt.Sprintf("Force trajectory has %d frames, coordinates have %d", nf, n), forcePath, []string{"Open"}, true}
		}
	}
	if n == 0 {
		return nil, Error{"Trajectory has no frames", path, []string{"Open"}, true}
	}
	open := func() (chem.FrameProvider, error) {
		return newProvider(top, path, forcePath, logger)
	}
	first, err := newProvider(top, path, forcePath, logger)
	if err != nil {
		return nil, err
	}
	resident, err := first.Load(0)
	first.Close()
	if err != nil {
		return nil, errDecorate(err, "Open")
	}
	logger.Debugf("Opened %s: %d atoms, %d frames, forces: %t", path, top.Len(), n, forcePath != "")
	return chem.NewStream("stf", path, top, n, resident, open)
}

//provider reads frames from an STF trajectory, and optionally its force trajectory, in any
//order. Going back in the trajectory requires reopening the files, so loading frames in increasing
//order is much faster. The returned frame is overwritten by the next call to Load.
type provider struct {
	top       *chem.Topology
	path      string
	forcePath string
	coords    *Reader
	forces    *Reader
	next      int //index of the frame that the readers would return next
	frame     *chem.Frame
	log       *zap.SugaredLogger
}

func newProvider(top *chem.Topology, path, forcePath string, logger *zap.SugaredLogger) (*provider, error) {
	P := &provider{top: top, path: path, forcePath: forcePath, log: logger}
	if err := P.reopen(); err != nil {
		return nil, err
	}
	var forces *v3.Matrix
	if forcePath != "" {
		forces = v3.Zeros(top.Len())
	}
	var err error
	P.frame, err = chem.NewFrame(top, 0, v3.Zeros(top.Len()), forces)
	if err != nil {
		P.Close()
		return nil, errDecorate(err, "newProvider")
	}
	return P, nil
}

func (P *provider) reopen() error {
	P.Close()
	var err error
	P.coords, _, err = New(P.path, P.log)
	if err != nil {
		return errDecorate(err, "reopen")
	}
	if P.coords.Len() != P.top.Len() {
		P.Close()
		return Error{fmt.Sprintf("Trajectory has %d atoms per frame, topology has %d", P.coords.Len(), P.top.Len()), P.path, []string{"reopen"}, true}
	}
	if P.forcePath != "" {
		P.forces, _, err = New(P.forcePath, P.log)
		if err != nil {
			P.Close()
			return errDecorate(err, "reopen")
		}
		if P.forces.Len() != P.top.Len() {
			P.Close()
			return Error{fmt.Sprintf("Force trajectory has %d atoms per frame, topology has %d", P.forces.Len(), P.top.Len()), P.forcePath, []string{"reopen"}, true}
		}
	}
	P.next = 0
	return nil
}

//Load returns the frame with the given index.
func (P *provider) Load(index int) (*chem.Frame, error) {
	if index < 0 {
		return nil, Error{fmt.Sprintf("Invalid frame index %d", index), P.path, []string{"Load"}, false}
	}
	if index < P.next || P.coords == nil || !P.coords.Readable() {
		if err := P.reopen(); err != nil {
			return nil, errDecorate(err, "Load")
		}
	}
	err := P.read(index)
	if err != nil {
		//the readers are in an unknown position now.
		P.Close()
		return nil, errDecorate(err, "Load")
	}
	P.next = index + 1
	P.frame.Index = index
	return P.frame, nil
}

func (P *provider) read(index int) error {
	if err := P.coords.Skip(index - P.next); err != nil {
		return err
	}
	if err := P.coords.Next(P.frame.Coords); err != nil {
		return err
	}
	if P.forces == nil {
		return nil
	}
	if err := P.forces.Skip(index - P.next); err != nil {
		return err
	}
	return P.forces.Next(P.frame.Forces)
}

//Close closes the trajectory files.
func (P *provider) Close() {
	if P.coords != nil {
		P.coords.Close()
		P.coords = nil
	}
	if P.forces != nil {
		P.forces.Close()
		P.forces = nil
	}
}
