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

package dcd

import (
	"fmt"

	chem "github.com/rmera/trajan"
	v3 "github.com/rmera/trajan/v3"
	"go.uber.org/zap"
)

//Open opens the DCD trajectory in path as a stream of frames for top. If forcePath is
//not empty, it must be a DCD file with the same number of frames, with the forces on
//each atom instead of the coordinates, as NAMD writes them.
func Open(top *chem.Topology, path, forcePath string, logger *zap.SugaredLogger) (*chem.Stream, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	first, err := newProvider(top, path, forcePath)
	if err != nil {
		return nil, errDecorate(err, "Open")
	}
	n := first.coords.Frames()
	if n == 0 {
		first.Close()
		return nil, Error{"Trajectory has no frames", path, []string{"Open"}, true}
	}
	resident, err := first.Load(0)
	first.Close()
	if err != nil {
		return nil, errDecorate(err, "Open")
	}
	logger.Debugf("Opened %s: %d atoms, %d frames, forces: %t", path, top.Len(), n, forcePath != "")
	open := func() (chem.FrameProvider, error) {
		return newProvider(top, path, forcePath)
	}
	return chem.NewStream("dcd", path, top, n, resident, open)
}

//provider reads frames from a DCD trajectory, and optionally its force trajectory, in any
//order. The returned frame is overwritten by the next call to Load.
type provider struct {
	coords *Reader
	forces *Reader
	frame  *chem.Frame
}

func openChecked(name string, top *chem.Topology) (*Reader, error) {
	R, err := New(name)
	if err != nil {
		return nil, err
	}
	if R.Len() != top.Len() {
		R.Close()
		return nil, Error{fmt.Sprintf("Trajectory has %d atoms per frame, topology has %d", R.Len(), top.Len()), name, []string{"openChecked"}, true}
	}
	return R, nil
}

func newProvider(top *chem.Topology, path, forcePath string) (*provider, error) {
	P := new(provider)
	var err error
	if P.coords, err = openChecked(path, top); err != nil {
		return nil, errDecorate(err, "newProvider")
	}
	var forces *v3.Matrix
	if forcePath != "" {
		if P.forces, err = openChecked(forcePath, top); err != nil {
			P.Close()
			return nil, errDecorate(err, "newProvider")
		}
		if P.forces.Frames() != P.coords.Frames() {
			P.Close()
			return nil, Error{fmt.Sprintf("Force trajectory has %d frames, coordinates have %d", P.forces.Frames(), P.coords.Frames()), forcePath, []string{"newProvider"}, true}
		}
		forces = v3.Zeros(top.Len())
	}
	P.frame, err = chem.NewFrame(top, 0, v3.Zeros(top.Len()), forces)
	if err != nil {
		P.Close()
		return nil, errDecorate(err, "newProvider")
	}
	return P, nil
}

//Load returns the frame with the given index.
func (P *provider) Load(index int) (*chem.Frame, error) {
	if err := P.coords.Seek(index); err != nil {
		return nil, errDecorate(err, "Load")
	}
	if err := P.coords.Next(P.frame.Coords); err != nil {
		return nil, errDecorate(err, "Load")
	}
	if P.forces != nil {
		if err := P.forces.Seek(index); err != nil {
			return nil, errDecorate(err, "Load")
		}
		if err := P.forces.Next(P.frame.Forces); err != nil {
			return nil, errDecorate(err, "Load")
		}
	}
	P.frame.Index = index
	return P.frame, nil
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
