/*
 * frame.go, part of trajan.
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

package chem

import (
	"fmt"

	v3 "github.com/rmera/trajan/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

//Frame is one snapshot of a trajectory: the coordinates and, optionally, the
//forces of every atom in a Topology. The topology is shared with the other
//frames of the stream.
type Frame struct {
	Index  int
	Coords *v3.Matrix
	Forces *v3.Matrix //nil if the stream carries no forces
	top    *Topology
}

//NewFrame returns a frame with the given coordinates and forces (which can be nil).
//It checks that the number of vectors matches the number of atoms.
func NewFrame(top *Topology, index int, coords, forces *v3.Matrix) (*Frame, error) {
	if top == nil || coords == nil {
		return nil, CError{"Nil topology or coordinates", []string{"NewFrame"}, true}
	}
	if coords.NVecs() != top.Len() {
		return nil, CError{fmt.Sprintf("Wrong number of coordinates: %d for %d atoms", coords.NVecs(), top.Len()), []string{"NewFrame"}, true}
	}
	if forces != nil && forces.NVecs() != top.Len() {
		return nil, CError{fmt.Sprintf("Wrong number of forces: %d for %d atoms", forces.NVecs(), top.Len()), []string{"NewFrame"}, true}
	}
	return &Frame{Index: index, Coords: coords, Forces: forces, top: top}, nil
}

//Topology returns the topology shared by the frame.
func (F *Frame) Topology() *Topology {
	return F.top
}

//Len returns the number of atoms in the frame.
func (F *Frame) Len() int {
	return F.top.Len()
}

//Atom returns the atom in position i.
func (F *Frame) Atom(i int) *Atom {
	return F.top.Atom(i)
}

//AtomBySerial returns the atom with the given serial number, or nil.
func (F *Frame) AtomBySerial(serial int) *Atom {
	return F.top.AtomBySerial(serial)
}

//HasForces returns true if the frame carries forces.
func (F *Frame) HasForces() bool {
	return F.Forces != nil
}

//Position returns the coordinates of the atom in position i.
func (F *Frame) Position(i int) r3.Vec {
	return F.Coords.Vec(i)
}

//PositionOf returns the coordinates of the atom with the given serial number.
//It panics if there is no such atom.
func (F *Frame) PositionOf(serial int) r3.Vec {
	return F.Coords.Vec(F.top.MustIndex(serial))
}

//Force returns the force on the atom in position i. It panics
//if the frame has no forces.
func (F *Frame) Force(i int) r3.Vec {
	if F.Forces == nil {
		panic("Frame: requested a force from a frame without forces")
	}
	return F.Forces.Vec(i)
}

//ForceOf returns the force on the atom with the given serial number.
func (F *Frame) ForceOf(serial int) r3.Vec {
	return F.Force(F.top.MustIndex(serial))
}

//SameResidue returns true if the atoms with serial numbers a and b belong to the same residue.
func (F *Frame) SameResidue(a, b int) bool {
	return F.top.SameResidue(F.top.MustIndex(a), F.top.MustIndex(b))
}
