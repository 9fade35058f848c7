/*
 * chem.go, part of trajan.
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
)

//Atom contains the information of an atom except for its coordinates
//and forces, which change from frame to frame and are kept in matrices.
type Atom struct {
	Name    string
	ID      int    //serial number, stable across frames
	MolName string //residue name
	MolID   int    //residue number, as in the input file
	Chain   string
	Symbol  string
	Het     bool // is hetatm in the pdb file?
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	N := *A
	return &N
}

type residueKey struct {
	chain string
	molid int
}

/*****Topology type***/

//Topology contains the information about a system which is not expected to change
//in time, i.e. everything except for coordinates and forces. A Topology is
//never modified after creation, so it can be shared by all the frames and
//goroutines processing a trajectory.
type Topology struct {
	atoms    []*Atom
	serials  map[int]int
	residue  []int   //residue ordinal for each atom. Monotonic along the atom list.
	resAtoms [][]int //atom indexes for each residue ordinal
	resChain []string
	nterm    []bool //per residue ordinal
	cterm    []bool
}

//NewTopology builds a topology from the given atoms. Atoms must have unique
//serial numbers (ID). The atoms are not copied.
func NewTopology(ats []*Atom) (*Topology, error) {
	if ats == nil {
		return nil, CError{"Supplied a nil atom slice", []string{"NewTopology"}, true}
	}
	T := &Topology{
		atoms:   ats,
		serials: make(map[int]int, len(ats)),
		residue: make([]int, len(ats)),
	}
	var prev residueKey
	first := true
	for i, at := range ats {
		if at == nil {
			return nil, CError{fmt.Sprintf("Nil atom in position %d", i), []string{"NewTopology"}, true}
		}
		if j, ok := T.serials[at.ID]; ok {
			return nil, CError{fmt.Sprintf("Atoms %d and %d share the serial number %d", j, i, at.ID), []string{"NewTopology"}, true}
		}
		T.serials[at.ID] = i
		key := residueKey{at.Chain, at.MolID}
		if first || key != prev {
			T.resAtoms = append(T.resAtoms, nil)
			T.resChain = append(T.resChain, at.Chain)
			prev = key
			first = false
		}
		r := len(T.resAtoms) - 1
		T.residue[i] = r
		T.resAtoms[r] = append(T.resAtoms[r], i)
	}
	T.markTerminals()
	return T, nil
}

//markTerminals flags the first and last non-hetero residue of each chain.
func (T *Topology) markTerminals() {
	T.nterm = make([]bool, len(T.resAtoms))
	T.cterm = make([]bool, len(T.resAtoms))
	firsts := make(map[string]int)
	lasts := make(map[string]int)
	for r, atoms := range T.resAtoms {
		if T.atoms[atoms[0]].Het {
			continue
		}
		c := T.resChain[r]
		if _, ok := firsts[c]; !ok {
			firsts[c] = r
		}
		lasts[c] = r
	}
	for _, r := range firsts {
		T.nterm[r] = true
	}
	for _, r := range lasts {
		T.cterm[r] = true
	}
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Topology. Panics if
//out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() || i < 0 {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.atoms[i]
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.atoms)
}

//Index returns the position in the topology of the atom with the given
//serial number, and false if no such atom exists.
func (T *Topology) Index(serial int) (int, bool) {
	i, ok := T.serials[serial]
	return i, ok
}

//MustIndex is like Index, but panics if the serial is not present.
func (T *Topology) MustIndex(serial int) int {
	i, ok := T.serials[serial]
	if !ok {
		panic(fmt.Sprintf("Topology: no atom with serial number %d", serial))
	}
	return i
}

//AtomBySerial returns the atom with the given serial number, or nil.
func (T *Topology) AtomBySerial(serial int) *Atom {
	i, ok := T.serials[serial]
	if !ok {
		return nil
	}
	return T.atoms[i]
}

//Residue returns the residue ordinal of the atom in position i.
//Residue ordinals start at 0 and grow monotonically along the atom list.
func (T *Topology) Residue(i int) int {
	return T.residue[i]
}

//Residues returns the number of residues in the topology.
func (T *Topology) Residues() int {
	return len(T.resAtoms)
}

//SameResidue returns true if the atoms in positions i and j belong to the same residue.
func (T *Topology) SameResidue(i, j int) bool {
	return T.residue[i] == T.residue[j]
}

//Neighbors returns true if the atoms in positions i and j belong to
//consecutive residues of the same chain.
func (T *Topology) Neighbors(i, j int) bool {
	ri, rj := T.residue[i], T.residue[j]
	if ri-rj != 1 && rj-ri != 1 {
		return false
	}
	return T.resChain[ri] == T.resChain[rj]
}

//NTerminal returns true if the atom in position i belongs to the first
//residue of its chain.
func (T *Topology) NTerminal(i int) bool {
	return T.nterm[T.residue[i]]
}

//CTerminal returns true if the atom in position i belongs to the last
//residue of its chain.
func (T *Topology) CTerminal(i int) bool {
	return T.cterm[T.residue[i]]
}

//FindInResidue returns the position of the atom called name in the same residue
//as the atom in position i, or -1 if there is no such atom.
func (T *Topology) FindInResidue(i int, name string) int {
	for _, j := range T.resAtoms[T.residue[i]] {
		if T.atoms[j].Name == name {
			return j
		}
	}
	return -1
}

//Serials returns the serial numbers of the atoms in the positions given.
func (T *Topology) Serials(indexes []int) []int {
	ret := make([]int, len(indexes))
	for k, i := range indexes {
		ret[k] = T.atoms[i].ID
	}
	return ret
}

//Indexes returns the positions of the atoms with the given serial numbers.
//It returns an error if one of them is not present.
func (T *Topology) Indexes(serials []int) ([]int, error) {
	ret := make([]int, len(serials))
	for k, s := range serials {
		i, ok := T.serials[s]
		if !ok {
			return nil, CError{fmt.Sprintf("No atom with serial number %d", s), []string{"Indexes"}, false}
		}
		ret[k] = i
	}
	return ret, nil
}
