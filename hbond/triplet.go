/*
 * triplet.go, part of trajan.
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
	"unsafe"
)

//Maximum number of hydrogens and acceptors a grouped triplet can hold.
const (
	MaxHydrogens = 4
	MaxAcceptors = 4
)

//Triplet is a hydrogen bond candidate: a donor atom, the hydrogens through
//which it can bond and the acceptors it can bond to. Without grouping, there
//is exactly one hydrogen and one acceptor. Atoms are given by serial number.
type Triplet struct {
	Donor         int
	hydrogens     [MaxHydrogens]int
	nh            int
	acceptors     [MaxAcceptors]int
	na            int
	DonorClass    int
	AcceptorClass int
	Group         int //acceptor group, 0 if none
}

//Hydrogens returns the serial numbers of the hydrogens of the triplet.
func (T *Triplet) Hydrogens() []int {
	return T.hydrogens[:T.nh]
}

//Acceptors returns the serial numbers of the acceptors of the triplet.
func (T *Triplet) Acceptors() []int {
	return T.acceptors[:T.na]
}

func (T *Triplet) hasHydrogen(h int) bool {
	for _, v := range T.Hydrogens() {
		if v == h {
			return true
		}
	}
	return false
}

func (T *Triplet) hasAcceptor(a int) bool {
	for _, v := range T.Acceptors() {
		if v == a {
			return true
		}
	}
	return false
}

//addHydrogen adds h if it is not there and there is room for it.
func (T *Triplet) addHydrogen(h int) {
	if T.hasHydrogen(h) || T.nh >= MaxHydrogens {
		return
	}
	T.hydrogens[T.nh] = h
	T.nh++
}

//addAcceptor adds a if it is not there and there is room for it.
func (T *Triplet) addAcceptor(a int) {
	if T.hasAcceptor(a) || T.na >= MaxAcceptors {
		return
	}
	T.acceptors[T.na] = a
	T.na++
}

//builderReserve is the number of triplets a Builder reserves room for, about 5 MB.
var builderReserve = (5 << 20) / int(unsafe.Sizeof(Triplet{}))

//Builder collects triplets during discovery. It is used by one goroutine.
type Builder struct {
	triplets []Triplet
}

//NewBuilder returns a Builder with room for a large number of triplets.
func NewBuilder() *Builder {
	return &Builder{triplets: make([]Triplet, 0, builderReserve)}
}

//Add appends a triplet with one hydrogen and one acceptor and returns its ordinal.
func (B *Builder) Add(donor, hydrogen, acceptor, donorClass, acceptorClass, group int) int {
	t := Triplet{Donor: donor, DonorClass: donorClass, AcceptorClass: acceptorClass, Group: group}
	t.addHydrogen(hydrogen)
	t.addAcceptor(acceptor)
	B.triplets = append(B.triplets, t)
	return len(B.triplets) - 1
}

//Len returns the number of triplets.
func (B *Builder) Len() int {
	return len(B.triplets)
}

//at returns the triplet i, for modification.
func (B *Builder) at(i int) *Triplet {
	return &B.triplets[i]
}

//Build returns the triplets collected. The Builder must not be used after this call.
func (B *Builder) Build() *TripletSet {
	t := make([]Triplet, len(B.triplets))
	copy(t, B.triplets)
	B.triplets = nil
	return &TripletSet{triplets: t}
}

//TripletSet is an immutable list of triplets, which can be shared
//by any number of goroutines.
type TripletSet struct {
	triplets []Triplet
}

//Len returns the number of triplets.
func (S *TripletSet) Len() int {
	if S == nil {
		return 0
	}
	return len(S.triplets)
}

//At returns a copy of the triplet i.
func (S *TripletSet) At(i int) Triplet {
	return S.triplets[i]
}

//ref returns the triplet i without copying. It must not be modified.
func (S *TripletSet) ref(i int) *Triplet {
	return &S.triplets[i]
}
