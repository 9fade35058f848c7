/*
 * discovery.go, part of trajan.
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
	"errors"

	chem "github.com/rmera/trajan"
	"go.uber.org/zap"
)

var (
	//ErrCancelled is returned when discovery is interrupted.
	ErrCancelled = errors.New("hydrogen bond discovery cancelled")
	//ErrNoTriplets is returned when no donor-acceptor pair is found.
	ErrNoTriplets = errors.New("no hydrogen bond candidates found")
)

//DiscoverOptions controls triplet discovery.
type DiscoverOptions struct {
	//Group merges triplets of the same donor whose acceptors are the same atom or
	//equivalent (same group and residue).
	Group bool
	//Interrupted is polled after each donor atom. It can be nil.
	Interrupted func() bool
	Log         *zap.SugaredLogger
}

func matchesResidue(filter, name string) bool {
	return filter == AnyName || filter == name
}

//matchDonor finds the first donor description that matches the atom i, and
//returns it with the positions of the hydrogens present in the residue.
func matchDonor(C *Config, top *chem.Topology, i int) (*Donor, []int) {
	at := top.Atom(i)
	nterm, cterm := top.NTerminal(i), top.CTerminal(i)
	for k := range C.Donors {
		d := &C.Donors[k]
		if d.Atom != at.Name || !matchesResidue(d.Residue, at.MolName) || !d.Terminal.allows(nterm, cterm) {
			continue
		}
		var hs []int
		for _, hname := range d.Hydrogens {
			if h := top.FindInResidue(i, hname); h >= 0 {
				hs = append(hs, h)
			}
		}
		if len(hs) > 0 {
			return d, hs
		}
	}
	return nil, nil
}

//matchAcceptor returns the first acceptor description that matches the atom j.
func matchAcceptor(C *Config, top *chem.Topology, j int) *Acceptor {
	at := top.Atom(j)
	nterm, cterm := top.NTerminal(j), top.CTerminal(j)
	for k := range C.Acceptors {
		a := &C.Acceptors[k]
		if a.Atom == at.Name && matchesResidue(a.Residue, at.MolName) && a.Terminal.allows(nterm, cterm) {
			return a
		}
	}
	return nil
}

//Discover finds the hydrogen bond candidates in the topology of F, using the
//descriptions in C. Only names and residues are used, not the coordinates.
//It returns ErrCancelled if interrupted and ErrNoTriplets if nothing is found.
func Discover(F *chem.Frame, C *Config, O DiscoverOptions) (*TripletSet, error) {
	logger := O.Log
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	top := F.Topology()
	n := top.Len()
	//acceptor descriptions don't depend on the donor.
	accs := make([]*Acceptor, n)
	for j := 0; j < n; j++ {
		accs[j] = matchAcceptor(C, top, j)
	}
	B := NewBuilder()
	donors := 0
	for i := 0; i < n; i++ {
		d, hs := matchDonor(C, top, i)
		if d != nil {
			donors++
			discoverDonor(B, top, i, d, hs, accs, O.Group)
		}
		if O.Interrupted != nil && O.Interrupted() {
			return nil, ErrCancelled
		}
	}
	logger.Debugf("Triplet discovery: %d donor atoms, %d triplets", donors, B.Len())
	if B.Len() == 0 {
		return nil, ErrNoTriplets
	}
	return B.Build(), nil
}

//discoverDonor adds the triplets of the donor atom i.
func discoverDonor(B *Builder, top *chem.Topology, i int, d *Donor, hs []int, accs []*Acceptor, group bool) {
	first := B.Len() //triplets of this donor start here
	donor := top.Atom(i).ID
	for _, h := range hs {
		hserial := top.Atom(h).ID
		for j, a := range accs {
			if a == nil || top.SameResidue(i, j) {
				continue
			}
			if d.Residue == AnyName && a.Residue == AnyName && top.Neighbors(i, j) {
				continue
			}
			aserial := top.Atom(j).ID
			if group && mergeInto(B, top, first, d, hserial, aserial, j, a) {
				continue
			}
			B.Add(donor, hserial, aserial, d.Class, a.Class, a.Group)
		}
	}
}

//mergeInto looks for a triplet of the current donor, from first on, that the
//hydrogen h and the acceptor in position j can join. It returns true if one was found.
func mergeInto(B *Builder, top *chem.Topology, first int, d *Donor, h, aserial, j int, a *Acceptor) bool {
	for k := first; k < B.Len(); k++ {
		t := B.at(k)
		sameAcceptor := t.hasAcceptor(aserial)
		equivalent := a.Group != 0 && t.Group == a.Group && t.AcceptorClass == a.Class &&
			top.SameResidue(top.MustIndex(t.acceptors[0]), j)
		if !sameAcceptor && !equivalent {
			continue
		}
		if !d.GroupHydrogens && !t.hasHydrogen(h) {
			continue
		}
		t.addHydrogen(h)
		t.addAcceptor(aserial)
		return true
	}
	return false
}
