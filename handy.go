/*
 * handy.go, part of trajan.
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
	"math"
	"sort"
)

//Deg2Rad converts degrees to radians.
func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

//Rad2Deg converts radians to degrees.
func Rad2Deg(f float64) float64 {
	return f * 180 / math.Pi
}

//Residues2Serials gets a selection list from a list of residue numbers.
//It selects the serial numbers of all the atoms that form part of the residues in the list.
//It doesnt return errors, if a residue is not present, no atom will
//be returned for it. If chains is not empty, atoms are also required to be part of one of the chains
//specified in it.
func Residues2Serials(top *Topology, residues []int, chains []string) []int {
	atlist := make([]int, 0, len(residues)*3)
	for key := 0; key < top.Len(); key++ {
		at := top.Atom(key)
		if isInInt(residues, at.MolID) && (len(chains) == 0 || isInString(chains, at.Chain)) {
			atlist = append(atlist, at.ID)
		}
	}
	return atlist
}

//MergeSerials returns the sorted union of the given serial lists, without repetitions.
func MergeSerials(lists ...[]int) []int {
	var ret []int
	for _, l := range lists {
		for _, s := range l {
			if !isInInt(ret, s) {
				ret = append(ret, s)
			}
		}
	}
	sort.Ints(ret)
	return ret
}

//isInInt returns true if test is in container, false otherwise.
func isInInt(container []int, test int) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}

//Same as the previous, but with strings.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
