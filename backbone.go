/*
 * backbone.go, part of trajan.
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

//BackboneTorsions returns the serial numbers of the atoms forming the phi and psi
//dihedrals of the protein residues in top, in that order for each residue. Only residues
//whose number is in residues (all, if residues is empty) and whose chain is in chains
//(all, if chains is empty) are included. A phi (psi) dihedral is only returned if the
//previous (next) residue is bonded to the current one, i.e. is the neighbor in the same chain.
//The second return value gives a name for each torsion, such as "A:ALA12:phi".
func BackboneTorsions(top *Topology, chains []string, residues []int) ([][4]int, []string, error) {
	if top == nil {
		return nil, nil, CError{"Nil topology given", []string{"BackboneTorsions"}, true}
	}
	var tors [][4]int
	var names []string
	for r, atoms := range top.resAtoms {
		first := top.atoms[atoms[0]]
		if first.Het {
			continue
		}
		if len(residues) > 0 && !isInInt(residues, first.MolID) {
			continue
		}
		if len(chains) > 0 && !isInString(chains, first.Chain) {
			continue
		}
		n, ca, c := top.backbone(r)
		if n < 0 || ca < 0 || c < 0 {
			continue
		}
		label := fmt.Sprintf("%s:%s%d:", first.Chain, first.MolName, first.MolID)
		if r > 0 && top.Neighbors(atoms[0], top.resAtoms[r-1][0]) {
			if _, _, cprev := top.backbone(r - 1); cprev >= 0 {
				tors = append(tors, [4]int{top.atoms[cprev].ID, top.atoms[n].ID, top.atoms[ca].ID, top.atoms[c].ID})
				names = append(names, label+"phi")
			}
		}
		if r < len(top.resAtoms)-1 && top.Neighbors(atoms[0], top.resAtoms[r+1][0]) {
			if npost, _, _ := top.backbone(r + 1); npost >= 0 {
				tors = append(tors, [4]int{top.atoms[n].ID, top.atoms[ca].ID, top.atoms[c].ID, top.atoms[npost].ID})
				names = append(names, label+"psi")
			}
		}
	}
	if len(tors) == 0 {
		return nil, nil, CError{"No backbone torsions found", []string{"BackboneTorsions"}, false}
	}
	return tors, names, nil
}

//backbone returns the positions of the N, CA and C atoms of the residue
//with ordinal r, -1 for those not present.
func (T *Topology) backbone(r int) (n, ca, c int) {
	n, ca, c = -1, -1, -1
	for _, i := range T.resAtoms[r] {
		switch T.atoms[i].Name {
		case "N":
			n = i
		case "CA":
			ca = i
		case "C":
			c = i
		}
	}
	return n, ca, c
}
