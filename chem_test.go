/*
 * chem_test.go, part of trajan.
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
	"bytes"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const twoModels = `REMARK   small test
MODEL        1
ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00  0.00           N
ATOM      2  H   ALA A   1       0.000   1.000   0.000  1.00  0.00           H
ATOM      3  CA  ALA A   1       1.000   0.000   0.000  1.00  0.00           C
ATOM      4  N   GLY A   2       2.000   0.000   0.000  1.00  0.00           N
ATOM      5  O   GLY A   2       3.000   0.000   0.000  1.00  0.00           O
ATOM      6  N   SER A   3       4.000   0.000   0.000  1.00  0.00           N
HETATM    7  O   HOH W 100       9.000   0.000   0.000  1.00  0.00           O
ENDMDL
MODEL        2
ATOM      1  N   ALA A   1       0.000   0.000   0.500  1.00  0.00           N
ATOM      2  H   ALA A   1       0.000   1.000   0.500  1.00  0.00           H
ATOM      3  CA  ALA A   1       1.000   0.000   0.500  1.00  0.00           C
ATOM      4  N   GLY A   2       2.000   0.000   0.500  1.00  0.00           N
ATOM      5  O   GLY A   2       3.000   0.000   0.500  1.00  0.00           O
ATOM      6  N   SER A   3       4.000   0.000   0.500  1.00  0.00           N
HETATM    7  O   HOH W 100       9.000   0.000   0.500  1.00  0.00           O
ENDMDL
END
`

func TestPDBRead(Te *testing.T) {
	top, coords, err := PDBRead(strings.NewReader(twoModels))
	if err != nil {
		Te.Fatal(err)
	}
	if top.Len() != 7 || len(coords) != 2 {
		Te.Fatalf("Expected 7 atoms and 2 models, got %d and %d", top.Len(), len(coords))
	}
	if top.Residues() != 4 {
		Te.Errorf("Expected 4 residues, got %d", top.Residues())
	}
	if at := top.AtomBySerial(7); at == nil || !at.Het || at.MolName != "HOH" || at.Chain != "W" {
		Te.Errorf("Wrong water atom %v", at)
	}
	if z := coords[1].Vec(3).Z; z != 0.5 {
		Te.Errorf("Wrong coordinate in second model: %f", z)
	}
	if !top.NTerminal(0) || top.NTerminal(3) || !top.CTerminal(5) {
		Te.Errorf("Wrong terminal flags")
	}
	if top.NTerminal(6) || top.CTerminal(6) {
		Te.Errorf("Hetero residues are not terminal")
	}
	if !top.Neighbors(0, 3) || top.Neighbors(0, 5) || top.Neighbors(5, 6) {
		Te.Errorf("Wrong neighbors")
	}
	if h := top.FindInResidue(0, "H"); h != 1 {
		Te.Errorf("Expected H at 1, got %d", h)
	}
	if top.FindInResidue(3, "H") != -1 {
		Te.Errorf("GLY 2 has no H in this file")
	}
}

func TestPDBBadModel(Te *testing.T) {
	bad := strings.Replace(twoModels, "HETATM    7  O   HOH W 100       9.000   0.000   0.500  1.00  0.00           O\n", "", 1)
	if _, _, err := PDBRead(strings.NewReader(bad)); err == nil {
		Te.Errorf("A model with a missing atom should not be accepted")
	}
}

func TestPDBWriteRead(Te *testing.T) {
	top, coords, err := PDBRead(strings.NewReader(twoModels))
	if err != nil {
		Te.Fatal(err)
	}
	F, err := NewFrame(top, 0, coords[1], nil)
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := PDBWrite(&buf, F, 1); err != nil {
		Te.Fatal(err)
	}
	top2, coords2, err := PDBRead(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if top2.Len() != top.Len() {
		Te.Fatalf("Lost atoms: %d vs %d", top2.Len(), top.Len())
	}
	for i := 0; i < top.Len(); i++ {
		if top2.Atom(i).Name != top.Atom(i).Name || coords2[0].Vec(i) != coords[1].Vec(i) {
			Te.Errorf("Atom %d changed after writing and reading", i)
		}
	}
}

func TestMemoryStream(Te *testing.T) {
	top, coords, err := PDBRead(strings.NewReader(twoModels))
	if err != nil {
		Te.Fatal(err)
	}
	frames := make([]*Frame, len(coords))
	for i, c := range coords {
		frames[i], _ = NewFrame(top, i, c, nil)
	}
	S, err := MemoryStream(top, frames)
	if err != nil {
		Te.Fatal(err)
	}
	p, err := S.Provider()
	if err != nil {
		Te.Fatal(err)
	}
	defer p.Close()
	f0, err := p.Load(0)
	if err != nil || f0 != S.Resident() {
		Te.Errorf("Frame 0 must be the resident frame")
	}
	f1, err := p.Load(1)
	if err != nil {
		Te.Fatal(err)
	}
	if f1.PositionOf(4).Z != 0.5 {
		Te.Errorf("Wrong position %v", f1.PositionOf(4))
	}
	if _, err := p.Load(2); err == nil {
		Te.Errorf("Loading past the end should fail")
	}
	if !f1.SameResidue(4, 5) || f1.SameResidue(3, 4) {
		Te.Errorf("Wrong SameResidue")
	}
}

func TestGeometry(Te *testing.T) {
	a := r3.Vec{X: 1, Y: 0, Z: 0}
	b := r3.Vec{}
	c := r3.Vec{X: 0, Y: 1, Z: 0}
	d := r3.Vec{X: 0, Y: 1, Z: 1}
	if dh := DihedralDeg(a, b, c, d); math.Abs(math.Abs(dh)-90) > 1e-9 {
		Te.Errorf("Expected a 90 degree dihedral, got %f", dh)
	}
	d = r3.Vec{X: -1, Y: 1, Z: 0}
	if dh := DihedralDeg(a, b, c, d); math.Abs(dh-180) > 1e-9 {
		Te.Errorf("Expected 180, got %f", dh)
	}
	if ang := Rad2Deg(Angle(a, c)); math.Abs(ang-90) > 1e-9 {
		Te.Errorf("Expected 90, got %f", ang)
	}
	if _, ok := Cosine(a, r3.Vec{}); ok {
		Te.Errorf("Cosine with a zero vector must not be defined")
	}
	if cs, _ := Cosine(a, r3.Scale(-2, a)); cs != -1 {
		Te.Errorf("Expected -1, got %f", cs)
	}
	if dist := Distance(a, c); math.Abs(dist-math.Sqrt2) > 1e-12 {
		Te.Errorf("Wrong distance %f", dist)
	}
}

func TestSelections(Te *testing.T) {
	top, _, err := PDBRead(strings.NewReader(twoModels))
	if err != nil {
		Te.Fatal(err)
	}
	s := Residues2Serials(top, []int{2, 100}, nil)
	if len(s) != 3 || s[0] != 4 || s[2] != 7 {
		Te.Errorf("Wrong selection %v", s)
	}
	s = Residues2Serials(top, []int{2, 100}, []string{"A"})
	if len(s) != 2 {
		Te.Errorf("Wrong selection with chains %v", s)
	}
	m := MergeSerials([]int{5, 1}, []int{1, 3})
	if len(m) != 3 || m[0] != 1 || m[2] != 5 {
		Te.Errorf("Wrong merge %v", m)
	}
	if _, err := top.Indexes([]int{1, 99}); err == nil {
		Te.Errorf("Serial 99 does not exist")
	}
}

const backbonePDB = `ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00  0.00           N
ATOM      2  CA  ALA A   1       1.000   0.000   0.000  1.00  0.00           C
ATOM      3  C   ALA A   1       2.000   0.000   0.000  1.00  0.00           C
ATOM      4  N   GLY A   2       3.000   0.000   0.000  1.00  0.00           N
ATOM      5  CA  GLY A   2       4.000   0.000   0.000  1.00  0.00           C
ATOM      6  C   GLY A   2       5.000   0.000   0.000  1.00  0.00           C
ATOM      7  N   SER A   3       6.000   0.000   0.000  1.00  0.00           N
ATOM      8  CA  SER A   3       7.000   0.000   0.000  1.00  0.00           C
ATOM      9  C   SER A   3       8.000   0.000   0.000  1.00  0.00           C
HETATM   10  O   HOH W 100       9.000   0.000   0.000  1.00  0.00           O
END
`

func TestBackboneTorsions(Te *testing.T) {
	top, _, err := PDBRead(strings.NewReader(backbonePDB))
	if err != nil {
		Te.Fatal(err)
	}
	tors, names, err := BackboneTorsions(top, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	expected := [][4]int{{1, 2, 3, 4}, {3, 4, 5, 6}, {4, 5, 6, 7}, {6, 7, 8, 9}}
	if len(tors) != len(expected) {
		Te.Fatalf("Expected %d torsions, got %v", len(expected), tors)
	}
	for i, v := range expected {
		if tors[i] != v {
			Te.Errorf("Torsion %d: expected %v, got %v", i, v, tors[i])
		}
	}
	if names[0] != "A:ALA1:psi" || names[3] != "A:SER3:phi" {
		Te.Errorf("Wrong names %v", names)
	}
	tors, _, err = BackboneTorsions(top, []string{"A"}, []int{2})
	if err != nil || len(tors) != 2 {
		Te.Errorf("Expected phi and psi of residue 2, got %v %v", tors, err)
	}
	if _, _, err = BackboneTorsions(top, []string{"B"}, nil); err == nil {
		Te.Errorf("Chain B has no torsions")
	}
}
