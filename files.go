/*
 * files.go, part of trajan.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/trajan/v3"
)

//PDB reading

//symbolFromName tries to guess a chemical element symbol from a PDB atom name.
//It only deals with some common bio-elements, mostly following AMBER names.
func symbolFromName(name string) string {
	if name == "" {
		return ""
	}
	if len(name) == 4 || name[0] == 'H' {
		return "H"
	}
	switch name {
	case "CU":
		return "Cu"
	case "CO":
		return "Co"
	case "CL":
		return "Cl"
	case "NA":
		return "Na"
	case "SE":
		return "Se"
	case "ZN":
		return "Zn"
	case "MG":
		return "Mg"
	}
	switch name[0] {
	case 'C', 'N', 'O', 'P', 'S':
		return name[:1]
	}
	return ""
}

//pdbField returns line[from:to], trimmed, tolerating short lines.
func pdbField(line string, from, to int) string {
	if len(line) <= from {
		return ""
	}
	if len(line) < to {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}

//pdbCoords parses the coordinates of an ATOM/HETATM line.
func pdbCoords(line string) ([3]float64, error) {
	var c [3]float64
	var err error
	for k := 0; k < 3; k++ {
		c[k], err = strconv.ParseFloat(pdbField(line, 30+8*k, 38+8*k), 64)
		if err != nil {
			return c, err
		}
	}
	return c, nil
}

//pdbAtom parses the atom information of an ATOM/HETATM line.
func pdbAtom(line string) (*Atom, error) {
	var err error
	at := new(Atom)
	at.Het = strings.HasPrefix(line, "HETATM")
	at.ID, err = strconv.Atoi(pdbField(line, 6, 11))
	if err != nil {
		return nil, err
	}
	at.Name = pdbField(line, 12, 16)
	at.MolName = pdbField(line, 17, 20)
	at.Chain = pdbField(line, 21, 22)
	at.MolID, err = strconv.Atoi(pdbField(line, 22, 26))
	if err != nil {
		return nil, err
	}
	at.Symbol = pdbField(line, 76, 78)
	if at.Symbol == "" {
		at.Symbol = symbolFromName(at.Name)
	}
	return at, nil
}

//PDBRead reads a PDB file from r. The atoms are taken from the first model,
//and each MODEL record (or the whole file, if there are none) yields a
//coordinate matrix. Every model must have the same number of atoms.
func PDBRead(r io.Reader) (*Topology, []*v3.Matrix, error) {
	var atoms []*Atom
	var models [][]float64
	var current []float64
	inModel := false
	first := true
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	closeModel := func(lineno int) error {
		if current == nil {
			return nil
		}
		if !first && len(current) != 3*len(atoms) {
			return CError{fmt.Sprintf("Model ending at line %d has %d atoms, expected %d", lineno, len(current)/3, len(atoms)), []string{"PDBRead"}, true}
		}
		models = append(models, current)
		current = nil
		first = false
		return nil
	}
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			c, err := pdbCoords(line)
			if err != nil {
				return nil, nil, CError{fmt.Sprintf("Bad coordinates in line %d: %s", lineno, err.Error()), []string{"PDBRead"}, true}
			}
			if first {
				at, err := pdbAtom(line)
				if err != nil {
					return nil, nil, CError{fmt.Sprintf("Bad atom in line %d: %s", lineno, err.Error()), []string{"PDBRead"}, true}
				}
				atoms = append(atoms, at)
			}
			if current == nil {
				current = make([]float64, 0, 3*len(atoms)+3)
			}
			current = append(current, c[:]...)
		case strings.HasPrefix(line, "MODEL"):
			if err := closeModel(lineno); err != nil {
				return nil, nil, err
			}
			inModel = true
		case strings.HasPrefix(line, "ENDMDL"):
			if err := closeModel(lineno); err != nil {
				return nil, nil, err
			}
			inModel = false
		case strings.HasPrefix(line, "END"):
			if !inModel {
				if err := closeModel(lineno); err != nil {
					return nil, nil, err
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, CError{err.Error(), []string{"PDBRead"}, true}
	}
	if err := closeModel(lineno); err != nil {
		return nil, nil, err
	}
	if len(atoms) == 0 {
		return nil, nil, CError{"No atoms found", []string{"PDBRead"}, true}
	}
	top, err := NewTopology(atoms)
	if err != nil {
		return nil, nil, errDecorate(err, "PDBRead")
	}
	coords := make([]*v3.Matrix, 0, len(models))
	for _, m := range models {
		c, err := v3.NewMatrix(m)
		if err != nil {
			return nil, nil, errDecorate(err, "PDBRead")
		}
		coords = append(coords, c)
	}
	return top, coords, nil
}

//PDBFileRead reads the PDB file with the given name. See PDBRead.
func PDBFileRead(name string) (*Topology, []*v3.Matrix, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	top, coords, err := PDBRead(f)
	if err != nil {
		return nil, nil, errDecorate(err, "PDBFileRead "+name)
	}
	return top, coords, nil
}

//PDBStream reads a multi-model PDB file and returns it as an in-memory stream.
func PDBStream(name string) (*Stream, error) {
	top, coords, err := PDBFileRead(name)
	if err != nil {
		return nil, err
	}
	frames := make([]*Frame, len(coords))
	for i, c := range coords {
		frames[i], err = NewFrame(top, i, c, nil)
		if err != nil {
			return nil, errDecorate(err, "PDBStream")
		}
	}
	S, err := MemoryStream(top, frames)
	if err != nil {
		return nil, errDecorate(err, "PDBStream")
	}
	S.Format = "pdb"
	S.Path = name
	return S, nil
}

//PDBWrite writes the frame F to out as one PDB model with the given model number.
func PDBWrite(out io.Writer, F *Frame, model int) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "MODEL     %4d\n", model)
	for i := 0; i < F.Len(); i++ {
		at := F.Atom(i)
		rec := "ATOM  "
		if at.Het {
			rec = "HETATM"
		}
		name := at.Name
		if len(name) < 4 {
			name = " " + name
		}
		chain := at.Chain
		if chain == "" {
			chain = " "
		}
		p := F.Position(i)
		fmt.Fprintf(w, "%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			rec, at.ID, name, at.MolName, chain[:1], at.MolID, p.X, p.Y, p.Z, 1.0, 0.0, at.Symbol)
	}
	fmt.Fprintf(w, "ENDMDL\n")
	return w.Flush()
}
