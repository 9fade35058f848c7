/*
 * config_test.go, part of trajan.
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

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/trajan"
	"github.com/rmera/trajan/dispatch"
	"github.com/rmera/trajan/report"
)

const testRun = `
[engine]
threads = 2
priority = "yield"

[trajectory]
path = "prot.pdb"
start = 1

[search]
tool = "Torsion"
stat = "range"
torsions = [[1, 2, 3, 4], [2, 3, 4, 5]]

[output]
path = "out.json"
`

func TestDecodeConfig(Te *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(testRun))
	if err != nil {
		Te.Fatal(err)
	}
	if cfg.Trajectory.Format != "pdb" || cfg.Trajectory.Start != 1 || cfg.Trajectory.Count != 0 {
		Te.Errorf("Wrong trajectory section %+v", cfg.Trajectory)
	}
	if cfg.Search.Tool != toolTorsion || len(cfg.Search.Torsions) != 2 || cfg.torsions()[1] != [4]int{2, 3, 4, 5} {
		Te.Errorf("Wrong search section %+v", cfg.Search)
	}
	if cfg.Output.Format != report.JSON || cfg.Output.Bins != 10 {
		Te.Errorf("Wrong output section %+v", cfg.Output)
	}
	O := cfg.DispatchOptions()
	if O.Threads() != 2 || O.Priority() != dispatch.Yield {
		Te.Errorf("Wrong dispatcher options %d %s", O.Threads(), O.Priority())
	}
}

func TestConfigErrors(Te *testing.T) {
	cases := map[string]string{
		"no path":  "[search]\ntool = \"hbond\"\n",
		"format":   "[trajectory]\npath = \"a.xtc\"\nformat = \"xtc\"\n[search]\ntool = \"hbond\"\n",
		"topology": "[trajectory]\npath = \"a.stf\"\n[search]\ntool = \"hbond\"\n",
		"tool":     "[trajectory]\npath = \"a.pdb\"\n[search]\ntool = \"rmsd\"\n",
		"no atoms": "[trajectory]\npath = \"a.pdb\"\n[search]\ntool = \"distance\"\n",
		"torsion":  "[trajectory]\npath = \"a.pdb\"\n[search]\ntool = \"torsion\"\ntorsions = [[1, 2, 3]]\n",
		"no tors":  "[trajectory]\npath = \"a.pdb\"\n[search]\ntool = \"torsion\"\n",
		"stat":     "[trajectory]\npath = \"a.pdb\"\n[search]\ntool = \"distance\"\natoms = [1, 2]\nstat = \"mode\"\n",
		"percent":  "[trajectory]\npath = \"a.pdb\"\n[search]\ntool = \"hbond\"\nmin_percent = 101.0\n",
		"priority": "[engine]\npriority = \"high\"\n[trajectory]\npath = \"a.pdb\"\n[search]\ntool = \"hbond\"\n",
		"bad toml": "[trajectory\npath = \"a.pdb\"\n",
		"negative": "[trajectory]\npath = \"a.pdb\"\nstart = -1\n[search]\ntool = \"hbond\"\n",
	}
	for name, c := range cases {
		if _, err := DecodeConfig(strings.NewReader(c)); err == nil {
			Te.Errorf("%s: expected an error", name)
		}
	}
}

const runPDB = `MODEL        1
ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00  0.00           N
ATOM      2  H   ALA A   1       0.000   1.000   0.000  1.00  0.00           H
ATOM      3  CA  ALA A   1       1.000   0.000   0.000  1.00  0.00           C
ATOM      4  N   GLY A   2       2.000   0.000   0.000  1.00  0.00           N
ATOM      5  O   GLY A   2       3.000   0.000   0.000  1.00  0.00           O
ATOM      6  N   SER A   3       4.000   0.000   0.000  1.00  0.00           N
ENDMDL
MODEL        2
ATOM      1  N   ALA A   1       0.000   0.000   0.500  1.00  0.00           N
ATOM      2  H   ALA A   1       0.000   1.000   0.500  1.00  0.00           H
ATOM      3  CA  ALA A   1       1.000   0.000   0.500  1.00  0.00           C
ATOM      4  N   GLY A   2       2.000   0.000   0.500  1.00  0.00           N
ATOM      5  O   GLY A   2       3.000   0.000   0.500  1.00  0.00           O
ATOM      6  N   SER A   3       4.000   0.000   0.500  1.00  0.00           N
ENDMDL
END
`

func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	pdb := filepath.Join(dir, "prot.pdb")
	if err := os.WriteFile(pdb, []byte(runPDB), 0o644); err != nil {
		Te.Fatal(err)
	}
	out := filepath.Join(dir, "out.json")
	run := "[trajectory]\npath = \"" + pdb + "\"\n[search]\ntool = \"distance\"\nstat = \"max\"\natoms = [6]\nresidues = [1]\natom_names = [\"N\", \"CA\"]\n[output]\npath = \"" + out + "\"\n"
	cfg, err := DecodeConfig(strings.NewReader(run))
	if err != nil {
		Te.Fatal(err)
	}
	if err := runMain(context.Background(), cfg); err != nil {
		Te.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	T, err := report.Read(f, report.JSON)
	if err != nil {
		Te.Fatal(err)
	}
	if T.Tool != "distance" || T.Frames != 2 || len(T.Rows) != 3 {
		Te.Fatalf("Wrong table %+v", T)
	}
	expected := []float64{1, 4, 3}
	for i, r := range T.Rows {
		if !r.Valid || r.Values[0] != expected[i] {
			Te.Errorf("Row %d: expected %g, got %+v", i, expected[i], r)
		}
	}
}

func TestSelectAtoms(Te *testing.T) {
	top, _, err := chem.PDBRead(strings.NewReader(runPDB))
	if err != nil {
		Te.Fatal(err)
	}
	got := selectAtoms(SearchConfig{Atoms: []int{6, 1}, Residues: []int{2}}, top)
	if len(got) != 4 || got[0] != 1 || got[1] != 4 || got[2] != 5 || got[3] != 6 {
		Te.Errorf("Wrong selection %v", got)
	}
}
