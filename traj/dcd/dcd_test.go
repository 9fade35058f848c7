/*
 * dcd_test.go, part of trajan.
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
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/trajan"
	v3 "github.com/rmera/trajan/v3"
)

func testTopology(Te *testing.T) *chem.Topology {
	ats := []*chem.Atom{
		{Name: "N", ID: 1, MolName: "ALA", MolID: 1, Chain: "A", Symbol: "N"},
		{Name: "H", ID: 2, MolName: "ALA", MolID: 1, Chain: "A", Symbol: "H"},
		{Name: "O", ID: 3, MolName: "GLY", MolID: 2, Chain: "A", Symbol: "O"},
	}
	top, err := chem.NewTopology(ats)
	if err != nil {
		Te.Fatal(err)
	}
	return top
}

func frameCoords(frame, natoms int, scale float64) *v3.Matrix {
	m := v3.Zeros(natoms)
	for i := 0; i < natoms; i++ {
		m.Set(i, 0, scale*float64(frame))
		m.Set(i, 1, scale*float64(i))
		m.Set(i, 2, -1.25*scale)
	}
	return m
}

func writeTraj(Te *testing.T, name string, frames, natoms int, scale float64) {
	W, err := NewWriter(name, natoms)
	if err != nil {
		Te.Fatal(err)
	}
	for f := 0; f < frames; f++ {
		if err := W.WNext(frameCoords(f, natoms, scale)); err != nil {
			Te.Fatal(err)
		}
	}
	if err := W.Close(); err != nil {
		Te.Fatal(err)
	}
}

func TestDCDWriteRead(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "test.dcd")
	writeTraj(Te, name, 5, 3, 1.5)
	R, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer R.Close()
	if R.Len() != 3 || R.Frames() != 5 {
		Te.Fatalf("Expected 3 atoms and 5 frames, got %d and %d", R.Len(), R.Frames())
	}
	c := v3.Zeros(3)
	for f := 0; ; f++ {
		err := R.Next(c)
		if err != nil {
			if _, ok := err.(chem.LastFrameError); !ok || f != 5 {
				Te.Fatalf("Unexpected end at frame %d: %v", f, err)
			}
			break
		}
		if c.At(2, 1) != 3 || c.At(1, 0) != 1.5*float64(f) {
			Te.Errorf("Frame %d read wrong: %v", f, c)
		}
	}
	if err := R.Seek(3); err != nil {
		Te.Fatal(err)
	}
	if err := R.Next(c); err != nil || c.At(0, 0) != 4.5 {
		Te.Errorf("Frame 3 after seeking: %v %v", c, err)
	}
	if err := R.Seek(5); err == nil {
		Te.Errorf("Seeking past the end should fail")
	}
}

func TestBadHeader(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bad.dcd")
	f, _ := os.Create(name)
	binary.Write(f, binary.LittleEndian, int32(84))
	f.Write([]byte("CARD"))
	f.Close()
	if _, err := New(name); err == nil {
		Te.Errorf("A wrong magic number should fail")
	}
}

func TestProvider(Te *testing.T) {
	dir := Te.TempDir()
	coords := filepath.Join(dir, "coords.dcd")
	forces := filepath.Join(dir, "forces.dcd")
	writeTraj(Te, coords, 6, 3, 1)
	writeTraj(Te, forces, 6, 3, -2)
	S, err := Open(testTopology(Te), coords, forces, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if S.Len() != 6 || !S.HasForces() || S.Format != "dcd" {
		Te.Fatalf("Wrong stream: %d frames, forces %t", S.Len(), S.HasForces())
	}
	P, err := S.Provider()
	if err != nil {
		Te.Fatal(err)
	}
	defer P.Close()
	for _, i := range []int{4, 1, 5, 0, 2} {
		F, err := P.Load(i)
		if err != nil {
			Te.Fatal(err)
		}
		if F.Index != i || F.Position(1).X != float64(i) || math.Abs(F.Force(2).Y+4) > 1e-6 || F.Force(0).X != -2*float64(i) {
			Te.Errorf("Frame %d read wrong: %v %v", i, F.Position(1), F.Force(2))
		}
	}
	if _, err := P.Load(6); err == nil {
		Te.Errorf("Loading past the end should fail")
	}
}

func TestProviderMismatch(Te *testing.T) {
	dir := Te.TempDir()
	coords := filepath.Join(dir, "coords.dcd")
	forces := filepath.Join(dir, "forces.dcd")
	writeTraj(Te, coords, 4, 3, 1)
	writeTraj(Te, forces, 3, 3, 1)
	if _, err := Open(testTopology(Te), coords, forces, nil); err == nil {
		Te.Errorf("Trajectories with different lengths should fail")
	}
	if _, err := Open(testTopology(Te), filepath.Join(dir, "none.dcd"), "", nil); err == nil {
		Te.Errorf("A missing file should fail")
	}
}
