/*
 * arena_test.go, part of trajan.
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

package cellstat

import "testing"

//Three atoms, two snapshots, minimum distance. Pair (0,1) sees 2.0 and 1.0,
//pair (0,2) only gets a sample in the first snapshot, pair (1,2) is excluded.
func TestArenaMinExample(Te *testing.T) {
	A := NewPairArena(Min, 2, 3)
	if A.Cells() != 3 {
		Te.Fatalf("Expected 3 cells, got %d", A.Cells())
	}
	c01 := A.PairCell(0, 1)
	c02 := A.PairCell(0, 2)
	c12 := A.PairCell(1, 2)
	//snapshot 1 on thread 0
	A.Update(0, c01, 2.0)
	A.Update(0, c02, 5.0)
	A.Exclude(0, c12)
	//snapshot 2 on thread 1
	A.Update(1, c01, 1.0)
	A.Exclude(1, c12)
	A.Update(1, c12, 0.5)
	A.JoinAll()
	if v, ok := A.Finalize(c01); !ok || v != 1.0 {
		Te.Errorf("Pair (0,1): expected 1.0, got %f %t", v, ok)
	}
	if v, ok := A.Finalize(c02); !ok || v != 5.0 || A.Samples(c02) != 1 {
		Te.Errorf("Pair (0,2): expected 5.0 from one sample, got %f %t (%d samples)", v, ok, A.Samples(c02))
	}
	if _, ok := A.Finalize(c12); ok || A.State(0, c12) != Excluded {
		Te.Errorf("Pair (1,2) should be excluded")
	}
	A.Reset()
	if _, ok := A.Finalize(c01); ok || A.State(0, c12) != Empty {
		Te.Errorf("Reset should empty the arena")
	}
}

func TestArenaDouble(Te *testing.T) {
	A := NewPairArena(Range, 3, 4)
	if A.Cells() != 6 {
		Te.Fatalf("Expected 6 cells, got %d", A.Cells())
	}
	c := A.PairCell(1, 3)
	for t, v := range []float64{3, -1, 7} {
		A.Update(t, c, v)
	}
	A.JoinAll()
	if v, ok := A.Finalize(c); !ok || v != 8 {
		Te.Errorf("Expected a range of 8, got %f", v)
	}
	s := A.Slot(0, c)
	if s.V[0] != -1 || s.V[1] != 7 || s.N != 3 {
		Te.Errorf("Wrong joined cell %v", s)
	}
	for other := 0; other < A.Cells(); other++ {
		if other != c && A.State(0, other) != Empty {
			Te.Errorf("Cell %d should not have been touched", other)
		}
	}
}

func TestArenaBounds(Te *testing.T) {
	A := NewArena(ArithmeticMean, 2, 5)
	defer func() {
		if recover() == nil {
			Te.Errorf("Out of bounds access should panic")
		}
	}()
	A.Update(2, 0, 1)
}
