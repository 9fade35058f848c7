/*
 * search_test.go, part of trajan.
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

package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	chem "github.com/rmera/trajan"
	"github.com/rmera/trajan/cellstat"
	"github.com/rmera/trajan/dispatch"
	"github.com/rmera/trajan/hbond"
	v3 "github.com/rmera/trajan/v3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func testEngine(Te *testing.T, threads int, hb *hbond.Config) *Engine {
	O := dispatch.DefaultOptions()
	O.Threads(threads)
	E, err := NewEngine(O, hb, nil)
	if err != nil {
		Te.Fatal(err)
	}
	Te.Cleanup(E.Close)
	return E
}

//testTopology returns a topology with the atoms given as residue names, one
//residue per atom unless two consecutive names are equal. Serials start at 1.
func testTopology(Te *testing.T, residues ...string) *chem.Topology {
	ats := make([]*chem.Atom, len(residues))
	molid := 0
	for i, r := range residues {
		if i == 0 || r != residues[i-1] {
			molid++
		}
		ats[i] = &chem.Atom{Name: fmt.Sprintf("C%d", i+1), ID: i + 1, MolName: r, MolID: molid, Chain: "A", Symbol: "C"}
	}
	top, err := chem.NewTopology(ats)
	if err != nil {
		Te.Fatal(err)
	}
	return top
}

func testStream(Te *testing.T, top *chem.Topology, coords [][]r3.Vec, forces [][]r3.Vec) *chem.Stream {
	frames := make([]*chem.Frame, len(coords))
	for i, c := range coords {
		var f *v3.Matrix
		if forces != nil {
			f = v3.FromVecs(forces[i])
		}
		F, err := chem.NewFrame(top, i, v3.FromVecs(c), f)
		if err != nil {
			Te.Fatal(err)
		}
		frames[i] = F
	}
	S, err := chem.MemoryStream(top, frames)
	if err != nil {
		Te.Fatal(err)
	}
	return S
}

//3 atoms on the x axis, 2 frames. In the second, the pair (0,1) gets closer.
func TestDistanceMinExample(Te *testing.T) {
	top := testTopology(Te, "ALA", "GLY", "SER")
	coords := [][]r3.Vec{
		{{X: 0}, {X: 2}, {X: 5}},
		{{X: 0}, {X: 1}, {X: 5}},
	}
	S := NewDistanceSearch(testEngine(Te, 1, nil))
	err := S.Setup(PairParams{Stream: testStream(Te, top, coords, nil), Range: Range{0, 2}, Atoms: []int{1, 2, 3}, Stat: cellstat.Min})
	if err != nil {
		Te.Fatal(err)
	}
	defer S.Free()
	if err := S.Perform(context.Background()); err != nil {
		Te.Fatal(err)
	}
	res := S.Results()
	expected := []PairResult{{1, 2, 1, 2, true}, {1, 3, 5, 2, true}, {2, 3, 3, 2, true}}
	if len(res) != len(expected) {
		Te.Fatalf("Expected %d pairs, got %d", len(expected), len(res))
	}
	for i, e := range expected {
		if res[i] != e {
			Te.Errorf("Pair %d: expected %v, got %v", i, e, res[i])
		}
	}
}

func TestIgnoreSameResidue(Te *testing.T) {
	top := testTopology(Te, "ALA", "ALA", "SER")
	coords := [][]r3.Vec{
		{{X: 0}, {X: 2}, {X: 5}},
		{{X: 0}, {X: 1}, {X: 4}},
	}
	S := NewDistanceSearch(testEngine(Te, 2, nil))
	err := S.Setup(PairParams{Stream: testStream(Te, top, coords, nil), Range: Range{0, 2}, Atoms: []int{1, 2, 3}, Stat: cellstat.Max, IgnoreSameResidue: true})
	if err != nil {
		Te.Fatal(err)
	}
	defer S.Free()
	if err := S.Perform(context.Background()); err != nil {
		Te.Fatal(err)
	}
	res := S.Results()
	if res[0].Valid || res[0].Samples != 0 {
		Te.Errorf("The pair in the same residue should have no data, got %v", res[0])
	}
	if !res[1].Valid || res[1].Value != 5 || !res[2].Valid || res[2].Value != 3 {
		Te.Errorf("Wrong results %v", res)
	}
	T := S.Table()
	if T.ValidRows() != 2 || len(T.Rows) != 3 || T.Rows[0].Values != nil {
		Te.Errorf("Wrong table %+v", T)
	}
	if T.Rows[1].Labels[1] != "A:SER2:C3" {
		Te.Errorf("Wrong label %s", T.Rows[1].Labels[1])
	}
}

func wavyCoords(frames, atoms int) [][]r3.Vec {
	coords := make([][]r3.Vec, frames)
	for f := range coords {
		coords[f] = make([]r3.Vec, atoms)
		for a := range coords[f] {
			x := float64(a) + 0.3*math.Sin(float64(f*(a+1)))
			y := 0.2 * math.Cos(float64(f+a))
			coords[f][a] = r3.Vec{X: x, Y: y, Z: float64(a%3) * 0.5}
		}
	}
	return coords
}

//The results can't depend on how the frames are spread among threads.
func TestThreadIndependence(Te *testing.T) {
	top := testTopology(Te, "ALA", "GLY", "SER", "THR", "VAL", "LEU")
	stream := testStream(Te, top, wavyCoords(40, 6), nil)
	for _, k := range []cellstat.Kind{cellstat.ArithmeticMean, cellstat.Min, cellstat.Max, cellstat.Range, cellstat.Variance, cellstat.GeometricMean} {
		var reference []PairResult
		for _, threads := range []int{1, 3, 8} {
			S := NewDistanceSearch(testEngine(Te, threads, nil))
			if err := S.Setup(PairParams{Stream: stream, Range: Range{0, 40}, Atoms: []int{1, 2, 3, 4, 5, 6}, Stat: k}); err != nil {
				Te.Fatal(err)
			}
			if err := S.Perform(context.Background()); err != nil {
				Te.Fatal(err)
			}
			S.Free()
			res := S.Results()
			if reference == nil {
				reference = res
				continue
			}
			for i := range res {
				r, e := res[i], reference[i]
				if r.A != e.A || r.B != e.B || r.Samples != e.Samples || r.Valid != e.Valid || !scalar.EqualWithinAbsOrRel(r.Value, e.Value, 1e-10, 1e-10) {
					Te.Errorf("%s, %d threads: pair %d is %v, expected %v", k, threads, i, r, e)
				}
			}
		}
	}
}

//failingProvider can't load one frame.
type failingProvider struct {
	frames []*chem.Frame
	bad    int
}

func (P failingProvider) Load(index int) (*chem.Frame, error) {
	if index == P.bad {
		return nil, fmt.Errorf("frame %d is corrupted", index)
	}
	return P.frames[index], nil
}

func (P failingProvider) Close() {}

func TestFailedFrames(Te *testing.T) {
	top := testTopology(Te, "ALA", "GLY")
	coords := wavyCoords(5, 2)
	frames := make([]*chem.Frame, len(coords))
	for i, c := range coords {
		frames[i], _ = chem.NewFrame(top, i, v3.FromVecs(c), nil)
	}
	stream, err := chem.NewStream("test", "", top, len(frames), frames[0], func() (chem.FrameProvider, error) {
		return failingProvider{frames, 3}, nil
	})
	if err != nil {
		Te.Fatal(err)
	}
	S := NewDistanceSearch(testEngine(Te, 2, nil))
	if err := S.Setup(PairParams{Stream: stream, Range: Range{0, 5}, Atoms: []int{1, 2}, Stat: cellstat.ArithmeticMean}); err != nil {
		Te.Fatal(err)
	}
	defer S.Free()
	if err := S.Perform(context.Background()); err != nil {
		Te.Fatal(err)
	}
	if S.FailedFrames() != 1 {
		Te.Errorf("Expected 1 failed frame, got %d", S.FailedFrames())
	}
	r := S.Results()[0]
	var sum float64
	for i, c := range coords {
		if i != 3 {
			sum += chem.Distance(c[0], c[1])
		}
	}
	if r.Samples != 4 || math.Abs(r.Value-sum/4) > 1e-12 {
		Te.Errorf("Expected the mean of 4 frames, %g, got %v", sum/4, r)
	}
	if T := S.Table(); T.FailedFrames != 1 {
		Te.Errorf("The table should report the failed frame")
	}
}

func TestCancel(Te *testing.T) {
	top := testTopology(Te, "ALA", "GLY", "SER")
	S := NewDistanceSearch(testEngine(Te, 4, nil))
	if err := S.Setup(PairParams{Stream: testStream(Te, top, wavyCoords(20, 3), nil), Range: Range{0, 20}, Atoms: []int{1, 2, 3}, Stat: cellstat.ArithmeticMean}); err != nil {
		Te.Fatal(err)
	}
	defer S.Free()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := S.Perform(ctx); !errors.Is(err, ErrCancelled) {
		Te.Errorf("Expected ErrCancelled, got %v", err)
	}
	if S.Results() != nil {
		Te.Errorf("A cancelled run should produce no results")
	}
}

func TestSetupErrors(Te *testing.T) {
	top := testTopology(Te, "ALA", "GLY", "SER")
	stream := testStream(Te, top, wavyCoords(3, 3), nil)
	E := testEngine(Te, 1, nil)
	cases := []struct {
		name string
		p    PairParams
	}{
		{"no stream", PairParams{Range: Range{0, 1}, Atoms: []int{1, 2}}},
		{"range", PairParams{Stream: stream, Range: Range{2, 2}, Atoms: []int{1, 2}}},
		{"count", PairParams{Stream: stream, Range: Range{0, 0}, Atoms: []int{1, 2}}},
		{"one atom", PairParams{Stream: stream, Range: Range{0, 3}, Atoms: []int{1}}},
		{"serial", PairParams{Stream: stream, Range: Range{0, 3}, Atoms: []int{1, 7}}},
		{"repeated", PairParams{Stream: stream, Range: Range{0, 3}, Atoms: []int{1, 2, 1}}},
	}
	for _, c := range cases {
		err := NewDistanceSearch(E).Setup(c.p)
		var serr *SetupError
		if !errors.As(err, &serr) || serr.Tool != "distance" {
			Te.Errorf("%s: expected a distance SetupError, got %v", c.name, err)
		}
	}
	if err := NewForceSearch(E).Setup(PairParams{Stream: stream, Range: Range{0, 3}, Atoms: []int{1, 2}}); err == nil {
		Te.Errorf("A force search over a trajectory without forces should fail")
	}
	if err := NewTorsionSearch(E).Setup(TorsionParams{Stream: stream, Range: Range{0, 3}, Torsions: [][4]int{{1, 2, 3, 3}}}); err == nil {
		Te.Errorf("A torsion with a repeated atom should fail")
	}
	if err := NewDistanceSearch(E).Perform(context.Background()); err == nil {
		Te.Errorf("Perform before Setup should fail")
	}
}

func TestForceSearch(Te *testing.T) {
	top := testTopology(Te, "ALA", "GLY", "SER")
	coords := wavyCoords(2, 3)
	forces := [][]r3.Vec{
		{{X: 1}, {}, {X: 2}},
		{{X: 1}, {}, {Y: 3}},
	}
	S := NewForceSearch(testEngine(Te, 2, nil))
	if err := S.Setup(PairParams{Stream: testStream(Te, top, coords, forces), Range: Range{0, 2}, Atoms: []int{1, 2, 3}, Stat: cellstat.ArithmeticMean}); err != nil {
		Te.Fatal(err)
	}
	defer S.Free()
	if err := S.Perform(context.Background()); err != nil {
		Te.Fatal(err)
	}
	res := S.Results()
	//pairs (1,2), (1,3), (2,3)
	if res[0].Valid || res[2].Valid {
		Te.Errorf("Pairs with a zero force should have no data: %v", res)
	}
	if !res[1].Valid || math.Abs(res[1].Value-0.5) > 1e-12 {
		Te.Errorf("The mean cosine between atoms 1 and 3 should be 0.5, got %v", res[1])
	}
	if S.ZeroForces() != 4 {
		Te.Errorf("Expected 4 samples skipped for zero forces, got %d", S.ZeroForces())
	}
}

func TestTorsionSearch(Te *testing.T) {
	top := testTopology(Te, "ALA", "ALA", "ALA", "ALA")
	trans := []r3.Vec{{X: 1}, {}, {Y: 1}, {X: -1, Y: 1}}
	cis := []r3.Vec{{X: 1}, {}, {Y: 1}, {X: 1, Y: 1}}
	stream := testStream(Te, top, [][]r3.Vec{trans, cis, trans}, nil)
	S := NewTorsionSearch(testEngine(Te, 2, nil))
	if err := S.Setup(TorsionParams{Stream: stream, Range: Range{0, 3}, Torsions: [][4]int{{1, 2, 3, 4}}, Stat: cellstat.Range}); err != nil {
		Te.Fatal(err)
	}
	defer S.Free()
	if err := S.Perform(context.Background()); err != nil {
		Te.Fatal(err)
	}
	r := S.Results()[0]
	if !r.Valid || math.Abs(r.Value-180) > 1e-9 || r.Samples != 3 {
		Te.Errorf("Expected a range of 180 degrees over 3 frames, got %v", r)
	}
	if T := S.Table(); len(T.Rows) != 1 || len(T.Rows[0].Atoms) != 4 {
		Te.Errorf("Wrong table %+v", T)
	}
}

const searchParms = `!!HBparms1
donors { Od; }
acceptors { Oc; }
param(Od, Oc) = 1.8, 5;
`

const searchRes = `!!HBres1
donor HOH O : (H1, H2) @Od [group];
acceptor ASP OD1 @Oc;
`

//hbondStream has an aspartate oxygen and a water, with a linear O-H...OD1 bond
//in all frames but the ones in broken.
func hbondStream(Te *testing.T, frames int, broken ...int) *chem.Stream {
	ats := []*chem.Atom{
		{Name: "OD1", ID: 1, MolName: "ASP", MolID: 3, Chain: "A", Symbol: "O"},
		{Name: "O", ID: 2, MolName: "HOH", MolID: 10, Chain: "W", Symbol: "O", Het: true},
		{Name: "H1", ID: 3, MolName: "HOH", MolID: 10, Chain: "W", Symbol: "H", Het: true},
		{Name: "H2", ID: 4, MolName: "HOH", MolID: 10, Chain: "W", Symbol: "H", Het: true},
	}
	top, err := chem.NewTopology(ats)
	if err != nil {
		Te.Fatal(err)
	}
	coords := make([][]r3.Vec, frames)
	for i := range coords {
		coords[i] = []r3.Vec{{X: 2.5}, {}, {X: 1}, {Y: 1}}
		for _, b := range broken {
			if b == i {
				coords[i][0] = r3.Vec{X: 10}
			}
		}
	}
	return testStream(Te, top, coords, nil)
}

func TestHBondSearch(Te *testing.T) {
	C, err := hbond.Load(strings.NewReader(searchParms), "parms", strings.NewReader(searchRes), "res")
	if err != nil {
		Te.Fatal(err)
	}
	stream := hbondStream(Te, 4, 2)
	for _, threads := range []int{1, 4} {
		S := NewHBondSearch(testEngine(Te, threads, C))
		if err := S.Setup(context.Background(), HBondParams{Stream: stream, Range: Range{0, 4}, MinPercent: 75}); err != nil {
			Te.Fatal(err)
		}
		if S.Candidates() != 2 {
			Te.Errorf("Expected 2 candidates without grouping, got %d", S.Candidates())
		}
		if err := S.Perform(context.Background()); err != nil {
			Te.Fatal(err)
		}
		S.Free()
		res := S.Results()
		r := res[0]
		if !r.Valid || r.Count != 3 || math.Abs(r.Energy+5) > 1e-9 || math.Abs(r.Length-2.5) > 1e-9 {
			Te.Errorf("%d threads: wrong result for the bond through H1: %+v", threads, r)
		}
		if res[1].Valid || res[1].Count != 0 {
			Te.Errorf("%d threads: the bond through H2 should never form: %+v", threads, res[1])
		}
		if r.DonorClass != "Od" || r.AcceptorClass != "Oc" {
			Te.Errorf("Wrong classes %s %s", r.DonorClass, r.AcceptorClass)
		}
		T := S.Table()
		if len(T.Rows) != 1 || len(T.Rows[0].Atoms) != 3 || T.Rows[0].Values[3] != 75 {
			Te.Errorf("Wrong table %+v", T)
		}
	}

	//present in 3 of 4 frames, below 80%.
	S := NewHBondSearch(testEngine(Te, 2, C))
	if err := S.Setup(context.Background(), HBondParams{Stream: stream, Range: Range{0, 4}, MinPercent: 80, Group: true}); err != nil {
		Te.Fatal(err)
	}
	defer S.Free()
	if S.Candidates() != 1 {
		Te.Errorf("Expected 1 candidate with grouping, got %d", S.Candidates())
	}
	if err := S.Perform(context.Background()); !errors.Is(err, ErrNothingSignificant) {
		Te.Errorf("Expected ErrNothingSignificant, got %v", err)
	}
	if r := S.Results()[0]; r.Count != 3 || len(r.Hydrogens) != 2 {
		Te.Errorf("Wrong grouped result %+v", r)
	}
}

func TestHBondSetupErrors(Te *testing.T) {
	C, err := hbond.Load(strings.NewReader(searchParms), "parms", strings.NewReader("!!HBres1\n"), "res")
	if err != nil {
		Te.Fatal(err)
	}
	stream := hbondStream(Te, 2)
	S := NewHBondSearch(testEngine(Te, 1, C))
	err = S.Setup(context.Background(), HBondParams{Stream: stream, Range: Range{0, 2}, MinPercent: 50})
	if !errors.Is(err, hbond.ErrNoTriplets) {
		Te.Errorf("Expected ErrNoTriplets, got %v", err)
	}
	var serr *SetupError
	if !errors.As(err, &serr) {
		Te.Errorf("Expected a SetupError, got %T", err)
	}
	if err := S.Setup(context.Background(), HBondParams{Stream: stream, Range: Range{0, 2}, MinPercent: 120}); err == nil {
		Te.Errorf("A percentage over 100 should fail")
	}
}

func TestHBondSetupCancel(Te *testing.T) {
	C, err := hbond.Load(strings.NewReader(searchParms), "parms", strings.NewReader(searchRes), "res")
	if err != nil {
		Te.Fatal(err)
	}
	stream := hbondStream(Te, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	S := NewHBondSearch(testEngine(Te, 2, C))
	err = S.Setup(ctx, HBondParams{Stream: stream, Range: Range{0, 4}, MinPercent: 50})
	if !errors.Is(err, ErrCancelled) {
		Te.Fatalf("Expected ErrCancelled, got %v", err)
	}
	if S.work != nil || S.agg != nil || S.Candidates() != 0 {
		Te.Errorf("A cancelled Setup should not keep workers or candidates")
	}
	if err := S.Perform(context.Background()); err == nil {
		Te.Errorf("Perform after a cancelled Setup should fail")
	}
	//the interrupt does not outlive the cancelled Setup.
	if err := S.Setup(context.Background(), HBondParams{Stream: stream, Range: Range{0, 4}, MinPercent: 50}); err != nil {
		Te.Fatal(err)
	}
	defer S.Free()
	if S.Candidates() != 2 {
		Te.Errorf("Expected 2 candidates, got %d", S.Candidates())
	}
}
