/*
 * run.go, part of trajan.
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
	"fmt"
	"sync/atomic"

	chem "github.com/rmera/trajan"
	"github.com/rmera/trajan/cellstat"
	"github.com/rmera/trajan/hbond"
	"github.com/rmera/trajan/report"
	"github.com/rmera/trajan/search"
	"github.com/rmera/trajan/traj/dcd"
	"github.com/rmera/trajan/traj/stf"
	"go.uber.org/zap"
)

//openStream opens the trajectory of the run file.
func openStream(t TrajectoryConfig, logger *zap.SugaredLogger) (*chem.Stream, error) {
	if t.Format == "pdb" {
		return chem.PDBStream(t.Path)
	}
	top, _, err := chem.PDBFileRead(t.Topology)
	if err != nil {
		return nil, fmt.Errorf("topology %s: %w", t.Topology, err)
	}
	if t.Format == "dcd" {
		return dcd.Open(top, t.Path, t.Forces, logger)
	}
	return stf.Open(top, t.Path, t.Forces, logger)
}

//frameRange returns the frames of the stream to use. A count of 0 means all
//the frames from start on.
func frameRange(t TrajectoryConfig, S *chem.Stream) search.Range {
	count := t.Count
	if count == 0 {
		count = S.Len() - t.Start
	}
	return search.Range{Start: t.Start, Count: count}
}

//selectAtoms returns the serials given explicitly plus those of the selected residues,
//optionally restricted to some atom names.
func selectAtoms(s SearchConfig, top *chem.Topology) []int {
	res := chem.Residues2Serials(top, s.Residues, s.Chains)
	if len(s.AtomNames) > 0 {
		filtered := res[:0]
		for _, serial := range res {
			name := top.AtomBySerial(serial).Name
			for _, n := range s.AtomNames {
				if n == name {
					filtered = append(filtered, serial)
					break
				}
			}
		}
		res = filtered
	}
	return chem.MergeSerials(s.Atoms, res)
}

//progress logs the advance of a run every tenth of the frames.
type progress struct {
	total  int
	last   atomic.Int64
	logger *zap.SugaredLogger
}

func (P *progress) Advance(done int) {
	tenth := int64(done * 10 / P.total)
	if prev := P.last.Load(); tenth > prev && P.last.CompareAndSwap(prev, tenth) {
		P.logger.Infof("%d%% of %d frames done", tenth*10, P.total)
	}
}

//runSearch sets up and runs the search of the run file, and returns the table of results.
//The table is returned also with search.ErrNothingSignificant.
func runSearch(ctx context.Context, cfg *Config, E *search.Engine, S *chem.Stream) (*report.Table, error) {
	s := cfg.Search
	rng := frameRange(cfg.Trajectory, S)
	E.Dispatcher.SetObserver(&progress{total: rng.Count, logger: E.Log})
	if s.Tool == toolHBond {
		H := search.NewHBondSearch(E)
		err := H.Setup(ctx, search.HBondParams{Stream: S, Range: rng, MinPercent: s.MinPercent, Cutoff: s.Cutoff, Group: s.Group})
		if err != nil {
			return nil, err
		}
		defer H.Free()
		E.Log.Infof("%d hydrogen bond candidates", H.Candidates())
		err = H.Perform(ctx)
		if err == nil || err == search.ErrNothingSignificant {
			return H.Table(), err
		}
		return nil, err
	}
	kind, err := cellstat.ParseKind(s.Stat)
	if err != nil {
		return nil, err
	}
	if s.Tool == toolTorsion {
		tors := cfg.torsions()
		if s.Backbone {
			bb, _, err := chem.BackboneTorsions(S.Topology(), s.Chains, s.Residues)
			if err != nil {
				return nil, err
			}
			tors = append(tors, bb...)
		}
		T := search.NewTorsionSearch(E)
		if err := T.Setup(search.TorsionParams{Stream: S, Range: rng, Torsions: tors, Stat: kind}); err != nil {
			return nil, err
		}
		defer T.Free()
		err = T.Perform(ctx)
		if err == nil || err == search.ErrNothingSignificant {
			return T.Table(), err
		}
		return nil, err
	}
	p := search.PairParams{Stream: S, Range: rng, Atoms: selectAtoms(s, S.Topology()), Stat: kind, IgnoreSameResidue: s.IgnoreSameResidue}
	E.Log.Infof("%d atoms selected, %d pairs", len(p.Atoms), len(p.Atoms)*(len(p.Atoms)-1)/2)
	var pairs interface {
		Perform(context.Context) error
		Free()
		Table() *report.Table
	}
	if s.Tool == toolForce {
		F := search.NewForceSearch(E)
		err = F.Setup(p)
		pairs = F
	} else {
		D := search.NewDistanceSearch(E)
		err = D.Setup(p)
		pairs = D
	}
	if err != nil {
		return nil, err
	}
	defer pairs.Free()
	err = pairs.Perform(ctx)
	if err == nil || err == search.ErrNothingSignificant {
		return pairs.Table(), err
	}
	return nil, err
}

//hbondConfig loads the hydrogen bond files of the run file, or returns nil
//if the built-in ones are to be used.
func hbondConfig(e EngineConfig) (*hbond.Config, error) {
	if e.HBondParms == "" && e.HBondRes == "" {
		return nil, nil
	}
	return hbond.LoadFiles(e.HBondParms, e.HBondRes)
}
