/*
 * doc.go, part of trajan.
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

/*Package chem is the main package of the trajan library. It provides the atom, topology
and frame structures shared by the rest of the packages, the frame provider contract
through which trajectories are read, a PDB reader and some geometric helpers.



	**trajan Capabilities**


    Computes summary statistics (arithmetic, geometric, harmonic and quadratic means,
	variance, minimum, maximum, range and midrange) of interatomic distances,
	torsions (given, or the phi and psi of the backbone) and force correlations along a molecular dynamics trajectory, without
	keeping the per-frame values in memory.

    Finds hydrogen bond candidates (donor, hydrogen, acceptor triplets) from
	configurable residue descriptions, and reports the mean energy and length of
	those that are present in a minimum percentage of the frames.

    Spreads the work frame by frame over a pool of goroutines, with
	cancellation and progress reporting.

    Reads multi-model PDB files, STF compressed trajectories and DCD binary trajectories.

    Exports results as TSV, JSON or MessagePack, and plots them.



trajan keeps coordinates and forces in v3.Matrix, based on gonum.org/v1/gonum/mat,
each row of a Matrix represents one point in space. Single points are handled as
gonum.org/v1/gonum/spatial/r3 vectors.*/
package chem
