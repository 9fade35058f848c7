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

/*
Trajan computes statistics over molecular dynamics trajectories.

	trajan run.toml

The run file is TOML:

	[engine]
	threads = 0          # 0 is one per CPU, up to 16
	priority = "normal"  # or "yield"
	hbond_parms = ""     # empty means the built-in files
	hbond_res = ""

	[trajectory]
	topology = "prot.pdb" # needed for stf and dcd trajectories
	format = "pdb"        # pdb, stf or dcd. Taken from the path if empty
	path = "prot.pdb"
	forces = ""           # stf or dcd file with the forces, for the force search
	start = 0
	count = 0             # 0 is up to the last frame

	[search]
	tool = "distance"     # distance, torsion, force or hbond
	stat = "mean"         # mean, geometric, harmonic, quadratic, min, max, range, midrange, variance
	atoms = [1, 5, 9]
	residues = [12, 13]   # all the atoms of these residues are added to atoms
	chains = ["A"]
	atom_names = ["CA"]   # restricts the residue selection
	torsions = [[1, 2, 3, 4]]
	backbone = false      # adds the phi and psi torsions of the selected residues
	ignore_same_residue = true
	min_percent = 30.0    # hbond
	cutoff = 3.5          # hbond
	group = true          # hbond

	[output]
	path = "out.tsv"      # empty prints to the standard output
	format = "tsv"        # tsv, json or msgpack. Taken from the path if empty
	plot = ""             # bar plot of the values, png, svg or pdf
	bins = 10             # histogram of the summary
	debug = false
	log_file = ""

An interrupt (Ctrl+C) stops the run, and no results are written.
*/
package main
