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

//Package hbond finds hydrogen bond candidates in a structure and computes their energy.
//
//Candidates are (donor, hydrogen, acceptor) triplets, found by matching atom and residue
//names against the donor and acceptor descriptions of a Config. The energy of a triplet in
//a frame is a Lennard-Jones-like radial term, weighted by the alignment of the donor, the
//hydrogen and the acceptor. Configs are read from two text files, one with the classes
//and their energy parameters (signature !!HBparms1) and one with the residue descriptions
//(signature !!HBres1). A default configuration for proteins and water is built in.
package hbond
