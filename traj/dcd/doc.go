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
Package dcd reads and writes DCD binary trajectories, as written by CHARMM, NAMD and
X-PLOR, and opens them as streams of frames.

A DCD file is a sequence of Fortran records, each preceded and followed by its size
in bytes: a header with control integers, a title block and the number of atoms,
and then, for each frame, an optional unit cell and the X, Y and Z coordinates as
float32. When all frames have the same size, any frame can be read directly.
*/
package dcd
