/*
 * energy.go, part of trajan.
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

package hbond

import (
	"math"

	chem "github.com/rmera/trajan"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	//DefaultCutoff is the default maximum hydrogen-acceptor distance, in A.
	DefaultCutoff = 3.5
	//Sigma2 is the width of the angular term.
	Sigma2 = 0.018
	//MinEnergy is the smallest absolute energy considered a bond.
	MinEnergy = 0.001
)

//SubPairEnergy returns the energy of the hydrogen bond between the donor x, through the hydrogen
//h, and the acceptor y, and false if there is no bond: y is farther than the cutoff from h
//(cutoff2 is the squared cutoff), the energy is smaller than MinEnergy or the geometry is degenerate.
func SubPairEnergy(x, h, y r3.Vec, p Param, cutoff2 float64) (float64, bool) {
	hy := r3.Sub(y, h)
	d1sq := r3.Norm2(hy)
	if d1sq > cutoff2 {
		return 0, false
	}
	hx := r3.Sub(x, h)
	d1 := math.Sqrt(d1sq)
	d2 := r3.Norm(hx)
	if d1 == 0 || d2 == 0 {
		return 0, false
	}
	cos := r3.Dot(r3.Scale(1/d1, hy), r3.Scale(1/d2, hx))
	cos = math.Max(-1, math.Min(1, cos))
	w := math.Exp(-(cos + 1) * (cos + 1) / Sigma2)
	var radial float64
	if d1 <= p.Rmin {
		radial = -p.Em
	} else {
		d6 := d1sq * d1sq * d1sq
		radial = p.A12/(d6*d6) - p.B6/d6
	}
	e := w * radial
	if math.Abs(e) < MinEnergy {
		return 0, false
	}
	return e, true
}

//Energy returns the energy of the triplet in the frame F, which is the lowest
//among all its hydrogen-acceptor combinations, and the donor-acceptor distance
//for that combination. It returns false if no combination forms a bond.
func (T *Triplet) Energy(F *chem.Frame, p Param, cutoff float64) (energy, length float64, ok bool) {
	cutoff2 := cutoff * cutoff
	x := F.PositionOf(T.Donor)
	for _, hs := range T.Hydrogens() {
		h := F.PositionOf(hs)
		for _, as := range T.Acceptors() {
			y := F.PositionOf(as)
			e, bond := SubPairEnergy(x, h, y, p, cutoff2)
			if bond && (!ok || e < energy) {
				energy = e
				length = chem.Distance(x, y)
				ok = true
			}
		}
	}
	return energy, length, ok
}
