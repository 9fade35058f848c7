/*
 * geometric.go, part of trajan.
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

package chem

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

//everything equal or less than this is considered zero.
const appzero float64 = 0.0000001

//Distance returns the distance between the points a and b.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

//Cosine returns the cosine of the angle between v1 and v2, and false if one
//of them has zero length, in which case the angle is not defined.
func Cosine(v1, v2 r3.Vec) (float64, bool) {
	normproduct := r3.Norm(v1) * r3.Norm(v2)
	if normproduct <= appzero {
		return 0, false
	}
	argument := r3.Dot(v1, v2) / normproduct
	//Take care of floating point math errors
	if argument > 1 {
		argument = 1
	} else if argument < -1 {
		argument = -1
	}
	return argument, true
}

//Angle takes 2 vectors and calculate the angle in radians between them
//It returns 0 if one of the vectors has zero length.
func Angle(v1, v2 r3.Vec) float64 {
	argument, ok := Cosine(v1, v2)
	if !ok {
		return 0
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

//Dihedral calculate the dihedral, in radians, between the points a, b, c, d, where the first plane
//is defined by abc and the second by bcd. The result is in (-pi, pi].
func Dihedral(a, b, c, d r3.Vec) float64 {
	//bma=b minus a
	bma := r3.Sub(b, a)
	cmb := r3.Sub(c, b)
	dmc := r3.Sub(d, c)
	bmascaled := r3.Scale(r3.Norm(cmb), bma)
	first := r3.Dot(bmascaled, r3.Cross(cmb, dmc))
	v1 := r3.Cross(bma, cmb)
	v2 := r3.Cross(cmb, dmc)
	second := r3.Dot(v1, v2)
	return math.Atan2(first, second)
}

//DihedralDeg is like Dihedral but returns the angle in degrees, in (-180, 180].
func DihedralDeg(a, b, c, d r3.Vec) float64 {
	ret := Rad2Deg(Dihedral(a, b, c, d))
	if ret <= -180 {
		ret += 360
	}
	return ret
}
