/*
 * cell.go, part of trajan.
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

import "math"

//State tells whether a cell has received samples, or has been excluded from the run.
type State uint8

const (
	Empty State = iota
	Active
	Excluded
)

func (S State) String() string {
	switch S {
	case Active:
		return "active"
	case Excluded:
		return "excluded"
	}
	return "empty"
}

//Cell accumulates the samples of one candidate in one thread.
//V[0] holds the sum (or product, minimum, maximum) of the samples. For Double
//kinds, V[0] and V[1] hold the minimum and maximum (Range, Midrange) or the
//sum and the sum of squares (Variance). N is the number of samples.
type Cell struct {
	V     [2]float64
	N     int
	State State
}

//Exclude marks the cell as excluded. An excluded cell never changes again
//and finalizes to no data.
func (C *Cell) Exclude() {
	*C = Cell{State: Excluded}
}

//Update adds the sample v to the cell. The first sample is assigned, the following
//ones are accumulated according to the kind.
func (C *Cell) Update(k Kind, v float64) {
	switch C.State {
	case Excluded:
		return
	case Empty:
		C.State = Active
		C.N = 1
		switch k {
		case HarmonicMean:
			C.V[0] = 1 / v
		case QuadraticMean:
			C.V[0] = v * v
		case Range, Midrange:
			C.V[0], C.V[1] = v, v
		case Variance:
			C.V[0], C.V[1] = v, v*v
		default:
			C.V[0] = v
		}
		return
	}
	C.N++
	switch k {
	case ArithmeticMean:
		C.V[0] += v
	case GeometricMean:
		C.V[0] *= v
	case HarmonicMean:
		C.V[0] += 1 / v
	case QuadraticMean:
		C.V[0] += v * v
	case Min:
		C.V[0] = math.Min(C.V[0], v)
	case Max:
		C.V[0] = math.Max(C.V[0], v)
	case Range, Midrange:
		C.V[0] = math.Min(C.V[0], v)
		C.V[1] = math.Max(C.V[1], v)
	case Variance:
		C.V[0] += v
		C.V[1] += v * v
	}
}

//Join merges src into C. Exclusion on either side excludes C.
func (C *Cell) Join(k Kind, src *Cell) {
	if src.State == Excluded {
		C.Exclude()
		return
	}
	if C.State == Excluded || src.State == Empty {
		return
	}
	if C.State == Empty {
		*C = *src
		return
	}
	C.N += src.N
	switch k {
	case GeometricMean:
		C.V[0] *= src.V[0]
	case Min:
		C.V[0] = math.Min(C.V[0], src.V[0])
	case Max:
		C.V[0] = math.Max(C.V[0], src.V[0])
	case Range, Midrange:
		C.V[0] = math.Min(C.V[0], src.V[0])
		C.V[1] = math.Max(C.V[1], src.V[1])
	case Variance:
		C.V[0] += src.V[0]
		C.V[1] += src.V[1]
	default:
		C.V[0] += src.V[0]
	}
}

//Finalize returns the statistic for the samples in the cell, and false if
//there is no value: the cell is empty or excluded, the kind needs more samples
//(Variance needs at least 2) or the result is not a number.
func (C *Cell) Finalize(k Kind) (float64, bool) {
	if C.State != Active || C.N < 1 {
		return 0, false
	}
	n := float64(C.N)
	var ret float64
	switch k {
	case ArithmeticMean:
		ret = C.V[0] / n
	case GeometricMean:
		ret = math.Pow(C.V[0], 1/n)
	case HarmonicMean:
		ret = n / C.V[0]
	case QuadraticMean:
		ret = math.Sqrt(C.V[0] / n)
	case Min, Max:
		ret = C.V[0]
	case Range:
		ret = C.V[1] - C.V[0]
	case Midrange:
		ret = (C.V[1] - C.V[0]) / 2
	case Variance:
		if C.N < 2 {
			return 0, false
		}
		mean := C.V[0] / n
		ret = (n/(n-1))*(C.V[1]/n) - mean*mean
	}
	if math.IsNaN(ret) {
		return 0, false
	}
	return ret, true
}
