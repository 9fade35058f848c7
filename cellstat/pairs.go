/*
 * pairs.go, part of trajan.
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

import (
	"fmt"
	"math"
)

//PairIndex returns the offset, in floats, of the cell for the pair (j, i), j < i,
//in a flat buffer of cells of arity a. Single cells are packed as a lower triangle,
//i(i-1)/2 + j, Double cells use i(i-1) + 2j.
func PairIndex(j, i int, a Arity) int {
	if a == Double {
		return i*(i-1) + 2*j
	}
	return i*(i-1)/2 + j
}

//PairBufferLen returns the number of floats needed for all the pairs of n entities.
func PairBufferLen(n int, a Arity) int {
	if n < 2 {
		return 0
	}
	if a == Double {
		return n * (n - 1)
	}
	return n * (n - 1) / 2
}

//PairFromIndex returns the pair (j, i) whose cell starts at the given offset.
//It is the inverse of PairIndex.
func PairFromIndex(index int, a Arity) (j, i int) {
	if index < 0 {
		panic(fmt.Sprintf("PairFromIndex: negative index %d", index))
	}
	k := index / int(a)
	i = int((1 + math.Sqrt(float64(1+8*k))) / 2)
	//correct floating point errors
	for i*(i-1)/2 > k {
		i--
	}
	for (i+1)*i/2 <= k {
		i++
	}
	j = k - i*(i-1)/2
	return j, i
}
