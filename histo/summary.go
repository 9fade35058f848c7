/*
 * summary.go, part of trajan.
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

package histo

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

//Summary describes a set of values.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
	Histo  *Data //nil if there are no values
}

//Summarize returns the summary of the values, with a histogram of bins bins spanning
//them. NaN and infinite values are ignored. values is not modified.
func Summarize(values []float64, bins int) *Summary {
	v := make([]float64, 0, len(values))
	for _, x := range values {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			v = append(v, x)
		}
	}
	S := &Summary{N: len(v)}
	if S.N == 0 {
		return S
	}
	sort.Float64s(v)
	S.Min = v[0]
	S.Max = v[len(v)-1]
	S.Mean, S.StdDev = stat.MeanStdDev(v, nil)
	if S.N < 2 {
		S.StdDev = 0
	}
	S.Median = stat.Quantile(0.5, stat.Empirical, v, nil)
	dividers := Even(S.Min, S.Max, bins)
	//the maximum must fall inside the last bin.
	dividers[len(dividers)-1] = math.Nextafter(dividers[len(dividers)-1], math.Inf(1))
	S.Histo = NewData(dividers, v)
	return S
}

//String renders the summary as text.
func (S *Summary) String() string {
	if S.N == 0 {
		return "no values\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "values: %d  mean: %.4f  sd: %.4f\n", S.N, S.Mean, S.StdDev)
	fmt.Fprintf(&b, "min: %.4f  median: %.4f  max: %.4f\n", S.Min, S.Median, S.Max)
	b.WriteString(S.Histo.String())
	return b.String()
}
