/*
 * histo_test.go, part of trajan.
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
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestHisto(Te *testing.T) {
	rawdata := []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}
	dividers := []float64{0, 1, 2, 3, 4, 8}
	D := NewData(dividers, append([]float64(nil), rawdata...))
	expected := []float64{2, 6, 2, 7, 9}
	if !floats.Equal(D.View(), expected) {
		Te.Errorf("Expected %v, got %v", expected, D.View())
	}
	if D.Total() != 26 || D.Outside() != 3 {
		Te.Errorf("Expected 26 values inside and 3 outside, got %d and %d", D.Total(), D.Outside())
	}
	E := NewData(dividers, nil)
	E.AddData(rawdata...)
	if !floats.Equal(E.View(), D.View()) || E.Outside() != D.Outside() {
		Te.Errorf("AddData and ReHisto disagree: %v %v", E.View(), D.View())
	}
	D.Normalize()
	if math.Abs(D.Sum()-1) > 1e-12 || !D.Normalized() {
		Te.Errorf("A normalized histogram should add to 1, got %g", D.Sum())
	}
	D.AddData(2.5)
	D.UnNormalize()
	if math.Abs(D.View()[2]-3) > 1e-9 {
		Te.Errorf("Adding to a normalized histogram failed: %v", D.View())
	}
}

func TestSummarize(Te *testing.T) {
	S := Summarize([]float64{2, 4, 6, math.NaN(), math.Inf(1)}, 4)
	if S.N != 3 || S.Mean != 4 || S.Min != 2 || S.Max != 6 || S.Median != 4 || S.StdDev != 2 {
		Te.Errorf("Wrong summary %+v", S)
	}
	if S.Histo.Total() != 3 || S.Histo.Outside() != 0 {
		Te.Errorf("All the values should be in the histogram, %d in, %d out", S.Histo.Total(), S.Histo.Outside())
	}
	if !strings.Contains(S.String(), "median: 4.0000") {
		Te.Errorf("Wrong rendering:\n%s", S)
	}
	if Summarize(nil, 10).String() != "no values\n" {
		Te.Errorf("An empty summary should say so")
	}
	one := Summarize([]float64{5}, 3)
	if one.StdDev != 0 || one.Histo.Total() != 1 {
		Te.Errorf("Wrong single value summary %+v", one)
	}
}
