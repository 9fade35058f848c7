/*
 * histo.go, part of trajan.
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
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Data is a histogram: counts of values between consecutive dividers.
type Data struct {
	normalized bool
	total      int //values inside the dividers
	outside    int //values below the first divider or at/above the last one
	dividers   []float64
	histo      []float64
}

//NewData returns a new histogram from the dividers and rawdata given.
//rawdata can be nil, in which case an empty histogram is created.
//rawdata is sorted in place. It panics if there are less than 2 dividers.
func NewData(dividers []float64, rawdata []float64) *Data {
	if len(dividers) < 2 {
		panic("histo.NewData: At least 2 dividers are needed")
	}
	d := new(Data)
	d.dividers = append([]float64(nil), dividers...)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(rawdata)
	}
	return d
}

//Even returns n+1 dividers for n bins of the same width between min and max.
//If min and max are equal, the bins are centered around them with width 1.
func Even(min, max float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	if min == max {
		min -= float64(n) / 2
		max += float64(n) / 2
	}
	d := make([]float64, n+1)
	floats.Span(d, min, max)
	return d
}

//AddData adds the given data point(s) to the histogram. Values outside the
//dividers are counted as outside.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	last := len(D.dividers) - 1
	for _, v := range point {
		if v < D.dividers[0] || v >= D.dividers[last] {
			D.outside++
			continue
		}
		//first divider greater than v
		j := sort.SearchFloat64s(D.dividers, v)
		if j < len(D.dividers) && D.dividers[j] == v {
			j++
		}
		D.histo[j-1]++
		D.total++
	}
	if norma {
		D.Normalize()
	}
}

//ReHisto replaces the content of the histogram with the counts of rawdata,
//which is sorted in place.
func (D *Data) ReHisto(rawdata []float64) {
	sort.Float64s(rawdata)
	//stat.Histogram panics with values out of the dividers, so they are removed first.
	last := D.dividers[len(D.dividers)-1]
	maxi := sort.SearchFloat64s(rawdata, last)
	mini := sort.SearchFloat64s(rawdata, D.dividers[0])
	D.outside = len(rawdata) - (maxi - mini)
	rawdata = rawdata[mini:maxi]
	D.total = len(rawdata)
	D.normalized = false
	D.histo = stat.Histogram(nil, D.dividers, rawdata, nil)
}

//Total returns the number of values inside the dividers.
func (D *Data) Total() int {
	return D.total
}

//Outside returns the number of values that fell outside the dividers.
func (D *Data) Outside() int {
	return D.outside
}

//Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize normalizes the histogram
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize un-normalizes the histogram
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

//normalizes or un-normalizes the histogram depending
//on whether normalize is true
func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

//Dividers returns a copy of the dividers of the histogram
func (D *Data) Dividers() []float64 {
	return append([]float64(nil), D.dividers...)
}

//View returns the bins of the histogram. They are not copied.
func (D *Data) View() []float64 {
	return D.histo
}

//Sum returns the sum of all the bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//String prints a text rendering of the histogram, one line per bin,
//with a bar of at most width characters.
func (D *Data) String() string {
	return D.Bars(40)
}

//Bars renders the histogram as text, one line per bin, with bars of at most width characters.
func (D *Data) Bars(width int) string {
	var b strings.Builder
	max := floats.Max(D.histo)
	for i, v := range D.histo {
		n := 0
		if max > 0 {
			n = int(v / max * float64(width))
		}
		count := fmt.Sprintf("%6.0f", v)
		if D.normalized {
			count = fmt.Sprintf("%6.3f", v)
		}
		fmt.Fprintf(&b, "%10.3f - %-10.3f %s %s\n", D.dividers[i], D.dividers[i+1], count, strings.Repeat("#", n))
	}
	if D.outside > 0 {
		fmt.Fprintf(&b, "(%d values outside)\n", D.outside)
	}
	return b.String()
}
