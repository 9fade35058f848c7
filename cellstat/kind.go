/*
 * kind.go, part of trajan.
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
	"strings"
)

//Kind is a summary statistic.
type Kind int

const (
	ArithmeticMean Kind = iota
	GeometricMean
	HarmonicMean
	QuadraticMean
	Min
	Max
	Range
	Midrange
	Variance
)

var kindNames = [...]string{
	ArithmeticMean: "mean",
	GeometricMean:  "geometric",
	HarmonicMean:   "harmonic",
	QuadraticMean:  "quadratic",
	Min:            "min",
	Max:            "max",
	Range:          "range",
	Midrange:       "midrange",
	Variance:       "variance",
}

var kindAliases = map[string]Kind{
	"arithmetic":     ArithmeticMean,
	"average":        ArithmeticMean,
	"geometric_mean": GeometricMean,
	"harmonic_mean":  HarmonicMean,
	"quadratic_mean": QuadraticMean,
	"rms":            QuadraticMean,
	"minimum":        Min,
	"maximum":        Max,
	"var":            Variance,
}

func (K Kind) String() string {
	if K < 0 || int(K) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(K))
	}
	return kindNames[K]
}

//ParseKind returns the Kind with the given name. Names are case insensitive.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if s == name {
			return Kind(k), nil
		}
	}
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("Unknown statistic %q", s)
}

//Arity is the number of floats a cell of a given Kind needs.
type Arity int

const (
	Single Arity = 1
	Double Arity = 2
)

//Arity returns Double for Range and Midrange (minimum and maximum) and Variance
//(sum and sum of squares), and Single for all other kinds.
func (K Kind) Arity() Arity {
	switch K {
	case Range, Midrange, Variance:
		return Double
	}
	return Single
}
