/*
 * config.go, part of trajan.
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
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
)

//Parameters used for class combinations not given in the parameter file.
//With Em = 0 those combinations never give a significant energy.
const (
	DefaultRmin = 1.9
	DefaultEm   = 0.0
)

//Param holds the energy parameters for a (donor class, acceptor class) combination.
type Param struct {
	Rmin float64 //well minimum distance, A
	Em   float64 //well depth
	A12  float64 //Em*Rmin^12
	B6   float64 //2*Em*Rmin^6
}

//NewParam returns the parameters for the given well minimum and depth.
func NewParam(rmin, em float64) Param {
	r6 := math.Pow(rmin, 6)
	return Param{Rmin: rmin, Em: em, A12: em * r6 * r6, B6: 2 * em * r6}
}

//Terminal restricts a descriptor to atoms in terminal or non-terminal residues.
type Terminal int

const (
	AnyResidue Terminal = iota
	NTerm
	NoNTerm
	CTerm
	NoCTerm
)

var terminalNames = map[string]Terminal{
	"any":     AnyResidue,
	"nterm":   NTerm,
	"noterm":  NoNTerm,
	"cterm":   CTerm,
	"nocterm": NoCTerm,
}

//allows returns true if an atom whose residue has the given terminal flags is allowed.
func (T Terminal) allows(nterm, cterm bool) bool {
	switch T {
	case NTerm:
		return nterm
	case NoNTerm:
		return !nterm
	case CTerm:
		return cterm
	case NoCTerm:
		return !cterm
	}
	return true
}

//AnyName is the residue filter that matches all residues.
const AnyName = "*"

//Donor describes a donor atom and the hydrogens it can donate.
type Donor struct {
	Residue        string   //residue name, or AnyName
	Atom           string   //donor atom name
	Hydrogens      []string //names of the hydrogens bonded to the donor, all are tried
	Class          int      //index in Config.DonorClasses
	Terminal       Terminal
	GroupHydrogens bool //triplets with the same donor and acceptor share their hydrogens
}

//Acceptor describes an acceptor atom.
type Acceptor struct {
	Residue  string
	Atom     string
	Class    int //index in Config.AcceptorClasses
	Group    int //acceptors of the same residue with the same non-zero group are equivalent
	Terminal Terminal
}

//Config holds the donor and acceptor descriptions and the parameter table.
//A Config is not modified after loading, so it can be shared.
type Config struct {
	DonorClasses    []string
	AcceptorClasses []string
	Donors          []Donor
	Acceptors       []Acceptor
	params          []Param //DonorClasses x AcceptorClasses, row major. Never empty.
	na              int
}

//Param returns the parameters for a donor class and an acceptor class.
func (C *Config) Param(donorClass, acceptorClass int) Param {
	if C.na == 0 {
		return C.params[0]
	}
	return C.params[donorClass*C.na+acceptorClass]
}

//parms is the result of reading a parameter file.
type parms struct {
	donors    []string
	acceptors []string
	params    []Param
}

type classParam struct {
	d, a int
	p    Param
}

func classIndex(classes []string, name string) int {
	for i, c := range classes {
		if c == name {
			return i
		}
	}
	return -1
}

//parseParms reads a parameter file:
//
//	!!HBparms1
//	donors { N_amide; O_hydroxyl; }
//	acceptors { O_carbonyl; }
//	param(N_amide, O_carbonyl) = 1.9, 5.0;
func parseParms(r io.Reader, file string) (*parms, error) {
	sig, toks, err := tokenize(r, file)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(sig, "!!HBparms", file, 1); err != nil {
		return nil, err
	}
	P := &parser{toks: toks, file: file}
	ret := new(parms)
	var pending []classParam
	for !P.done() {
		kw, _ := P.next()
		switch {
		case kw.is("donors") || kw.is("acceptors"):
			list, err := parseClassList(P)
			if err != nil {
				return nil, err
			}
			if kw.text == "donors" {
				ret.donors = append(ret.donors, list...)
			} else {
				ret.acceptors = append(ret.acceptors, list...)
			}
		case kw.is("param"):
			if len(ret.donors) == 0 || len(ret.acceptors) == 0 {
				return nil, &ParseError{file, kw.line, "param before the donors and acceptors lists"}
			}
			if err := P.expect("("); err != nil {
				return nil, err
			}
			dname, err := P.word("donor class")
			if err != nil {
				return nil, err
			}
			if err := P.expect(","); err != nil {
				return nil, err
			}
			aname, err := P.word("acceptor class")
			if err != nil {
				return nil, err
			}
			for _, s := range []string{")", "="} {
				if err := P.expect(s); err != nil {
					return nil, err
				}
			}
			rmin, err := P.number()
			if err != nil {
				return nil, err
			}
			if err := P.expect(","); err != nil {
				return nil, err
			}
			em, err := P.number()
			if err != nil {
				return nil, err
			}
			if err := P.expect(";"); err != nil {
				return nil, err
			}
			d := classIndex(ret.donors, dname)
			a := classIndex(ret.acceptors, aname)
			if d < 0 || a < 0 {
				return nil, &ParseError{file, kw.line, fmt.Sprintf("unknown class in param(%s, %s)", dname, aname)}
			}
			if rmin <= 0 {
				return nil, &ParseError{file, kw.line, fmt.Sprintf("Rmin must be positive, got %g", rmin)}
			}
			pending = append(pending, classParam{d, a, NewParam(rmin, em)})
		default:
			return nil, &ParseError{file, kw.line, fmt.Sprintf("unexpected %q", kw.text)}
		}
	}
	nd, na := len(ret.donors), len(ret.acceptors)
	if nd == 0 || na == 0 {
		ret.params = []Param{NewParam(DefaultRmin, DefaultEm)}
		return ret, nil
	}
	ret.params = make([]Param, nd*na)
	for i := range ret.params {
		ret.params[i] = NewParam(DefaultRmin, DefaultEm)
	}
	for _, p := range pending {
		ret.params[p.d*na+p.a] = p.p
	}
	return ret, nil
}

//parseClassList reads { A; B; ... }
func parseClassList(P *parser) ([]string, error) {
	if err := P.expect("{"); err != nil {
		return nil, err
	}
	var ret []string
	for !P.accept("}") {
		name, err := P.word("class name")
		if err != nil {
			return nil, err
		}
		if err := P.expect(";"); err != nil {
			return nil, err
		}
		if classIndex(ret, name) >= 0 {
			return nil, P.errorf("class %s declared twice", name)
		}
		ret = append(ret, name)
	}
	return ret, nil
}

//parseRes reads a residue file, with donor and acceptor descriptions. The classes
//must be declared in pr.
//
//	!!HBres1
//	donor * N : (H, HN) @N_amide [noterm];
//	acceptor ASP OD1 @O_carboxyl = 1;
func parseRes(r io.Reader, file string, pr *parms) ([]Donor, []Acceptor, error) {
	sig, toks, err := tokenize(r, file)
	if err != nil {
		return nil, nil, err
	}
	if err := checkSignature(sig, "!!HBres", file, 1); err != nil {
		return nil, nil, err
	}
	P := &parser{toks: toks, file: file}
	var donors []Donor
	var acceptors []Acceptor
	for !P.done() {
		kw, _ := P.next()
		switch {
		case kw.is("donor"):
			d, err := parseDonor(P, pr)
			if err != nil {
				return nil, nil, err
			}
			donors = append(donors, d)
		case kw.is("acceptor"):
			a, err := parseAcceptor(P, pr)
			if err != nil {
				return nil, nil, err
			}
			acceptors = append(acceptors, a)
		default:
			return nil, nil, &ParseError{file, kw.line, fmt.Sprintf("expected donor or acceptor, found %q", kw.text)}
		}
	}
	return donors, acceptors, nil
}

func parseClassRef(P *parser, classes []string, what string) (int, error) {
	if err := P.expect("@"); err != nil {
		return 0, err
	}
	name, err := P.word(what + " class")
	if err != nil {
		return 0, err
	}
	c := classIndex(classes, name)
	if c < 0 {
		return 0, &ParseError{P.file, P.last, fmt.Sprintf("unknown %s class %s", what, name)}
	}
	return c, nil
}

//parseFlags reads an optional [flag, flag] list.
func parseFlags(P *parser) ([]string, error) {
	if !P.accept("[") {
		return nil, nil
	}
	var ret []string
	for {
		f, err := P.word("flag")
		if err != nil {
			return nil, err
		}
		ret = append(ret, strings.ToLower(f))
		if P.accept("]") {
			return ret, nil
		}
		if err := P.expect(","); err != nil {
			return nil, err
		}
	}
}

func parseDonor(P *parser, pr *parms) (Donor, error) {
	var d Donor
	var err error
	if d.Residue, err = P.word("residue name"); err != nil {
		return d, err
	}
	if d.Atom, err = P.word("atom name"); err != nil {
		return d, err
	}
	if err := P.expect(":"); err != nil {
		return d, err
	}
	if P.accept("(") {
		for {
			h, err := P.word("hydrogen name")
			if err != nil {
				return d, err
			}
			d.Hydrogens = append(d.Hydrogens, h)
			if P.accept(")") {
				break
			}
			if err := P.expect(","); err != nil {
				return d, err
			}
		}
	} else {
		h, err := P.word("hydrogen name")
		if err != nil {
			return d, err
		}
		d.Hydrogens = []string{h}
	}
	if d.Class, err = parseClassRef(P, pr.donors, "donor"); err != nil {
		return d, err
	}
	flags, err := parseFlags(P)
	if err != nil {
		return d, err
	}
	for _, f := range flags {
		if t, ok := terminalNames[f]; ok {
			d.Terminal = t
		} else if f == "group" {
			d.GroupHydrogens = true
		} else {
			return d, &ParseError{P.file, P.last, fmt.Sprintf("unknown donor flag %q", f)}
		}
	}
	return d, P.expect(";")
}

func parseAcceptor(P *parser, pr *parms) (Acceptor, error) {
	var a Acceptor
	var err error
	if a.Residue, err = P.word("residue name"); err != nil {
		return a, err
	}
	if a.Atom, err = P.word("atom name"); err != nil {
		return a, err
	}
	if a.Class, err = parseClassRef(P, pr.acceptors, "acceptor"); err != nil {
		return a, err
	}
	if P.accept("=") {
		t, err := P.next()
		if err != nil {
			return a, err
		}
		a.Group, err = strconv.Atoi(t.text)
		if err != nil || a.Group < 0 {
			return a, &ParseError{P.file, t.line, fmt.Sprintf("bad group %q", t.text)}
		}
	}
	flags, err := parseFlags(P)
	if err != nil {
		return a, err
	}
	for _, f := range flags {
		t, ok := terminalNames[f]
		if !ok {
			return a, &ParseError{P.file, P.last, fmt.Sprintf("unknown acceptor flag %q", f)}
		}
		a.Terminal = t
	}
	return a, P.expect(";")
}

//Load reads a configuration from a parameter file and a residue file. The names
//are only used in error messages.
func Load(parmsR io.Reader, parmsName string, resR io.Reader, resName string) (*Config, error) {
	pr, err := parseParms(parmsR, parmsName)
	if err != nil {
		return nil, err
	}
	donors, acceptors, err := parseRes(resR, resName, pr)
	if err != nil {
		return nil, err
	}
	C := &Config{
		DonorClasses:    pr.donors,
		AcceptorClasses: pr.acceptors,
		Donors:          donors,
		Acceptors:       acceptors,
		params:          pr.params,
	}
	if len(pr.donors) > 0 && len(pr.acceptors) > 0 {
		C.na = len(pr.acceptors)
	}
	return C, nil
}

//LoadFiles reads a configuration from the given files. An empty name uses the
//corresponding default file.
func LoadFiles(parmsFile, resFile string) (*Config, error) {
	var pr, rr io.Reader = bytes.NewReader(defaultParms), bytes.NewReader(defaultRes)
	pname, rname := "default parameters", "default residues"
	if parmsFile != "" {
		f, err := os.Open(parmsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		pr, pname = f, parmsFile
	}
	if resFile != "" {
		f, err := os.Open(resFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rr, rname = f, resFile
	}
	return Load(pr, pname, rr, rname)
}

//go:embed defaults/hbparms.txt
var defaultParms []byte

//go:embed defaults/hbres.txt
var defaultRes []byte

var (
	defaultOnce   sync.Once
	defaultConfig *Config
	defaultErr    error
)

//Default returns the configuration built in the package. It is loaded once, on the first call.
func Default() (*Config, error) {
	defaultOnce.Do(func() {
		defaultConfig, defaultErr = LoadFiles("", "")
	})
	return defaultConfig, defaultErr
}
