/*
 * stf.go, part of trajan.
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

package stf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/trajan/v3"
	"go.uber.org/zap"
)

const (
	lzwLitwidth int = 8
	defaultPrec int = 2
)

//Write!

//Writer writes STF trajectories.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	w         *bufio.Writer
	natoms    int
	filename  string
	writeable bool
	prec      int
}

//Close flushes and closes the file. The Writer can't be used after this call.
func (S *Writer) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.w.Flush()
	if err2 := S.h.Close(); err == nil {
		err = err2
	}
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	return err
}

//Len returns the number of atoms per frame.
func (S *Writer) Len() int {
	return S.natoms
}

//WNext writes coord as the next frame of the trajectory. If box is given and has
//at least 9 elements, it is written as the box vectors of the frame.
func (S *Writer) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	v := coord.NVecs()
	if v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	var floats [3]float64
	for i := 0; i < v; i++ {
		floats[0] = coord.At(i, 0)
		floats[1] = coord.At(i, 1)
		floats[2] = coord.At(i, 2)
		S.w.WriteString(coordsEncode(floats, S.prec))
	}
	var err error
	if len(box) > 0 && len(box[0]) >= 9 {
		b := box[0]
		_, err = fmt.Fprintf(S.w, "* %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f\n", b[0],
			b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		_, err = S.w.WriteString("*\n")
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

//compressorFor picks the compression from the last letter of the file name. zstd is the default.
func compressorFor(name string) byte {
	if name == "" {
		return 's'
	}
	switch c := strings.ToLower(name)[len(name)-1]; c {
	case 'l', 'z', 'r':
		return c
	}
	return 's'
}

//NewWriter creates an STF trajectory with the given name and number of atoms per frame.
//The header map is written to the file. If it contains a "prec" key, that precision
//is used for the coordinates, otherwise the default of 2 is used and written to the header.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*Writer, error) {
	var level int = flate.BestCompression
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	S := &Writer{natoms: natoms, filename: name, prec: defaultPrec}
	if header == nil {
		header = make(map[string]string)
	}
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec < 1 {
			return nil, Error{fmt.Sprintf("Invalid precision %q", p), name, []string{"NewWriter"}, true}
		}
		S.prec = prec
	} else {
		header["prec"] = strconv.Itoa(S.prec)
	}
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"NewWriter"}, true}
	}
	switch compressorFor(name) {
	case 'l':
		S.h = lzw.NewWriter(S.f, lzw.MSB, lzwLitwidth)
	case 'z':
		S.h, err = gzip.NewWriterLevel(S.f, level)
	case 'r':
		S.h, err = flate.NewWriter(S.f, level)
	default:
		S.h, err = zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	if err != nil {
		S.f.Close()
		return nil, Error{"Can't create compressor " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.w = bufio.NewWriter(S.h)
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(S.w, "%s=%v\n", k, header[k])
	}
	fmt.Fprintf(S.w, "** %d\n", S.natoms)
	S.writeable = true
	return S, nil
}

func coordsEncode(f [3]float64, prec int) string {
	p := math.Pow(10.0, float64(prec))
	var temp [3]int
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

//Read!

//Reader reads STF trajectories sequentially.
type Reader struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	readable bool
	header   map[string]string
	log      *zap.SugaredLogger
}

//zstdCloser makes a *zstd.Decoder an io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

//Close Closes the object. It can not be used after this call
func (s zstdCloser) Close() error {
	s.Decoder.Close()
	return nil
}

//New opens a STF trajectory for reading, and returns a pointer
//to the handle, a map with the metadata (empty if no metadata is found)
//and error or nil. Problems that don't prevent reading, such as bad box
//information in a frame, are logged to logger, which can be nil.
func New(name string, logger *zap.SugaredLogger) (*Reader, map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	S := &Reader{natoms: -1, filename: name, prec: defaultPrec, header: make(map[string]string), log: logger}
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"New"}, true}
	}
	intermediate := bufio.NewReader(S.f)
	switch compressorFor(name) {
	case 'l':
		S.dec = lzw.NewReader(intermediate, lzw.MSB, lzwLitwidth)
	case 'z':
		S.dec, err = gzip.NewReader(intermediate)
	case 'r':
		S.dec = flate.NewReader(intermediate)
	default:
		var d *zstd.Decoder
		d, err = zstd.NewReader(intermediate, zstd.WithDecoderConcurrency(1))
		if err == nil {
			S.dec = zstdCloser{d}
		}
	}
	if err != nil {
		S.f.Close()
		return nil, nil, Error{"Can't read header " + err.Error(), name, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	if err := S.readHeader(); err != nil {
		S.dec.Close()
		S.f.Close()
		return nil, nil, err
	}
	S.readable = true
	return S, S.header, nil
}

func (S *Reader) readHeader() error {
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return Error{"Can't read header " + err.Error(), S.filename, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				return Error{fmt.Sprintf("Can't read atom number from '%s'", str), S.filename, []string{"New"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil || S.natoms < 1 {
				return Error{fmt.Sprintf("Can't read atom number from '%s'", nat[1]), S.filename, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return Error{"Malformed header line: " + str, S.filename, []string{"New"}, true}
		}
		S.header[kv[0]] = kv[1]
	}
	if p, ok := S.header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec < 1 {
			S.log.Warnf("Invalid precision %q for trajectory %s. Will assume the default", p, S.filename)
		} else {
			S.prec = prec
		}
	}
	return nil
}

//Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *Reader) Readable() bool {
	return S.readable
}

//Header returns the metadata of the trajectory.
func (S *Reader) Header() map[string]string {
	return S.header
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := math.Pow(10.0, float64(prec))
	s := strings.Fields(str)
	if len(s) < 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: Too few fields: %s", str)
	}
	if len(s) > 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: Too many fields: %s", str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Can't parse coordinate %d (%s). Error: %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

//Next puts in the given matrix (c) the coordinates for the next frame of the trajectory
//and, if given, and the information is present, puts the box vector information in box.
//If c is nil, the frame is read and checked, but not stored.
//Returns error if the operation is not successful. If the error is a chem.LastFrameError, the end of the
//trajectory has been reached, not an actual error.
func (S *Reader) Next(c *v3.Matrix, box ...[]float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadString('\n')
		if err != nil {
			//EOF should only happen when reading the first atom
			if errors.Is(err, io.EOF) && i == 0 && b == "" {
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{ReadError + ": " + err.Error(), S.filename, []string{"Next"}, true}
		}
		if strings.HasPrefix(b, "*") {
			return Error{fmt.Sprintf("%s: frame ended after %d atoms", WrongFormat, i), S.filename, []string{"Next"}, true}
		}
		err = coordsDecode(strings.TrimSuffix(b, "\n"), &temp, S.prec)
		if err != nil {
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue
		}
		c.Set(i, 0, temp[0])
		c.Set(i, 1, temp[1])
		c.Set(i, 2, temp[2])
	}
	s, err := S.h.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return Error{"Can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if !strings.HasPrefix(s, "*") {
		return Error{WrongFormat + ": wrong number of atoms in frame", S.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		S.readBox(s, box[0])
	}
	return nil
}

//readBox reads the box vectors from the frame termination line. Problems are
//logged, and the box set to zero.
func (S *Reader) readBox(s string, box []float64) {
	fields := strings.Fields(s)
	if len(fields) < 10 { //The "*" and the 9 numbers
		S.log.Debugf("Trajectory file %s does not contain (correct) box information: %v", S.filename, fields)
		return
	}
	var err error
	for j, v := range fields[1:10] {
		box[j], err = strconv.ParseFloat(v, 64)
		if err != nil {
			break
		}
	}
	if err != nil {
		S.log.Warnf("Failed to read box in a frame from %s", S.filename)
		for i := range box {
			box[i] = 0.0
		}
	}
}

//Skip reads and discards n frames.
func (S *Reader) Skip(n int) error {
	for i := 0; i < n; i++ {
		if err := S.Next(nil); err != nil {
			return errDecorate(err, "Skip")
		}
	}
	return nil
}

//Close closes the object, and marks it as unreadable
func (S *Reader) Close() {
	if !S.readable {
		return
	}
	S.dec.Close()
	S.f.Close()
	S.readable = false
}

//Len returns the number of atoms in each frame of the trajectory.
func (S *Reader) Len() int {
	return S.natoms
}

//CountFrames reads the whole trajectory in name and returns the number of frames it contains.
func CountFrames(name string) (int, error) {
	r, _, err := New(name, nil)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	n := 0
	for {
		err := r.Next(nil)
		if err != nil {
			if isLastFrame(err) {
				return n, nil
			}
			return n, errDecorate(err, "CountFrames")
		}
		n++
	}
}
