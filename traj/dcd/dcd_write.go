/*
 * dcd_write.go, part of trajan.
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

package dcd

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	v3 "github.com/rmera/trajan/v3"
)

//charmmVersion is written in the header so readers treat the file as CHARMM.
const charmmVersion = 24

//Writer writes little-endian CHARMM trajectories without unit cell.
type Writer struct {
	filename string
	f        *os.File
	w        *bufio.Writer
	natoms   int
	frames   int
	block    []float32
	writable bool
}

//NewWriter creates the file name and writes a DCD header for natoms atoms.
func NewWriter(name string, natoms int) (*Writer, error) {
	if natoms <= 0 {
		return nil, Error{"The number of atoms must be positive", name, []string{"NewWriter"}, true}
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Create", "NewWriter"}, true}
	}
	W := &Writer{filename: name, f: f, w: bufio.NewWriter(f), natoms: natoms, block: make([]float32, natoms)}
	if err := W.writeHeader(); err != nil {
		f.Close()
		return nil, errDecorate(err, "NewWriter")
	}
	W.writable = true
	return W, nil
}

func (W *Writer) write(data interface{}, caller string) error {
	if err := binary.Write(W.w, binary.LittleEndian, data); err != nil {
		return Error{err.Error(), W.filename, []string{"binary.Write", caller}, true}
	}
	return nil
}

func (W *Writer) writeHeader() error {
	var icntrl [20]int32
	icntrl[0] = 0 //frames, set on Close
	icntrl[1] = 1 //first step
	icntrl[2] = 1 //steps between frames
	icntrl[19] = charmmVersion
	title := make([]byte, titleLen)
	copy(title, "Created by trajan")
	for _, v := range []interface{}{int32(84), []byte("CORD"), icntrl, int32(84),
		int32(4 + titleLen), int32(1), title, int32(4 + titleLen),
		int32(4), int32(W.natoms), int32(4)} {
		if err := W.write(v, "writeHeader"); err != nil {
			return err
		}
	}
	return nil
}

//WNext writes the coordinates in towrite as the next frame.
func (W *Writer) WNext(towrite *v3.Matrix) error {
	if !W.writable {
		return Error{TrajUnIni, W.filename, []string{"WNext"}, true}
	}
	if towrite == nil || towrite.NVecs() != W.natoms {
		return Error{"Coordinates don't match the trajectory size", W.filename, []string{"WNext"}, true}
	}
	size := int32(4 * W.natoms)
	for dim := 0; dim < 3; dim++ {
		for i := range W.block {
			W.block[i] = float32(towrite.At(i, dim))
		}
		for _, v := range []interface{}{size, W.block, size} {
			if err := W.write(v, "WNext"); err != nil {
				return err
			}
		}
	}
	W.frames++
	return nil
}

//Len returns the number of frames written so far.
func (W *Writer) Len() int {
	return W.frames
}

//Close writes the number of frames in the header and closes the file.
func (W *Writer) Close() error {
	if !W.writable {
		return nil
	}
	W.writable = false
	err := W.w.Flush()
	if err == nil {
		//the frame count is the first control integer, after the block size and the magic number.
		_, err = W.f.Seek(8, io.SeekStart)
	}
	if err == nil {
		err = binary.Write(W.f, binary.LittleEndian, int32(W.frames))
	}
	if err2 := W.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return Error{err.Error(), W.filename, []string{"Close"}, true}
	}
	return nil
}
