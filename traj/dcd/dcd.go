/*
 * dcd.go, part of trajan.
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
	"errors"
	"fmt"
	"io"
	"os"

	v3 "github.com/rmera/trajan/v3"
)

//Length of each title line in the header.
const titleLen = 80

//Reader reads CHARMM, NAMD and X-PLOR binary trajectories (DCD). Both endiannesses are
//supported, fixed atoms are not.
type Reader struct {
	filename   string
	f          *os.File
	r          *bufio.Reader
	endian     binary.ByteOrder
	natoms     int
	frames     int
	charmm     bool
	extrablock bool //unit cell block before the coordinates
	fourdim    bool
	headerSize int64
	frameSize  int64 //0 if the frames don't have all the same size
	next       int   //index of the frame that Next would read
	x, y, z    []float32
	readable   bool
}

//New opens the DCD file name for reading and reads its header.
//The whole file is scanned if frames are not all of the same size.
func New(name string) (*Reader, error) {
	R := &Reader{filename: name}
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Open", "New"}, true}
	}
	R.f = f
	R.r = bufio.NewReader(f)
	if err := R.readHeader(); err != nil {
		f.Close()
		return nil, errDecorate(err, "New")
	}
	R.x = make([]float32, R.natoms)
	R.y = make([]float32, R.natoms)
	R.z = make([]float32, R.natoms)
	R.readable = true
	if err := R.countFrames(); err != nil {
		f.Close()
		return nil, errDecorate(err, "New")
	}
	return R, nil
}

func (R *Reader) formatError(msg string, caller string) error {
	return Error{msg, R.filename, []string{caller}, true}
}

func (R *Reader) readInt32(caller string) (int32, error) {
	var i int32
	if err := binary.Read(R.r, R.endian, &i); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, err
		}
		return 0, Error{err.Error(), R.filename, []string{"binary.Read", caller}, true}
	}
	return i, nil
}

func (R *Reader) readHeader() error {
	var marker [4]byte
	if _, err := io.ReadFull(R.r, marker[:]); err != nil {
		return R.formatError("File too short", "readHeader")
	}
	//The header starts with its own size, 84.
	switch {
	case binary.LittleEndian.Uint32(marker[:]) == 84:
		R.endian = binary.LittleEndian
	case binary.BigEndian.Uint32(marker[:]) == 84:
		R.endian = binary.BigEndian
	default:
		return R.formatError(WrongFormat, "readHeader")
	}
	var magic [4]byte
	if _, err := io.ReadFull(R.r, magic[:]); err != nil || string(magic[:]) != "CORD" {
		return R.formatError("Wrong magic number", "readHeader")
	}
	var icntrl [20]int32
	if err := binary.Read(R.r, R.endian, &icntrl); err != nil {
		return R.formatError(WrongFormat, "readHeader")
	}
	//X-PLOR sets the last one to zero, CHARMM and NAMD to the CHARMM version.
	R.charmm = icntrl[19] != 0
	if R.charmm {
		R.extrablock = icntrl[10] != 0
		R.fourdim = icntrl[11] == 1
	}
	if icntrl[8] != 0 {
		return R.formatError("Fixed atoms not supported", "readHeader")
	}
	if end, err := R.readInt32("readHeader"); err != nil || end != 84 {
		return R.formatError(WrongFormat, "readHeader")
	}
	size, err := R.readInt32("readHeader")
	if err != nil {
		return R.formatError(WrongFormat, "readHeader")
	}
	ntitle, err := R.readInt32("readHeader")
	if err != nil || ntitle < 0 || size != 4+ntitle*titleLen {
		return R.formatError("Wrong title block", "readHeader")
	}
	if _, err := R.r.Discard(int(ntitle * titleLen)); err != nil {
		return R.formatError("Wrong title block", "readHeader")
	}
	if end, err := R.readInt32("readHeader"); err != nil || end != size {
		return R.formatError("Wrong title block", "readHeader")
	}
	var natoms [3]int32
	if err := binary.Read(R.r, R.endian, &natoms); err != nil || natoms[0] != 4 || natoms[2] != 4 || natoms[1] <= 0 {
		return R.formatError("Wrong atom number block", "readHeader")
	}
	R.natoms = int(natoms[1])
	R.headerSize = 4 + 4 + 80 + 4 + 4 + int64(size) + 4 + 12
	return nil
}

//countFrames sets the number of frames, from the file size if the frames are all
//of the same size, or by reading the whole file otherwise.
func (R *Reader) countFrames() error {
	st, err := R.f.Stat()
	if err != nil {
		return Error{err.Error(), R.filename, []string{"Stat", "countFrames"}, true}
	}
	coordBlock := int64(8 + 4*R.natoms)
	R.frameSize = 3 * coordBlock
	if R.fourdim {
		R.frameSize += coordBlock
	}
	if R.extrablock {
		//the unit cell block is 6 doubles.
		R.frameSize += 8 + 48
	}
	body := st.Size() - R.headerSize
	if body%R.frameSize == 0 {
		R.frames = int(body / R.frameSize)
		return nil
	}
	R.frameSize = 0
	n := 0
	for {
		err := R.Next(nil)
		if err != nil {
			if _, ok := err.(*lastFrameError); ok {
				break
			}
			return errDecorate(err, "countFrames")
		}
		n++
	}
	R.frames = n
	return R.rewind()
}

func (R *Reader) rewind() error {
	if _, err := R.f.Seek(R.headerSize, io.SeekStart); err != nil {
		R.readable = false
		return Error{err.Error(), R.filename, []string{"Seek", "rewind"}, true}
	}
	R.r.Reset(R.f)
	R.next = 0
	R.readable = true
	return nil
}

//Readable returns true if the object is ready to be read from.
func (R *Reader) Readable() bool {
	return R.readable
}

//Len returns the number of atoms per frame.
func (R *Reader) Len() int {
	return R.natoms
}

//Frames returns the number of frames in the trajectory.
func (R *Reader) Frames() int {
	return R.frames
}

//Close closes the file.
func (R *Reader) Close() error {
	R.readable = false
	return R.f.Close()
}

//Seek sets the reader so the next call to Next reads the frame with the given index.
func (R *Reader) Seek(frame int) error {
	if frame < 0 || frame >= R.frames {
		return Error{fmt.Sprintf("Frame %d out of range, trajectory has %d frames", frame, R.frames), R.filename, []string{"Seek"}, false}
	}
	if frame == R.next && R.readable {
		return nil
	}
	if R.frameSize > 0 {
		if _, err := R.f.Seek(R.headerSize+int64(frame)*R.frameSize, io.SeekStart); err != nil {
			R.readable = false
			return Error{err.Error(), R.filename, []string{"Seek"}, true}
		}
		R.r.Reset(R.f)
		R.next = frame
		R.readable = true
		return nil
	}
	if frame < R.next || !R.readable {
		if err := R.rewind(); err != nil {
			return errDecorate(err, "Seek")
		}
	}
	for R.next < frame {
		if err := R.Next(nil); err != nil {
			return errDecorate(err, "Seek")
		}
	}
	return nil
}

//Next reads the next frame into keep, which must have at least as many rows as the
//trajectory has atoms. If keep is nil, the frame is skipped. At the end of the
//trajectory, it returns an error implementing chem.LastFrameError.
func (R *Reader) Next(keep *v3.Matrix) error {
	if !R.readable {
		return Error{TrajUnIni, R.filename, []string{"Next"}, true}
	}
	if keep != nil && keep.NVecs() < R.natoms {
		return Error{NotEnoughSpace, R.filename, []string{"Next"}, true}
	}
	err := R.nextRaw()
	if err != nil {
		R.readable = false
		if errors.Is(err, io.EOF) {
			return &lastFrameError{[]string{"Next"}, R.filename}
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Error{"Truncated frame", R.filename, []string{"Next"}, true}
		}
		return errDecorate(err, "Next")
	}
	R.next++
	if keep == nil {
		return nil
	}
	for i := 0; i < R.natoms; i++ {
		keep.Set(i, 0, float64(R.x[i]))
		keep.Set(i, 1, float64(R.y[i]))
		keep.Set(i, 2, float64(R.z[i]))
	}
	return nil
}

func (R *Reader) nextRaw() error {
	size, err := R.readInt32("nextRaw")
	if err != nil {
		return err
	}
	//Some programs don't write the unit cell in every frame, so its presence is
	//decided by the size of the first block.
	if R.extrablock && size != int32(4*R.natoms) {
		if _, err := R.r.Discard(int(size)); err != nil {
			return io.ErrUnexpectedEOF
		}
		if end, err := R.readInt32("nextRaw"); err != nil || end != size {
			return R.formatError(WrongFormat, "nextRaw")
		}
		if size, err = R.readInt32("nextRaw"); err != nil {
			return io.ErrUnexpectedEOF
		}
	}
	if err := R.readBlock(size, R.x); err != nil {
		return err
	}
	for _, block := range [][]float32{R.y, R.z} {
		if size, err = R.readInt32("nextRaw"); err != nil {
			return io.ErrUnexpectedEOF
		}
		if err := R.readBlock(size, block); err != nil {
			return err
		}
	}
	if R.fourdim {
		if size, err = R.readInt32("nextRaw"); err != nil {
			//the last frame may lack the fourth dimension.
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if _, err := R.r.Discard(int(size) + 4); err != nil {
			return io.ErrUnexpectedEOF
		}
	}
	return nil
}

//readBlock reads a block of float32 whose size was already read, and checks its closing size.
func (R *Reader) readBlock(size int32, block []float32) error {
	if size != int32(4*len(block)) {
		return R.formatError(WrongFormat, "readBlock")
	}
	if err := binary.Read(R.r, R.endian, block); err != nil {
		return io.ErrUnexpectedEOF
	}
	end, err := R.readInt32("readBlock")
	if err != nil {
		return io.ErrUnexpectedEOF
	}
	if end != size {
		return R.formatError(WrongFormat, "readBlock")
	}
	return nil
}
