/*
 * stream.go, part of trajan.
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

package chem

import (
	"fmt"
)

//OpenFunc returns a new, independent FrameProvider for a stream.
type OpenFunc func() (FrameProvider, error)

//Stream is an opened trajectory. The first frame of the stream is loaded
//when the stream is created and stays resident: providers obtained from
//the stream return it for index 0 instead of reading it again.
type Stream struct {
	Format   string
	Path     string
	top      *Topology
	frames   int
	resident *Frame
	open     OpenFunc
}

//NewStream returns a stream of the given number of frames, whose first frame is
//resident, and which produces providers with open.
func NewStream(format, path string, top *Topology, frames int, resident *Frame, open OpenFunc) (*Stream, error) {
	if top == nil || resident == nil || open == nil {
		return nil, CError{"Nil topology, resident frame or opener", []string{"NewStream"}, true}
	}
	if frames < 1 {
		return nil, CError{fmt.Sprintf("Stream %s has no frames", path), []string{"NewStream"}, true}
	}
	if resident.Topology() != top {
		return nil, CError{"The resident frame does not belong to the stream topology", []string{"NewStream"}, true}
	}
	return &Stream{Format: format, Path: path, top: top, frames: frames, resident: resident, open: open}, nil
}

//Topology returns the topology of the stream.
func (S *Stream) Topology() *Topology {
	return S.top
}

//Len returns the number of frames in the stream.
func (S *Stream) Len() int {
	return S.frames
}

//Resident returns the first frame of the stream.
func (S *Stream) Resident() *Frame {
	return S.resident
}

//HasForces returns true if the frames of the stream carry forces.
func (S *Stream) HasForces() bool {
	return S.resident.HasForces()
}

//Provider returns a new FrameProvider for the stream. Each goroutine
//reading the stream needs its own.
func (S *Stream) Provider() (FrameProvider, error) {
	p, err := S.open()
	if err != nil {
		return nil, errDecorate(err, "Provider")
	}
	return &residentProvider{stream: S, inner: p}, nil
}

//residentProvider returns the resident frame for index 0 and
//delegates everything else.
type residentProvider struct {
	stream *Stream
	inner  FrameProvider
}

func (R *residentProvider) Load(index int) (*Frame, error) {
	if index < 0 || index >= R.stream.frames {
		return nil, CError{fmt.Sprintf("Frame %d out of range (%d frames)", index, R.stream.frames), []string{"Load"}, false}
	}
	if index == 0 {
		return R.stream.resident, nil
	}
	return R.inner.Load(index)
}

func (R *residentProvider) Close() {
	R.inner.Close()
}

//MemoryStream returns a stream over frames that are already in memory. All
//frames must share top. The provider it returns is safe to use from many
//goroutines, as frames are never modified.
func MemoryStream(top *Topology, frames []*Frame) (*Stream, error) {
	if len(frames) == 0 {
		return nil, CError{"No frames given", []string{"MemoryStream"}, true}
	}
	for i, f := range frames {
		if f.Topology() != top {
			return nil, CError{fmt.Sprintf("Frame %d does not share the stream topology", i), []string{"MemoryStream"}, true}
		}
		f.Index = i
	}
	m := memoryProvider(frames)
	return NewStream("memory", "", top, len(frames), frames[0], func() (FrameProvider, error) { return m, nil })
}

type memoryProvider []*Frame

func (M memoryProvider) Load(index int) (*Frame, error) {
	if index < 0 || index >= len(M) {
		return nil, CError{fmt.Sprintf("Frame %d out of range", index), []string{"Load"}, false}
	}
	return M[index], nil
}

func (M memoryProvider) Close() {}
