/*
 * interfaces.go, part of trajan.
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

//FrameProvider loads the frames of one trajectory stream. A FrameProvider is
//owned by a single goroutine and is never shared. The frames it returns
//are only valid until the next call to Load.
type FrameProvider interface {

	//Load returns the frame with the given index, counting from the
	//beginning of the stream.
	Load(index int) (*Frame, error)

	//Close releases the resources held by the provider.
	Close()
}

//Errors

//Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it should just return the current value, not add the empty string to the slice.
	Critical() bool
}

//TrajError is the interface for errors in trajectories
type TrajError interface {
	Error
	FileName() string
	Format() string
}

//LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so  they can be
//filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}

//CError is the general error type of the chem package.
type CError struct {
	msg      string
	deco     []string
	critical bool
}

func (err CError) Error() string { return err.msg }

//Decorate adds dec to the error's decoration, if dec is not the empty string,
//and returns the current decoration.
func (err CError) Decorate(dec string) []string {
	//Even though this method does not use a pointer as a receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical.
func (err CError) Critical() bool { return err.critical }

//errDecorate decorates err with caller, if err implements Error,
//and returns it.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}
