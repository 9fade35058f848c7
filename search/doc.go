/*
 * doc.go, part of trajan.
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

/*
Package search runs statistics over molecular dynamics trajectories.

An Engine holds the Dispatcher that spreads the frames of a run among worker
threads, and the hydrogen bond configuration. Each kind of search has the same
life cycle: Setup checks the parameters and allocates the buffers, Perform goes
through the frames and reduces the measurements to one value per candidate,
and Free releases what Setup allocated. Results survive Free.

Perform returns ErrCancelled if its context is done before the run is over,
in which case there are no results, and ErrNothingSignificant if the run
finished but no candidate got a value.
*/
package search
