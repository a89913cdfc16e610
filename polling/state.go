// go-tlbrr
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-tlbrr.
//
// go-tlbrr is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-tlbrr is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-tlbrr; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package polling

import (
	"time"

	"github.com/benbjohnson/clock"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
)

// LinkState tracks whether the remote module is currently sending frames
type LinkState int

const (
	// LinkIdle means no frame has arrived yet.
	LinkIdle LinkState = iota
	// LinkActive means a frame arrived within the link timeout.
	LinkActive
	// LinkLost means frames stopped arriving.
	LinkLost
)

// String returns a readable state name
func (s LinkState) String() string {
	switch s {
	case LinkIdle:
		return "idle"
	case LinkActive:
		return "active"
	case LinkLost:
		return "lost"
	default:
		return "unknown"
	}
}

// LinkStatus is the link state machine of a Monitor
type LinkStatus struct {
	LastFrameAt time.Time
	LostTimer   *clock.Timer
	LastFrame   tlbrr.Frame
	Frames      int64 // frames since the link became active
	State       LinkState
}

// safeTimerStop stops a timer and drains its channel if it already fired
func safeTimerStop(timer *clock.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}

// TransitionToActive records a frame and restarts the link timer. A zero
// timeout disables link loss detection.
func (ls *LinkStatus) TransitionToActive(
	clk clock.Clock, frame tlbrr.Frame, timeout time.Duration, callback func(),
) {
	if ls.State != LinkActive {
		ls.Frames = 0
	}
	ls.State = LinkActive
	ls.LastFrame = frame
	ls.LastFrameAt = clk.Now()
	ls.Frames++
	safeTimerStop(ls.LostTimer)
	ls.LostTimer = nil
	if timeout > 0 {
		ls.LostTimer = clk.AfterFunc(timeout, callback)
	}
}

// TransitionToLost marks the link as lost. The last frame is kept.
func (ls *LinkStatus) TransitionToLost() {
	ls.State = LinkLost
	safeTimerStop(ls.LostTimer)
	ls.LostTimer = nil
}

// TransitionToIdle resets the link state
func (ls *LinkStatus) TransitionToIdle() {
	ls.State = LinkIdle
	ls.LastFrame = tlbrr.Frame{}
	ls.LastFrameAt = time.Time{}
	ls.Frames = 0
	safeTimerStop(ls.LostTimer)
	ls.LostTimer = nil
}
