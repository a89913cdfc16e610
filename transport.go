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

package tlbrr

// Line identifies one of the three protocol wires
type Line uint8

const (
	// LineEnable is ENA, which frames a transmission.
	LineEnable Line = iota
	// LineClock is CLK, which strobes each bit.
	LineClock
	// LineData is DAT, which carries the active-low bit value.
	LineData
)

// String returns the wire name
func (l Line) String() string {
	switch l {
	case LineEnable:
		return "ENA"
	case LineClock:
		return "CLK"
	case LineData:
		return "DAT"
	default:
		return "unknown"
	}
}

// Edge is a signal transition an interrupt can be armed for
type Edge uint8

const (
	// EdgeNone means the interrupt is disarmed.
	EdgeNone Edge = iota
	// EdgeRising is a low to high transition.
	EdgeRising
	// EdgeFalling is a high to low transition.
	EdgeFalling
)

// String returns a readable edge name
func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	default:
		return "unknown"
	}
}

// PinMode is the electrical configuration of a line
type PinMode uint8

const (
	// ModeInput is a floating input.
	ModeInput PinMode = iota
	// ModeInputPullUp is an input with the pull-up resistor enabled.
	ModeInputPullUp
	// ModeOutputHigh drives the line high.
	ModeOutputHigh
)

// String returns a readable mode name
func (m PinMode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeInputPullUp:
		return "input-pullup"
	case ModeOutputHigh:
		return "output-high"
	default:
		return "unknown"
	}
}

// Interrupts arms and disarms the edge callbacks of the ENA and CLK lines.
// Only one edge can be armed per line; arming replaces the previous edge.
type Interrupts interface {
	ArmEnable(edge Edge)
	DisarmEnable()
	ArmClock(edge Edge)
	DisarmClock()
}

// Bus is the host side of the ENA/CLK/DAT wiring.
// This can be implemented by a GPIO backend or a test double.
type Bus interface {
	Interrupts

	// SetMode configures the electrical mode of a line
	SetMode(line Line, mode PinMode) error

	// Level returns true if the line currently reads high
	Level(line Line) bool
}

// EdgeHandler receives edge notifications for the armed lines. Receiver
// implements it.
type EdgeHandler interface {
	HandleEnableEdge(edge Edge)
	HandleClockEdge(edge Edge)
}

// EdgeSource is implemented by buses that deliver edges asynchronously. New
// attaches the receiver to any bus that implements it.
type EdgeSource interface {
	Attach(handler EdgeHandler)
}
