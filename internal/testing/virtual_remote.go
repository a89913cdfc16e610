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

package testing

// Wire is the line-level view of the ENA/CLK/DAT bus a virtual remote drives.
// Levels are electrical: true is high.
type Wire interface {
	SetEnable(high bool)
	SetClock(high bool)
	SetData(high bool)
}

// VirtualRemote simulates the remote module's transmitter
type VirtualRemote struct {
	wire Wire
	// Transmissions counts completed enable windows
	Transmissions int
}

// NewVirtualRemote creates a transmitter that drives the given wire
func NewVirtualRemote(wire Wire) *VirtualRemote {
	return &VirtualRemote{wire: wire}
}

// Send transmits a frame MSB first inside one enable window
func (v *VirtualRemote) Send(data []byte) {
	v.SendBits(FrameBits(data))
}

// SendBits transmits an arbitrary bit sequence inside one enable window. DAT is
// active low, so a logical one is sent as a low level.
func (v *VirtualRemote) SendBits(bits []bool) {
	v.wire.SetEnable(true)
	for _, bit := range bits {
		v.wire.SetData(!bit)
		v.wire.SetClock(true)
		v.wire.SetClock(false)
	}
	v.wire.SetData(true)
	v.wire.SetEnable(false)
	v.Transmissions++
}

// Begin raises ENA without sending anything
func (v *VirtualRemote) Begin() {
	v.wire.SetEnable(true)
}

// Strobe clocks a single bit inside an already open enable window
func (v *VirtualRemote) Strobe(bit bool) {
	v.wire.SetData(!bit)
	v.wire.SetClock(true)
	v.wire.SetClock(false)
}

// Finish drops ENA, closing the enable window
func (v *VirtualRemote) Finish() {
	v.wire.SetData(true)
	v.wire.SetEnable(false)
	v.Transmissions++
}
