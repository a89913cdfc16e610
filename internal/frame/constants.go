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

// Package frame provides the frame layout constants and checksum helpers for the
// ENA/CLK/DAT receiver protocol
package frame

import "time"

// Frame size limits
const (
	Size          = 18       // Bytes in one transmission
	PayloadSize   = Size - 1 // Bytes covered by the checksum
	ChecksumIndex = Size - 1 // Position of the checksum byte
	Bits          = Size * 8 // Clock strobes in one complete transmission
)

// RequestPulseWidth is how long ENA is driven high to ask the remote module
// to transmit.
const RequestPulseWidth = 3 * time.Millisecond

// Sync bytes prepended when a frame is forwarded over a byte stream
const (
	SyncByte1 = 0xA5
	SyncByte2 = 0x5A
)
