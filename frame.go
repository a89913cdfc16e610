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

import (
	"fmt"

	"github.com/ZaparooProject/go-tlbrr/internal/frame"
)

// Frame layout
const (
	FrameSize   = frame.Size
	PayloadSize = frame.PayloadSize
	FrameBits   = frame.Bits
)

// Frame is one complete transmission from the remote module. The meaning of
// the payload bytes is up to the application; the receiver only checks the
// trailing checksum byte.
type Frame [FrameSize]byte

// NewFrame builds a frame from a 17 byte payload, appending its checksum
func NewFrame(payload []byte) (Frame, error) {
	var f Frame
	if len(payload) != PayloadSize {
		return f, fmt.Errorf("%w: got %d bytes, want %d", ErrPayloadSize, len(payload), PayloadSize)
	}
	copy(f[:], payload)
	f[frame.ChecksumIndex] = frame.CalculateChecksum(payload)
	return f, nil
}

// Payload returns the bytes covered by the checksum
func (f *Frame) Payload() []byte {
	return f[:PayloadSize]
}

// Checksum returns the trailing checksum byte
func (f *Frame) Checksum() byte {
	return f[frame.ChecksumIndex]
}

// Valid reports whether the checksum byte matches the payload
func (f *Frame) Valid() bool {
	return frame.ValidateChecksum(f[:])
}

// String returns the frame as upper-case hex
func (f Frame) String() string {
	return fmt.Sprintf("%X", f[:])
}
