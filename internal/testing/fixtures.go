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

// Package testing provides frame fixtures and a virtual remote transmitter for
// exercising the receiver without hardware
package testing

import "github.com/ZaparooProject/go-tlbrr/internal/frame"

// BuildFrame completes a 17 byte payload with its checksum
func BuildFrame(payload []byte) []byte {
	data := make([]byte, frame.Size)
	copy(data, payload)
	data[frame.ChecksumIndex] = frame.CalculateChecksum(data[:frame.PayloadSize])
	return data
}

// AlternatingFrame returns a valid frame whose payload bits alternate 1,0,1,0...
func AlternatingFrame() []byte {
	payload := make([]byte, frame.PayloadSize)
	for i := range payload {
		payload[i] = 0xAA
	}
	return BuildFrame(payload)
}

// CountingFrame returns a valid frame whose payload counts up from start
func CountingFrame(start byte) []byte {
	payload := make([]byte, frame.PayloadSize)
	for i := range payload {
		payload[i] = start + byte(i)
	}
	return BuildFrame(payload)
}

// CorruptFrame returns a copy of data with one bit flipped
func CorruptFrame(data []byte, bit int) []byte {
	out := append([]byte(nil), data...)
	out[bit/8] ^= 0x80 >> (bit % 8)
	return out
}

// FrameBits unpacks bytes into logical bits, most significant bit first
func FrameBits(data []byte) []bool {
	bits := make([]bool, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, b&(1<<i) != 0)
		}
	}
	return bits
}

// PackBits packs logical bits into bytes, most significant bit first. A trailing
// partial byte keeps its bits in the low positions, the way the receiver shifts
// them in.
func PackBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		out[i/8] <<= 1
		if bit {
			out[i/8] |= 1
		}
	}
	return out
}

// Sample bit patterns
var (
	// TestPayload is a fixed payload used across tests
	TestPayload = []byte{
		0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x01,
		0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF, 0x42,
	}
)
