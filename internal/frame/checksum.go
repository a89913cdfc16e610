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

package frame

// Sum adds all bytes with 8-bit wraparound
func Sum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// CalculateChecksum returns the checksum byte for a payload: the inverted sum
// of its bytes.
func CalculateChecksum(payload []byte) byte {
	return Sum(payload) ^ 0xFF
}

// ValidateChecksum reports whether a complete frame carries a matching checksum.
// Frames of the wrong size are never valid.
func ValidateChecksum(data []byte) bool {
	if len(data) != Size {
		return false
	}
	return CalculateChecksum(data[:PayloadSize]) == data[ChecksumIndex]
}
