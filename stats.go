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
	"sync/atomic"
	"time"
)

// Stats tracks what the receiver has seen since it was created. Protocol
// failures are never returned as errors; they only show up here.
type Stats struct {
	LastFrameAt     time.Time // When the last valid frame completed
	Transmissions   int64     // ENA rising edges accepted while idle
	FramesAccepted  int64     // Frames with the right length and checksum
	FramesPublished int64     // Frames copied into the published buffer
	LengthErrors    int64     // Transmissions that were not exactly 144 bits
	ChecksumErrors  int64     // Frames with the right length but a bad checksum
	EmptyEnables    int64     // Enable windows without a single clock strobe
	FramesDropped   int64     // Pending frames lost before they could be published
	Requests        int64     // Request pulses driven on ENA
	RequestsIgnored int64     // Requests skipped because the receiver was busy
}

type counters struct {
	lastFrameAt     atomic.Pointer[time.Time]
	transmissions   atomic.Int64
	framesAccepted  atomic.Int64
	framesPublished atomic.Int64
	lengthErrors    atomic.Int64
	checksumErrors  atomic.Int64
	emptyEnables    atomic.Int64
	framesDropped   atomic.Int64
	requests        atomic.Int64
	requestsIgnored atomic.Int64
}

func (c *counters) snapshot() Stats {
	s := Stats{
		Transmissions:   c.transmissions.Load(),
		FramesAccepted:  c.framesAccepted.Load(),
		FramesPublished: c.framesPublished.Load(),
		LengthErrors:    c.lengthErrors.Load(),
		ChecksumErrors:  c.checksumErrors.Load(),
		EmptyEnables:    c.emptyEnables.Load(),
		FramesDropped:   c.framesDropped.Load(),
		Requests:        c.requests.Load(),
		RequestsIgnored: c.requestsIgnored.Load(),
	}
	if t := c.lastFrameAt.Load(); t != nil {
		s.LastFrameAt = *t
	}
	return s
}
