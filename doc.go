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

/*
Package tlbrr provides a pure Go receiver for remote-control receiver modules
that talk over a three-wire, clocked, enable-gated serial link.

The module frames every transmission with the enable line (ENA), strobes each
bit on the rising edge of the clock line (CLK) and carries the bit value,
active low, on the data line (DAT). One transmission is exactly 18 bytes, sent
most significant bit first. The last byte is the inverted 8-bit sum of the 17
bytes before it.

Features:
  - Edge-driven decoding that works with any interrupt or GPIO backend
  - Checksum validation, silent rejection of short, long and corrupted frames
  - Double-buffered handoff so a frame can be read while the next one arrives
  - Request pulse to ask the remote module for a transmission
  - periph.io GPIO backend, frame forwarding over UART and MQTT

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-tlbrr"
	    "github.com/ZaparooProject/go-tlbrr/transport/periph"
	)

	// Open the GPIO lines
	bus, err := periph.Open(periph.DefaultConfig())
	if err != nil {
	    log.Fatal(err)
	}
	defer bus.Close()

	// Create the receiver and start listening
	rx, err := tlbrr.New(bus)
	if err != nil {
	    log.Fatal(err)
	}
	if err := rx.Begin(); err != nil {
	    log.Fatal(err)
	}
	defer rx.End()

	for {
	    if rx.HasNewFrame() {
	        frame := rx.AcquireFrame()
	        fmt.Printf("Frame: %s\n", frame)
	        rx.ReleaseFrame()
	    }
	    time.Sleep(10 * time.Millisecond)
	}

The polling package wraps this loop, adds request mode and link-loss
detection.

Error Handling:

Protocol problems are never returned as errors. A malformed frame is dropped
and the receiver waits for the next transmission. Use Stats to see what was
dropped and why. Errors are only returned when a line cannot be configured:

	if errors.Is(err, tlbrr.ErrPinConfigFailed) {
	    // Check wiring and permissions
	}

Thread Safety:

Edge handlers may run on any goroutine. The consumer methods are meant to be
called from a single goroutine.
*/
package tlbrr
