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

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
	"github.com/ZaparooProject/go-tlbrr/polling"
)

// printer writes frames and status lines, colored when enabled
type printer struct {
	w        io.Writer
	stamp    *color.Color
	payload  *color.Color
	checksum *color.Color
	infoC    *color.Color
	warnC    *color.Color
}

func newPrinter(w io.Writer, colored bool) *printer {
	p := &printer{
		w:        w,
		stamp:    color.New(color.FgHiBlack),
		payload:  color.New(color.FgCyan),
		checksum: color.New(color.FgYellow),
		infoC:    color.New(color.FgGreen),
		warnC:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.stamp, p.payload, p.checksum, p.infoC, p.warnC} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) frame(at time.Time, frame tlbrr.Frame) {
	_, _ = fmt.Fprintf(p.w, "%s %s %s\n",
		p.stamp.Sprint(at.Format("15:04:05.000")),
		p.payload.Sprintf("%X", frame.Payload()),
		p.checksum.Sprintf("%02X", frame.Checksum()))
}

func (p *printer) info(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.infoC.Sprintf(format, args...))
}

func (p *printer) warn(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.warnC.Sprintf(format, args...))
}

func (p *printer) stats(stats tlbrr.Stats, metrics polling.MonitorMetrics) {
	p.info("=== Receiver ===")
	_, _ = fmt.Fprintf(p.w, "transmissions:    %d\n", stats.Transmissions)
	_, _ = fmt.Fprintf(p.w, "frames accepted:  %d\n", stats.FramesAccepted)
	_, _ = fmt.Fprintf(p.w, "length errors:    %d\n", stats.LengthErrors)
	_, _ = fmt.Fprintf(p.w, "checksum errors:  %d\n", stats.ChecksumErrors)
	_, _ = fmt.Fprintf(p.w, "empty enables:    %d\n", stats.EmptyEnables)
	_, _ = fmt.Fprintf(p.w, "frames dropped:   %d\n", stats.FramesDropped)
	_, _ = fmt.Fprintf(p.w, "requests:         %d (%d ignored)\n", stats.Requests, stats.RequestsIgnored)
	if !stats.LastFrameAt.IsZero() {
		_, _ = fmt.Fprintf(p.w, "last frame:       %s\n", stats.LastFrameAt.Format(time.RFC3339))
	}
	p.info("=== Monitor ===")
	_, _ = fmt.Fprintf(p.w, "frames delivered: %d\n", metrics.FramesDelivered)
	_, _ = fmt.Fprintf(p.w, "forward errors:   %d\n", metrics.CallbackErrors)
	_, _ = fmt.Fprintf(p.w, "link losses:      %d\n", metrics.LinkLosses)
	_, _ = fmt.Fprintf(p.w, "request errors:   %d\n", metrics.RequestErrors)
}
