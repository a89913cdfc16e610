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
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
)

// Phase is the protocol state of a Receiver
type Phase int

const (
	// PhaseStopped means Begin has not been called, or End has.
	PhaseStopped Phase = iota
	// PhaseIdle waits for ENA to rise.
	PhaseIdle
	// PhaseReceiving clocks bits in until ENA falls.
	PhaseReceiving
	// PhaseRequesting drives the request pulse on ENA.
	PhaseRequesting
)

// String returns a readable phase name
func (p Phase) String() string {
	switch p {
	case PhaseStopped:
		return "stopped"
	case PhaseIdle:
		return "idle"
	case PhaseReceiving:
		return "receiving"
	case PhaseRequesting:
		return "requesting"
	default:
		return "unknown"
	}
}

// Receiver decodes frames from ENA and CLK edges and hands completed frames to
// a consumer through a double buffer.
//
// Thread Safety: the edge handlers may be called from any goroutine, including
// concurrently with each other. The consumer methods (HasNewFrame, AcquireFrame,
// ReleaseFrame, RequestTransmission) are meant for a single consumer goroutine.
type Receiver struct {
	bus       Bus
	config    *Config
	stats     counters
	available atomic.Bool

	// Everything below is guarded by mu
	mu        sync.Mutex
	phase     Phase
	bits      int
	scratch   Frame
	published Frame
	pending   bool
	exclusive bool
}

// New creates a receiver on the given bus. If the bus delivers edges on its
// own (EdgeSource), the receiver attaches itself to it.
func New(bus Bus, opts ...Option) (*Receiver, error) {
	if bus == nil {
		return nil, ErrNilBus
	}

	r := &Receiver{
		bus:    bus,
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	if src, ok := bus.(EdgeSource); ok {
		src.Attach(r)
	}

	return r, nil
}

// Begin configures the lines and waits for the first transmission
func (r *Receiver) Begin() error {
	if err := r.setModes("begin", []lineMode{
		{LineEnable, ModeInput},
		{LineClock, ModeInputPullUp},
		{LineData, ModeInputPullUp},
	}); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bus.DisarmClock()
	r.bits = 0
	r.pending = false
	r.waitForEnable()
	debugln("receiver started, waiting for ENA")
	return nil
}

// End disarms all interrupts and returns CLK and DAT to plain inputs
func (r *Receiver) End() error {
	r.mu.Lock()
	r.bus.DisarmEnable()
	r.bus.DisarmClock()
	r.phase = PhaseStopped
	r.mu.Unlock()

	var err error
	for _, line := range []Line{LineClock, LineData} {
		if modeErr := r.bus.SetMode(line, ModeInput); modeErr != nil {
			err = multierr.Append(err, NewPinError("end", line, ModeInput, modeErr))
		}
	}
	debugln("receiver stopped")
	return err
}

// Phase returns the current protocol phase
func (r *Receiver) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Stats returns a snapshot of the receiver counters
func (r *Receiver) Stats() Stats {
	return r.stats.snapshot()
}

// HandleEnableEdge processes an ENA edge. A rising edge while idle starts a
// transmission; a falling edge while receiving ends it. Anything else is not
// armed and is ignored.
func (r *Receiver) HandleEnableEdge(edge Edge) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.phase == PhaseIdle && edge == EdgeRising:
		r.startTransmission()
	case r.phase == PhaseReceiving && edge == EdgeFalling:
		r.finishTransmission()
	}
}

// HandleClockEdge processes a CLK edge. Each rising edge while receiving
// samples DAT and shifts the inverted level into the scratch frame.
func (r *Receiver) HandleClockEdge(edge Edge) {
	if edge != EdgeRising {
		return
	}

	r.mu.Lock()
	if r.phase == PhaseReceiving {
		// DAT is not latched, so it has to be read now
		var bit byte
		if !r.bus.Level(LineData) {
			bit = 1
		}
		if idx := r.bits / 8; idx < FrameSize {
			r.scratch[idx] = r.scratch[idx]<<1 | bit
		}
		r.bits++
	}
	r.mu.Unlock()
}

// HasNewFrame reports whether a frame was published since the last call
func (r *Receiver) HasNewFrame() bool {
	return r.available.Swap(false)
}

// AcquireFrame takes exclusive access to the published frame. The returned
// frame stays unchanged until ReleaseFrame; frames completed in the meantime
// are held back.
func (r *Receiver) AcquireFrame() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exclusive = true
	return &r.published
}

// ReleaseFrame ends exclusive access. A frame that completed while access was
// held is published now.
func (r *Receiver) ReleaseFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exclusive = false
	if r.pending {
		r.publish()
		debugln("pending frame published on release")
	}
}

// RequestTransmission asks the remote module to transmit by driving ENA high
// for the configured pulse width. It blocks for the pulse and does nothing
// unless the receiver is idle.
func (r *Receiver) RequestTransmission() error {
	r.mu.Lock()
	if r.phase != PhaseIdle {
		phase := r.phase
		r.mu.Unlock()
		r.stats.requestsIgnored.Add(1)
		debugf("transmission request ignored while %s", phase)
		return nil
	}
	r.phase = PhaseRequesting
	r.bus.DisarmEnable()
	r.mu.Unlock()

	err := r.pulseEnable()

	r.mu.Lock()
	// Begin or End may have run during the pulse
	if r.phase == PhaseRequesting {
		r.waitForEnable()
	}
	r.mu.Unlock()
	return err
}

func (r *Receiver) pulseEnable() error {
	if err := r.bus.SetMode(LineEnable, ModeOutputHigh); err != nil {
		return multierr.Append(
			NewPinError("request", LineEnable, ModeOutputHigh, err),
			r.releaseEnable(),
		)
	}
	r.stats.requests.Add(1)
	debugf("requesting transmission, ENA high for %s", r.config.PulseWidth)
	r.config.Clock.Sleep(r.config.PulseWidth)
	return r.releaseEnable()
}

func (r *Receiver) releaseEnable() error {
	if err := r.bus.SetMode(LineEnable, ModeInput); err != nil {
		return NewPinError("request", LineEnable, ModeInput, err)
	}
	return nil
}

// waitForEnable returns to idle. Callers hold mu.
func (r *Receiver) waitForEnable() {
	r.phase = PhaseIdle
	r.bus.ArmEnable(EdgeRising)
}

// startTransmission resets the bit counter and arms CLK. Callers hold mu.
func (r *Receiver) startTransmission() {
	r.bits = 0
	if r.pending {
		// The scratch frame is about to be overwritten
		r.pending = false
		r.stats.framesDropped.Add(1)
		debugln("pending frame dropped by new transmission")
	}
	r.phase = PhaseReceiving
	r.stats.transmissions.Add(1)
	r.bus.ArmClock(EdgeRising)
	r.bus.ArmEnable(EdgeFalling)
}

// finishTransmission disarms both lines, completes the frame if anything was
// clocked in, and returns to idle. Callers hold mu.
func (r *Receiver) finishTransmission() {
	r.bus.DisarmEnable()
	r.bus.DisarmClock()

	if r.bits > 0 {
		r.complete()
	} else {
		r.stats.emptyEnables.Add(1)
		debugln("enable window without data")
	}

	r.waitForEnable()
}

// complete validates the scratch frame and hands it off. Callers hold mu.
func (r *Receiver) complete() {
	if r.bits != FrameBits {
		r.stats.lengthErrors.Add(1)
		debugf("frame rejected: received %d bits, want %d", r.bits, FrameBits)
		return
	}
	if !r.scratch.Valid() {
		r.stats.checksumErrors.Add(1)
		debugf("frame rejected: checksum %02X does not match payload", r.scratch.Checksum())
		return
	}

	now := r.config.Clock.Now()
	r.stats.lastFrameAt.Store(&now)
	r.stats.framesAccepted.Add(1)

	if r.exclusive {
		r.pending = true
		debugln("frame held pending while published frame is in use")
		return
	}
	r.publish()
}

// publish copies the scratch frame to the consumer side. Callers hold mu.
func (r *Receiver) publish() {
	r.published = r.scratch
	r.pending = false
	r.available.Store(true)
	r.stats.framesPublished.Add(1)
}

type lineMode struct {
	line Line
	mode PinMode
}

func (r *Receiver) setModes(op string, modes []lineMode) error {
	for _, lm := range modes {
		if err := r.bus.SetMode(lm.line, lm.mode); err != nil {
			return NewPinError(op, lm.line, lm.mode, err)
		}
	}
	return nil
}
