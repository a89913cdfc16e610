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

package polling

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
)

// ErrRequestPending is returned when a queued request has not been sent yet
var ErrRequestPending = errors.New("transmission request already pending")

// FrameSource is the consumer side of a receiver
type FrameSource interface {
	HasNewFrame() bool
	AcquireFrame() *tlbrr.Frame
	ReleaseFrame()
	RequestTransmission() error
}

// MonitorMetrics tracks operational metrics for a Monitor
type MonitorMetrics struct {
	PollCycles      int64 // Total number of poll ticks
	FramesDelivered int64 // Frames handed to OnFrame
	CallbackErrors  int64 // OnFrame calls that returned an error
	Requests        int64 // Transmission requests attempted; see tlbrr.Stats for pulses driven
	RequestErrors   int64 // Requests that failed to drive ENA
	LinkLosses      int64 // Times the link went from active to lost
}

// Monitor polls a receiver for frames, optionally requests transmissions,
// and tracks whether the link is alive.
type Monitor struct {
	source     FrameSource
	config     *Config
	OnFrame    func(frame tlbrr.Frame) error
	OnLinkUp   func()
	OnLinkLost func()
	requests   chan struct{}
	status     LinkStatus
	timerGen   uint64
	mu         sync.Mutex

	pollCycles      atomic.Int64
	framesDelivered atomic.Int64
	callbackErrors  atomic.Int64
	requestsTried   atomic.Int64
	requestErrors   atomic.Int64
	linkLosses      atomic.Int64
}

// NewMonitor creates a new frame monitor
func NewMonitor(source FrameSource, config *Config) (*Monitor, error) {
	if source == nil {
		return nil, errors.New("frame source cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Monitor{
		source:   source,
		config:   config,
		requests: make(chan struct{}, 1),
	}, nil
}

// Start runs the monitor loop until ctx is cancelled. Frames are delivered on
// this goroutine.
func (m *Monitor) Start(ctx context.Context) error {
	poll := m.config.Clock.Ticker(m.config.PollInterval)
	defer poll.Stop()

	var requestC <-chan time.Time
	if m.config.RequestInterval > 0 {
		request := m.config.Clock.Ticker(m.config.RequestInterval)
		defer request.Stop()
		requestC = request.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-poll.C:
			m.pollOnce()
		case <-requestC:
			m.requestOnce()
		case <-m.requests:
			m.requestOnce()
		}
	}
}

// Request queues a one-shot transmission request. It is sent from the
// monitor goroutine, which owns the receiver's consumer side.
func (m *Monitor) Request() error {
	select {
	case m.requests <- struct{}{}:
		return nil
	default:
		return ErrRequestPending
	}
}

// GetState returns the current link state
func (m *Monitor) GetState() LinkState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.State
}

// GetStatus returns a copy of the link status
func (m *Monitor) GetStatus() LinkStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := m.status
	status.LostTimer = nil
	return status
}

// GetMetrics returns current operational metrics
func (m *Monitor) GetMetrics() MonitorMetrics {
	return MonitorMetrics{
		PollCycles:      m.pollCycles.Load(),
		FramesDelivered: m.framesDelivered.Load(),
		CallbackErrors:  m.callbackErrors.Load(),
		Requests:        m.requestsTried.Load(),
		RequestErrors:   m.requestErrors.Load(),
		LinkLosses:      m.linkLosses.Load(),
	}
}

// Close stops the link timer and resets the link state
func (m *Monitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.TransitionToIdle()
	return nil
}

// pollOnce copies out a new frame, if any, and delivers it. The frame is
// released before OnFrame runs so a slow callback never holds frames back.
func (m *Monitor) pollOnce() {
	m.pollCycles.Add(1)
	if !m.source.HasNewFrame() {
		return
	}

	frame := *m.source.AcquireFrame()
	m.source.ReleaseFrame()

	m.markActive(frame)

	m.framesDelivered.Add(1)
	if m.OnFrame != nil {
		if err := m.OnFrame(frame); err != nil {
			m.callbackErrors.Add(1)
		}
	}
}

// requestOnce counts every attempt. A busy receiver drops the request without
// an error, so the pulses actually driven are only visible in its Stats.
func (m *Monitor) requestOnce() {
	m.requestsTried.Add(1)
	if err := m.source.RequestTransmission(); err != nil {
		m.requestErrors.Add(1)
	}
}

// markActive moves the link to active and restarts the link timer
func (m *Monitor) markActive(frame tlbrr.Frame) {
	m.mu.Lock()
	wasActive := m.status.State == LinkActive
	m.timerGen++
	gen := m.timerGen
	m.status.TransitionToActive(m.config.Clock, frame, m.config.LinkTimeout, func() {
		m.handleLinkLost(gen)
	})
	m.mu.Unlock()

	if !wasActive && m.OnLinkUp != nil {
		m.OnLinkUp()
	}
}

// handleLinkLost runs when the link timer fires. A timer that was replaced
// by a newer frame after it fired is ignored.
func (m *Monitor) handleLinkLost(gen uint64) {
	m.mu.Lock()
	if m.status.State != LinkActive || gen != m.timerGen {
		m.mu.Unlock()
		return
	}
	m.status.TransitionToLost()
	m.mu.Unlock()

	m.linkLosses.Add(1)
	if m.OnLinkLost != nil {
		m.OnLinkLost()
	}
}
