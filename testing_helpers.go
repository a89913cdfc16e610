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
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ModeChange records one SetMode call on a MockBus
type ModeChange struct {
	At   time.Time
	Line Line
	Mode PinMode
}

// MockBus is an in-memory bus for testing. Levels are driven with SetEnable,
// SetClock and SetData; an edge on ENA or CLK is delivered synchronously to the
// attached handler only when that edge is armed, like a hardware interrupt.
type MockBus struct {
	clock    clock.Clock
	handler  EdgeHandler
	modeErrs map[Line]error
	levels   map[Line]bool
	modes    map[Line]PinMode
	calls    []string
	history  []ModeChange
	armedENA Edge
	armedCLK Edge
	mu       sync.Mutex
}

// NewMockBus creates a mock bus with all lines low and configured as inputs
func NewMockBus() *MockBus {
	return &MockBus{
		clock:    clock.New(),
		modeErrs: make(map[Line]error),
		levels:   make(map[Line]bool),
		modes:    make(map[Line]PinMode),
	}
}

// NewMockBusWithClock creates a mock bus that timestamps mode changes with clk
func NewMockBusWithClock(clk clock.Clock) *MockBus {
	bus := NewMockBus()
	bus.clock = clk
	return bus
}

// Attach implements EdgeSource
func (m *MockBus) Attach(handler EdgeHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
}

// ArmEnable implements Interrupts
func (m *MockBus) ArmEnable(edge Edge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armedENA = edge
	m.calls = append(m.calls, fmt.Sprintf("arm ENA %s", edge))
}

// DisarmEnable implements Interrupts
func (m *MockBus) DisarmEnable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armedENA = EdgeNone
	m.calls = append(m.calls, "disarm ENA")
}

// ArmClock implements Interrupts
func (m *MockBus) ArmClock(edge Edge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armedCLK = edge
	m.calls = append(m.calls, fmt.Sprintf("arm CLK %s", edge))
}

// DisarmClock implements Interrupts
func (m *MockBus) DisarmClock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armedCLK = EdgeNone
	m.calls = append(m.calls, "disarm CLK")
}

// SetMode implements Bus. Errors configured with SetModeError are returned
// without changing the mode.
func (m *MockBus) SetMode(line Line, mode PinMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.modeErrs[line]; err != nil {
		return err
	}
	m.modes[line] = mode
	m.history = append(m.history, ModeChange{Line: line, Mode: mode, At: m.clock.Now()})
	return nil
}

// Level implements Bus. A line driven as output always reads high.
func (m *MockBus) Level(line Line) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modes[line] == ModeOutputHigh {
		return true
	}
	return m.levels[line]
}

// SetModeError makes every SetMode call for line fail with err. A nil error
// clears it.
func (m *MockBus) SetModeError(line Line, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.modeErrs, line)
		return
	}
	m.modeErrs[line] = err
}

// SetEnable drives ENA from the remote side
func (m *MockBus) SetEnable(high bool) {
	m.drive(LineEnable, high)
}

// SetClock drives CLK from the remote side
func (m *MockBus) SetClock(high bool) {
	m.drive(LineClock, high)
}

// SetData drives DAT from the remote side
func (m *MockBus) SetData(high bool) {
	m.drive(LineData, high)
}

// Armed returns the edge currently armed on ENA or CLK
func (m *MockBus) Armed(line Line) Edge {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch line {
	case LineEnable:
		return m.armedENA
	case LineClock:
		return m.armedCLK
	default:
		return EdgeNone
	}
}

// Mode returns the last mode set on a line
func (m *MockBus) Mode(line Line) PinMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modes[line]
}

// Calls returns the arm and disarm calls in order
func (m *MockBus) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// ModeHistory returns every successful SetMode call in order
func (m *MockBus) ModeHistory() []ModeChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ModeChange(nil), m.history...)
}

// Reset clears the recorded calls and mode history
func (m *MockBus) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.history = nil
}

// drive changes a level and, outside the lock, fires the armed interrupt
func (m *MockBus) drive(line Line, high bool) {
	m.mu.Lock()
	prev := m.levels[line]
	m.levels[line] = high
	handler := m.handler
	var armed Edge
	switch line {
	case LineEnable:
		armed = m.armedENA
	case LineClock:
		armed = m.armedCLK
	case LineData:
	}
	m.mu.Unlock()

	if prev == high || handler == nil || armed == EdgeNone {
		return
	}
	edge := EdgeFalling
	if high {
		edge = EdgeRising
	}
	if edge != armed {
		return
	}

	switch line {
	case LineEnable:
		handler.HandleEnableEdge(edge)
	case LineClock:
		handler.HandleClockEdge(edge)
	case LineData:
	}
}
