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

package periph

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
	testutil "github.com/ZaparooProject/go-tlbrr/internal/testing"
)

type testPins struct {
	ena *gpiotest.Pin
	clk *gpiotest.Pin
	dat *gpiotest.Pin
}

func newTestBus(t *testing.T) (*Bus, testPins) {
	t.Helper()
	pins := testPins{
		ena: &gpiotest.Pin{N: "ENA", Num: 17, EdgesChan: make(chan gpio.Level)},
		clk: &gpiotest.Pin{N: "CLK", Num: 27, EdgesChan: make(chan gpio.Level)},
		dat: &gpiotest.Pin{N: "DAT", Num: 22},
	}
	cfg := DefaultConfig()
	cfg.EdgeTimeout = 10 * time.Millisecond
	bus := NewWithPins(pins.ena, pins.clk, pins.dat, cfg)
	t.Cleanup(func() { _ = bus.Close() })
	return bus, pins
}

type recordingHandler struct {
	enable []tlbrr.Edge
	clock  []tlbrr.Edge
	mu     sync.Mutex
}

func (h *recordingHandler) HandleEnableEdge(edge tlbrr.Edge) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enable = append(h.enable, edge)
}

func (h *recordingHandler) HandleClockEdge(edge tlbrr.Edge) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clock = append(h.clock, edge)
}

func (h *recordingHandler) clockEdges() []tlbrr.Edge {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]tlbrr.Edge(nil), h.clock...)
}

// pinWire drives gpiotest pins for a virtual remote. Every edge is followed
// by a sync point so the watcher has handled it before the next level change.
type pinWire struct {
	t    *testing.T
	rx   *tlbrr.Receiver
	pins testPins
}

func (w *pinWire) SetEnable(high bool) {
	want := tlbrr.PhaseIdle
	if high {
		want = tlbrr.PhaseReceiving
	}
	w.pins.ena.EdgesChan <- gpio.Level(high)
	require.Eventually(w.t, func() bool { return w.rx.Phase() == want }, time.Second, time.Millisecond)
}

func (w *pinWire) SetClock(high bool) {
	// The watcher takes the next level only after it handled the previous one
	w.pins.clk.EdgesChan <- gpio.Level(high)
}

func (w *pinWire) SetData(high bool) {
	require.NoError(w.t, w.pins.dat.Out(gpio.Level(high)))
}

func TestNewWithPins(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "X"}
	bus := NewWithPins(pin, pin, pin, &Config{})
	assert.Equal(t, defaultEdgeTimeout, bus.timeout)

	bus = NewWithPins(pin, pin, pin, nil)
	assert.Equal(t, defaultEdgeTimeout, bus.timeout)
}

func TestBus_SetMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      tlbrr.Line
		mode      tlbrr.PinMode
		wantPull  gpio.Pull
		wantLevel bool
	}{
		{name: "Enable_Input", line: tlbrr.LineEnable, mode: tlbrr.ModeInput, wantPull: gpio.Float},
		{name: "Clock_PullUp", line: tlbrr.LineClock, mode: tlbrr.ModeInputPullUp, wantPull: gpio.PullUp, wantLevel: true},
		{name: "Data_PullUp", line: tlbrr.LineData, mode: tlbrr.ModeInputPullUp, wantPull: gpio.PullUp, wantLevel: true},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bus, pins := newTestBus(t)
			require.NoError(t, bus.SetMode(tt.line, tt.mode))

			pin := []*gpiotest.Pin{pins.ena, pins.clk, pins.dat}[tt.line]
			assert.Equal(t, tt.wantPull, pin.Pull())
			assert.Equal(t, tt.wantLevel, bus.Level(tt.line))
		})
	}
}

func TestBus_SetModeOutputHigh(t *testing.T) {
	t.Parallel()

	bus, pins := newTestBus(t)
	require.NoError(t, bus.SetMode(tlbrr.LineEnable, tlbrr.ModeInput))
	assert.True(t, bus.listening[tlbrr.LineEnable].Load())

	require.NoError(t, bus.SetMode(tlbrr.LineEnable, tlbrr.ModeOutputHigh))
	assert.Equal(t, gpio.High, pins.ena.Read())
	assert.True(t, bus.Level(tlbrr.LineEnable))
	assert.False(t, bus.listening[tlbrr.LineEnable].Load())

	require.NoError(t, bus.SetMode(tlbrr.LineEnable, tlbrr.ModeInput))
	assert.True(t, bus.listening[tlbrr.LineEnable].Load())
}

func TestBus_SetModeErrors(t *testing.T) {
	t.Parallel()

	t.Run("Unsupported_Mode", func(t *testing.T) {
		t.Parallel()
		bus, _ := newTestBus(t)
		err := bus.SetMode(tlbrr.LineData, tlbrr.PinMode(99))
		require.ErrorIs(t, err, ErrUnsupportedMode)
	})

	t.Run("Unknown_Line", func(t *testing.T) {
		t.Parallel()
		bus, _ := newTestBus(t)
		err := bus.SetMode(tlbrr.Line(7), tlbrr.ModeInput)
		require.ErrorIs(t, err, ErrPinNotFound)
		assert.False(t, bus.Level(tlbrr.Line(7)))
	})

	t.Run("Edge_Not_Supported", func(t *testing.T) {
		t.Parallel()
		// gpiotest refuses edge detection without an edge channel
		pin := &gpiotest.Pin{N: "NOEDGE"}
		bus := NewWithPins(pin, pin, pin, nil)
		err := bus.SetMode(tlbrr.LineEnable, tlbrr.ModeInput)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NOEDGE")
		assert.False(t, bus.listening[tlbrr.LineEnable].Load())
	})
}

func TestBus_EdgeFilter(t *testing.T) {
	t.Parallel()

	bus, pins := newTestBus(t)
	handler := &recordingHandler{}
	bus.Attach(handler)
	require.NoError(t, bus.SetMode(tlbrr.LineClock, tlbrr.ModeInputPullUp))

	bus.ArmClock(tlbrr.EdgeRising)
	pins.clk.EdgesChan <- gpio.High
	pins.clk.EdgesChan <- gpio.Low
	pins.clk.EdgesChan <- gpio.High
	// The falling edge is not armed, the second rising edge is
	bus.DisarmClock()
	pins.clk.EdgesChan <- gpio.Low
	pins.clk.EdgesChan <- gpio.High
	pins.clk.EdgesChan <- gpio.Low

	assert.Equal(t, []tlbrr.Edge{tlbrr.EdgeRising, tlbrr.EdgeRising}, handler.clockEdges())
	assert.Empty(t, handler.enable)
}

func TestBus_ArmDisarm(t *testing.T) {
	t.Parallel()

	bus, _ := newTestBus(t)
	bus.ArmEnable(tlbrr.EdgeFalling)
	bus.ArmClock(tlbrr.EdgeRising)
	assert.Equal(t, int32(tlbrr.EdgeFalling), bus.armed[tlbrr.LineEnable].Load())
	assert.Equal(t, int32(tlbrr.EdgeRising), bus.armed[tlbrr.LineClock].Load())

	bus.DisarmEnable()
	bus.DisarmClock()
	assert.Equal(t, int32(tlbrr.EdgeNone), bus.armed[tlbrr.LineEnable].Load())
	assert.Equal(t, int32(tlbrr.EdgeNone), bus.armed[tlbrr.LineClock].Load())
}

func TestBus_ReceivesFrame(t *testing.T) {
	t.Parallel()

	bus, pins := newTestBus(t)
	rx, err := tlbrr.New(bus)
	require.NoError(t, err)
	require.NoError(t, rx.Begin())

	remote := testutil.NewVirtualRemote(&pinWire{t: t, rx: rx, pins: pins})
	for _, data := range [][]byte{testutil.AlternatingFrame(), testutil.CountingFrame(0x10)} {
		remote.Send(data)
		require.True(t, rx.HasNewFrame())
		frame := rx.AcquireFrame()
		assert.Equal(t, data, frame[:])
		rx.ReleaseFrame()
	}

	stats := rx.Stats()
	assert.Equal(t, int64(2), stats.FramesAccepted)
	assert.Equal(t, int64(0), stats.LengthErrors)
	require.NoError(t, rx.End())
}

func TestBus_RequestPulse(t *testing.T) {
	t.Parallel()

	bus, pins := newTestBus(t)
	rx, err := tlbrr.New(bus, tlbrr.WithPulseWidth(time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, rx.Begin())

	require.NoError(t, rx.RequestTransmission())
	assert.Equal(t, tlbrr.PhaseIdle, rx.Phase())
	assert.Equal(t, gpio.Float, pins.ena.Pull())
	assert.True(t, bus.listening[tlbrr.LineEnable].Load())
	assert.Equal(t, int64(1), rx.Stats().Requests)
}

func TestBus_Close(t *testing.T) {
	t.Parallel()

	bus, _ := newTestBus(t)
	bus.Attach(&recordingHandler{})

	done := make(chan error, 1)
	go func() { done <- bus.Close() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close did not stop the watchers")
	}

	// Second close is a no-op
	require.NoError(t, bus.Close())
}
