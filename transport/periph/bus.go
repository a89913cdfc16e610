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

// Package periph provides a GPIO bus for the receiver on top of periph.io
package periph

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const (
	// How long a watcher sleeps when its line is not listening for edges.
	idleInterval = time.Millisecond

	defaultEdgeTimeout = 100 * time.Millisecond
)

var (
	// ErrPinNotFound is returned when a pin name is unknown to periph.
	ErrPinNotFound = errors.New("gpio pin not found")
	// ErrUnsupportedMode is returned for a pin mode the bus cannot apply.
	ErrUnsupportedMode = errors.New("unsupported pin mode")
	// ErrMemoryLockUnsupported is returned when LockMemory is set on a
	// platform without mlockall.
	ErrMemoryLockUnsupported = errors.New("memory locking not supported on this platform")
)

// Config selects the pins and watcher behaviour of a Bus
type Config struct {
	// Pin names as known to gpioreg, e.g. "GPIO17"
	EnablePin string
	ClockPin  string
	DataPin   string
	// EdgeTimeout bounds each WaitForEdge call so Close can stop the
	// watchers. It is also the worst case Close latency.
	EdgeTimeout time.Duration
	// LockMemory locks the process memory to keep page faults out of the
	// edge path.
	LockMemory bool
}

// DefaultConfig returns the wiring used on a Raspberry Pi header
func DefaultConfig() *Config {
	return &Config{
		EnablePin:   "GPIO17",
		ClockPin:    "GPIO27",
		DataPin:     "GPIO22",
		EdgeTimeout: defaultEdgeTimeout,
	}
}

type handlerRef struct {
	h tlbrr.EdgeHandler
}

// Bus implements tlbrr.Bus and tlbrr.EdgeSource on three periph GPIO pins.
//
// ENA and CLK are configured for both edges and each has a watcher goroutine
// blocked in WaitForEdge. Since periph does not report the edge direction, the
// line level is read right after the edge and compared against the armed
// edge. Userspace edge latency limits the usable clock rate, so the remote
// module must clock slowly enough for the level to still be valid.
type Bus struct {
	handler   atomic.Pointer[handlerRef]
	done      chan struct{}
	pins      [3]gpio.PinIO
	armed     [2]atomic.Int32
	listening [2]atomic.Bool
	wg        sync.WaitGroup
	timeout   time.Duration
	startOnce sync.Once
	closeOnce sync.Once
}

// Open initializes periph and looks up the pins named in cfg
func Open(cfg *Config) (*Bus, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	if cfg.LockMemory {
		if err := lockMemory(); err != nil {
			return nil, fmt.Errorf("failed to lock memory: %w", err)
		}
	}

	names := []string{cfg.EnablePin, cfg.ClockPin, cfg.DataPin}
	pins := make([]gpio.PinIO, 0, len(names))
	for _, name := range names {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
		}
		pins = append(pins, pin)
	}

	return NewWithPins(pins[0], pins[1], pins[2], cfg), nil
}

// NewWithPins creates a bus on already resolved pins. Watchers start when a
// handler is attached.
func NewWithPins(ena, clk, dat gpio.PinIO, cfg *Config) *Bus {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	timeout := cfg.EdgeTimeout
	if timeout <= 0 {
		timeout = defaultEdgeTimeout
	}

	return &Bus{
		pins:    [3]gpio.PinIO{ena, clk, dat},
		done:    make(chan struct{}),
		timeout: timeout,
	}
}

// Attach implements tlbrr.EdgeSource
func (b *Bus) Attach(handler tlbrr.EdgeHandler) {
	b.handler.Store(&handlerRef{h: handler})
	b.startOnce.Do(func() {
		for _, line := range []tlbrr.Line{tlbrr.LineEnable, tlbrr.LineClock} {
			b.wg.Add(1)
			go b.watch(line)
		}
	})
}

// ArmEnable implements tlbrr.Interrupts
func (b *Bus) ArmEnable(edge tlbrr.Edge) {
	b.armed[tlbrr.LineEnable].Store(int32(edge))
}

// DisarmEnable implements tlbrr.Interrupts
func (b *Bus) DisarmEnable() {
	b.armed[tlbrr.LineEnable].Store(int32(tlbrr.EdgeNone))
}

// ArmClock implements tlbrr.Interrupts
func (b *Bus) ArmClock(edge tlbrr.Edge) {
	b.armed[tlbrr.LineClock].Store(int32(edge))
}

// DisarmClock implements tlbrr.Interrupts
func (b *Bus) DisarmClock() {
	b.armed[tlbrr.LineClock].Store(int32(tlbrr.EdgeNone))
}

// SetMode implements tlbrr.Bus
func (b *Bus) SetMode(line tlbrr.Line, mode tlbrr.PinMode) error {
	pin, err := b.pin(line)
	if err != nil {
		return err
	}

	switch mode {
	case tlbrr.ModeInput:
		err = pin.In(gpio.Float, edgesFor(line))
	case tlbrr.ModeInputPullUp:
		err = pin.In(gpio.PullUp, edgesFor(line))
	case tlbrr.ModeOutputHigh:
		b.setListening(line, false)
		err = pin.Out(gpio.High)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", pin.Name(), err)
	}

	if mode != tlbrr.ModeOutputHigh {
		b.setListening(line, true)
	}
	return nil
}

// Level implements tlbrr.Bus
func (b *Bus) Level(line tlbrr.Line) bool {
	pin, err := b.pin(line)
	if err != nil {
		return false
	}
	return pin.Read() == gpio.High
}

// Close stops the watchers and halts the pins
func (b *Bus) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		b.wg.Wait()
		for _, pin := range b.pins {
			if pin == nil {
				continue
			}
			if haltErr := pin.Halt(); haltErr != nil {
				err = multierr.Append(err, fmt.Errorf("halt %s: %w", pin.Name(), haltErr))
			}
		}
	})
	return err
}

func (b *Bus) pin(line tlbrr.Line) (gpio.PinIO, error) {
	if line > tlbrr.LineData || b.pins[line] == nil {
		return nil, fmt.Errorf("%w: no pin for %s", ErrPinNotFound, line)
	}
	return b.pins[line], nil
}

func (b *Bus) setListening(line tlbrr.Line, on bool) {
	if line == tlbrr.LineData {
		return
	}
	b.listening[line].Store(on)
}

// watch runs one edge loop for ENA or CLK until Close
func (b *Bus) watch(line tlbrr.Line) {
	defer b.wg.Done()
	pin := b.pins[line]

	for {
		select {
		case <-b.done:
			return
		default:
		}

		if pin == nil || !b.listening[line].Load() {
			select {
			case <-b.done:
				return
			case <-time.After(idleInterval):
			}
			continue
		}

		if !pin.WaitForEdge(b.timeout) {
			continue
		}
		b.deliver(line, pin.Read())
	}
}

// deliver passes an edge to the handler when it matches the armed edge
func (b *Bus) deliver(line tlbrr.Line, level gpio.Level) {
	edge := tlbrr.EdgeFalling
	if level == gpio.High {
		edge = tlbrr.EdgeRising
	}
	if tlbrr.Edge(b.armed[line].Load()) != edge {
		return
	}

	ref := b.handler.Load()
	if ref == nil || ref.h == nil {
		return
	}
	switch line {
	case tlbrr.LineEnable:
		ref.h.HandleEnableEdge(edge)
	case tlbrr.LineClock:
		ref.h.HandleClockEdge(edge)
	case tlbrr.LineData:
	}
}

func edgesFor(line tlbrr.Line) gpio.Edge {
	if line == tlbrr.LineData {
		return gpio.NoEdge
	}
	return gpio.BothEdges
}
