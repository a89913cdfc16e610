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

// Package uart forwards frames over a serial port.
//
// Each frame is written as two sync bytes (0xA5 0x5A) followed by the 18
// frame bytes, so a reader can find frame boundaries in the byte stream.
package uart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
	"github.com/ZaparooProject/go-tlbrr/internal/frame"
)

// PacketSize is the number of bytes written per frame
const PacketSize = 2 + frame.Size

// ErrNoPort is returned when no serial port name is configured
var ErrNoPort = errors.New("no serial port configured")

// Config selects the serial port
type Config struct {
	Port     string
	BaudRate int
}

// DefaultConfig returns 115200 baud with no port selected
func DefaultConfig() *Config {
	return &Config{BaudRate: 115200}
}

// Forwarder writes frames to a serial port
type Forwarder struct {
	port     io.WriteCloser
	portName string
	mu       sync.Mutex
}

// Open opens the configured serial port in 8N1 mode
func Open(cfg *Config) (*Forwarder, error) {
	if cfg == nil || cfg.Port == "" {
		return nil, ErrNoPort
	}
	baud := cfg.BaudRate
	if baud <= 0 {
		baud = DefaultConfig().BaudRate
	}

	port, err := serial.Open(cfg.Port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}

	f := NewWithPort(port)
	f.portName = cfg.Port
	return f, nil
}

// NewWithPort creates a forwarder on an already open port
func NewWithPort(port io.WriteCloser) *Forwarder {
	return &Forwarder{port: port, portName: "custom"}
}

// ListPorts returns the serial ports present on the system
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

// Forward implements forward.Forwarder
func (f *Forwarder) Forward(ctx context.Context, fr tlbrr.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	packet := Encode(fr)

	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.port.Write(packet[:])
	if err != nil {
		return fmt.Errorf("serial write to %s failed: %w", f.portName, err)
	}
	if n != len(packet) {
		return fmt.Errorf("serial write to %s: %w", f.portName, io.ErrShortWrite)
	}
	return nil
}

// Close implements forward.Forwarder
func (f *Forwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", f.portName, err)
	}
	return nil
}

// Encode returns the serial packet for a frame
func Encode(fr tlbrr.Frame) [PacketSize]byte {
	var packet [PacketSize]byte
	packet[0] = frame.SyncByte1
	packet[1] = frame.SyncByte2
	copy(packet[2:], fr[:])
	return packet
}

// Decode finds the first complete packet in data and returns its frame and
// the number of bytes consumed. Packets whose checksum does not match are
// skipped.
func Decode(data []byte) (tlbrr.Frame, int, bool) {
	for i := 0; i+PacketSize <= len(data); i++ {
		if data[i] != frame.SyncByte1 || data[i+1] != frame.SyncByte2 {
			continue
		}
		body := data[i+2 : i+PacketSize]
		if !frame.ValidateChecksum(body) {
			continue
		}
		var fr tlbrr.Frame
		copy(fr[:], body)
		return fr, i + PacketSize, true
	}
	return tlbrr.Frame{}, 0, false
}
