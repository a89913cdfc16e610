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
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
	"github.com/ZaparooProject/go-tlbrr/forward"
	"github.com/ZaparooProject/go-tlbrr/forward/mqtt"
	"github.com/ZaparooProject/go-tlbrr/forward/uart"
	"github.com/ZaparooProject/go-tlbrr/polling"
	"github.com/ZaparooProject/go-tlbrr/transport/periph"
)

type config struct {
	enaPin          *string
	clkPin          *string
	datPin          *string
	serialPort      *string
	mqttURL         *string
	pollInterval    *time.Duration
	requestInterval *time.Duration
	linkTimeout     *time.Duration
	duration        *time.Duration
	pulseWidth      *time.Duration
	baudRate        *int
	debug           *bool
	lockMemory      *bool
	listPorts       *bool
	noColor         *bool
}

func parseFlags() *config {
	cfg := newConfig(flag.CommandLine)
	flag.Parse()

	// Enable debug output if --debug flag is set
	if *cfg.debug {
		tlbrr.SetDebugEnabled(true)
	}

	return cfg
}

// newConfig registers the command line flags on fs
func newConfig(fs *flag.FlagSet) *config {
	defaults := periph.DefaultConfig()
	cfg := &config{
		enaPin: fs.String("ena", defaults.EnablePin, "GPIO pin name for ENA"),
		clkPin: fs.String("clk", defaults.ClockPin, "GPIO pin name for CLK"),
		datPin: fs.String("dat", defaults.DataPin, "GPIO pin name for DAT"),
		serialPort: fs.String("serial", "",
			"Forward frames to this serial port (e.g., /dev/ttyUSB0). Leave empty to disable."),
		mqttURL: fs.String("mqtt", "",
			"Publish frames to this broker (e.g., mqtt://localhost:1883/remote). Leave empty to disable."),
		pollInterval: fs.Duration("poll-interval", 10*time.Millisecond, "How often to check for a new frame"),
		requestInterval: fs.Duration("request-interval", 0,
			"Ask the remote module to transmit this often (0 disables request mode)"),
		linkTimeout: fs.Duration("link-timeout", 2*time.Second, "Report the link as lost after this much silence"),
		duration:    fs.Duration("duration", 0, "Stop after this long (0 runs until interrupted)"),
		pulseWidth:  fs.Duration("pulse-width", tlbrr.DefaultConfig().PulseWidth, "Width of the request pulse on ENA"),
		baudRate:    fs.Int("baud", uart.DefaultConfig().BaudRate, "Baud rate for -serial"),
		debug:       fs.Bool("debug", false, "Enable debug output"),
		lockMemory:  fs.Bool("mlock", false, "Lock process memory to reduce edge latency (Linux only)"),
		listPorts:   fs.Bool("list-ports", false, "List serial ports and exit"),
		noColor:     fs.Bool("no-color", false, "Disable colored output"),
	}
	return cfg
}

func openBus(cfg *config) (*periph.Bus, error) {
	busConfig := periph.DefaultConfig()
	busConfig.EnablePin = *cfg.enaPin
	busConfig.ClockPin = *cfg.clkPin
	busConfig.DataPin = *cfg.datPin
	busConfig.LockMemory = *cfg.lockMemory

	bus, err := periph.Open(busConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPIO bus: %w", err)
	}
	return bus, nil
}

func openForwarders(cfg *config) (*forward.Multi, error) {
	var forwarders []forward.Forwarder

	if *cfg.serialPort != "" {
		fwd, err := uart.Open(&uart.Config{Port: *cfg.serialPort, BaudRate: *cfg.baudRate})
		if err != nil {
			return nil, err
		}
		forwarders = append(forwarders, fwd)
	}

	if *cfg.mqttURL != "" {
		mqttConfig := mqtt.DefaultConfig()
		mqttConfig.BrokerURL = *cfg.mqttURL
		fwd, err := mqtt.Dial(mqttConfig)
		if err != nil {
			_ = forward.NewMulti(forwarders...).Close()
			return nil, err
		}
		forwarders = append(forwarders, fwd)
	}

	return forward.NewMulti(forwarders...), nil
}

func newScanner(rx *tlbrr.Receiver, cfg *config, out *printer, sink forward.Forwarder) (*polling.Scanner, error) {
	scanConfig := polling.DefaultConfig()
	scanConfig.PollInterval = *cfg.pollInterval
	scanConfig.RequestInterval = *cfg.requestInterval
	scanConfig.LinkTimeout = *cfg.linkTimeout

	scanner, err := polling.NewScanner(rx, scanConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	scanner.OnFrame = func(frame tlbrr.Frame) error {
		out.frame(time.Now(), frame)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := sink.Forward(ctx, frame); err != nil {
			out.warn("forward failed: %v", err)
			return err
		}
		return nil
	}
	scanner.OnLinkUp = func() { out.info("link up") }
	scanner.OnLinkLost = func() { out.warn("link lost: no frame for %s", *cfg.linkTimeout) }
	return scanner, nil
}

func run(ctx context.Context, cfg *config, out *printer) error {
	bus, err := openBus(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	rx, err := tlbrr.New(bus, tlbrr.WithPulseWidth(*cfg.pulseWidth))
	if err != nil {
		return fmt.Errorf("failed to create receiver: %w", err)
	}
	if err := rx.Begin(); err != nil {
		return fmt.Errorf("failed to start receiver: %w", err)
	}
	defer func() { _ = rx.End() }()

	sink, err := openForwarders(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	scanner, err := newScanner(rx, cfg, out, sink)
	if err != nil {
		return err
	}

	out.info("listening on ENA=%s CLK=%s DAT=%s, %d forwarder(s)", *cfg.enaPin, *cfg.clkPin, *cfg.datPin, sink.Len())
	if err := scanner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scanner: %w", err)
	}

	<-ctx.Done()
	_ = scanner.Stop()

	out.stats(rx.Stats(), scanner.Metrics())
	return nil
}

func listSerialPorts(out *printer) error {
	ports, err := uart.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		out.info("no serial ports found")
		return nil
	}
	for _, port := range ports {
		_, _ = fmt.Fprintln(out.w, port)
	}
	return nil
}

func main() {
	cfg := parseFlags()
	out := newPrinter(os.Stdout, !*cfg.noColor)

	if *cfg.listPorts {
		if err := listSerialPorts(out); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to list serial ports: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *cfg.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *cfg.duration)
		defer cancel()
	}

	if err := run(ctx, cfg, out); err != nil && !errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		stop()
		os.Exit(1)
	}
}
