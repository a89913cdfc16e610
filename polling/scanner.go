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

	tlbrr "github.com/ZaparooProject/go-tlbrr"
)

// Scanner runs a Monitor in the background. It is the non-blocking way to
// consume frames: Start returns immediately and Stop waits for the loop to
// finish.
type Scanner struct {
	source      FrameSource
	config      *Config
	monitor     atomic.Pointer[Monitor]
	cancelFunc  context.CancelFunc
	done        chan struct{}
	OnFrame     func(frame tlbrr.Frame) error
	OnLinkUp    func()
	OnLinkLost  func()
	stopMutex   sync.Mutex
	running     atomic.Bool
	lastMetrics atomic.Pointer[MonitorMetrics]
}

// Scanner-specific errors
var (
	ErrScannerRunning    = errors.New("scanner is already running")
	ErrScannerNotRunning = errors.New("scanner is not running")
)

// NewScanner creates a new scanner for the given frame source
func NewScanner(source FrameSource, config *Config) (*Scanner, error) {
	if source == nil {
		return nil, errors.New("frame source cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Scanner{
		source: source,
		config: config,
	}, nil
}

// Start begins continuous scanning (non-blocking)
func (s *Scanner) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrScannerRunning
	}

	monitor, err := NewMonitor(s.source, s.config)
	if err != nil {
		s.running.Store(false)
		return err
	}
	monitor.OnFrame = s.OnFrame
	monitor.OnLinkUp = s.OnLinkUp
	monitor.OnLinkLost = s.OnLinkLost
	s.monitor.Store(monitor)

	scanCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.stopMutex.Lock()
	s.cancelFunc = cancel
	s.done = done
	s.stopMutex.Unlock()

	go func() {
		defer func() {
			_ = monitor.Close()
			metrics := monitor.GetMetrics()
			s.lastMetrics.Store(&metrics)
			s.running.Store(false)
			close(done)
		}()
		_ = monitor.Start(scanCtx)
	}()

	return nil
}

// Stop cancels the scan and blocks until the monitor loop has returned
func (s *Scanner) Stop() error {
	s.stopMutex.Lock()
	cancel := s.cancelFunc
	done := s.done
	s.cancelFunc = nil
	s.stopMutex.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// IsRunning returns whether the scanner is currently active
func (s *Scanner) IsRunning() bool {
	return s.running.Load()
}

// Request asks the remote module for a transmission on the next loop turn
func (s *Scanner) Request() error {
	monitor := s.monitor.Load()
	if !s.running.Load() || monitor == nil {
		return ErrScannerNotRunning
	}
	return monitor.Request()
}

// LinkState returns the link state of the running monitor, or LinkIdle
func (s *Scanner) LinkState() LinkState {
	if monitor := s.monitor.Load(); monitor != nil && s.running.Load() {
		return monitor.GetState()
	}
	return LinkIdle
}

// Metrics returns the metrics of the running monitor, or of the last run
// after Stop
func (s *Scanner) Metrics() MonitorMetrics {
	if monitor := s.monitor.Load(); monitor != nil && s.running.Load() {
		return monitor.GetMetrics()
	}
	if metrics := s.lastMetrics.Load(); metrics != nil {
		return *metrics
	}
	return MonitorMetrics{}
}
