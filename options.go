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
	"time"

	"github.com/benbjohnson/clock"

	"github.com/ZaparooProject/go-tlbrr/internal/frame"
)

// Config contains configuration options for the Receiver
type Config struct {
	// Clock provides the delay for the request pulse and frame timestamps
	Clock clock.Clock
	// PulseWidth is how long ENA is driven high by RequestTransmission
	PulseWidth time.Duration
}

// DefaultConfig returns default receiver configuration
func DefaultConfig() *Config {
	return &Config{
		Clock:      clock.New(),
		PulseWidth: frame.RequestPulseWidth,
	}
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if c.Clock == nil {
		return fmt.Errorf("%w: clock cannot be nil", ErrInvalidConfig)
	}
	if c.PulseWidth <= 0 {
		return fmt.Errorf("%w: pulse width must be positive, got %s", ErrInvalidConfig, c.PulseWidth)
	}
	return nil
}

// Option is a functional option for configuring a Receiver
type Option func(*Receiver) error

// WithConfig replaces the whole receiver configuration
func WithConfig(config *Config) Option {
	return func(r *Receiver) error {
		if config == nil {
			return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
		}
		cfg := *config
		r.config = &cfg
		return nil
	}
}

// WithClock sets the clock used for the request pulse delay and timestamps
func WithClock(clk clock.Clock) Option {
	return func(r *Receiver) error {
		r.config.Clock = clk
		return nil
	}
}

// WithPulseWidth sets how long ENA is held high when requesting a transmission
func WithPulseWidth(width time.Duration) Option {
	return func(r *Receiver) error {
		r.config.PulseWidth = width
		return nil
	}
}
