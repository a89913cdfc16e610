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
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// ErrInvalidConfig is returned for unusable monitor settings
var ErrInvalidConfig = errors.New("invalid monitor configuration")

// Config holds configuration for a Monitor
type Config struct {
	// Clock drives the poll and request tickers and the link timer
	Clock clock.Clock
	// PollInterval is how often the receiver is checked for a new frame
	PollInterval time.Duration
	// RequestInterval enables request mode when positive: the monitor asks
	// the remote module for a transmission this often
	RequestInterval time.Duration
	// LinkTimeout is how long the link stays active without a frame. Zero
	// disables link loss detection.
	LinkTimeout time.Duration
}

// DefaultConfig returns sensible default monitor settings
func DefaultConfig() *Config {
	return &Config{
		Clock:        clock.New(),
		PollInterval: 10 * time.Millisecond,
		LinkTimeout:  2 * time.Second,
	}
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if c.Clock == nil {
		return fmt.Errorf("%w: clock cannot be nil", ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive, got %s", ErrInvalidConfig, c.PollInterval)
	}
	if c.RequestInterval < 0 {
		return fmt.Errorf("%w: request interval cannot be negative, got %s", ErrInvalidConfig, c.RequestInterval)
	}
	if c.LinkTimeout < 0 {
		return fmt.Errorf("%w: link timeout cannot be negative, got %s", ErrInvalidConfig, c.LinkTimeout)
	}
	return nil
}
