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

// Package forward sends received frames on to other systems
package forward

import (
	"context"

	"go.uber.org/multierr"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
)

// Forwarder delivers frames to a sink. Forward is called from a single
// goroutine.
type Forwarder interface {
	Forward(ctx context.Context, frame tlbrr.Frame) error
	Close() error
}

// Multi fans a frame out to several forwarders. A failing forwarder does not
// stop the others; all errors are combined.
type Multi struct {
	forwarders []Forwarder
}

// NewMulti creates a fan-out over the given forwarders. Nil entries are
// skipped.
func NewMulti(forwarders ...Forwarder) *Multi {
	m := &Multi{}
	for _, f := range forwarders {
		if f != nil {
			m.forwarders = append(m.forwarders, f)
		}
	}
	return m
}

// Len returns the number of forwarders
func (m *Multi) Len() int {
	return len(m.forwarders)
}

// Forward implements Forwarder
func (m *Multi) Forward(ctx context.Context, frame tlbrr.Frame) error {
	var err error
	for _, f := range m.forwarders {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(err, ctxErr)
		}
		err = multierr.Append(err, f.Forward(ctx, frame))
	}
	return err
}

// Close implements Forwarder. Every forwarder is closed even if one fails.
func (m *Multi) Close() error {
	var err error
	for _, f := range m.forwarders {
		err = multierr.Append(err, f.Close())
	}
	return err
}
