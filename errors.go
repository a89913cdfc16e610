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
	"errors"
	"fmt"
)

// Receiver errors
var (
	ErrNilBus          = errors.New("bus cannot be nil")
	ErrPayloadSize     = errors.New("invalid payload size")
	ErrInvalidConfig   = errors.New("invalid receiver configuration")
	ErrPinConfigFailed = errors.New("pin configuration failed")
)

// PinError describes a failure to configure one of the protocol lines
type PinError struct {
	Err  error
	Op   string
	Line Line
	Mode PinMode
}

// Error implements the error interface
func (e *PinError) Error() string {
	return fmt.Sprintf("%s: %s to %s: %v", e.Op, e.Line, e.Mode, e.Err)
}

// Unwrap returns the underlying error
func (e *PinError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrPinConfigFailed for every PinError
func (*PinError) Is(target error) bool {
	return target == ErrPinConfigFailed
}

// NewPinError wraps a SetMode failure
func NewPinError(op string, line Line, mode PinMode, err error) error {
	return &PinError{Op: op, Line: line, Mode: mode, Err: err}
}
