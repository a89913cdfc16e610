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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinError(t *testing.T) {
	t.Parallel()

	errGPIO := errors.New("permission denied")
	err := NewPinError("begin", LineClock, ModeInputPullUp, errGPIO)

	assert.Equal(t, "begin: CLK to input-pullup: permission denied", err.Error())
	require.ErrorIs(t, err, ErrPinConfigFailed)
	require.ErrorIs(t, err, errGPIO)

	var pinErr *PinError
	require.ErrorAs(t, err, &pinErr)
	assert.Equal(t, LineClock, pinErr.Line)
	assert.Equal(t, ModeInputPullUp, pinErr.Mode)
	assert.Equal(t, "begin", pinErr.Op)
}

func TestPinError_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("starting receiver: %w",
		NewPinError("request", LineEnable, ModeOutputHigh, errors.New("busy")))
	require.ErrorIs(t, err, ErrPinConfigFailed)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
	}{
		{name: "nil bus", err: ErrNilBus},
		{name: "payload size", err: ErrPayloadSize},
		{name: "invalid config", err: ErrInvalidConfig},
		{name: "pin config", err: ErrPinConfigFailed},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NotEmpty(t, tt.err.Error())
			for _, other := range tests {
				if other.name != tt.name {
					assert.NotErrorIs(t, tt.err, other.err)
				}
			}
		})
	}
}
