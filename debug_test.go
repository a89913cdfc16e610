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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	testutil "github.com/ZaparooProject/go-tlbrr/internal/testing"
)

// Debug output is package-global state, so these tests do not run in parallel
//
//nolint:paralleltest // modifies package-level logger
func TestDebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() {
		SetDebugEnabled(false)
		SetLogger(nil)
	})

	rx, _, remote := newStartedReceiver(t)
	remote.Send(testutil.CorruptFrame(testutil.AlternatingFrame(), 3))
	assert.Zero(t, logs.Len(), "debug output is off by default")

	SetDebugEnabled(true)
	remote.Send(testutil.CorruptFrame(testutil.AlternatingFrame(), 3))
	require.NoError(t, rx.End())

	entries := logs.FilterMessageSnippet("checksum").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "tlbrr", entries[0].LoggerName)
	assert.Equal(t, 1, logs.FilterMessage("receiver stopped").Len())
}

//nolint:paralleltest // modifies package-level logger
func TestDebugLogger_Default(t *testing.T) {
	SetLogger(nil)
	assert.NotNil(t, debugLogger())
	SetLogger(nil)
}
