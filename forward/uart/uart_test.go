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

package uart

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
	testutil "github.com/ZaparooProject/go-tlbrr/internal/testing"
)

type mockPort struct {
	writeErr error
	closeErr error
	buf      bytes.Buffer
	limit    int
	closed   bool
}

func (p *mockPort) Write(data []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	if p.limit > 0 && len(data) > p.limit {
		data = data[:p.limit]
	}
	return p.buf.Write(data)
}

func (p *mockPort) Close() error {
	p.closed = true
	return p.closeErr
}

func testFrame(t *testing.T, data []byte) tlbrr.Frame {
	t.Helper()
	var f tlbrr.Frame
	require.Len(t, data, len(f))
	copy(f[:], data)
	return f
}

func TestOpen_NoPort(t *testing.T) {
	t.Parallel()

	_, err := Open(nil)
	require.ErrorIs(t, err, ErrNoPort)

	_, err = Open(DefaultConfig())
	require.ErrorIs(t, err, ErrNoPort)
}

func TestForwarder_Forward(t *testing.T) {
	t.Parallel()

	port := &mockPort{}
	fwd := NewWithPort(port)
	data := testutil.AlternatingFrame()

	require.NoError(t, fwd.Forward(context.Background(), testFrame(t, data)))

	want := append([]byte{0xA5, 0x5A}, data...)
	assert.Equal(t, want, port.buf.Bytes())
	assert.Len(t, want, PacketSize)
}

func TestForwarder_ForwardErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		port    *mockPort
		ctx     func() context.Context
		wantErr error
	}{
		{
			name:    "Write_Error",
			port:    &mockPort{writeErr: io.ErrClosedPipe},
			wantErr: io.ErrClosedPipe,
		},
		{
			name:    "Short_Write",
			port:    &mockPort{limit: 5},
			wantErr: io.ErrShortWrite,
		},
		{
			name: "Cancelled_Context",
			port: &mockPort{},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			err := NewWithPort(tt.port).Forward(ctx, tlbrr.Frame{})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestForwarder_Close(t *testing.T) {
	t.Parallel()

	port := &mockPort{}
	require.NoError(t, NewWithPort(port).Close())
	assert.True(t, port.closed)

	errClose := errors.New("device busy")
	err := NewWithPort(&mockPort{closeErr: errClose}).Close()
	require.ErrorIs(t, err, errClose)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	good := Encode(testFrame(t, testutil.CountingFrame(3)))
	corrupt := Encode(testFrame(t, testutil.CorruptFrame(testutil.CountingFrame(3), 7)))

	tests := []struct {
		name     string
		data     []byte
		wantOK   bool
		wantUsed int
	}{
		{name: "Exact_Packet", data: good[:], wantOK: true, wantUsed: PacketSize},
		{name: "Leading_Noise", data: append([]byte{0x00, 0xA5, 0x13}, good[:]...), wantOK: true, wantUsed: PacketSize + 3},
		{name: "Corrupt_Then_Good", data: append(append([]byte{}, corrupt[:]...), good[:]...), wantOK: true, wantUsed: 2 * PacketSize},
		{name: "Truncated", data: good[:PacketSize-1]},
		{name: "Empty", data: nil},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fr, used, ok := Decode(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantUsed, used)
			if tt.wantOK {
				assert.Equal(t, testutil.CountingFrame(3), fr[:])
			}
		})
	}
}
