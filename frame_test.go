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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/ZaparooProject/go-tlbrr/internal/testing"
)

func TestNewFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload []byte
		wantErr bool
	}{
		{name: "Valid_Payload", payload: testutil.TestPayload},
		{name: "Zero_Payload", payload: make([]byte, PayloadSize)},
		{name: "Short_Payload", payload: make([]byte, PayloadSize-1), wantErr: true},
		{name: "Full_Frame_As_Payload", payload: make([]byte, FrameSize), wantErr: true},
		{name: "Nil_Payload", payload: nil, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := NewFrame(tt.payload)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPayloadSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.payload, f.Payload())
			assert.True(t, f.Valid())
			assert.Equal(t, testutil.BuildFrame(tt.payload), f[:])
		})
	}
}

func TestFrame_Checksum(t *testing.T) {
	t.Parallel()

	f, err := NewFrame(make([]byte, PayloadSize))
	require.NoError(t, err)
	assert.Equal(t, byte(0xFF), f.Checksum())

	f[3] = 0x01
	assert.False(t, f.Valid())
	f[FrameSize-1] = 0xFE
	assert.True(t, f.Valid())
}

func TestFrame_String(t *testing.T) {
	t.Parallel()

	f := toFrame(t, testutil.AlternatingFrame())
	assert.Equal(t, strings.Repeat("AA", PayloadSize)+"B5", f.String())
	assert.Equal(t, f.String(), (&f).String())
}
