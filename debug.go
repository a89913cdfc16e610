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
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	debugEnabled atomic.Bool
	loggerMu     sync.Mutex
	logger       *zap.SugaredLogger
)

// SetDebugEnabled turns debug output on or off for the whole package
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetLogger replaces the logger used for debug output. A nil logger restores
// the default development logger.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		logger = nil
		return
	}
	logger = l.Named("tlbrr").Sugar()
}

func debugLogger() *zap.SugaredLogger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			l = zap.NewNop()
		}
		logger = l.Named("tlbrr").Sugar()
	}
	return logger
}

// debugf logs a formatted debug message when debug output is enabled
func debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	debugLogger().Debugf(format, args...)
}

// debugln logs a debug message when debug output is enabled
func debugln(args ...any) {
	if !debugEnabled.Load() {
		return
	}
	debugLogger().Debug(args...)
}
