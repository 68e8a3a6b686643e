// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package sink

import "github.com/rs/zerolog"

// Logger is a sink that writes each marker as the message of a zerolog record.
type Logger struct {
	l     zerolog.Logger
	level zerolog.Level
}

// NewLogger creates a Logger sink that writes at zerolog.InfoLevel.
//
// The minimum level of l is ignored, so markers are written even when l
// filters out info records.
func NewLogger(l zerolog.Logger) *Logger {
	return &Logger{
		l:     l.Level(zerolog.TraceLevel),
		level: zerolog.InfoLevel,
	}
}

// Emit writes one record with the marker as its message.
func (lg *Logger) Emit(marker string) {
	lg.l.WithLevel(lg.level).Msg(marker)
}
