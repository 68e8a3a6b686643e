// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import (
	"github.com/rs/zerolog"
)

// Option is a configurable option for tailoring a Heartbeat.
type Option interface {
	apply(*Heartbeat) error
}

type optionFunc func(*Heartbeat) error

func (f optionFunc) apply(h *Heartbeat) error { return f(h) }

// WithSink sets the host log stream that receives the marker on each firing.
// If unset or nil, markers are discarded.
func WithSink(s Sink) Option {
	return optionFunc(func(h *Heartbeat) error {
		if s == nil {
			s = discard{}
		}

		h.sink = s
		return nil
	})
}

// WithLogger sets the logger used for lifecycle and error records. These
// records are separate from the markers written to the Sink.
//
// By default, a Heartbeat does not log.
func WithLogger(l zerolog.Logger) Option {
	return optionFunc(func(h *Heartbeat) error {
		h.logger = l
		return nil
	})
}

// WithListeners appends listeners that receive Events for every transition.
// Nil listeners are skipped.
func WithListeners(ls ...Listener) Option {
	return optionFunc(func(h *Heartbeat) error {
		for _, l := range ls {
			if l != nil {
				h.listeners = append(h.listeners, l)
			}
		}

		return nil
	})
}
