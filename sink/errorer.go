// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultErrorInterval is the minimum time between two errors passed to
	// an Errorer when no interval is configured.
	DefaultErrorInterval = time.Minute
)

// Errorer is a callback that receives errors a sink encounters while writing
// a marker. By default, such errors are dropped.
type Errorer func(error)

// Option is a configurable option shared by all sinks in this package.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

type options struct {
	errorer       Errorer
	errorInterval time.Duration
	identifier    string
}

// WithErrorer configures an error callback for the sink. There is
// no default for this option. If unspecified, errors are dropped.
func WithErrorer(e Errorer) Option {
	return optionFunc(func(o *options) {
		o.errorer = e
	})
}

// WithErrorInterval sets the minimum time between errors passed to the
// Errorer. The first error is always reported. If unset or nonpositive,
// DefaultErrorInterval is used.
func WithErrorInterval(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.errorInterval = d
	})
}

// WithIdentifier sets the syslog identifier attached to records by sinks
// that support one. If unset, DefaultIdentifier is used.
func WithIdentifier(id string) Option {
	return optionFunc(func(o *options) {
		o.identifier = id
	})
}

func newOptions(opts ...Option) (o options) {
	for _, opt := range opts {
		opt.apply(&o)
	}

	if o.errorInterval <= 0 {
		o.errorInterval = DefaultErrorInterval
	}

	if len(o.identifier) == 0 {
		o.identifier = DefaultIdentifier
	}

	return
}

// reporter passes errors on to an Errorer, at most once per interval.
type reporter struct {
	errorer   Errorer
	sometimes *rate.Sometimes
}

func newReporter(o options) reporter {
	return reporter{
		errorer: o.errorer,
		sometimes: &rate.Sometimes{
			First:    1,
			Interval: o.errorInterval,
		},
	}
}

func (r reporter) report(err error) {
	if err == nil || r.errorer == nil {
		return
	}

	r.sometimes.Do(func() {
		r.errorer(err)
	})
}
