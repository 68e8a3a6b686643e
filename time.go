// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import "time"

// now is a closure used to produce the current time.
// By default, time.Now is used.
type now func() time.Time

// afterFunc is the host timer facility. It arranges for f to be invoked on a
// goroutine owned by the facility once d has elapsed, and returns a stop
// closure that cancels the call if it has not started yet. The stop closure
// never waits for an invocation that is already running.
//
// A facility may refuse a deadline by returning a non-nil error, in which case
// f must never be called.
type afterFunc func(d time.Duration, f func()) (stop func() bool, err error)

// defaultAfterFunc is the afterFunc backed by the runtime timer. It never fails.
func defaultAfterFunc(d time.Duration, f func()) (func() bool, error) {
	t := time.AfterFunc(d, f)
	return t.Stop, nil
}
