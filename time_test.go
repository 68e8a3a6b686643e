// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import (
	"sync"
	"time"

	"github.com/xmidt-org/chronon"
)

// fakeAfterFunc creates a fake, controllable afterFunc closure
// from the given FakeClock. The callback runs on its own goroutine once
// the clock has been advanced past the timer's deadline.
func fakeAfterFunc(fc *chronon.FakeClock) afterFunc {
	return func(d time.Duration, f func()) (func() bool, error) {
		var (
			ft       = fc.NewTimer(d)
			canceled = make(chan struct{})
			once     sync.Once
		)

		go func() {
			select {
			case <-ft.C():
				f()

			case <-canceled:
			}
		}()

		return func() bool {
			stopped := ft.Stop()
			once.Do(func() { close(canceled) })
			return stopped
		}, nil
	}
}

// failingAfterFunc decorates an afterFunc so that every call after the
// first allowed calls fails with the given error.
func failingAfterFunc(next afterFunc, allowed int, err error) afterFunc {
	var (
		lock  sync.Mutex
		calls int
	)

	return func(d time.Duration, f func()) (func() bool, error) {
		lock.Lock()
		calls++
		n := calls
		lock.Unlock()

		if n > allowed {
			return nil, err
		}

		return next(d, f)
	}
}
