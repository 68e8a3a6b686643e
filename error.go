// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrHeartbeatActivated is returned by Heartbeat.Activate to indicate that
	// the Heartbeat has already been activated. Activation is call-once, so this
	// error is also returned after the Heartbeat has been deactivated.
	ErrHeartbeatActivated = errors.New("the heartbeat has already been activated")

	// ErrSchedule is the error wrapped by every ScheduleError.
	ErrSchedule = errors.New("the host timer facility rejected the deadline")
)

// ScheduleError describes a deadline that the host timer facility refused.
type ScheduleError struct {
	// Generation identifies the expiry that could not be scheduled.
	Generation uint64

	// Deadline is the deadline that was requested.
	Deadline time.Time

	// Err is the error returned by the host timer facility, if any.
	Err error
}

func (se *ScheduleError) Error() string {
	if se.Err != nil {
		return fmt.Sprintf("%s: generation %d, deadline %s: %s", ErrSchedule, se.Generation, se.Deadline.Format(time.RFC3339Nano), se.Err)
	}

	return fmt.Sprintf("%s: generation %d, deadline %s", ErrSchedule, se.Generation, se.Deadline.Format(time.RFC3339Nano))
}

// Unwrap exposes both ErrSchedule and the facility's error, so that
// errors.Is works with either.
func (se *ScheduleError) Unwrap() []error {
	if se.Err != nil {
		return []error{ErrSchedule, se.Err}
	}

	return []error{ErrSchedule}
}
