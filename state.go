// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import "time"

//go:generate stringer -type=State -linecomment

// State is the activation state of a Heartbeat.
type State uint8

const (
	// StateInactive indicates a Heartbeat that has no pending expiry. This is
	// both the initial state and the terminal state after Deactivate.
	StateInactive State = iota // inactive

	// StateArmed indicates a Heartbeat with exactly one pending expiry.
	StateArmed // armed

	// StateFiring indicates a Heartbeat whose expiry callback is executing.
	StateFiring // firing
)

// MarshalText produces the string value of this State.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is an atomic view of a Heartbeat's state.
type Snapshot struct {
	// State is the activation state at the time of the snapshot.
	State State `json:"state" yaml:"state"`

	// Deadline is the UTC time of the pending expiry. It is the zero time
	// when no expiry is pending.
	Deadline time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`

	// Firings is the count of markers emitted since activation.
	Firings uint64 `json:"firings" yaml:"firings"`

	// LastFiring is the UTC time of the most recent emission, if any.
	LastFiring time.Time `json:"lastFiring,omitempty" yaml:"lastFiring,omitempty"`

	// Activated is the UTC time Activate armed the first deadline.
	Activated time.Time `json:"activated,omitempty" yaml:"activated,omitempty"`
}

// Pending reports whether this snapshot has an expiry scheduled with the
// host timer facility.
func (s Snapshot) Pending() bool {
	return s.State != StateInactive
}
