// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import "time"

//go:generate stringer -type=EventType -linecomment

// EventType identifies the lifecycle transition that produced an Event.
type EventType uint8

const (
	// EventActivated is dispatched once Activate has armed the first deadline.
	EventActivated EventType = iota // activated

	// EventFired is dispatched after a marker has been emitted and the
	// Heartbeat has been rearmed.
	EventFired // fired

	// EventRearmFailed is dispatched when the host timer facility rejected
	// a rearm. The Heartbeat is inactive after this event.
	EventRearmFailed // rearm-failed

	// EventDeactivated is dispatched when Deactivate tears the Heartbeat down.
	EventDeactivated // deactivated
)

// MarshalText produces the string value of this EventType.
func (et EventType) MarshalText() ([]byte, error) {
	return []byte(et.String()), nil
}

// Event describes a state transition of a Heartbeat.
type Event struct {
	// Type is the kind of transition.
	Type EventType

	// Timestamp is the UTC time of the transition.
	Timestamp time.Time

	// Snapshot is the state of the Heartbeat immediately after the transition.
	Snapshot Snapshot

	// Err is the scheduling error for EventRearmFailed. It is nil for
	// all other event types.
	Err error
}

// Listener is a sink for heartbeat Events.
type Listener interface {
	// OnHeartbeatEvent receives an Event. This method must not panic or block.
	// It also must not invoke any Heartbeat methods, since events are
	// dispatched under the Heartbeat's internal lock.
	OnHeartbeatEvent(Event)
}

// ListenerFunc is a closure type that implements Listener.
type ListenerFunc func(Event)

// OnHeartbeatEvent invokes this closure.
func (lf ListenerFunc) OnHeartbeatEvent(e Event) { lf(e) }

// Listeners is an aggregate Listener.
type Listeners []Listener

// OnHeartbeatEvent dispatches the given event to each listener
// in this aggregate.
func (ls Listeners) OnHeartbeatEvent(e Event) {
	for _, l := range ls {
		l.OnHeartbeatEvent(e)
	}
}
