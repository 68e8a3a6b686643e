// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

// Sink is the host log stream that receives the heartbeat marker. Emission is
// fire-and-forget: a Sink handles its own failures and never reports back to
// the Heartbeat.
type Sink interface {
	Emit(marker string)
}

// SinkFunc is a closure type that implements Sink.
type SinkFunc func(string)

// Emit invokes this closure.
func (sf SinkFunc) Emit(marker string) { sf(marker) }

// discard is the Sink used when none is configured.
type discard struct{}

func (discard) Emit(string) {}
