// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package sink provides host log streams for a heartbeat.

Each type in this package implements heartbeat.Sink. Emission is fire-and-forget:
write failures are never returned to the caller. Instead, they are passed to an
optional Errorer, throttled so that a broken log device cannot flood the
process's own log.
*/
package sink
