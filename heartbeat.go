// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// Interval is the fixed time between a Heartbeat's emissions. Each
	// deadline is computed as the current time plus this interval.
	Interval time.Duration = 10 * time.Second

	// Marker is the literal record a Heartbeat emits on each firing.
	Marker = "🫀"
)

// Heartbeat is a self-rearming periodic timer. Once activated, it emits
// Marker to its Sink every Interval until it is deactivated.
//
// A Heartbeat is driven by two lifecycle hooks. Activate arms the first
// deadline and is called once, when the owning program loads. Deactivate
// cancels any pending deadline and waits for an in-flight firing, and is
// called when the owning program unloads. The expiry callback itself is
// invoked by the host timer facility and is never called directly.
//
// All methods on a Heartbeat are safe for concurrent use.
type Heartbeat struct {
	// interval is fixed at construction.
	interval time.Duration

	// marker is the record handed to the sink on each firing.
	marker string

	// now is the strategy used to get the current time.
	// by default, time.Now is used.
	now now

	// afterFunc is the host timer facility.
	// if unset, defaultAfterFunc is used.
	//
	// Tests can replace this function to control expiry.
	afterFunc afterFunc

	sink      Sink
	logger    zerolog.Logger
	listeners Listeners

	// lock is shared by the lifecycle hooks and the expiry callback
	lock sync.Mutex

	// idle is broadcast each time a firing leaves StateFiring
	idle *sync.Cond

	// activated records that Activate has been called, successfully or not
	activated bool

	// generation identifies the pending expiry. Callbacks carrying any
	// other generation are stale and do nothing.
	generation uint64

	// stop cancels the pending expiry. It is nil unless the state is StateArmed.
	stop func() bool

	// current is the state exposed through State and events
	current Snapshot
}

// unsafeArm schedules the next expiry at the given time plus the interval,
// under a new generation. On success, the Heartbeat is StateArmed.
//
// This method must be executed under the lock.
func (h *Heartbeat) unsafeArm(at time.Time) error {
	h.generation++
	var (
		generation = h.generation
		deadline   = at.Add(h.interval)
	)

	stop, err := h.afterFunc(h.interval, func() {
		h.onExpiry(generation)
	})

	if err != nil {
		h.stop = nil
		h.current.Deadline = time.Time{}
		return &ScheduleError{
			Generation: generation,
			Deadline:   deadline,
			Err:        err,
		}
	}

	h.stop = stop
	h.current.State = StateArmed
	h.current.Deadline = deadline
	return nil
}

// unsafeDispatch sends an event with the current snapshot to all listeners.
//
// This method must be executed under the lock.
func (h *Heartbeat) unsafeDispatch(et EventType, at time.Time, err error) {
	if len(h.listeners) == 0 {
		return
	}

	h.listeners.OnHeartbeatEvent(Event{
		Type:      et,
		Timestamp: at,
		Snapshot:  h.current,
		Err:       err,
	})
}

// emit hands the marker to the sink. A panicking sink is logged and
// otherwise ignored, so that the firing always reaches its rearm.
func (h *Heartbeat) emit() {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().
				Interface("panic", r).
				Msg("heartbeat sink panicked")
		}
	}()

	h.sink.Emit(h.marker)
}

// onExpiry is the callback handed to the host timer facility. It emits the
// marker outside the lock, then rearms.
func (h *Heartbeat) onExpiry(generation uint64) {
	h.lock.Lock()
	if generation != h.generation || h.current.State != StateArmed {
		// canceled after the facility released this callback
		h.lock.Unlock()
		return
	}

	h.current.State = StateFiring
	h.current.Deadline = time.Time{}
	h.stop = nil
	h.lock.Unlock()

	fired := h.now().UTC()
	h.emit()

	defer h.lock.Unlock()
	h.lock.Lock()

	// Deactivate waits while this firing is in progress, so the state is still
	// StateFiring here.
	defer h.idle.Broadcast()

	h.current.Firings++
	h.current.LastFiring = fired

	at := h.now().UTC()
	if err := h.unsafeArm(at); err != nil {
		h.current.State = StateInactive
		h.logger.Error().
			Err(err).
			Dur("interval", h.interval).
			Uint64("firings", h.current.Firings).
			Msg("unable to rearm heartbeat; heartbeat is now inactive")

		h.unsafeDispatch(EventRearmFailed, at, err)
		return
	}

	h.logger.Debug().
		Uint64("firings", h.current.Firings).
		Time("deadline", h.current.Deadline).
		Msg("heartbeat fired")

	h.unsafeDispatch(EventFired, at, nil)
}

// Interval returns the fixed interval of this Heartbeat.
func (h *Heartbeat) Interval() time.Duration {
	return h.interval
}

// State returns an atomic snapshot of this Heartbeat.
func (h *Heartbeat) State() Snapshot {
	defer h.lock.Unlock()
	h.lock.Lock()
	return h.current
}

// Activate schedules the first expiry one interval from now. No marker
// is emitted until that expiry.
//
// Activate may be called only once. Any subsequent call, including one made
// after Deactivate, does nothing and returns ErrHeartbeatActivated.
//
// If the host timer facility refuses the first deadline, this method returns
// a *ScheduleError and the Heartbeat remains inactive.
func (h *Heartbeat) Activate() error {
	defer h.lock.Unlock()
	h.lock.Lock()

	if h.activated {
		return ErrHeartbeatActivated
	}

	h.activated = true
	at := h.now().UTC()
	if err := h.unsafeArm(at); err != nil {
		h.logger.Error().
			Err(err).
			Dur("interval", h.interval).
			Msg("unable to arm heartbeat")

		return err
	}

	h.current.Activated = at
	h.logger.Debug().
		Dur("interval", h.interval).
		Time("deadline", h.current.Deadline).
		Msg("heartbeat activated")

	h.unsafeDispatch(EventActivated, at, nil)
	return nil
}

// Deactivate cancels any pending expiry. If a firing is in progress, this
// method blocks until that firing has emitted its marker and then cancels the
// deadline it scheduled. Once Deactivate returns, no further markers are
// emitted.
//
// A callback that the timer facility released just before the pending expiry
// was canceled may still be running when Deactivate returns. Such a callback
// only takes the Heartbeat's lock, sees that its generation is stale, and
// returns without emitting or rearming. The Heartbeat must therefore stay
// reachable until that callback finishes, which the garbage collector
// guarantees.
//
// This method is idempotent. It returns true if this call tore the Heartbeat
// down, and false if the Heartbeat was not active.
func (h *Heartbeat) Deactivate() bool {
	defer h.lock.Unlock()
	h.lock.Lock()

	for h.current.State == StateFiring {
		h.idle.Wait()
	}

	if h.current.State == StateInactive {
		return false
	}

	h.stop()
	h.stop = nil

	// any callback the facility has already released is now stale
	h.generation++

	h.current.State = StateInactive
	h.current.Deadline = time.Time{}

	h.logger.Debug().
		Uint64("firings", h.current.Firings).
		Msg("heartbeat deactivated")

	h.unsafeDispatch(EventDeactivated, h.now().UTC(), nil)
	return true
}

// New constructs a Heartbeat using the supplied set of options. The returned
// Heartbeat is inactive and must be activated to begin emitting markers.
func New(opts ...Option) (*Heartbeat, error) {
	h := &Heartbeat{
		interval:  Interval,
		marker:    Marker,
		now:       time.Now,
		afterFunc: defaultAfterFunc,
		sink:      discard{},
		logger:    zerolog.Nop(),
	}

	h.idle = sync.NewCond(&h.lock)
	for _, o := range opts {
		if err := o.apply(h); err != nil {
			return nil, err
		}
	}

	return h, nil
}
