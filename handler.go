// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

const (
	// HandlerInitialResponseBody is the plaintext message that a Handler writes when there
	// has been no event yet.
	HandlerInitialResponseBody = "no heartbeat event received yet"
)

// StateResponseCoder is a strategy for turning a heartbeat State into an HTTP response code.
type StateResponseCoder func(State) int

// DefaultStateResponseCoder is the default StateResponseCoder used when no
// strategy is supplied.
//
// This function returns a 200 while the heartbeat is armed or firing, and a 503
// once it is inactive.
func DefaultStateResponseCoder(s State) int {
	switch s {
	case StateArmed, StateFiring:
		return http.StatusOK

	default:
		return http.StatusServiceUnavailable
	}
}

// Errorer receives errors a Handler hits while writing responses.
type Errorer func(error)

// HandlerOption is a configurable option for customizing a heartbeat Handler.
type HandlerOption interface {
	apply(*Handler) error
}

type handlerOptionFunc func(*Handler) error

func (f handlerOptionFunc) apply(h *Handler) error { return f(h) }

// WithStateResponseCoder sets a custom strategy for determining the HTTP response code
// for a given heartbeat State.
//
// If this option isn't used or is set to nil, DefaultStateResponseCoder is used.
func WithStateResponseCoder(f StateResponseCoder) HandlerOption {
	return handlerOptionFunc(func(h *Handler) error {
		h.coder = f
		return nil
	})
}

// WithErrorer sets the callback for errors writing a response body.
// Without one, such errors are dropped.
func WithErrorer(errorer Errorer) HandlerOption {
	return handlerOptionFunc(func(h *Handler) error {
		h.errorer = errorer
		return nil
	})
}

// Handler is an HTTP handler that exposes the state of a Heartbeat. A Handler is
// a Listener and reports the most recent Event it received.
type Handler struct {
	coder   StateResponseCoder
	errorer Errorer
	last    atomic.Pointer[Event]
}

// NewHandler constructs a new heartbeat Handler using the supplied set of options.
// After construction, a Handler must be registered as a listener for a Heartbeat.
//
// Before any events are received, the returned handler will return
// http.StatusServiceUnavailable.
func NewHandler(opts ...HandlerOption) (*Handler, error) {
	h := new(Handler)
	for _, o := range opts {
		if err := o.apply(h); err != nil {
			return nil, err
		}
	}

	if h.coder == nil {
		h.coder = DefaultStateResponseCoder
	}

	return h, nil
}

// OnHeartbeatEvent records e as the event this handler reports.
func (h *Handler) OnHeartbeatEvent(e Event) {
	h.last.Store(&e)
}

// ServeHTTP writes the most recent heartbeat event as JSON, with a response
// code chosen from the event's state.
func (h *Handler) ServeHTTP(response http.ResponseWriter, _ *http.Request) {
	rh := response.Header()
	rh.Set("Cache-Control", "no-cache")

	var (
		code        = http.StatusServiceUnavailable
		contentType = "text/plain; charset=utf-8"
		body        = []byte(HandlerInitialResponseBody)
	)

	if e := h.last.Load(); e != nil {
		rh.Set("Last-Modified", e.Timestamp.UTC().Format(http.TimeFormat))
		if data, err := marshalEvent(*e); err == nil {
			code, contentType, body = h.coder(e.Snapshot.State), "application/json", data
		} else {
			code, body = http.StatusInternalServerError, []byte(err.Error())
		}
	}

	rh.Set("Content-Type", contentType)
	rh.Set("Content-Length", strconv.Itoa(len(body)))
	response.WriteHeader(code)
	if _, err := response.Write(body); err != nil && h.errorer != nil {
		h.errorer(err)
	}
}

// marshalEvent renders an event as the JSON body served by a Handler.
func marshalEvent(e Event) ([]byte, error) {
	return json.Marshal(
		struct {
			Event     EventType `json:"event"`
			Timestamp time.Time `json:"timestamp"`
			Error     string    `json:"error,omitempty"`
			Snapshot
		}{
			Event:     e.Type,
			Timestamp: e.Timestamp,
			Error:     errorString(e.Err),
			Snapshot:  e.Snapshot,
		},
	)
}

// errorString returns the text of err, or the empty string for a nil error.
func errorString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
