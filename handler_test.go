// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package heartbeat

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// errorResponseWriter fails every body write.
type errorResponseWriter struct {
	*httptest.ResponseRecorder
	err error
}

func (erw errorResponseWriter) Write([]byte) (int, error) {
	return 0, erw.err
}

type HandlerTestSuite struct {
	suite.Suite

	timestamp time.Time
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.timestamp = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *HandlerTestSuite) newHandler(opts ...HandlerOption) *Handler {
	h, err := NewHandler(opts...)
	suite.Require().NoError(err)
	suite.Require().NotNil(h)
	return h
}

func (suite *HandlerTestSuite) serve(h *Handler) *httptest.ResponseRecorder {
	response := httptest.NewRecorder()
	h.ServeHTTP(response, httptest.NewRequest("GET", "/state", nil))
	return response
}

func (suite *HandlerTestSuite) TestInitial() {
	response := suite.serve(suite.newHandler())

	suite.Equal(http.StatusServiceUnavailable, response.Code)
	suite.Equal("no-cache", response.Header().Get("Cache-Control"))
	suite.Equal("text/plain; charset=utf-8", response.Header().Get("Content-Type"))
	suite.Equal(HandlerInitialResponseBody, response.Body.String())
}

func (suite *HandlerTestSuite) TestOnHeartbeatEvent() {
	testCases := []struct {
		name     string
		event    Event
		expected int
		body     string
	}{
		{
			name: "Armed",
			event: Event{
				Type:      EventActivated,
				Timestamp: suite.timestamp,
				Snapshot: Snapshot{
					State:     StateArmed,
					Deadline:  suite.timestamp.Add(Interval),
					Activated: suite.timestamp,
				},
			},
			expected: http.StatusOK,
			body: `{
				"event": "activated",
				"timestamp": "2025-03-01T12:00:00Z",
				"state": "armed",
				"deadline": "2025-03-01T12:00:10Z",
				"firings": 0,
				"lastFiring": "0001-01-01T00:00:00Z",
				"activated": "2025-03-01T12:00:00Z"
			}`,
		},
		{
			name: "RearmFailed",
			event: Event{
				Type:      EventRearmFailed,
				Timestamp: suite.timestamp,
				Snapshot: Snapshot{
					State:      StateInactive,
					Firings:    1,
					LastFiring: suite.timestamp,
					Activated:  suite.timestamp.Add(-Interval),
				},
				Err: errors.New("expected"),
			},
			expected: http.StatusServiceUnavailable,
			body: `{
				"event": "rearm-failed",
				"timestamp": "2025-03-01T12:00:00Z",
				"error": "expected",
				"state": "inactive",
				"deadline": "0001-01-01T00:00:00Z",
				"firings": 1,
				"lastFiring": "2025-03-01T12:00:00Z",
				"activated": "2025-03-01T11:59:50Z"
			}`,
		},
	}

	for _, testCase := range testCases {
		suite.Run(testCase.name, func() {
			h := suite.newHandler()
			h.OnHeartbeatEvent(testCase.event)

			response := suite.serve(h)
			suite.Equal(testCase.expected, response.Code)
			suite.Equal("application/json", response.Header().Get("Content-Type"))
			suite.Equal(strconv.Itoa(response.Body.Len()), response.Header().Get("Content-Length"))
			suite.Equal(suite.timestamp.Format(http.TimeFormat), response.Header().Get("Last-Modified"))
			suite.JSONEq(testCase.body, response.Body.String())
		})
	}
}

func (suite *HandlerTestSuite) TestLatestEvent() {
	h := suite.newHandler()
	h.OnHeartbeatEvent(Event{
		Type:      EventActivated,
		Timestamp: suite.timestamp,
		Snapshot:  Snapshot{State: StateArmed},
	})

	h.OnHeartbeatEvent(Event{
		Type:      EventDeactivated,
		Timestamp: suite.timestamp.Add(time.Minute),
		Snapshot:  Snapshot{State: StateInactive},
	})

	response := suite.serve(h)
	suite.Equal(http.StatusServiceUnavailable, response.Code)
	suite.Equal(suite.timestamp.Add(time.Minute).Format(http.TimeFormat), response.Header().Get("Last-Modified"))
	suite.Contains(response.Body.String(), `"event":"deactivated"`)
}

func (suite *HandlerTestSuite) TestWithStateResponseCoder() {
	h := suite.newHandler(
		WithStateResponseCoder(func(State) int {
			return http.StatusTeapot
		}),
	)

	h.OnHeartbeatEvent(Event{Type: EventDeactivated, Timestamp: suite.timestamp})
	suite.Equal(http.StatusTeapot, suite.serve(h).Code)
}

func (suite *HandlerTestSuite) TestWithErrorer() {
	var (
		expected = errors.New("expected")
		actual   error
	)

	h := suite.newHandler(
		WithErrorer(func(err error) {
			actual = err
		}),
	)

	h.ServeHTTP(
		errorResponseWriter{ResponseRecorder: httptest.NewRecorder(), err: expected},
		httptest.NewRequest("GET", "/state", nil),
	)

	suite.ErrorIs(actual, expected)
}

func (suite *HandlerTestSuite) TestDefaultStateResponseCoder() {
	suite.Equal(http.StatusServiceUnavailable, DefaultStateResponseCoder(StateInactive))
	suite.Equal(http.StatusOK, DefaultStateResponseCoder(StateArmed))
	suite.Equal(http.StatusOK, DefaultStateResponseCoder(StateFiring))
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
