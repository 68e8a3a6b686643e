// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"errors"

	"github.com/coreos/go-systemd/v22/journal"
)

// ErrJournalUnavailable is returned by NewJournal when there is no
// journald socket to write to.
var ErrJournalUnavailable = errors.New("the systemd journal is not available")

// journalSend is the signature of journal.Send.
type journalSend func(message string, priority journal.Priority, vars map[string]string) error

// Journal is a sink that sends each marker to systemd-journald as an
// informational record.
type Journal struct {
	send journalSend
	vars map[string]string
	r    reporter
}

// NewJournal creates a Journal sink. It returns ErrJournalUnavailable
// if journald cannot be reached.
func NewJournal(opts ...Option) (*Journal, error) {
	if !journal.Enabled() {
		return nil, ErrJournalUnavailable
	}

	return newJournal(journal.Send, opts...), nil
}

func newJournal(send journalSend, opts ...Option) *Journal {
	o := newOptions(opts...)
	return &Journal{
		send: send,
		vars: map[string]string{
			"SYSLOG_IDENTIFIER": o.identifier,
		},
		r: newReporter(o),
	}
}

// Emit sends the marker to the journal at PriInfo.
func (j *Journal) Emit(marker string) {
	j.r.report(
		j.send(marker, journal.PriInfo, j.vars),
	)
}
