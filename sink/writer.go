// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"io"
	"os"
	"sync"
)

const (
	// DefaultIdentifier is the syslog identifier used when none is configured.
	DefaultIdentifier = "heartbeat"

	// DefaultKmsgPath is the kernel log device.
	DefaultKmsgPath = "/dev/kmsg"

	// kmsgInfo is the record prefix for KERN_INFO, the level of pr_info.
	kmsgInfo = "<6>"
)

// Writer is a sink that writes each marker as one line to an io.Writer.
// Each line is written with a single Write call.
type Writer struct {
	lock   sync.Mutex
	w      io.Writer
	prefix string
	r      reporter
}

// NewWriter creates a Writer sink around w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	return &Writer{
		w: w,
		r: newReporter(newOptions(opts...)),
	}
}

// Emit writes the marker followed by a newline.
func (wr *Writer) Emit(marker string) {
	line := make([]byte, 0, len(wr.prefix)+len(marker)+1)
	line = append(line, wr.prefix...)
	line = append(line, marker...)
	line = append(line, '\n')

	wr.lock.Lock()
	_, err := wr.w.Write(line)
	wr.lock.Unlock()

	wr.r.report(err)
}

// Kmsg is a sink that appends each marker to the kernel log as an
// informational record.
type Kmsg struct {
	*Writer
	f *os.File
}

// OpenKmsg opens the kernel log device for writing. If path is empty,
// DefaultKmsgPath is used. The returned sink must be closed when it is
// no longer needed.
func OpenKmsg(path string, opts ...Option) (*Kmsg, error) {
	if len(path) == 0 {
		path = DefaultKmsgPath
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}

	w := NewWriter(f, opts...)
	w.prefix = kmsgInfo
	return &Kmsg{
		Writer: w,
		f:      f,
	}, nil
}

// Close closes the underlying device.
func (k *Kmsg) Close() error {
	return k.f.Close()
}
