// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type failingWriter struct {
	err error
}

func (fw failingWriter) Write([]byte) (int, error) {
	return 0, fw.err
}

type WriterTestSuite struct {
	suite.Suite

	errs []error
}

func (suite *WriterTestSuite) SetupTest() {
	suite.errs = nil
}

func (suite *WriterTestSuite) SetupSubTest() {
	suite.errs = nil
}

func (suite *WriterTestSuite) errorer(err error) {
	suite.errs = append(suite.errs, err)
}

func (suite *WriterTestSuite) TestEmit() {
	var b bytes.Buffer
	w := NewWriter(&b, WithErrorer(suite.errorer))

	w.Emit("🫀")
	w.Emit("🫀")
	suite.Equal("🫀\n🫀\n", b.String())
	suite.Empty(suite.errs)
}

func (suite *WriterTestSuite) TestEmitError() {
	suite.Run("Throttled", func() {
		expected := errors.New("expected")
		w := NewWriter(failingWriter{err: expected}, WithErrorer(suite.errorer))

		w.Emit("🫀")
		w.Emit("🫀")
		w.Emit("🫀")
		suite.Require().Len(suite.errs, 1)
		suite.ErrorIs(suite.errs[0], expected)
	})

	suite.Run("NoErrorer", func() {
		w := NewWriter(failingWriter{err: errors.New("expected")})
		suite.NotPanics(func() {
			w.Emit("🫀")
		})
	})
}

func (suite *WriterTestSuite) TestOpenKmsg() {
	suite.Run("Success", func() {
		path := filepath.Join(suite.T().TempDir(), "kmsg")
		suite.Require().NoError(os.WriteFile(path, nil, 0o600))

		k, err := OpenKmsg(path, WithErrorer(suite.errorer))
		suite.Require().NoError(err)
		suite.Require().NotNil(k)

		k.Emit("🫀")
		suite.NoError(k.Close())

		data, err := os.ReadFile(path)
		suite.Require().NoError(err)
		suite.Equal("<6>🫀\n", string(data))
		suite.Empty(suite.errs)
	})

	suite.Run("Missing", func() {
		k, err := OpenKmsg(filepath.Join(suite.T().TempDir(), "nosuch", "kmsg"))
		suite.Error(err)
		suite.Nil(k)
	})
}

func TestWriter(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}
