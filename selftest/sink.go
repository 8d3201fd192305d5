// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package selftest implements the self-test harness (known-answer tests,
// negative tests, zeroization checks) and the process-wide first-use
// registry that gates a mechanism's first instantiate on those tests
// passing.
package selftest

import (
	"fmt"
	"io"
)

// Sink receives one formatted line per test outcome. It is injectable so
// the core never assumes a filesystem is available.
type Sink interface {
	WriteString(s string) error
}

type discardSink struct{}

func (discardSink) WriteString(string) error { return nil }

// NewDiscardSink returns a Sink that drops every line it is given.
func NewDiscardSink() Sink { return discardSink{} }

type writerSink struct {
	w io.Writer
}

// NewWriterSink adapts an io.Writer (a file, os.Stdout, a bytes.Buffer in
// tests) to Sink.
func NewWriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) WriteString(line string) error {
	_, err := io.WriteString(s.w, line)
	return err
}

// FormatResult renders one test outcome as
// "TEST {PASSED|FAILED} (module) - test_id: message\n".
func FormatResult(passed bool, module, testID, message string) string {
	status := "PASSED"
	if !passed {
		status = "FAILED"
	}
	return fmt.Sprintf("TEST %s (%s) - %s: %s\n", status, module, testID, message)
}

// Banner renders the "starting self-tests" log line for a mechanism and
// primitive pair.
func Banner(mechanism, primitive string) string {
	return fmt.Sprintf("\n*** STARTING %s (%s) self-tests ***\n", mechanism, primitive)
}
