// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import (
	"github.com/sixafter/drbg90a/entropy"
	"github.com/sixafter/drbg90a/selftest"
)

// Config holds the dependencies an Instance is built against: where it
// pulls entropy from, which first-use registry gates its self-tests,
// and where self-test outcomes are logged. Personalization is not part
// of Config; it is an explicit, required-shape argument to New because
// every instantiate needs one (even if empty).
type Config struct {
	// EntropySource supplies fresh entropy and nonce material at
	// instantiate, reseed, and automatic-reseed time. Defaults to a
	// crypto/rand.Reader-backed source.
	EntropySource entropy.Source

	// Registry gates first-use self-tests per mechanism+primitive pair.
	// Defaults to selftest.DefaultRegistry, the process-wide instance.
	// Inject a fresh *selftest.Registry for test isolation or for
	// multiple independently-certified configurations.
	Registry *selftest.Registry

	// Sink receives the self-test log lines produced the first time a
	// mechanism+primitive pair is instantiated, and on every explicit
	// RunSelfTests call. Defaults to a sink that discards every line.
	Sink selftest.Sink
}

// Option is a functional option for Config, following the pattern used
// throughout this module's dependencies.
type Option func(*Config)

// WithEntropySource overrides the entropy.Source an Instance draws from.
func WithEntropySource(s entropy.Source) Option {
	return func(cfg *Config) { cfg.EntropySource = s }
}

// WithRegistry overrides the first-use self-test registry an Instance is
// gated by.
func WithRegistry(r *selftest.Registry) Option {
	return func(cfg *Config) { cfg.Registry = r }
}

// WithSink overrides where self-test log lines are written.
func WithSink(s selftest.Sink) Option {
	return func(cfg *Config) { cfg.Sink = s }
}

// defaultConfig returns a Config populated with production-safe
// defaults: system entropy, the process-wide self-test registry, and a
// discarding log sink.
func defaultConfig() Config {
	return Config{
		EntropySource: entropy.Default(),
		Registry:      selftest.DefaultRegistry,
		Sink:          selftest.NewDiscardSink(),
	}
}
