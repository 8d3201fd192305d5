// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package entropy defines the inbound entropy-source dependency the DRBG
// mechanisms consume, and ships a crypto/rand-backed default adapter.
package entropy

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Source returns fresh, full-entropy bytes on request. Implementations
// must return exactly n bytes or an error; a Source that returns fewer
// bytes than requested without error violates the contract every
// mechanism assumes, and the security properties of the resulting
// output are void.
type Source interface {
	// GetEntropy returns n bytes of fresh full-entropy data.
	GetEntropy(n int) ([]byte, error)
}

// randSource adapts an io.Reader (crypto/rand.Reader by default) to the
// Source interface.
type randSource struct {
	reader io.Reader
}

// Default returns a Source backed by crypto/rand.Reader, the standard
// library's platform-appropriate CSPRNG.
func Default() Source {
	return &randSource{reader: rand.Reader}
}

// FromReader adapts an arbitrary io.Reader to Source. Callers are
// responsible for ensuring the reader is a genuine full-entropy source;
// this is intended for tests that need deterministic, fixed entropy
// streams rather than production use.
func FromReader(r io.Reader) Source {
	return &randSource{reader: r}
}

func (s *randSource) GetEntropy(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.reader, buf); err != nil {
		return nil, fmt.Errorf("entropy: failed to read %d bytes: %w", n, err)
	}
	return buf, nil
}
