// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package hmacdrbg implements the HMAC_DRBG mechanism of NIST SP 800-90A
// Rev 1 section 10.1.2, approved for use with SHA-256 or SHA-512 (FIPS
// 140-3 IG section D.R). Both hash functions support a security strength
// of up to 256 bits.
package hmacdrbg

import (
	"errors"

	"github.com/sixafter/drbg90a/internal/primitive"
	"github.com/sixafter/drbg90a/internal/zero"
)

// SeedLife is the reseed-counter value at which Generate refuses with
// ErrReseedRequired. The counter is 1 after New or Reseed, so SeedLife-1
// Generate calls are served between reseeds.
const SeedLife = 1000

// ErrZeroized is returned by every operation on an instance that has
// already been zeroized.
var ErrZeroized = errors.New("hmacdrbg: instance is zeroized")

// ErrReseedRequired is returned by Generate when the reseed counter has
// reached SeedLife; the caller (the generic wrapper) must reseed first.
var ErrReseedRequired = errors.New("hmacdrbg: reseed required")

// State is the internal working state of an HMAC_DRBG instance: the keyed
// MAC key K, the chaining value V (both hash_out_len bytes), and the
// reseed counter.
type State struct {
	hashID        primitive.HashID
	k             []byte
	v             []byte
	reseedCounter uint64
	zeroized      bool
}

// New instantiates an HMAC_DRBG instance per SP 800-90A section 10.1.2.2.
// entropy and nonce must both be non-empty; personalization may be nil.
func New(hashID primitive.HashID, entropy, nonce, personalization []byte) (*State, error) {
	if hashID.OutputLen() == 0 {
		return nil, primitive.ErrUnapproved
	}
	if len(entropy) == 0 {
		return nil, errors.New("hmacdrbg: entropy must not be empty")
	}
	if len(nonce) == 0 {
		return nil, errors.New("hmacdrbg: nonce must not be empty")
	}

	h := hashID.OutputLen()
	s := &State{
		hashID: hashID,
		k:      make([]byte, h),
		v:      make([]byte, h),
	}
	for i := range s.v {
		s.v[i] = 0x01
	}
	// s.k is already zero-filled by make.

	if err := s.update(entropy, nonce, personalization); err != nil {
		return nil, err
	}
	s.reseedCounter = 1
	return s, nil
}

// update is the internal HMAC_DRBG Update primitive (section 10.1.2.2).
// Any number of seed material parts may be supplied; if none are given,
// only the first of the two HMAC rounds runs.
func (s *State) update(seeds ...[]byte) error {
	any := false
	for _, seed := range seeds {
		if len(seed) > 0 {
			any = true
			break
		}
	}

	k, err := primitive.HMAC(s.hashID, s.k, append([][]byte{s.v, {0x00}}, seeds...)...)
	if err != nil {
		return err
	}
	s.k = k

	v, err := primitive.HMAC(s.hashID, s.k, s.v)
	if err != nil {
		return err
	}
	s.v = v

	if !any {
		return nil
	}

	k, err = primitive.HMAC(s.hashID, s.k, append([][]byte{s.v, {0x01}}, seeds...)...)
	if err != nil {
		return err
	}
	s.k = k

	v, err = primitive.HMAC(s.hashID, s.k, s.v)
	if err != nil {
		return err
	}
	s.v = v
	return nil
}

// Reseed implements section 10.1.2.3.
func (s *State) Reseed(entropy, additionalInput []byte) error {
	if s.zeroized {
		return ErrZeroized
	}
	if err := s.update(entropy, additionalInput); err != nil {
		return err
	}
	s.reseedCounter = 1
	return nil
}

// Generate implements section 10.1.2.5. out is filled entirely;
// additionalInput may be nil.
func (s *State) Generate(out []byte, additionalInput []byte) error {
	if s.zeroized {
		return ErrZeroized
	}
	if s.reseedCounter >= SeedLife {
		return ErrReseedRequired
	}

	if len(additionalInput) > 0 {
		if err := s.update(additionalInput); err != nil {
			return err
		}
	}

	for produced := 0; produced < len(out); {
		v, err := primitive.HMAC(s.hashID, s.k, s.v)
		if err != nil {
			return err
		}
		s.v = v
		produced += copy(out[produced:], s.v)
	}

	if len(additionalInput) > 0 {
		if err := s.update(additionalInput); err != nil {
			return err
		}
	} else {
		if err := s.update(); err != nil {
			return err
		}
	}
	s.reseedCounter++
	return nil
}

// Zeroize overwrites K and V with zero bytes and latches the instance
// permanently unusable. A second call returns an error.
func (s *State) Zeroize() error {
	if s.zeroized {
		return ErrZeroized
	}
	zero.Bytes(s.k)
	zero.Bytes(s.v)
	s.reseedCounter = 0
	s.zeroized = true
	return nil
}

// Count returns the current reseed counter.
func (s *State) Count() uint64 { return s.reseedCounter }

// ReseedNeeded reports whether the reseed counter has reached SeedLife.
func (s *State) ReseedNeeded() bool { return s.reseedCounter >= SeedLife }

// IsZeroized reports whether Zeroize has been called.
func (s *State) IsZeroized() bool { return s.zeroized }

// Name identifies the mechanism for logging and self-test dispatch.
func (s *State) Name() string { return "HMAC-DRBG" }

// OutputLen returns the hash output length (and therefore |K| = |V|) for
// the given approved hash identity.
func OutputLen(hashID primitive.HashID) int { return hashID.OutputLen() }
