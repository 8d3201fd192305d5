// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package hashdrbg implements the Hash_DRBG mechanism of NIST SP 800-90A
// Rev 1 section 10.1.1, approved for use with SHA-256 or SHA-512 (FIPS
// 140-3 IG section D.R). Both hash functions support a security strength
// of up to 256 bits.
package hashdrbg

import (
	"errors"

	"github.com/sixafter/drbg90a/internal/arith"
	"github.com/sixafter/drbg90a/internal/primitive"
	"github.com/sixafter/drbg90a/internal/zero"
)

// SeedLife is the reseed-counter value at which Generate refuses with
// ErrReseedRequired. The counter is 1 after New or Reseed, so SeedLife-1
// Generate calls are served between reseeds.
const SeedLife = 255

// ErrZeroized is returned by every operation on an instance that has
// already been zeroized.
var ErrZeroized = errors.New("hashdrbg: instance is zeroized")

// ErrReseedRequired is returned by Generate when the reseed counter has
// reached SeedLife; the caller must reseed before generating further.
var ErrReseedRequired = errors.New("hashdrbg: reseed required")

// seedBits returns the seedlen, in bits, for the given approved hash
// identity: 440 for SHA-256, 888 for SHA-512 (SP 800-90A table 2).
func seedBits(hashID primitive.HashID) int {
	switch hashID {
	case primitive.SHA256:
		return 440
	case primitive.SHA512:
		return 888
	default:
		return 0
	}
}

// State is the internal working state of a Hash_DRBG instance.
type State struct {
	hashID        primitive.HashID
	v             []byte
	c             []byte
	reseedCounter uint64
	zeroized      bool
}

// New instantiates a Hash_DRBG instance per SP 800-90A section 10.1.1.2.
// entropy and nonce must both be non-empty; personalization may be nil.
func New(hashID primitive.HashID, entropy, nonce, personalization []byte) (*State, error) {
	seedBytes := seedBits(hashID) / 8
	if seedBytes == 0 {
		return nil, primitive.ErrUnapproved
	}
	if len(entropy) == 0 {
		return nil, errors.New("hashdrbg: entropy must not be empty")
	}
	if len(nonce) == 0 {
		return nil, errors.New("hashdrbg: nonce must not be empty")
	}

	s := &State{hashID: hashID}

	seedMaterial := concat(entropy, nonce, personalization)
	v, err := hashDF(hashID, seedMaterial, seedBytes)
	if err != nil {
		return nil, err
	}
	s.v = v

	cMaterial := concat([]byte{0x00}, s.v)
	c, err := hashDF(hashID, cMaterial, seedBytes)
	if err != nil {
		return nil, err
	}
	s.c = c

	s.reseedCounter = 1
	return s, nil
}

// Reseed implements section 10.1.1.3.
func (s *State) Reseed(entropy, additionalInput []byte) error {
	if s.zeroized {
		return ErrZeroized
	}
	seedBytes := len(s.v)

	seedMaterial := concat([]byte{0x01}, s.v, entropy, additionalInput)
	v, err := hashDF(s.hashID, seedMaterial, seedBytes)
	if err != nil {
		return err
	}
	s.v = v

	cMaterial := concat([]byte{0x00}, s.v)
	c, err := hashDF(s.hashID, cMaterial, seedBytes)
	if err != nil {
		return err
	}
	s.c = c

	s.reseedCounter = 1
	return nil
}

// Generate implements section 10.1.1.4. out is filled entirely;
// additionalInput may be nil.
func (s *State) Generate(out []byte, additionalInput []byte) error {
	if s.zeroized {
		return ErrZeroized
	}
	if s.reseedCounter >= SeedLife {
		return ErrReseedRequired
	}

	if len(additionalInput) > 0 {
		w, err := primitive.Digest(s.hashID, []byte{0x02}, s.v, additionalInput)
		if err != nil {
			return err
		}
		arith.Add(s.v, w)
	}

	if err := hashgen(s.hashID, s.v, out); err != nil {
		return err
	}

	w, err := primitive.Digest(s.hashID, []byte{0x03}, s.v)
	if err != nil {
		return err
	}
	arith.Add(s.v, w)
	arith.Add(s.v, s.c)

	// reseedCounter is always < SeedLife (255) here, so it fits in one byte.
	arith.Inc(s.v, byte(s.reseedCounter))

	s.reseedCounter++
	return nil
}

// Zeroize overwrites V and C with zero bytes and latches the instance
// permanently unusable.
func (s *State) Zeroize() error {
	if s.zeroized {
		return ErrZeroized
	}
	zero.Bytes(s.v)
	zero.Bytes(s.c)
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
func (s *State) Name() string { return "Hash-DRBG" }

// hashDF is the hash derivation function of SP 800-90A section 10.3.1: a
// one-byte big-endian counter followed by a 4-byte big-endian output
// length in bits, then input, rehashed and concatenated until numBytes
// bytes are produced.
func hashDF(hashID primitive.HashID, input []byte, numBytes int) ([]byte, error) {
	out := make([]byte, 0, numBytes+hashID.OutputLen())
	counter := byte(0x01)
	numBitsReturn := uint32(numBytes * 8)

	prefix := [5]byte{
		0,
		byte(numBitsReturn >> 24),
		byte(numBitsReturn >> 16),
		byte(numBitsReturn >> 8),
		byte(numBitsReturn),
	}

	for len(out) < numBytes {
		prefix[0] = counter
		h, err := primitive.Digest(hashID, prefix[:], input)
		if err != nil {
			return nil, err
		}
		out = append(out, h...)
		counter++
	}
	return out[:numBytes], nil
}

// hashgen is the generation primitive of SP 800-90A section 10.1.1.4: it
// fills out by repeated hashing of an incrementing copy of v, leaving v
// itself unmodified.
func hashgen(hashID primitive.HashID, v []byte, out []byte) error {
	data := append([]byte(nil), v...)

	produced := 0
	for produced < len(out) {
		w, err := primitive.Digest(hashID, data)
		if err != nil {
			return err
		}
		produced += copy(out[produced:], w)
		arith.Inc(data, 1)
	}
	return nil
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
