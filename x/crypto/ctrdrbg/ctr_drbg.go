// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package ctrdrbg implements the CTR_DRBG mechanism of NIST SP 800-90A
// Rev 1 without a derivation function (sections 10.2.1.3.2, 10.2.1.4.1,
// 10.2.1.5.1), approved for use with AES-128/192/256. This variant may
// only be instantiated from a full-entropy source: the caller must
// supply exactly seedlen bits of entropy with no expansion step, which
// is why it takes no nonce. Callers that cannot guarantee a full-entropy
// source should use x/crypto/ctrdrbgdf instead.
package ctrdrbg

import (
	"errors"

	"github.com/sixafter/drbg90a/internal/arith"
	"github.com/sixafter/drbg90a/internal/ctrcore"
	"github.com/sixafter/drbg90a/internal/primitive"
	"github.com/sixafter/drbg90a/internal/zero"
)

// SeedLife is the reseed-counter value at which Generate refuses with
// ErrReseedRequired. The counter is 1 after New or Reseed, so SeedLife-1
// Generate calls are served between reseeds.
const SeedLife = 1000

// blockLen is the AES block length in bytes (128 bits), fixed across all
// three approved key sizes.
const blockLen = primitive.BlockLen

// ErrZeroized is returned by every operation on an instance that has
// already been zeroized.
var ErrZeroized = errors.New("ctrdrbg: instance is zeroized")

// ErrReseedRequired is returned by Generate when the reseed counter has
// reached SeedLife.
var ErrReseedRequired = errors.New("ctrdrbg: reseed required")

// ErrInputTooLong is returned when a personalization string or additional
// input exceeds seedlen bits. Earlier CTR_DRBG implementations silently
// truncated oversized input; this one rejects it outright so that bytes
// past the seedlen boundary are never silently discarded from a caller's
// perspective.
var ErrInputTooLong = errors.New("ctrdrbg: personalization or additional input exceeds seedlen")

// State is the internal working state of a CTR_DRBG (no derivation
// function) instance.
type State struct {
	cipherID      primitive.BlockCipherID
	key           []byte
	v             []byte
	reseedCounter uint64
	seedLen       int
	zeroized      bool
}

func seedLen(cipherID primitive.BlockCipherID) int {
	keyLen := cipherID.KeyLen()
	if keyLen == 0 {
		return 0
	}
	return keyLen + blockLen
}

// New instantiates a CTR_DRBG (no df) instance per SP 800-90A section
// 10.2.1.3.2. entropy must contain at least seedlen bytes of full-entropy
// input; only the first seedlen bytes are used. personalization may be
// nil, but if present must not exceed seedlen bytes.
func New(cipherID primitive.BlockCipherID, entropy, personalization []byte) (*State, error) {
	sl := seedLen(cipherID)
	if sl == 0 {
		return nil, primitive.ErrUnapproved
	}
	if len(entropy) < sl {
		return nil, errors.New("ctrdrbg: entropy must be at least seedlen bytes")
	}
	if len(personalization) > sl {
		return nil, ErrInputTooLong
	}

	s := &State{
		cipherID: cipherID,
		key:      make([]byte, cipherID.KeyLen()),
		v:        make([]byte, blockLen),
		seedLen:  sl,
	}

	seedMaterial := append([]byte(nil), entropy[:sl]...)
	padded := make([]byte, sl)
	copy(padded, personalization)
	arith.XOR(seedMaterial, padded)

	if err := ctrcore.Update(cipherID, s.key, s.v, seedMaterial); err != nil {
		return nil, err
	}
	s.reseedCounter = 1
	return s, nil
}

// Reseed implements section 10.2.1.4.1. additionalInput may be nil, but
// if present must not exceed seedlen bytes.
func (s *State) Reseed(entropy, additionalInput []byte) error {
	if s.zeroized {
		return ErrZeroized
	}
	if len(entropy) < s.seedLen {
		return errors.New("ctrdrbg: entropy must be at least seedlen bytes")
	}
	if len(additionalInput) > s.seedLen {
		return ErrInputTooLong
	}

	seedMaterial := append([]byte(nil), entropy[:s.seedLen]...)
	padded := make([]byte, s.seedLen)
	copy(padded, additionalInput)
	arith.XOR(seedMaterial, padded)

	if err := ctrcore.Update(s.cipherID, s.key, s.v, seedMaterial); err != nil {
		return err
	}
	s.reseedCounter = 1
	return nil
}

// Generate implements section 10.2.1.5.1. out is filled entirely;
// additionalInput may be nil, but if present must not exceed seedlen
// bytes.
func (s *State) Generate(out []byte, additionalInput []byte) error {
	if s.zeroized {
		return ErrZeroized
	}
	if s.reseedCounter >= SeedLife {
		return ErrReseedRequired
	}
	if len(additionalInput) > s.seedLen {
		return ErrInputTooLong
	}

	padded := make([]byte, s.seedLen)
	copy(padded, additionalInput)
	if len(additionalInput) > 0 {
		if err := ctrcore.Update(s.cipherID, s.key, s.v, padded); err != nil {
			return err
		}
	}

	cipher, err := primitive.NewBlockCipher(s.cipherID, s.key)
	if err != nil {
		return err
	}

	block := make([]byte, blockLen)
	produced := 0
	for produced < len(out) {
		ctrcore.IncrementV(s.v)
		cipher.Encrypt(block, s.v)
		produced += copy(out[produced:], block)
	}

	if err := ctrcore.Update(s.cipherID, s.key, s.v, padded); err != nil {
		return err
	}
	s.reseedCounter++
	return nil
}

// Zeroize overwrites Key and V with zero bytes and latches the instance
// permanently unusable.
func (s *State) Zeroize() error {
	if s.zeroized {
		return ErrZeroized
	}
	zero.Bytes(s.key)
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
func (s *State) Name() string { return "CTR-DRBG" }
