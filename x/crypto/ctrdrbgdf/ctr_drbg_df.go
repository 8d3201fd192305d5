// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package ctrdrbgdf implements the CTR_DRBG mechanism of NIST SP 800-90A
// Rev 1 with the block-cipher derivation function (sections 10.2.1.3.2,
// 10.2.1.4.1, 10.2.1.5.2, 10.3.3), approved for use with AES-128/192/256.
// Unlike x/crypto/ctrdrbg, this variant accepts entropy and additional
// input of any sufficient length, reducing them through Block_Cipher_df,
// so it does not require a full-entropy source.
package ctrdrbgdf

import (
	"errors"

	"github.com/sixafter/drbg90a/internal/ctrcore"
	"github.com/sixafter/drbg90a/internal/primitive"
	"github.com/sixafter/drbg90a/internal/zero"
)

// SeedLife is the reseed-counter value at which Generate refuses with
// ErrReseedRequired. The counter is 1 after New or Reseed, so SeedLife-1
// Generate calls are served between reseeds.
const SeedLife = 1000

const blockLen = primitive.BlockLen

// ErrZeroized is returned by every operation on an instance that has
// already been zeroized.
var ErrZeroized = errors.New("ctrdrbgdf: instance is zeroized")

// ErrReseedRequired is returned by Generate when the reseed counter has
// reached SeedLife.
var ErrReseedRequired = errors.New("ctrdrbgdf: reseed required")

// State is the internal working state of a CTR_DRBG (with derivation
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

// New instantiates a CTR_DRBG (with df) instance per SP 800-90A section
// 10.2.1.3.2. entropy must supply at least security_strength bits (the AES
// key length in bytes) and nonce at least security_strength/2 bits;
// neither has to reach seedlen, since Block_Cipher_df expands them.
// personalization may be nil.
func New(cipherID primitive.BlockCipherID, entropy, nonce, personalization []byte) (*State, error) {
	sl := seedLen(cipherID)
	if sl == 0 {
		return nil, primitive.ErrUnapproved
	}
	if len(entropy) < cipherID.KeyLen() {
		return nil, errors.New("ctrdrbgdf: entropy must supply at least security_strength bits")
	}
	if len(nonce) < cipherID.KeyLen()/2 {
		return nil, errors.New("ctrdrbgdf: nonce too short")
	}

	s := &State{
		cipherID: cipherID,
		key:      make([]byte, cipherID.KeyLen()),
		v:        make([]byte, blockLen),
		seedLen:  sl,
	}

	seedMaterial := concat(entropy, nonce, personalization)
	derived, err := ctrcore.BlockCipherDF(cipherID, seedMaterial, sl)
	if err != nil {
		return nil, err
	}

	if err := ctrcore.Update(cipherID, s.key, s.v, derived); err != nil {
		return nil, err
	}
	s.reseedCounter = 1
	return s, nil
}

// Reseed implements section 10.2.1.4.1. entropy must supply at least
// security_strength bits; additionalInput may be nil.
func (s *State) Reseed(entropy, additionalInput []byte) error {
	if s.zeroized {
		return ErrZeroized
	}
	if len(entropy) < s.cipherID.KeyLen() {
		return errors.New("ctrdrbgdf: entropy must supply at least security_strength bits")
	}

	seedMaterial := concat(entropy, additionalInput)
	derived, err := ctrcore.BlockCipherDF(s.cipherID, seedMaterial, s.seedLen)
	if err != nil {
		return err
	}

	if err := ctrcore.Update(s.cipherID, s.key, s.v, derived); err != nil {
		return err
	}
	s.reseedCounter = 1
	return nil
}

// Generate implements section 10.2.1.5.2. out is filled entirely;
// additionalInput may be nil.
func (s *State) Generate(out []byte, additionalInput []byte) error {
	if s.zeroized {
		return ErrZeroized
	}
	if s.reseedCounter >= SeedLife {
		return ErrReseedRequired
	}

	derivedAdd := make([]byte, s.seedLen)
	if len(additionalInput) > 0 {
		derived, err := ctrcore.BlockCipherDF(s.cipherID, additionalInput, s.seedLen)
		if err != nil {
			return err
		}
		derivedAdd = derived
		if err := ctrcore.Update(s.cipherID, s.key, s.v, derivedAdd); err != nil {
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

	if err := ctrcore.Update(s.cipherID, s.key, s.v, derivedAdd); err != nil {
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
func (s *State) Name() string { return "CTR-DRBG-DF" }

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
