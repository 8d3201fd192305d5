// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package primitive adapts the standard library's hash, HMAC, and block
// cipher implementations to the three fixed-output capability abstractions
// the SP 800-90A mechanisms consume: a hash function, an HMAC keyed-MAC, and
// a block cipher with a single-block encrypt operation. Only SHA-256 and
// SHA-512 are approved for the first two; only AES-128/192/256 for the
// third. Every other identity is rejected at construction time, never
// silently substituted.
package primitive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"hash"
)

// ErrUnapproved is returned when a mechanism is asked to resolve a hash,
// HMAC, or block-cipher identity that SP 800-90A does not approve for that
// construction.
var ErrUnapproved = errors.New("drbg90a: unapproved primitive")

// HashID identifies an approved hash function.
type HashID int

const (
	// SHA256 selects SHA-256 (32-byte output, security strength up to 256
	// bits; Hash-DRBG seedlen 440 bits).
	SHA256 HashID = iota + 1
	// SHA512 selects SHA-512 (64-byte output; Hash-DRBG seedlen 888 bits).
	SHA512
)

// String returns the canonical name of the hash identity.
func (h HashID) String() string {
	switch h {
	case SHA256:
		return "SHA-256"
	case SHA512:
		return "SHA-512"
	default:
		return "unknown"
	}
}

// OutputLen returns the fixed digest length in bytes for an approved hash
// identity, or 0 for an unapproved one.
func (h HashID) OutputLen() int {
	switch h {
	case SHA256:
		return sha256.Size
	case SHA512:
		return sha512.Size
	default:
		return 0
	}
}

func (h HashID) newHash() (func() hash.Hash, error) {
	switch h {
	case SHA256:
		return sha256.New, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, ErrUnapproved
	}
}

// Digest performs a one-shot hash of the concatenation of parts.
func Digest(id HashID, parts ...[]byte) ([]byte, error) {
	newH, err := id.newHash()
	if err != nil {
		return nil, err
	}
	h := newH()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil), nil
}

// HMAC computes HMAC(key, concat(parts...)) using an approved hash identity.
func HMAC(id HashID, key []byte, parts ...[]byte) ([]byte, error) {
	newH, err := id.newHash()
	if err != nil {
		return nil, err
	}
	mac := hmac.New(newH, key)
	for _, p := range parts {
		mac.Write(p)
	}
	return mac.Sum(nil), nil
}

// BlockCipherID identifies an approved block cipher by key length.
type BlockCipherID int

const (
	// AES128 selects AES with a 128-bit (16-byte) key.
	AES128 BlockCipherID = iota + 1
	// AES192 selects AES with a 192-bit (24-byte) key.
	AES192
	// AES256 selects AES with a 256-bit (32-byte) key.
	AES256
)

// String returns the canonical name of the block cipher identity.
func (b BlockCipherID) String() string {
	switch b {
	case AES128:
		return "AES-128"
	case AES192:
		return "AES-192"
	case AES256:
		return "AES-256"
	default:
		return "unknown"
	}
}

// KeyLen returns the key length in bytes for an approved block cipher
// identity, or 0 for an unapproved one.
func (b BlockCipherID) KeyLen() int {
	switch b {
	case AES128:
		return 16
	case AES192:
		return 24
	case AES256:
		return 32
	default:
		return 0
	}
}

// BlockLen is the fixed AES block length in bytes (128 bits), the same for
// every approved key size.
const BlockLen = aes.BlockSize

// NewBlockCipher constructs a single-block AES encryptor under key. The
// returned cipher.Block's Encrypt method operates on exactly BlockLen bytes.
func NewBlockCipher(id BlockCipherID, key []byte) (cipher.Block, error) {
	keyLen := id.KeyLen()
	if keyLen == 0 {
		return nil, ErrUnapproved
	}
	if len(key) != keyLen {
		return nil, errors.New("drbg90a: wrong key length for block cipher identity")
	}
	return aes.NewCipher(key)
}
