// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package ctrcore holds the CTR_DRBG machinery shared by the with- and
// without-derivation-function mechanisms (x/crypto/ctrdrbg and
// x/crypto/ctrdrbgdf): the Update function of SP 800-90A section 10.2.1.2
// and the counter-increment rule both variants use to drive the block
// cipher. Factoring it out keeps the two mechanism packages from drifting
// on a shared, security-critical algorithm.
package ctrcore

import (
	"errors"

	"github.com/sixafter/drbg90a/internal/arith"
	"github.com/sixafter/drbg90a/internal/primitive"
)

// CtrLenBits is the width, in bits, of the counter portion of V that
// Update and block generation increment. Only the rightmost CtrLenBits/8
// bytes of V change between blocks within a single operation; the
// remaining high-order bytes are frozen.
const CtrLenBits = 16

// IncrementV advances the rightmost CtrLenBits bits of v by one, in place,
// per SP 800-90A's counter rule. If CtrLenBits/8 >= len(v) the whole of v
// is incremented instead (the condition spec.md describes as "the CTR
// counter uses only the rightmost ctr_len bits of V").
func IncrementV(v []byte) {
	n := CtrLenBits / 8
	if n >= len(v) {
		arith.Inc(v, 1)
		return
	}
	arith.Inc(v[len(v)-n:], 1)
}

// Update implements the CTR_DRBG Update algorithm (SP 800-90A section
// 10.2.1.2). key and v are the mechanism's current Key and V, of lengths
// keyLen and blockLen (16) bytes respectively; providedData must be exactly
// keyLen+blockLen bytes. On return, key and v hold the updated state.
func Update(cipherID primitive.BlockCipherID, key, v []byte, providedData []byte) error {
	blockLen := len(v)
	seedLen := len(key) + blockLen
	if len(providedData) != seedLen {
		return errors.New("drbg90a: ctrcore.Update: provided_data must be exactly seedlen bytes")
	}

	cipher, err := primitive.NewBlockCipher(cipherID, key)
	if err != nil {
		return err
	}

	temp := make([]byte, 0, seedLen+blockLen)
	block := make([]byte, blockLen)
	for len(temp) < seedLen {
		IncrementV(v)
		cipher.Encrypt(block, v)
		temp = append(temp, block...)
	}
	temp = temp[:seedLen]

	arith.XOR(temp, providedData)

	copy(key, temp[:len(key)])
	copy(v, temp[len(key):])
	return nil
}
