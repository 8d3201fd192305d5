// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ctrcore

import (
	"crypto/cipher"
	"encoding/binary"
	"errors"

	"github.com/sixafter/drbg90a/internal/primitive"
)

// BCC is the CBC-MAC construction of SP 800-90A section 10.3.3: it chains
// AES-encrypts data one block at a time starting from an all-zero chaining
// value. len(data) must be a multiple of the block length.
func BCC(block cipher.Block, data []byte) []byte {
	blockLen := block.BlockSize()
	chain := make([]byte, blockLen)
	buf := make([]byte, blockLen)

	for off := 0; off+blockLen <= len(data); off += blockLen {
		for i := 0; i < blockLen; i++ {
			buf[i] = chain[i] ^ data[off+i]
		}
		block.Encrypt(chain, buf)
	}
	return chain
}

// BlockCipherDF is the block-cipher-based derivation function of SP 800-90A
// section 10.3.3. It reduces input (arbitrary length) to exactly n bytes of
// seed material, approved for use by the CTR_DRBG-with-DF mechanism.
func BlockCipherDF(cipherID primitive.BlockCipherID, input []byte, n int) ([]byte, error) {
	const maxOutputBytes = 64 // SP 800-90A section 10.3.3 step 1: max_number_of_bits = 512.
	if n > maxOutputBytes {
		return nil, errors.New("ctrcore: block_cipher_df: requested output exceeds 512 bits")
	}

	keyLen := cipherID.KeyLen()
	blockLen := primitive.BlockLen

	// S = L || N || input || 0x80 || zero-pad to a block boundary.
	s := make([]byte, 0, 8+len(input)+1+blockLen)
	var l, nn [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(input)))
	binary.BigEndian.PutUint32(nn[:], uint32(n))
	s = append(s, l[:]...)
	s = append(s, nn[:]...)
	s = append(s, input...)
	s = append(s, 0x80)
	for len(s)%blockLen != 0 {
		s = append(s, 0x00)
	}

	// K = 0x00 0x01 0x02 ... of length keyLen.
	k := make([]byte, keyLen)
	for i := range k {
		k[i] = byte(i)
	}
	cipherK, err := primitive.NewBlockCipher(cipherID, k)
	if err != nil {
		return nil, err
	}

	// Accumulate BCC(K, IV_i || S) for i = 0, 1, ... until (keyLen+blockLen)
	// bytes are available.
	temp := make([]byte, 0, keyLen+blockLen)
	for i := uint32(0); len(temp) < keyLen+blockLen; i++ {
		iv := make([]byte, blockLen)
		binary.BigEndian.PutUint32(iv[:4], i)
		ivs := append(iv, s...)
		temp = append(temp, BCC(cipherK, ivs)...)
	}
	temp = temp[:keyLen+blockLen]

	kStar := temp[:keyLen]
	x := append([]byte(nil), temp[keyLen:]...)

	cipherKStar, err := primitive.NewBlockCipher(cipherID, kStar)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, n+blockLen)
	next := make([]byte, blockLen)
	for len(out) < n {
		cipherKStar.Encrypt(next, x)
		copy(x, next)
		out = append(out, next...)
	}
	return out[:n], nil
}
