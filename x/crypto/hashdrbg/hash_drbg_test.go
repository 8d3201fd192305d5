// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package hashdrbg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixafter/drbg90a/internal/primitive"
)

func entropyNonce(t *testing.T) ([]byte, []byte) {
	t.Helper()
	entropy := make([]byte, 32)
	nonce := make([]byte, 16)
	for i := range entropy {
		entropy[i] = byte(i + 1)
	}
	for i := range nonce {
		nonce[i] = byte(0x80 + i)
	}
	return entropy, nonce
}

func Test_New_RejectsUnapprovedHash(t *testing.T) {
	is := assert.New(t)
	entropy, nonce := entropyNonce(t)

	_, err := New(primitive.HashID(99), entropy, nonce, nil)
	is.ErrorIs(err, primitive.ErrUnapproved)
}

func Test_New_RejectsEmptyEntropyOrNonce(t *testing.T) {
	is := assert.New(t)
	entropy, nonce := entropyNonce(t)

	_, err := New(primitive.SHA256, nil, nonce, nil)
	is.Error(err)

	_, err = New(primitive.SHA256, entropy, nil, nil)
	is.Error(err)
}

func Test_New_SeedsVAndCToSeedlen(t *testing.T) {
	require := require.New(t)
	entropy, nonce := entropyNonce(t)

	s256, err := New(primitive.SHA256, entropy, nonce, []byte("pers"))
	require.NoError(err)
	require.Len(s256.v, 440/8)
	require.Len(s256.c, 440/8)

	s512, err := New(primitive.SHA512, entropy, nonce, nil)
	require.NoError(err)
	require.Len(s512.v, 888/8)
	require.Len(s512.c, 888/8)
}

func Test_Generate_ProducesRequestedLengthAndAdvancesCounter(t *testing.T) {
	require := require.New(t)
	entropy, nonce := entropyNonce(t)

	s, err := New(primitive.SHA256, entropy, nonce, nil)
	require.NoError(err)

	out := make([]byte, 100)
	require.NoError(s.Generate(out, nil))
	require.EqualValues(2, s.Count())
	require.False(bytes.Equal(out, make([]byte, 100)))
}

func Test_Generate_IsDeterministicGivenSameState(t *testing.T) {
	require := require.New(t)
	entropy, nonce := entropyNonce(t)

	s1, err := New(primitive.SHA256, entropy, nonce, []byte("app"))
	require.NoError(err)
	s2, err := New(primitive.SHA256, entropy, nonce, []byte("app"))
	require.NoError(err)

	out1 := make([]byte, 64)
	out2 := make([]byte, 64)
	require.NoError(s1.Generate(out1, []byte("additional")))
	require.NoError(s2.Generate(out2, []byte("additional")))
	require.Equal(out1, out2)
}

func Test_Generate_AdditionalInputChangesOutput(t *testing.T) {
	require := require.New(t)
	entropy, nonce := entropyNonce(t)

	s1, err := New(primitive.SHA256, entropy, nonce, nil)
	require.NoError(err)
	s2, err := New(primitive.SHA256, entropy, nonce, nil)
	require.NoError(err)

	out1 := make([]byte, 32)
	out2 := make([]byte, 32)
	require.NoError(s1.Generate(out1, nil))
	require.NoError(s2.Generate(out2, []byte("extra")))
	require.NotEqual(out1, out2)
}

func Test_Reseed_ResetsCounter(t *testing.T) {
	require := require.New(t)
	entropy, nonce := entropyNonce(t)

	s, err := New(primitive.SHA256, entropy, nonce, nil)
	require.NoError(err)

	out := make([]byte, 16)
	require.NoError(s.Generate(out, nil))
	require.EqualValues(2, s.Count())

	require.NoError(s.Reseed(entropy, nil))
	require.EqualValues(1, s.Count())
}

func Test_Generate_RequiresReseedAfterSeedLife(t *testing.T) {
	require := require.New(t)
	entropy, nonce := entropyNonce(t)

	s, err := New(primitive.SHA256, entropy, nonce, nil)
	require.NoError(err)
	s.reseedCounter = SeedLife

	out := make([]byte, 8)
	require.ErrorIs(s.Generate(out, nil), ErrReseedRequired)
}

func Test_Zeroize_ClearsStateAndLatches(t *testing.T) {
	require := require.New(t)
	entropy, nonce := entropyNonce(t)

	s, err := New(primitive.SHA256, entropy, nonce, nil)
	require.NoError(err)

	require.NoError(s.Zeroize())
	require.True(s.IsZeroized())
	require.Equal(make([]byte, 440/8), s.v)
	require.Equal(make([]byte, 440/8), s.c)

	require.ErrorIs(s.Zeroize(), ErrZeroized)

	out := make([]byte, 8)
	require.ErrorIs(s.Generate(out, nil), ErrZeroized)
	require.ErrorIs(s.Reseed(entropy, nil), ErrZeroized)
}

func Test_HashDF_ProducesExactLengthAndIsDeterministic(t *testing.T) {
	require := require.New(t)

	out1, err := hashDF(primitive.SHA256, []byte("some input material"), 55)
	require.NoError(err)
	require.Len(out1, 55)

	out2, err := hashDF(primitive.SHA256, []byte("some input material"), 55)
	require.NoError(err)
	require.Equal(out1, out2)
}
