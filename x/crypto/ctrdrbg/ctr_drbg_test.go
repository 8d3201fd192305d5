// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ctrdrbg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixafter/drbg90a/internal/primitive"
)

func fullEntropy(t *testing.T, n int) []byte {
	t.Helper()
	e := make([]byte, n)
	for i := range e {
		e[i] = byte(i*7 + 1)
	}
	return e
}

func Test_New_RejectsUnapprovedCipher(t *testing.T) {
	is := assert.New(t)
	entropy := fullEntropy(t, 64)

	_, err := New(primitive.BlockCipherID(99), entropy, nil)
	is.ErrorIs(err, primitive.ErrUnapproved)
}

func Test_New_RejectsShortEntropy(t *testing.T) {
	is := assert.New(t)
	_, err := New(primitive.AES128, make([]byte, 4), nil)
	is.Error(err)
}

func Test_New_RejectsOverlongPersonalization(t *testing.T) {
	is := assert.New(t)
	entropy := fullEntropy(t, 32)
	_, err := New(primitive.AES128, entropy, make([]byte, 64))
	is.ErrorIs(err, ErrInputTooLong)
}

func Test_New_SeedsKeyAndVToCorrectLength(t *testing.T) {
	require := require.New(t)
	entropy := fullEntropy(t, 48)

	s, err := New(primitive.AES256, entropy, []byte("pers"))
	require.NoError(err)
	require.Len(s.key, 32)
	require.Len(s.v, 16)
	require.EqualValues(1, s.Count())
}

func Test_Generate_ProducesRequestedLengthAndAdvancesCounter(t *testing.T) {
	require := require.New(t)
	entropy := fullEntropy(t, 32)

	s, err := New(primitive.AES128, entropy, nil)
	require.NoError(err)

	out := make([]byte, 100)
	require.NoError(s.Generate(out, nil))
	require.EqualValues(2, s.Count())
	require.False(bytes.Equal(out, make([]byte, 100)))
}

func Test_Generate_IsDeterministicGivenSameState(t *testing.T) {
	require := require.New(t)
	entropy := fullEntropy(t, 32)

	s1, err := New(primitive.AES128, entropy, []byte("app"))
	require.NoError(err)
	s2, err := New(primitive.AES128, entropy, []byte("app"))
	require.NoError(err)

	out1 := make([]byte, 64)
	out2 := make([]byte, 64)
	require.NoError(s1.Generate(out1, []byte("additional")))
	require.NoError(s2.Generate(out2, []byte("additional")))
	require.Equal(out1, out2)
}

func Test_Generate_RejectsOverlongAdditionalInput(t *testing.T) {
	require := require.New(t)
	entropy := fullEntropy(t, 32)

	s, err := New(primitive.AES128, entropy, nil)
	require.NoError(err)

	out := make([]byte, 16)
	require.ErrorIs(s.Generate(out, make([]byte, 64)), ErrInputTooLong)
}

func Test_Reseed_ResetsCounter(t *testing.T) {
	require := require.New(t)
	entropy := fullEntropy(t, 32)

	s, err := New(primitive.AES128, entropy, nil)
	require.NoError(err)

	out := make([]byte, 16)
	require.NoError(s.Generate(out, nil))
	require.EqualValues(2, s.Count())

	require.NoError(s.Reseed(entropy, nil))
	require.EqualValues(1, s.Count())
}

func Test_Generate_RequiresReseedAfterSeedLife(t *testing.T) {
	require := require.New(t)
	entropy := fullEntropy(t, 32)

	s, err := New(primitive.AES128, entropy, nil)
	require.NoError(err)
	s.reseedCounter = SeedLife

	out := make([]byte, 8)
	require.ErrorIs(s.Generate(out, nil), ErrReseedRequired)
}

func Test_Zeroize_ClearsStateAndLatches(t *testing.T) {
	require := require.New(t)
	entropy := fullEntropy(t, 32)

	s, err := New(primitive.AES128, entropy, nil)
	require.NoError(err)

	require.NoError(s.Zeroize())
	require.True(s.IsZeroized())
	require.Equal(make([]byte, 16), s.key)
	require.Equal(make([]byte, 16), s.v)

	require.ErrorIs(s.Zeroize(), ErrZeroized)

	out := make([]byte, 8)
	require.ErrorIs(s.Generate(out, nil), ErrZeroized)
	require.ErrorIs(s.Reseed(entropy, nil), ErrZeroized)
}
