// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package selftest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixafter/drbg90a/x/crypto/hashdrbg"
	"github.com/sixafter/drbg90a/x/crypto/hmacdrbg"
	"github.com/sixafter/drbg90a/internal/primitive"
)

func Test_HMACFixtures_LoadAndParse(t *testing.T) {
	require := require.New(t)

	// Shipped empty: see DESIGN.md for why no HMAC-DRBG CAVP vector could
	// be confidently reproduced without running the toolchain. This only
	// confirms the embedded file decodes as a valid (if empty) vector set.
	fixtures, err := HMACFixtures()
	require.NoError(err)
	require.Empty(fixtures)
}

func Test_RunKATs_HMAC_WithNoFixtures_ReportsNoFailures(t *testing.T) {
	require := require.New(t)

	fixtures, err := HMACFixtures()
	require.NoError(err)

	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	failures := RunKATs("HMAC-DRBG", fixtures, func(entropy, nonce, pers []byte) (MechanismUnderTest, error) {
		return hmacdrbg.New(primitive.SHA256, entropy, nonce, pers)
	}, sink)

	require.Equal(0, failures)
	require.Empty(buf.String())
}

func Test_RunKATs_ReportsInstantiationFailure(t *testing.T) {
	is := assert.New(t)

	fixtures := []KATFixture{{Name: "bad", Entropy: "", Nonce: "00", Expected: "00"}}
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	failures := RunKATs("HMAC-DRBG", fixtures, func(entropy, nonce, pers []byte) (MechanismUnderTest, error) {
		return hmacdrbg.New(primitive.SHA256, entropy, nonce, pers)
	}, sink)

	is.Equal(1, failures)
	is.Contains(buf.String(), "TEST FAILED")
}

func Test_RunKATs_HashFixturesLoadAndRun(t *testing.T) {
	require := require.New(t)

	// Shipped empty for the same reason as the HMAC-DRBG vectors.
	fixtures, err := HashFixtures()
	require.NoError(err)
	require.Empty(fixtures)

	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	failures := RunKATs("Hash-DRBG", fixtures, func(entropy, nonce, pers []byte) (MechanismUnderTest, error) {
		return hashdrbg.New(primitive.SHA256, entropy, nonce, pers)
	}, sink)

	require.Equal(0, failures)
}

func Test_FormatResult_MatchesAppendOnlyContract(t *testing.T) {
	is := assert.New(t)
	line := FormatResult(true, "HMAC-DRBG", "t1", "ok")
	is.Equal("TEST PASSED (HMAC-DRBG) - t1: ok\n", line)

	line = FormatResult(false, "HMAC-DRBG", "t2", "mismatch")
	is.Equal("TEST FAILED (HMAC-DRBG) - t2: mismatch\n", line)
}

func Test_Banner(t *testing.T) {
	is := assert.New(t)
	is.Equal("\n*** STARTING HMAC-DRBG (SHA-256) self-tests ***\n", Banner("HMAC-DRBG", "SHA-256"))
}
