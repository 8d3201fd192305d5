// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import (
	"fmt"

	"github.com/sixafter/drbg90a/internal/primitive"
	"github.com/sixafter/drbg90a/selftest"
	"github.com/sixafter/drbg90a/x/crypto/ctrdrbg"
	"github.com/sixafter/drbg90a/x/crypto/ctrdrbgdf"
	"github.com/sixafter/drbg90a/x/crypto/hashdrbg"
	"github.com/sixafter/drbg90a/x/crypto/hmacdrbg"
)

// runSelfTestBattery runs the three self-test families of section 4.8
// for one mechanism+primitive pair: known-answer tests against the
// shipped vectors, a negative test against a documented error branch,
// and a zeroization check. It writes one log line per sub-test to sink
// and returns a non-nil error if any of them failed.
func runSelfTestBattery(tag MechanismTag, prim PrimitiveTag, sink selftest.Sink) error {
	sink.WriteString(selftest.Banner(tag.String(), prim.String()))

	fixtures, err := katFixturesFor(tag)
	if err != nil {
		sink.WriteString(selftest.FormatResult(false, tag.String(), "load-fixtures", err.Error()))
		return err
	}

	instantiate := func(entropy, nonce, pers []byte) (selftest.MechanismUnderTest, error) {
		return instantiateMechanismUnderTest(tag, prim, entropy, nonce, pers)
	}

	failures := selftest.RunKATs(tag.String(), fixtures, instantiate, sink)
	if failures > 0 {
		return fmt.Errorf("drbg: %d known-answer test(s) failed for %s/%s", failures, tag, prim)
	}

	if err := negativeTest(tag, prim, sink); err != nil {
		return err
	}
	if err := zeroizationTest(tag, prim, sink); err != nil {
		return err
	}
	return nil
}

// katFixturesFor returns the shipped known-answer vectors for a
// mechanism. All four mechanisms currently ship empty fixture sets (see
// DESIGN.md); an empty fixture set is not a failure, it simply runs
// zero KATs.
func katFixturesFor(tag MechanismTag) ([]selftest.KATFixture, error) {
	switch tag {
	case HMACDRBG:
		return selftest.HMACFixtures()
	case HashDRBG:
		return selftest.HashFixtures()
	case CTRDRBG:
		return selftest.CTRFixtures()
	case CTRDRBGDF:
		return selftest.CTRDFFixtures()
	default:
		return nil, fmt.Errorf("drbg: unknown mechanism tag %d", tag)
	}
}

// instantiateMechanismUnderTest builds one mechanism instance from raw
// KAT material, used both by RunKATs and by the negative/zeroization
// sub-tests below.
func instantiateMechanismUnderTest(tag MechanismTag, prim PrimitiveTag, entropy, nonce, pers []byte) (mechanismState, error) {
	switch tag {
	case HMACDRBG:
		hashID, ok := hashIDFor(prim)
		if !ok {
			return nil, ErrBadStrength
		}
		return hmacdrbg.New(hashID, entropy, nonce, pers)
	case HashDRBG:
		hashID, ok := hashIDFor(prim)
		if !ok {
			return nil, ErrBadStrength
		}
		return hashdrbg.New(hashID, entropy, nonce, pers)
	case CTRDRBG:
		cipherID, ok := cipherIDFor(prim)
		if !ok {
			return nil, ErrBadStrength
		}
		return ctrdrbg.New(cipherID, entropy, pers)
	case CTRDRBGDF:
		cipherID, ok := cipherIDFor(prim)
		if !ok {
			return nil, ErrBadStrength
		}
		return ctrdrbgdf.New(cipherID, entropy, nonce, pers)
	default:
		return nil, ErrInvalidState
	}
}

// negativeTest exercises one documented error branch per mechanism:
// instantiate with empty entropy must fail rather than silently
// substitute or proceed with a weak seed.
func negativeTest(tag MechanismTag, prim PrimitiveTag, sink selftest.Sink) error {
	testID := "reject-empty-entropy"
	_, err := instantiateMechanismUnderTest(tag, prim, nil, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, nil)
	if err == nil {
		sink.WriteString(selftest.FormatResult(false, tag.String(), testID, "instantiate with empty entropy unexpectedly succeeded"))
		return fmt.Errorf("drbg: negative test %s failed for %s/%s", testID, tag, prim)
	}
	sink.WriteString(selftest.FormatResult(true, tag.String(), testID, "instantiate with empty entropy correctly rejected"))
	return nil
}

// zeroizationTest instantiates a throwaway instance from deterministic
// filler material, zeroizes it, and confirms a subsequent Generate call
// is rejected.
func zeroizationTest(tag MechanismTag, prim PrimitiveTag, sink selftest.Sink) error {
	testID := "zeroize-latches"

	entropyBytes, nonceBytes := seedMaterialSizesFor(tag, prim)
	filler := make([]byte, entropyBytes)
	for i := range filler {
		filler[i] = byte(i + 1)
	}
	var nonce []byte
	if nonceBytes > 0 {
		nonce = make([]byte, nonceBytes)
		for i := range nonce {
			nonce[i] = byte(0x80 + i)
		}
	}

	mech, err := instantiateMechanismUnderTest(tag, prim, filler, nonce, nil)
	if err != nil {
		sink.WriteString(selftest.FormatResult(false, tag.String(), testID, fmt.Sprintf("setup instantiate failed: %v", err)))
		return fmt.Errorf("drbg: zeroization test setup failed for %s/%s: %w", tag, prim, err)
	}

	if err := mech.Zeroize(); err != nil {
		sink.WriteString(selftest.FormatResult(false, tag.String(), testID, fmt.Sprintf("zeroize failed: %v", err)))
		return fmt.Errorf("drbg: zeroize call failed for %s/%s: %w", tag, prim, err)
	}

	out := make([]byte, primitive.BlockLen)
	if err := mech.Generate(out, nil); err == nil {
		sink.WriteString(selftest.FormatResult(false, tag.String(), testID, "generate after zeroize unexpectedly succeeded"))
		return fmt.Errorf("drbg: zeroized instance served a generate call for %s/%s", tag, prim)
	}

	sink.WriteString(selftest.FormatResult(true, tag.String(), testID, "generate after zeroize correctly rejected"))
	return nil
}
