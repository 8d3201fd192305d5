// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package selftest

import (
	"encoding/hex"
	"fmt"
)

// KATFixture is one CAVP-style known-answer test vector, matching the
// JSON schema shipped under selftest/fixtures/*.json: hex-encoded
// entropy/nonce/personalization/additional-input fields plus the
// expected output. A fixture exercises exactly one of three shapes: a
// plain generate (optionally a double generate with two additional
// inputs), a reseed-then-generate, or a prediction-resistance generate
// (entropy_pr/entropy_pr2 in place of a reseed block).
type KATFixture struct {
	Name string `json:"name"`

	Entropy string  `json:"entropy"`
	Nonce   string  `json:"nonce"`
	Pers    *string `json:"pers,omitempty"`

	EntropyReseed *string `json:"entropy_reseed,omitempty"`
	AddInReseed   *string `json:"add_in_reseed,omitempty"`

	AddInGen  *string `json:"add_in_gen,omitempty"`
	AddInGen2 *string `json:"add_in_gen2,omitempty"`

	EntropyPR  *string `json:"entropy_pr,omitempty"`
	EntropyPR2 *string `json:"entropy_pr2,omitempty"`

	Expected string `json:"expected"`
}

// MechanismUnderTest is the common surface every mechanism package's
// *State already implements, used here to drive a KAT sequence without
// coupling this package to any one mechanism's concrete type.
type MechanismUnderTest interface {
	Reseed(entropy, additionalInput []byte) error
	Generate(out []byte, additionalInput []byte) error
}

func decodeHexOr(s *string) []byte {
	if s == nil {
		return nil
	}
	b, err := hex.DecodeString(*s)
	if err != nil {
		return nil
	}
	return b
}

// RunKATs drives the given fixtures against instances produced by
// instantiate (entropy, nonce, personalization -> mechanism instance),
// writing one PASSED/FAILED line per fixture to sink, and returns the
// number of failed fixtures.
func RunKATs(
	moduleName string,
	fixtures []KATFixture,
	instantiate func(entropy, nonce, pers []byte) (MechanismUnderTest, error),
	sink Sink,
) int {
	failures := 0

	for _, f := range fixtures {
		expected, err := hex.DecodeString(f.Expected)
		if err != nil {
			sink.WriteString(FormatResult(false, moduleName, f.Name, "malformed expected hex in fixture"))
			failures++
			continue
		}

		entropy := decodeHexOr(&f.Entropy)
		nonce := decodeHexOr(&f.Nonce)
		pers := decodeHexOr(f.Pers)

		inst, err := instantiate(entropy, nonce, pers)
		if err != nil {
			sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("failed to instantiate: %v", err)))
			failures++
			continue
		}

		out := make([]byte, len(expected))
		addGen := decodeHexOr(f.AddInGen)

		switch {
		case f.EntropyPR != nil:
			// Prediction-resistance generate: force a reseed using the
			// PR entropy, folding the additional input into the reseed
			// step and not re-passing it to generate.
			prEntropy := decodeHexOr(f.EntropyPR)
			if err := inst.Reseed(prEntropy, addGen); err != nil {
				sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("pr reseed failed: %v", err)))
				failures++
				continue
			}
			if err := inst.Generate(out, nil); err != nil {
				sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("pr generate failed: %v", err)))
				failures++
				continue
			}
			if f.EntropyPR2 != nil {
				pr2Entropy := decodeHexOr(f.EntropyPR2)
				addGen2 := decodeHexOr(f.AddInGen2)
				if err := inst.Reseed(pr2Entropy, addGen2); err != nil {
					sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("second pr reseed failed: %v", err)))
					failures++
					continue
				}
				if err := inst.Generate(out, nil); err != nil {
					sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("second pr generate failed: %v", err)))
					failures++
					continue
				}
			}

		case f.EntropyReseed != nil:
			reseedEntropy := decodeHexOr(f.EntropyReseed)
			addReseed := decodeHexOr(f.AddInReseed)
			if err := inst.Reseed(reseedEntropy, addReseed); err != nil {
				sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("reseed failed: %v", err)))
				failures++
				continue
			}
			if err := inst.Generate(out, addGen); err != nil {
				sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("generate failed: %v", err)))
				failures++
				continue
			}

		case f.AddInGen2 != nil:
			// Double consecutive generate, discarding the first output,
			// comparing only the second against expected.
			first := make([]byte, len(expected))
			if err := inst.Generate(first, addGen); err != nil {
				sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("first generate failed: %v", err)))
				failures++
				continue
			}
			addGen2 := decodeHexOr(f.AddInGen2)
			if err := inst.Generate(out, addGen2); err != nil {
				sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("second generate failed: %v", err)))
				failures++
				continue
			}

		default:
			if err := inst.Generate(out, addGen); err != nil {
				sink.WriteString(FormatResult(false, moduleName, f.Name, fmt.Sprintf("generate failed: %v", err)))
				failures++
				continue
			}
		}

		if !bytesEqual(out, expected) {
			sink.WriteString(FormatResult(false, moduleName, f.Name, "output did not match expected vector"))
			failures++
			continue
		}
		sink.WriteString(FormatResult(true, moduleName, f.Name, "generated output matched expected vector"))
	}

	return failures
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
