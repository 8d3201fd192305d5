// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package selftest

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed fixtures/*.json
var fixturesFS embed.FS

// LoadFixtures reads and decodes a named fixture file from
// selftest/fixtures (e.g. "hmac_kats.json").
func LoadFixtures(name string) ([]KATFixture, error) {
	raw, err := fixturesFS.ReadFile("fixtures/" + name)
	if err != nil {
		return nil, fmt.Errorf("selftest: reading fixture %s: %w", name, err)
	}
	var fixtures []KATFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("selftest: decoding fixture %s: %w", name, err)
	}
	return fixtures, nil
}

// HMACFixtures returns the shipped HMAC-DRBG known-answer test vectors.
// Shipped empty: see DESIGN.md for why no CAVP vector for this
// mechanism could be confidently reproduced without running the
// toolchain. Mechanism correctness is covered by the package's own
// unit tests instead.
func HMACFixtures() ([]KATFixture, error) { return LoadFixtures("hmac_kats.json") }

// HashFixtures returns the shipped Hash-DRBG known-answer test vectors.
// Shipped empty for the same reason as HMACFixtures.
func HashFixtures() ([]KATFixture, error) { return LoadFixtures("hash_kats.json") }

// CTRFixtures returns the shipped CTR-DRBG (no df) known-answer test
// vectors. Shipped empty: no byte-exact CAVP vector for this mechanism
// could be confidently reproduced without running the toolchain: see
// DESIGN.md. Mechanism correctness for this family is covered by the
// package's own unit tests instead.
func CTRFixtures() ([]KATFixture, error) { return LoadFixtures("ctr_kats.json") }

// CTRDFFixtures returns the shipped CTR-DRBG (with df) known-answer test
// vectors. Shipped empty for the same reason as CTRFixtures.
func CTRDFFixtures() ([]KATFixture, error) { return LoadFixtures("ctr_df_kats.json") }
