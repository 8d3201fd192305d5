// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import (
	"github.com/sixafter/drbg90a/internal/primitive"
	"github.com/sixafter/drbg90a/selftest"
)

// MechanismTag selects one of the four DRBG mechanism families at
// instantiation time. A runtime tag (rather than a Go generic
// parameter) is used here because the mechanism choice is made once, at
// New, and the hot per-block/per-hash loop inside each mechanism
// package is plain concrete code with no interface indirection.
type MechanismTag = selftest.MechanismTag

const (
	HMACDRBG  = selftest.HMACDRBG
	HashDRBG  = selftest.HashDRBG
	CTRDRBG   = selftest.CTRDRBG
	CTRDRBGDF = selftest.CTRDRBGDF
)

// PrimitiveTag selects the hash function or block cipher a mechanism
// instance is built on.
type PrimitiveTag = selftest.PrimitiveTag

const (
	SHA256 = selftest.SHA256
	SHA512 = selftest.SHA512
	AES128 = selftest.AES128
	AES192 = selftest.AES192
	AES256 = selftest.AES256
)

// hashIDFor maps a PrimitiveTag to the internal/primitive identity used
// by the HMAC-DRBG and Hash-DRBG mechanism packages.
func hashIDFor(p PrimitiveTag) (primitive.HashID, bool) {
	switch p {
	case SHA256:
		return primitive.SHA256, true
	case SHA512:
		return primitive.SHA512, true
	default:
		return 0, false
	}
}

// cipherIDFor maps a PrimitiveTag to the internal/primitive identity
// used by the CTR-DRBG mechanism packages.
func cipherIDFor(p PrimitiveTag) (primitive.BlockCipherID, bool) {
	switch p {
	case AES128:
		return primitive.AES128, true
	case AES192:
		return primitive.AES192, true
	case AES256:
		return primitive.AES256, true
	default:
		return 0, false
	}
}

// securityStrengthFor returns the fixed security strength, in bits, that
// a mechanism+primitive pair provides.
func securityStrengthFor(m MechanismTag, p PrimitiveTag) (int, bool) {
	switch m {
	case HMACDRBG, HashDRBG:
		switch p {
		case SHA256, SHA512:
			return 256, true
		default:
			return 0, false
		}
	case CTRDRBG, CTRDRBGDF:
		switch p {
		case AES128:
			return 128, true
		case AES192:
			return 192, true
		case AES256:
			return 256, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}
