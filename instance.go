// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package drbg is a generic wrapper (SP 800-90A Rev 1 section 9) around
// four approved DRBG mechanisms: HMAC-DRBG, Hash-DRBG, CTR-DRBG, and
// CTR-DRBG with a derivation function. It validates every call against
// the mechanism's declared security strength, sources entropy and
// nonce material from an injectable Source, schedules reseeds
// automatically at seed-life expiry, gates a mechanism+primitive pair's
// first instantiate on its self-tests passing, and latches an instance
// permanently unusable on any fatal mechanism error or explicit
// zeroization.
package drbg

import (
	"github.com/sixafter/drbg90a/internal/primitive"
	"github.com/sixafter/drbg90a/x/crypto/ctrdrbg"
	"github.com/sixafter/drbg90a/x/crypto/ctrdrbgdf"
	"github.com/sixafter/drbg90a/x/crypto/hashdrbg"
	"github.com/sixafter/drbg90a/x/crypto/hmacdrbg"
)

// MaxSecurityStrengthBits is the highest security strength any
// mechanism+primitive pair in this library can provide.
const MaxSecurityStrengthBits = 256

// MaxBitsPerRequest is the maximum number of bits a single Generate
// call may request (SP 800-90A Table 2's max_number_of_bits_per_request,
// fixed here at 2048 bits / 256 bytes across all four mechanisms).
const MaxBitsPerRequest = 2048

// mechanismState is the full surface every mechanism package's *State
// exposes: the generate/reseed operations plus the observers and
// zeroization hook the wrapper needs to implement automatic reseed,
// fatal-state latching, and Uninstantiate.
type mechanismState interface {
	Reseed(entropy, additionalInput []byte) error
	Generate(out []byte, additionalInput []byte) error
	Zeroize() error
	Count() uint64
	ReseedNeeded() bool
	IsZeroized() bool
}

// Instance is one instantiated, independently-keyed DRBG. Instances are
// NOT safe for concurrent use: the caller is responsible for serializing
// calls to Reseed, Generate, Uninstantiate, and RunSelfTests on a given
// Instance, exactly as reseed and generate must never interleave on the
// same working state. Callers that want a concurrency-safe drop-in
// io.Reader instead should use Pool, which hands each caller an
// independently-instantiated Instance rather than sharing one.
type Instance struct {
	tag  MechanismTag
	prim PrimitiveTag

	mech mechanismState
	cfg  Config

	securityStrength int
	seedLife         uint64
	entropyBytes     int
	nonceBytes       int

	errored bool
}

// New instantiates a DRBG instance for the given mechanism and
// primitive. reqStrengthBits is the caller's requested security
// strength; it must not exceed the fixed strength the mechanism and
// primitive pair provides. personalization may be empty but must not
// exceed the instance's security strength in bits. The first
// instantiate of a given mechanism+primitive pair runs that pair's
// self-test battery before returning; later instantiates skip it.
func New(tag MechanismTag, prim PrimitiveTag, reqStrengthBits int, personalization []byte, opts ...Option) (*Instance, error) {
	strength, ok := securityStrengthFor(tag, prim)
	if !ok {
		return nil, newError(CodeInvalidState, ErrBadStrength)
	}
	if reqStrengthBits > strength {
		return nil, newError(CodeInvalidState, ErrBadStrength)
	}
	if len(personalization)*8 > strength {
		return nil, newError(CodeInputTooLong, ErrPersonalizationTooLong)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	entropyBytes, nonceBytes := seedMaterialSizesFor(tag, prim)

	if err := cfg.Registry.EnsureTested(tag, prim, func() error {
		return runSelfTestBattery(tag, prim, cfg.Sink)
	}); err != nil {
		return nil, newError(CodeSelfTestFailed, ErrSelfTestFailed)
	}

	entropyInput, err := cfg.EntropySource.GetEntropy(entropyBytes)
	if err != nil {
		return nil, newError(CodeMechanismFailed, ErrMechanismFailed)
	}
	var nonce []byte
	if nonceBytes > 0 {
		nonce, err = cfg.EntropySource.GetEntropy(nonceBytes)
		if err != nil {
			return nil, newError(CodeMechanismFailed, ErrMechanismFailed)
		}
	}

	mech, err := instantiateMechanismUnderTest(tag, prim, entropyInput, nonce, personalization)
	if err != nil {
		return nil, newError(CodeMechanismFailed, ErrMechanismFailed)
	}

	seedLife := seedLifeFor(tag)

	return &Instance{
		tag:              tag,
		prim:             prim,
		mech:             mech,
		cfg:              cfg,
		securityStrength: strength,
		seedLife:         seedLife,
		entropyBytes:     entropyBytes,
		nonceBytes:       nonceBytes,
	}, nil
}

// Reseed draws fresh entropy from the configured Source and folds it,
// together with additionalInput, into the instance's working state per
// the mechanism's reseed operation.
func (in *Instance) Reseed(additionalInput []byte) error {
	return in.reseedInner(additionalInput)
}

func (in *Instance) reseedInner(additionalInput []byte) error {
	if err := in.checkUsable(); err != nil {
		return err
	}
	if len(additionalInput)*8 > in.securityStrength {
		return newError(CodeInputTooLong, ErrAdditionalInputTooLong)
	}

	entropyInput, err := in.cfg.EntropySource.GetEntropy(in.entropyBytes)
	if err != nil {
		in.errored = true
		return newError(CodeMechanismFailed, ErrMechanismFailed)
	}

	if err := in.mech.Reseed(entropyInput, additionalInput); err != nil {
		in.errored = true
		return newError(CodeMechanismFailed, ErrMechanismFailed)
	}
	return nil
}

// Generate fills out entirely with pseudorandom bits. reqStrengthBits
// is the caller's per-call requested security strength; it must not
// exceed the instance's own. If predictionResistance is true, a fresh
// reseed (folding additionalInput) runs immediately before generation
// and additionalInput is not passed to the generate step itself, per
// SP 800-90A section 9.3. Otherwise, if the mechanism's reseed counter
// has reached its seed life, an automatic reseed (without additional
// input) runs first.
func (in *Instance) Generate(out []byte, reqStrengthBits int, predictionResistance bool, additionalInput []byte) error {
	if err := in.checkUsable(); err != nil {
		return err
	}
	if reqStrengthBits > in.securityStrength {
		return newError(CodeInvalidState, ErrStrengthNotSupported)
	}
	if len(out)*8 > MaxBitsPerRequest {
		zeroOut(out)
		return newError(CodeGenerateFailed, ErrRequestTooLarge)
	}
	if len(additionalInput)*8 > in.securityStrength {
		zeroOut(out)
		return newError(CodeInputTooLong, ErrAdditionalInputTooLong)
	}

	genAdditionalInput := additionalInput
	if predictionResistance {
		if err := in.reseedInner(additionalInput); err != nil {
			zeroOut(out)
			return err
		}
		genAdditionalInput = nil
	} else if in.mech.ReseedNeeded() {
		if err := in.reseedInner(nil); err != nil {
			zeroOut(out)
			return err
		}
	}

	if err := in.mech.Generate(out, genAdditionalInput); err != nil {
		zeroOut(out)
		in.errored = true
		return newError(CodeGenerateFailed, ErrGenerateFailed)
	}
	return nil
}

// Uninstantiate zeroizes the instance's working state and permanently
// latches it unusable. A second call returns ErrAlreadyZeroized.
func (in *Instance) Uninstantiate() error {
	if in.mech.IsZeroized() {
		return newError(CodeInvalidState, ErrAlreadyZeroized)
	}
	if err := in.mech.Zeroize(); err != nil {
		in.errored = true
		return newError(CodeInvalidState, ErrAlreadyZeroized)
	}
	return nil
}

// RunSelfTests re-runs this instance's mechanism+primitive self-test
// battery on demand, independent of the first-use registry gate.
func (in *Instance) RunSelfTests() error {
	if err := runSelfTestBattery(in.tag, in.prim, in.cfg.Sink); err != nil {
		return newError(CodeSelfTestFailed, ErrSelfTestFailed)
	}
	return nil
}

// SecurityStrength returns the fixed security strength, in bits, this
// instance was instantiated at, or 0 once the instance has latched a
// fatal error.
func (in *Instance) SecurityStrength() int {
	if in.errored {
		return 0
	}
	return in.securityStrength
}

// Count returns the mechanism's reseed counter: 1 right after
// instantiate or reseed, plus one for each Generate call served since.
func (in *Instance) Count() uint64 {
	return in.mech.Count()
}

// SeedLife returns the mechanism's reseed-counter limit: once Count
// reaches it, the next Generate reseeds automatically first. Since the
// counter starts at 1, SeedLife-1 Generate calls are served between
// reseeds.
func (in *Instance) SeedLife() uint64 {
	return in.seedLife
}

// MaxBytesPerRequest returns the maximum number of bytes a single
// Generate call may request.
func (in *Instance) MaxBytesPerRequest() int {
	return MaxBitsPerRequest / 8
}

func (in *Instance) checkUsable() error {
	if in.errored {
		return newError(CodeInvalidState, ErrInvalidState)
	}
	if in.mech.IsZeroized() {
		return newError(CodeInvalidState, ErrInvalidState)
	}
	return nil
}

func zeroOut(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// seedLifeFor returns the mechanism's fixed number of Generate calls
// served between reseeds.
func seedLifeFor(tag MechanismTag) uint64 {
	switch tag {
	case HMACDRBG:
		return hmacdrbg.SeedLife
	case HashDRBG:
		return hashdrbg.SeedLife
	case CTRDRBG:
		return ctrdrbg.SeedLife
	case CTRDRBGDF:
		return ctrdrbgdf.SeedLife
	default:
		return 0
	}
}

// seedMaterialSizesFor returns the number of bytes of entropy (and, for
// mechanisms that take one, nonce) a given mechanism+primitive pair
// draws at instantiate, reseed, and automatic-reseed time.
//
// HMAC-DRBG and Hash-DRBG request max(security_strength, 256)/8 bytes
// of entropy and half that of nonce (SP 800-90A Table 2's
// min_entropy/min_nonce bounds, fixed here rather than left to the
// caller). CTR-DRBG without a derivation function requires a
// full-entropy source sized to exactly seedlen bytes and takes no
// nonce. CTR-DRBG with a derivation function accepts entropy sized to
// seedlen bytes and a nonce of half the seedlen, both reduced through
// Block_Cipher_df.
func seedMaterialSizesFor(tag MechanismTag, prim PrimitiveTag) (entropyBytes, nonceBytes int) {
	switch tag {
	case HMACDRBG, HashDRBG:
		strength, _ := securityStrengthFor(tag, prim)
		if strength < MaxSecurityStrengthBits {
			strength = MaxSecurityStrengthBits
		}
		entropyBytes = strength / 8
		nonceBytes = entropyBytes / 2
	case CTRDRBG:
		cipherID, _ := cipherIDFor(prim)
		entropyBytes = cipherID.KeyLen() + primitive.BlockLen
		nonceBytes = 0
	case CTRDRBGDF:
		cipherID, _ := cipherIDFor(prim)
		sl := cipherID.KeyLen() + primitive.BlockLen
		entropyBytes = sl
		nonceBytes = sl / 2
	}
	return entropyBytes, nonceBytes
}
