// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package drbg

import (
	"fmt"
	"io"
	mrand "math/rand/v2"
	"sync"
)

// defaultShards is the number of independently-keyed Instance shards a
// Pool maintains when no shard count is given.
const defaultShards = 8

// Pool is a sharded, concurrency-friendly io.Reader backed by several
// independently-instantiated *Instance values. Each Read call borrows
// one shard's Instance from a sync.Pool, fills the caller's buffer
// through its Generate method, and returns it; this trades one global
// mutex for per-shard contention, with each shard a full SP 800-90A
// mechanism instance.
type Pool struct {
	pools []*sync.Pool
}

// NewPool constructs a Pool of shards independent DRBG instances, all
// built with the given mechanism, primitive, and requested security
// strength. personalization is applied identically to every shard; if
// per-shard domain separation is required, construct Instances
// individually with New instead. A shards value of 0 or less selects
// defaultShards.
func NewPool(tag MechanismTag, prim PrimitiveTag, reqStrengthBits int, shards int, personalization []byte, opts ...Option) (*Pool, error) {
	if shards <= 0 {
		shards = defaultShards
	}

	// Eagerly instantiate one shard to surface configuration errors (bad
	// strength, failed self-tests, exhausted entropy) at construction
	// time rather than deferring them to the first Read.
	probe, err := New(tag, prim, reqStrengthBits, personalization, opts...)
	if err != nil {
		return nil, err
	}

	pools := make([]*sync.Pool, shards)
	for i := range pools {
		if i == 0 {
			first := probe
			pools[i] = &sync.Pool{
				New: func() any {
					inst, err := New(tag, prim, reqStrengthBits, personalization, opts...)
					if err != nil {
						panic(fmt.Sprintf("drbg: pool shard initialization failed: %v", err))
					}
					return inst
				},
			}
			pools[i].Put(first)
			continue
		}
		pools[i] = &sync.Pool{
			New: func() any {
				inst, err := New(tag, prim, reqStrengthBits, personalization, opts...)
				if err != nil {
					panic(fmt.Sprintf("drbg: pool shard initialization failed: %v", err))
				}
				return inst
			},
		}
	}

	return &Pool{pools: pools}, nil
}

// Read fills b with pseudorandom bytes drawn from one shard's Instance,
// satisfying io.Reader. A single Read call never splits across shards,
// so len(b) must not exceed MaxBytesPerRequest; larger reads should be
// issued in a loop by the caller, matching io.Reader's general
// contract. A shard whose Generate call fails is discarded rather than
// returned to the pool, so a fatally-errored instance cannot be reused.
func (p *Pool) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	shard := 0
	if n := len(p.pools); n > 1 {
		shard = mrand.IntN(n)
	}

	inst := p.pools[shard].Get().(*Instance)
	if err := inst.Generate(b, 0, false, nil); err != nil {
		return 0, err
	}
	p.pools[shard].Put(inst)
	return len(b), nil
}

var _ io.Reader = (*Pool)(nil)
