// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package zero provides a single, shared memory-clearing primitive that
// every DRBG mechanism's Zeroize method uses to overwrite secret state (K,
// V, C, Key) on uninstantiate. Zeroize is the only caller: secret state is
// not cleared when an instance latches a fatal error or becomes
// unreachable.
package zero

import "runtime"

// Bytes overwrites every byte of buf with zero and prevents the compiler
// from eliding the write as a dead store (golang/go#33325).
func Bytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
