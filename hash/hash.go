// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hash provides the hash primitives BIP32 key derivation and address
// computation build on: HASH160 (RIPEMD160 over SHA256), double SHA-256, and
// HMAC-SHA-512.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // only RIPEMD160 implementation available
)

// BitcoinSeed is the fixed HMAC key used to derive a BIP32 master node from a
// seed.
var BitcoinSeed = []byte("Bitcoin seed")

// Sha256 returns the SHA-256 digest of b.
func Sha256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// DoubleSha256 returns SHA256(SHA256(b)), the checksum Base58Check encoding
// uses.
func DoubleSha256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// Ripemd160 returns the RIPEMD-160 digest of b.
func Ripemd160(b []byte) [20]byte {
	h := ripemd160.New()
	h.Write(b)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hash160 returns RIPEMD160(SHA256(b)), used to identify both public keys
// (for extended-key fingerprints) and P2PKH address payloads.
func Hash160(b []byte) [20]byte {
	sha := sha256.Sum256(b)
	return Ripemd160(sha[:])
}

// HmacSha512 returns HMAC-SHA512(key, msg), the function that both master-key
// generation and every child key derivation step use to split entropy into a
// left half (key material) and right half (chain code).
func HmacSha512(key, msg []byte) [64]byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(msg)
	var out [64]byte
	copy(out[:], mac.Sum(nil))
	return out
}
