// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package base58check implements the Base58Check encoding BIP32 extended
// keys, WIF private keys, and P2PKH addresses all share: a raw base58
// alphabet encode/decode step (github.com/btcsuite/btcd/btcutil/base58)
// wrapped with a 4-byte double-SHA-256 checksum.
package base58check

import (
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/shellreserve/hdwallet/hash"
)

const checksumLen = 4

// ErrInvalidEncoding is returned by Decode when s contains characters outside
// the base58 alphabet, or when the decoded payload is shorter than the
// 4-byte checksum it is expected to carry.
var ErrInvalidEncoding = errors.New("base58check: invalid encoding")

// ErrChecksum is returned by Decode when the trailing 4 bytes of the decoded
// payload do not match the double-SHA-256 checksum of the preceding bytes.
var ErrChecksum = errors.New("base58check: checksum mismatch")

// Encode appends the first 4 bytes of DoubleSha256(payload) to payload and
// base58-encodes the result.
//
// Unlike btcutil/base58.CheckEncode, Encode takes no separate version byte:
// BIP32's version field is already embedded in the 78-byte payload it
// encodes, so callers that need a version/prefix byte (WIF, P2PKH) prepend
// it to payload themselves before calling Encode.
func Encode(payload []byte) string {
	checksum := hash.DoubleSha256(payload)
	buf := make([]byte, 0, len(payload)+checksumLen)
	buf = append(buf, payload...)
	buf = append(buf, checksum[:checksumLen]...)
	return base58.Encode(buf)
}

// Decode reverses Encode, returning the payload with the checksum stripped
// and verified.
func Decode(s string) ([]byte, error) {
	decoded := base58.Decode(s)
	if len(decoded) < checksumLen {
		return nil, ErrInvalidEncoding
	}

	payload := decoded[:len(decoded)-checksumLen]
	checksum := decoded[len(decoded)-checksumLen:]

	expected := hash.DoubleSha256(payload)
	for i := 0; i < checksumLen; i++ {
		if checksum[i] != expected[i] {
			return nil, ErrChecksum
		}
	}
	return payload, nil
}
