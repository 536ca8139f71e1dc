// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ecc wraps the secp256k1 scalar and point arithmetic BIP32
// derivation and signing need: deriving a public key from a private scalar,
// SEC1 encode/decode, the Jacobian-point addition public-only child key
// derivation performs, and ECDSA sign/verify of 32-byte digests.
package ecc

import (
	"encoding/asn1"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// ErrInvalidScalar is returned when a private scalar is zero or is not
// smaller than the secp256k1 group order.
var ErrInvalidScalar = errors.New("ecc: invalid scalar")

// ErrInvalidPubkey is returned when a SEC1-encoded public key has the wrong
// length, an unrecognized prefix byte, or does not decode to a point on the
// curve.
var ErrInvalidPubkey = errors.New("ecc: invalid public key")

// ErrPointAtInfinity is returned by CombinePubkeys when k*G + P is the
// identity element. Callers of BIP32 public-only derivation treat this as a
// signal to retry with the next index, per BIP32's rejection sampling rule.
var ErrPointAtInfinity = errors.New("ecc: point at infinity")

// ScalarFromBytes parses a 32-byte big-endian scalar, rejecting zero and any
// value not smaller than the secp256k1 group order n.
func ScalarFromBytes(b []byte) (*secp256k1.ModNScalar, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: scalar must be 32 bytes, got %d", ErrInvalidScalar, len(b))
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(b); overflow {
		return nil, fmt.Errorf("%w: scalar is not less than the curve order", ErrInvalidScalar)
	}
	if s.IsZero() {
		return nil, fmt.Errorf("%w: scalar is zero", ErrInvalidScalar)
	}
	return &s, nil
}

// ScalarBytes writes the canonical 32-byte big-endian encoding of k.
func ScalarBytes(k *secp256k1.ModNScalar) [32]byte {
	var buf [32]byte
	k.PutBytesUnchecked(buf[:])
	return buf
}

// AddScalars returns (a + b) mod n.
func AddScalars(a, b *secp256k1.ModNScalar) *secp256k1.ModNScalar {
	var sum secp256k1.ModNScalar
	sum.Add2(a, b)
	return &sum
}

// PubkeyFromScalar computes k*G and returns its SEC1 encoding, compressed
// (33 bytes, 0x02/0x03 prefix) or uncompressed (65 bytes, 0x04 prefix).
func PubkeyFromScalar(k *secp256k1.ModNScalar, compressed bool) []byte {
	var point secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &point)
	point.ToAffine()

	pub := secp256k1.NewPublicKey(&point.X, &point.Y)
	if compressed {
		return pub.SerializeCompressed()
	}
	return pub.SerializeUncompressed()
}

// IsCompressed reports whether pub is a validly-framed compressed (33-byte,
// 0x02/0x03 prefix) or uncompressed (65-byte, 0x04 prefix) SEC1 public key.
func IsCompressed(pub []byte) (bool, error) {
	switch {
	case len(pub) == 33 && (pub[0] == 0x02 || pub[0] == 0x03):
		return true, nil
	case len(pub) == 65 && pub[0] == 0x04:
		return false, nil
	default:
		return false, fmt.Errorf("%w: unrecognized length %d or prefix", ErrInvalidPubkey, len(pub))
	}
}

// CombinePubkeys returns the SEC1-compressed encoding of k*G + P, where P is
// the point decoded from pub. This is the operation BIP32's public-only
// child key derivation performs to turn a parent public key and the HMAC
// output IL into a child public key without ever touching a private key.
func CombinePubkeys(k *secp256k1.ModNScalar, pub []byte) ([]byte, error) {
	parent, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPubkey, err)
	}

	var offset secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &offset)

	var parentPoint secp256k1.JacobianPoint
	parent.AsJacobian(&parentPoint)

	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&offset, &parentPoint, &sum)
	sum.ToAffine()

	if sum.X.IsZero() && sum.Y.IsZero() {
		return nil, ErrPointAtInfinity
	}
	return secp256k1.NewPublicKey(&sum.X, &sum.Y).SerializeCompressed(), nil
}

// derSignature mirrors the ASN.1 structure of a DER-encoded ECDSA signature,
// used only to recover the raw (r, s) integers the ecdsa package's Signature
// type keeps private.
type derSignature struct {
	R, S *big.Int
}

// Sign produces an RFC 6979 deterministic ECDSA signature over digest and
// returns it as the (r, s) scalar pair BIP32-derived keys exchange.
func Sign(k *secp256k1.ModNScalar, digest [32]byte) (r, s *big.Int, err error) {
	kBytes := ScalarBytes(k)
	priv := secp256k1.PrivKeyFromBytes(kBytes[:])
	defer priv.Zero()

	sig := ecdsa.Sign(priv, digest[:])

	var parsed derSignature
	if _, err := asn1.Unmarshal(sig.Serialize(), &parsed); err != nil {
		return nil, nil, fmt.Errorf("ecc: decode signature: %w", err)
	}
	return parsed.R, parsed.S, nil
}

// Verify reports whether (r, s) is a valid ECDSA signature over digest under
// the public key encoded in pub.
func Verify(pub []byte, digest [32]byte, r, s *big.Int) (bool, error) {
	parsed, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidPubkey, err)
	}

	var rScalar, sScalar secp256k1.ModNScalar
	var rBuf, sBuf [32]byte
	r.FillBytes(rBuf[:])
	s.FillBytes(sBuf[:])
	if rScalar.SetByteSlice(rBuf[:]) || sScalar.SetByteSlice(sBuf[:]) {
		return false, nil
	}

	sig := ecdsa.NewSignature(&rScalar, &sScalar)
	return sig.Verify(digest[:], parsed), nil
}
