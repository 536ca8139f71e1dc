// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hdkeychain implements BIP32 Hierarchical Deterministic key trees:
// master node derivation from a seed, hardened and normal child key
// derivation with the retry rule, neutering, and the 78-byte extended-key
// Base58Check serialization (xprv/xpub and network equivalents).
package hdkeychain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/shellreserve/hdwallet/base58check"
	"github.com/shellreserve/hdwallet/chaincfg"
	"github.com/shellreserve/hdwallet/ecc"
	"github.com/shellreserve/hdwallet/hash"
	"github.com/shellreserve/hdwallet/keypair"
)

// maxDerivationRetries bounds the CKD retry loop. The retry path (k_L >= n,
// a derived scalar of zero, or a public-only sum landing at infinity) fires
// with probability at most 2^-127 per index, so 256 is never exhausted in
// practice; it exists so a pathological HMAC stub or adversarial seed cannot
// recurse forever.
const maxDerivationRetries = 256

// hardenedBit marks an index as requiring the parent's private key.
const hardenedBit = uint32(0x80000000)

// ErrCannotHardenNeutered is returned by Derive when the requested index is
// hardened but the receiver holds no private key.
var ErrCannotHardenNeutered = errors.New("hdkeychain: cannot harden a neutered node")

// ErrDerivationExhausted is returned by Derive if maxDerivationRetries
// consecutive retry-triggering outcomes occur without success.
var ErrDerivationExhausted = errors.New("hdkeychain: exceeded maximum derivation retries")

// ErrInvalidEncoding is returned by NewFromString when the decoded payload
// is not a well-formed 78-byte extended key.
var ErrInvalidEncoding = errors.New("hdkeychain: invalid encoding")

// ErrInvalidArgument is returned when a caller violates a documented
// constructor or path-parsing contract.
var ErrInvalidArgument = errors.New("hdkeychain: invalid argument")

// log is the package logger. Silent by default.
var log btclog.Logger

func init() {
	DisableLog()
}

// UseLogger directs package output to logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// hmac512 is the HMAC-SHA512 implementation Derive and FromSeed call
// through. Tests in this package may reassign it to inject specific I_L/I_R
// outputs without touching exported behavior.
var hmac512 = hash.HmacSha512

// HDNode is an immutable BIP32 extended key: a key pair, a 32-byte chain
// code, and the depth/index/parent-fingerprint positional metadata. Every
// derivation method returns a new *HDNode; none mutate the receiver.
type HDNode struct {
	kp                *keypair.KeyPair
	chainCode         [32]byte
	depth             uint8
	index             uint32
	parentFingerprint uint32
}

// FromSeed derives the master node from seed bytes of any length (BIP32
// commonly uses 64, but places no constraint on the length). I =
// HMAC-SHA512("Bitcoin seed", seed); the first 32 bytes become the master
// private key, the last 32 the master chain code.
func FromSeed(seed []byte, network chaincfg.Params) (*HDNode, error) {
	i := hmac512(hash.BitcoinSeed, seed)
	il, ir := i[:32], i[32:]

	kp, err := keypair.NewFromPrivateKeyBytes(il, true, network)
	if err != nil {
		return nil, fmt.Errorf("hdkeychain: master key derivation: %w", err)
	}

	node := &HDNode{kp: kp, depth: 0, index: 0, parentFingerprint: 0}
	copy(node.chainCode[:], ir)
	log.Debugf("hdkeychain: derived master node for network %s", network.Name)
	return node, nil
}

// Identifier returns HASH160 of the node's compressed public key.
func (n *HDNode) Identifier() [20]byte {
	return hash.Hash160(n.kp.PubkeyBytes())
}

// Fingerprint returns the first 4 bytes of Identifier. A child's
// parent-fingerprint field holds these bytes read as a big-endian uint32.
func (n *HDNode) Fingerprint() [4]byte {
	id := n.Identifier()
	var fp [4]byte
	copy(fp[:], id[:4])
	return fp
}

func (n *HDNode) fingerprintUint32() uint32 {
	fp := n.Fingerprint()
	return binary.BigEndian.Uint32(fp[:])
}

// Depth returns the node's distance from the master node.
func (n *HDNode) Depth() uint8 { return n.depth }

// Index returns the index this node was derived at (0 for the master node).
func (n *HDNode) Index() uint32 { return n.index }

// ParentFingerprint returns the parent's fingerprint as recorded at
// derivation time (0 for the master node).
func (n *HDNode) ParentFingerprint() uint32 { return n.parentFingerprint }

// IsNeutered reports whether n holds no private key.
func (n *HDNode) IsNeutered() bool { return n.kp.IsNeutered() }

// Network returns the network n is encoded for.
func (n *HDNode) Network() chaincfg.Params { return n.kp.Network() }

// KeyPair returns the underlying key pair.
func (n *HDNode) KeyPair() *keypair.KeyPair { return n.kp }

// Derive computes the child node at index i, applying BIP32's rejection
// sampling: if HMAC-SHA512's output parses to a scalar k_L >= n, or the
// resulting child scalar is zero, or (for a neutered parent) the public
// point sum lands at infinity, the derivation is retried at i+1 with the
// same hardened bit. The loop is bounded by maxDerivationRetries rather
// than recursing unboundedly.
func (n *HDNode) Derive(i uint32) (*HDNode, error) {
	hardened := i >= hardenedBit

	for attempt := 0; attempt < maxDerivationRetries; attempt++ {
		idx := i + uint32(attempt)

		data, err := n.ckdInput(idx, hardened)
		if err != nil {
			return nil, err
		}

		out := hmac512(n.chainCode[:], data)
		il, ir := out[:32], out[32:]

		kl, err := ecc.ScalarFromBytes(il)
		if err != nil {
			log.Debugf("hdkeychain: retrying derivation at index %d (invalid scalar)", idx)
			continue
		}

		childKp, retry, err := n.combineChild(kl)
		if err != nil {
			return nil, err
		}
		if retry {
			log.Debugf("hdkeychain: retrying derivation at index %d (degenerate result)", idx)
			continue
		}

		child := &HDNode{
			kp:                childKp,
			depth:             n.depth + 1,
			index:             idx,
			parentFingerprint: n.fingerprintUint32(),
		}
		copy(child.chainCode[:], ir)
		return child, nil
	}
	return nil, ErrDerivationExhausted
}

// ckdInput builds the HMAC input data for index idx: the hardened branch
// requires a private key and hashes 0x00 || privkey || ser32(idx); the
// normal branch hashes the compressed public key || ser32(idx).
func (n *HDNode) ckdInput(idx uint32, hardened bool) ([]byte, error) {
	var idxBuf [4]byte
	binary.BigEndian.PutUint32(idxBuf[:], idx)

	if hardened {
		if n.kp.IsNeutered() {
			return nil, ErrCannotHardenNeutered
		}
		privBytes, _ := n.kp.PrivateKeyBytes()
		data := make([]byte, 0, 1+32+4)
		data = append(data, 0x00)
		data = append(data, privBytes...)
		data = append(data, idxBuf[:]...)
		return data, nil
	}

	data := make([]byte, 0, 33+4)
	data = append(data, n.kp.PubkeyBytes()...)
	data = append(data, idxBuf[:]...)
	return data, nil
}

// combineChild folds k_L into the parent's key material, reporting retry =
// true for the degenerate outcomes the caller must retry at the next index.
func (n *HDNode) combineChild(kl *secp256k1.ModNScalar) (childKp *keypair.KeyPair, retry bool, err error) {
	if n.kp.IsNeutered() {
		childPub, err := ecc.CombinePubkeys(kl, n.kp.PubkeyBytes())
		if errors.Is(err, ecc.ErrPointAtInfinity) {
			return nil, true, nil
		}
		if err != nil {
			return nil, false, err
		}
		kp, err := keypair.NewFromPublicKeyBytes(childPub, n.kp.Network())
		if err != nil {
			return nil, false, err
		}
		return kp, false, nil
	}

	privBytes, _ := n.kp.PrivateKeyBytes()
	parentScalar, err := ecc.ScalarFromBytes(privBytes)
	if err != nil {
		return nil, false, err
	}

	sum := ecc.AddScalars(kl, parentScalar)
	sumBytes := ecc.ScalarBytes(sum)
	if isZero32(sumBytes[:]) {
		return nil, true, nil
	}

	kp, err := keypair.NewFromPrivateKeyBytes(sumBytes[:], true, n.kp.Network())
	if err != nil {
		return nil, false, err
	}
	return kp, false, nil
}

func isZero32(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// DeriveHardened derives the child at index i with the hardened bit set. i
// must be smaller than 0x80000000.
func (n *HDNode) DeriveHardened(i uint32) (*HDNode, error) {
	if i >= hardenedBit {
		return nil, fmt.Errorf("%w: hardened index argument must be < 0x80000000, got %d", ErrInvalidArgument, i)
	}
	return n.Derive(i + hardenedBit)
}

// Neuter returns a copy of n sharing chain_code/depth/index/parent_fingerprint
// but whose key pair retains only the compressed public key. A neutered
// node can still derive non-hardened descendants.
func (n *HDNode) Neuter() *HDNode {
	return &HDNode{
		kp:                n.kp.Neuter(),
		chainCode:         n.chainCode,
		depth:             n.depth,
		index:             n.index,
		parentFingerprint: n.parentFingerprint,
	}
}

// Equal compares n and other across all five structural fields: key pair,
// chain code, depth, index, and parent fingerprint.
func (n *HDNode) Equal(other *HDNode) bool {
	if other == nil {
		return false
	}
	return n.kp.Equal(other.kp) &&
		n.chainCode == other.chainCode &&
		n.depth == other.depth &&
		n.index == other.index &&
		n.parentFingerprint == other.parentFingerprint
}

// Serialize encodes n as the 78-byte extended-key layout: a 4-byte version
// (the network's public or private HD version depending on whether n is
// neutered), depth, parent fingerprint, index, chain code, and the 33-byte
// key field (0x00 || privkey, or the compressed pubkey).
func (n *HDNode) Serialize() []byte {
	buf := make([]byte, 78)

	version := n.kp.Network().HDPublicKeyID
	if !n.kp.IsNeutered() {
		version = n.kp.Network().HDPrivateKeyID
	}
	copy(buf[0:4], version[:])

	buf[4] = n.depth
	binary.BigEndian.PutUint32(buf[5:9], n.parentFingerprint)
	binary.BigEndian.PutUint32(buf[9:13], n.index)
	copy(buf[13:45], n.chainCode[:])

	if n.kp.IsNeutered() {
		copy(buf[45:78], n.kp.PubkeyBytes())
	} else {
		privBytes, _ := n.kp.PrivateKeyBytes()
		buf[45] = 0x00
		copy(buf[46:78], privBytes)
	}
	return buf
}

// String returns the Base58Check-encoded extended key (xprv/xpub or the
// network's equivalent prefixes).
func (n *HDNode) String() string {
	return base58check.Encode(n.Serialize())
}

// NewFromString decodes a Base58Check-encoded extended key, looking up its
// network by the 4-byte version prefix and reconstructing depth, index, and
// parent fingerprint verbatim.
func NewFromString(s string) (*HDNode, error) {
	payload, err := base58check.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(payload) != 78 {
		return nil, fmt.Errorf("%w: extended key must decode to 78 bytes, got %d", ErrInvalidEncoding, len(payload))
	}

	var version [4]byte
	copy(version[:], payload[0:4])
	depth := payload[4]
	parentFingerprint := binary.BigEndian.Uint32(payload[5:9])
	index := binary.BigEndian.Uint32(payload[9:13])
	chainCode := payload[13:45]
	keyField := payload[45:78]

	node := &HDNode{depth: depth, index: index, parentFingerprint: parentFingerprint}
	copy(node.chainCode[:], chainCode)

	if network, err := chaincfg.ParamsForHDPrivKeyID(version); err == nil {
		if keyField[0] != 0x00 {
			return nil, fmt.Errorf("%w: private extended key must pad with 0x00", ErrInvalidEncoding)
		}
		kp, err := keypair.NewFromPrivateKeyBytes(keyField[1:33], true, network)
		if err != nil {
			return nil, err
		}
		node.kp = kp
		return node, nil
	}

	network, err := chaincfg.ParamsForHDPubKeyID(version)
	if err != nil {
		return nil, err
	}
	kp, err := keypair.NewFromPublicKeyBytes(keyField, network)
	if err != nil {
		return nil, err
	}
	node.kp = kp
	return node, nil
}

// FromBase58 is an alias for NewFromString, matching the common BIP32
// vocabulary for this operation.
func FromBase58(s string) (*HDNode, error) {
	return NewFromString(s)
}

// DerivePath applies path, a string of the form "m(/component)*" where each
// component is a decimal uint32 optionally suffixed with ', H, or h to mark
// a hardened derivation, left-to-right from the receiver. The leading "m"
// is a label and does not itself require n to be the master node.
func (n *HDNode) DerivePath(path string) (*HDNode, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	cur := n
	for _, idx := range indices {
		cur, err = cur.Derive(idx)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// ParsePath parses a derivation path string into the sequence of already
// hardened-bit-combined indices Derive expects, in left-to-right order.
func ParsePath(path string) ([]uint32, error) {
	if !strings.HasPrefix(path, "m") {
		return nil, fmt.Errorf("%w: path must start with \"m\", got %q", ErrInvalidArgument, path)
	}

	rest := strings.TrimPrefix(path, "m")
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return nil, nil
	}

	components := strings.Split(rest, "/")
	indices := make([]uint32, 0, len(components))
	for _, c := range components {
		idx, err := parseComponent(c)
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

func parseComponent(c string) (uint32, error) {
	hardened := false
	switch {
	case strings.HasSuffix(c, "'"):
		hardened = true
		c = strings.TrimSuffix(c, "'")
	case strings.HasSuffix(c, "H"):
		hardened = true
		c = strings.TrimSuffix(c, "H")
	case strings.HasSuffix(c, "h"):
		hardened = true
		c = strings.TrimSuffix(c, "h")
	}

	n, err := strconv.ParseUint(c, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid path component %q: %v", ErrInvalidArgument, c, err)
	}
	idx := uint32(n)
	if idx >= hardenedBit {
		return 0, fmt.Errorf("%w: path component %q must be < 0x80000000", ErrInvalidArgument, c)
	}
	if hardened {
		idx += hardenedBit
	}
	return idx, nil
}
