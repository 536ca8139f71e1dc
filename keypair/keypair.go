// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keypair implements the elliptic-curve key pair abstraction BIP32
// nodes carry: a private scalar and/or SEC1-encoded public key, a
// compression flag, and a network, along with WIF export/import, P2PKH
// address computation, and ECDSA sign/verify.
package keypair

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btclog"

	"github.com/shellreserve/hdwallet/base58check"
	"github.com/shellreserve/hdwallet/chaincfg"
	"github.com/shellreserve/hdwallet/ecc"
	"github.com/shellreserve/hdwallet/hash"
)

// ErrNoPrivateKey is returned by ToWIF and Sign when called on a key pair
// that holds only a public key.
var ErrNoPrivateKey = errors.New("keypair: no private key")

// ErrInvalidArgument is returned by the constructors and FromWIF when their
// inputs violate the documented contract.
var ErrInvalidArgument = errors.New("keypair: invalid argument")

// log is the package logger. It is silent until a host process calls
// UseLogger.
var log btclog.Logger

func init() {
	DisableLog()
}

// UseLogger directs package output to logger. Only non-secret metadata
// (network, compression, address) is ever logged — private key material is
// never passed to log.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all library log output. Logging is disabled by
// default until UseLogger is called.
func DisableLog() {
	log = btclog.Disabled
}

// KeyPair is an immutable secp256k1 key pair: either a private scalar (from
// which the public key is derived eagerly at construction) or a bare public
// key, tagged with a compression preference and a network.
type KeyPair struct {
	privkey    *big.Int
	pubkeyBuf  []byte
	compressed bool
	network    chaincfg.Params
}

func newFromPrivateScalar(k []byte, compressed bool, network chaincfg.Params) (*KeyPair, error) {
	scalar, err := ecc.ScalarFromBytes(k)
	if err != nil {
		return nil, err
	}
	pub := ecc.PubkeyFromScalar(scalar, compressed)
	log.Debugf("keypair: derived public key for network %s (compressed=%v)", network.Name, compressed)
	return &KeyPair{
		privkey:    new(big.Int).SetBytes(k),
		pubkeyBuf:  pub,
		compressed: compressed,
		network:    network,
	}, nil
}

// NewFromPrivateKeyBytes constructs a key pair from a 32-byte big-endian
// private scalar. The public key is derived immediately at the requested
// compression.
func NewFromPrivateKeyBytes(privkey []byte, compressed bool, network chaincfg.Params) (*KeyPair, error) {
	if len(privkey) != 32 {
		return nil, fmt.Errorf("%w: private key must be 32 bytes, got %d", ErrInvalidArgument, len(privkey))
	}
	return newFromPrivateScalar(privkey, compressed, network)
}

// NewFromPrivateKeyInt constructs a key pair from a private scalar given as
// a 256-bit integer.
func NewFromPrivateKeyInt(privkey *big.Int, compressed bool, network chaincfg.Params) (*KeyPair, error) {
	if privkey == nil {
		return nil, fmt.Errorf("%w: private key is nil", ErrInvalidArgument)
	}
	var buf [32]byte
	privkey.FillBytes(buf[:])
	return newFromPrivateScalar(buf[:], compressed, network)
}

// NewFromPrivateKeyHex constructs a key pair from a private scalar given as
// a 64-character hex string.
func NewFromPrivateKeyHex(privkeyHex string, compressed bool, network chaincfg.Params) (*KeyPair, error) {
	if len(privkeyHex) != 64 {
		return nil, fmt.Errorf("%w: private key hex must be 64 characters, got %d", ErrInvalidArgument, len(privkeyHex))
	}
	b, err := hex.DecodeString(privkeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return newFromPrivateScalar(b, compressed, network)
}

// NewFromPublicKeyBytes constructs a neutered key pair from a SEC1-encoded
// public key. The constructor takes no compression argument: the flag is
// inferred from the SEC1 prefix.
func NewFromPublicKeyBytes(pubkey []byte, network chaincfg.Params) (*KeyPair, error) {
	compressed, err := ecc.IsCompressed(pubkey)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(pubkey))
	copy(buf, pubkey)
	return &KeyPair{
		pubkeyBuf:  buf,
		compressed: compressed,
		network:    network,
	}, nil
}

// PubkeyBytes returns the SEC1-encoded public key.
func (kp *KeyPair) PubkeyBytes() []byte {
	buf := make([]byte, len(kp.pubkeyBuf))
	copy(buf, kp.pubkeyBuf)
	return buf
}

// PrivateKey returns the private scalar and true, or (nil, false) if kp is
// neutered.
func (kp *KeyPair) PrivateKey() (*big.Int, bool) {
	if kp.privkey == nil {
		return nil, false
	}
	return new(big.Int).Set(kp.privkey), true
}

// PrivateKeyBytes returns the 32-byte big-endian private scalar and true, or
// (nil, false) if kp is neutered.
func (kp *KeyPair) PrivateKeyBytes() ([]byte, bool) {
	if kp.privkey == nil {
		return nil, false
	}
	var buf [32]byte
	kp.privkey.FillBytes(buf[:])
	return buf[:], true
}

// IsNeutered reports whether kp holds no private key.
func (kp *KeyPair) IsNeutered() bool {
	return kp.privkey == nil
}

// Compressed reports whether PubkeyBytes returns the compressed SEC1
// encoding.
func (kp *KeyPair) Compressed() bool {
	return kp.compressed
}

// Network returns the network this key pair is encoded for.
func (kp *KeyPair) Network() chaincfg.Params {
	return kp.network
}

// Neuter returns a copy of kp with the private key removed.
func (kp *KeyPair) Neuter() *KeyPair {
	return &KeyPair{
		pubkeyBuf:  kp.PubkeyBytes(),
		compressed: kp.compressed,
		network:    kp.network,
	}
}

// Equal compares kp and other by private key, public key, compression flag,
// and network — the full field tuple, as spec'd.
func (kp *KeyPair) Equal(other *KeyPair) bool {
	if other == nil {
		return false
	}
	if kp.IsNeutered() != other.IsNeutered() {
		return false
	}
	if !kp.IsNeutered() && kp.privkey.Cmp(other.privkey) != 0 {
		return false
	}
	if string(kp.pubkeyBuf) != string(other.pubkeyBuf) {
		return false
	}
	return kp.compressed == other.compressed && kp.network.Equal(other.network)
}

// ToWIF serializes the private key as Wallet Import Format:
// Base58Check(network.WIFByte || privkey || [0x01 if compressed]).
func (kp *KeyPair) ToWIF() (string, error) {
	if kp.IsNeutered() {
		return "", ErrNoPrivateKey
	}
	privBytes, _ := kp.PrivateKeyBytes()

	buf := make([]byte, 0, 34)
	buf = append(buf, kp.network.WIFByte)
	buf = append(buf, privBytes...)
	if kp.compressed {
		buf = append(buf, 0x01)
	}
	return base58check.Encode(buf), nil
}

// FromWIF parses a WIF-encoded private key, looking up the network by its
// WIF version byte.
func FromWIF(wif string) (*KeyPair, error) {
	buf, err := base58check.Decode(wif)
	if err != nil {
		return nil, err
	}
	if len(buf) != 33 && len(buf) != 34 {
		return nil, fmt.Errorf("%w: WIF payload must be 33 or 34 bytes, got %d", ErrInvalidArgument, len(buf))
	}

	compressed := false
	if len(buf) == 34 {
		if buf[33] != 0x01 {
			return nil, fmt.Errorf("%w: compressed WIF must end in 0x01", ErrInvalidArgument)
		}
		compressed = true
	}

	network, err := chaincfg.ParamsForWIFByte(buf[0])
	if err != nil {
		return nil, err
	}

	privkey := buf[1:33]
	return NewFromPrivateKeyBytes(privkey, compressed, network)
}

// Address computes the P2PKH address Base58Check(network.PubKeyHashAddrID ||
// Hash160(pubkeyBytes)). Since it hashes the exact SEC1 bytes, compressed and
// uncompressed public keys derived from the same private key yield different
// addresses.
func (kp *KeyPair) Address() string {
	h160 := hash.Hash160(kp.pubkeyBuf)
	buf := make([]byte, 0, 1+len(h160))
	buf = append(buf, kp.network.PubKeyHashAddrID)
	buf = append(buf, h160[:]...)
	return base58check.Encode(buf)
}

// Sign signs a 32-byte digest, returning the (r, s) pair. Requires a private
// key.
func (kp *KeyPair) Sign(digest [32]byte) (r, s *big.Int, err error) {
	if kp.IsNeutered() {
		return nil, nil, ErrNoPrivateKey
	}
	privBytes, _ := kp.PrivateKeyBytes()
	scalar, err := ecc.ScalarFromBytes(privBytes)
	if err != nil {
		return nil, nil, err
	}
	return ecc.Sign(scalar, digest)
}

// Verify reports whether (r, s) is a valid signature over digest under this
// key pair's public key.
func (kp *KeyPair) Verify(digest [32]byte, r, s *big.Int) (bool, error) {
	return ecc.Verify(kp.pubkeyBuf, digest, r, s)
}

// Wipe zeroes kp's private key material in place. Go provides no guaranteed
// way to scrub memory the garbage collector may have already copied, so this
// is best-effort: it is still worth calling on disposal, per spec, but
// should not be relied on as a hard security boundary.
func (kp *KeyPair) Wipe() {
	if kp.privkey != nil {
		words := kp.privkey.Bits()
		for i := range words {
			words[i] = 0
		}
		kp.privkey.SetInt64(0)
		kp.privkey = nil
	}
}

// DebugString renders kp including private key material. It exists only for
// parity with test fixtures that print key material; production code must
// not call it on a path whose output can be logged or displayed.
func (kp *KeyPair) DebugString() string {
	priv := "<neutered>"
	if p, ok := kp.PrivateKeyBytes(); ok {
		priv = hex.EncodeToString(p)
	}
	return fmt.Sprintf("KeyPair(privkey=%s, pubkey=%s, compressed=%v, network=%s)",
		priv, hex.EncodeToString(kp.pubkeyBuf), kp.compressed, kp.network.Name)
}

// String renders kp without private key material.
func (kp *KeyPair) String() string {
	return fmt.Sprintf("KeyPair(pubkey=%s, compressed=%v, network=%s, neutered=%v)",
		hex.EncodeToString(kp.pubkeyBuf), kp.compressed, kp.network.Name, kp.IsNeutered())
}
