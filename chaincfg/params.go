// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the network parameters used to identify and
// serialize BIP32 extended keys, WIF private keys, and P2PKH addresses for a
// given cryptocurrency network.
package chaincfg

import (
	"errors"
	"sync"
)

// ErrDuplicateNetwork is returned by Register when a Params value whose Name
// has already been registered is passed in.
var ErrDuplicateNetwork = errors.New("chaincfg: duplicate network")

// ErrUnsupportedNetwork is returned by the ParamsFor* lookups when no
// registered network matches the requested identifying prefix.
var ErrUnsupportedNetwork = errors.New("chaincfg: unsupported network")

// Params holds the identifying prefixes BIP32/WIF/P2PKH encoding needs for a
// single cryptocurrency network. Two Params values are equal only if every
// field matches; a network sharing every prefix with another but carrying a
// different Name is intentionally treated as distinct.
type Params struct {
	// Name is a human-readable identifier for the network, e.g. "mainnet".
	Name string

	// HDPrivateKeyID and HDPublicKeyID are the four-byte version prefixes
	// used in the 78-byte extended key layout (xprv/xpub and friends).
	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte

	// PubKeyHashAddrID is the single version byte prepended to a P2PKH
	// address's HASH160 payload before Base58Check encoding.
	PubKeyHashAddrID byte

	// WIFByte is the single version byte prepended to a WIF-encoded
	// private key before Base58Check encoding.
	WIFByte byte
}

// Equal reports whether p and other describe the same network in every
// field.
func (p Params) Equal(other Params) bool {
	return p == other
}

// MainNetParams are the parameters for Bitcoin's main network.
var MainNetParams = Params{
	Name:             "mainnet",
	HDPrivateKeyID:   [4]byte{0x04, 0x88, 0xAD, 0xE4}, // xprv
	HDPublicKeyID:    [4]byte{0x04, 0x88, 0xB2, 0x1E}, // xpub
	PubKeyHashAddrID: 0x00,
	WIFByte:          0x80,
}

// TestNetParams are the parameters for Bitcoin's test network.
var TestNetParams = Params{
	Name:             "testnet",
	HDPrivateKeyID:   [4]byte{0x04, 0x35, 0x83, 0x94}, // tprv
	HDPublicKeyID:    [4]byte{0x04, 0x35, 0x87, 0xCF}, // tpub
	PubKeyHashAddrID: 0x6F,
	WIFByte:          0xEF,
}

var (
	registerMtx sync.RWMutex

	registeredNames   = make(map[string]struct{})
	hdPrivateKeyIDs   = make(map[[4]byte]Params)
	hdPublicKeyIDs    = make(map[[4]byte]Params)
	wifByteToParams   = make(map[byte]Params)
	pubKeyHashAddrIDs = make(map[byte]Params)
)

func init() {
	for _, params := range []Params{MainNetParams, TestNetParams} {
		if err := Register(params); err != nil {
			panic(err)
		}
	}
}

// Register makes a network's parameters available to ParamsForHDPrivKeyID,
// ParamsForHDPubKeyID, and ParamsForWIFByte. It is intended to be called at
// most once per network, typically from an init function; concurrent callers
// of Register itself are not supported, though concurrent reads via the
// ParamsFor* lookups always are.
func Register(params Params) error {
	registerMtx.Lock()
	defer registerMtx.Unlock()

	if _, ok := registeredNames[params.Name]; ok {
		return ErrDuplicateNetwork
	}
	registeredNames[params.Name] = struct{}{}
	hdPrivateKeyIDs[params.HDPrivateKeyID] = params
	hdPublicKeyIDs[params.HDPublicKeyID] = params
	wifByteToParams[params.WIFByte] = params
	pubKeyHashAddrIDs[params.PubKeyHashAddrID] = params
	return nil
}

// IsRegistered reports whether a network with the given name has been
// registered.
func IsRegistered(name string) bool {
	registerMtx.RLock()
	defer registerMtx.RUnlock()
	_, ok := registeredNames[name]
	return ok
}

// ParamsForHDPrivKeyID returns the network whose HDPrivateKeyID matches id.
func ParamsForHDPrivKeyID(id [4]byte) (Params, error) {
	registerMtx.RLock()
	defer registerMtx.RUnlock()
	params, ok := hdPrivateKeyIDs[id]
	if !ok {
		return Params{}, ErrUnsupportedNetwork
	}
	return params, nil
}

// ParamsForHDPubKeyID returns the network whose HDPublicKeyID matches id.
func ParamsForHDPubKeyID(id [4]byte) (Params, error) {
	registerMtx.RLock()
	defer registerMtx.RUnlock()
	params, ok := hdPublicKeyIDs[id]
	if !ok {
		return Params{}, ErrUnsupportedNetwork
	}
	return params, nil
}

// ParamsForWIFByte returns the network whose WIFByte matches b.
func ParamsForWIFByte(b byte) (Params, error) {
	registerMtx.RLock()
	defer registerMtx.RUnlock()
	params, ok := wifByteToParams[b]
	if !ok {
		return Params{}, ErrUnsupportedNetwork
	}
	return params, nil
}

// ParamsForPubKeyHashAddrID returns the network whose PubKeyHashAddrID
// matches id.
func ParamsForPubKeyHashAddrID(id byte) (Params, error) {
	registerMtx.RLock()
	defer registerMtx.RUnlock()
	params, ok := pubKeyHashAddrIDs[id]
	if !ok {
		return Params{}, ErrUnsupportedNetwork
	}
	return params, nil
}
