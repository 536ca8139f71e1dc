// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// hdwalletctl derives a BIP32 extended key from a seed and a derivation
// path, printing the resulting xprv/xpub, WIF, and P2PKH address.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/btcsuite/btclog"

	"github.com/shellreserve/hdwallet/chaincfg"
	"github.com/shellreserve/hdwallet/hdkeychain"
	"github.com/shellreserve/hdwallet/keypair"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hdwalletctl:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Debug {
		backend := btclog.NewBackend(os.Stderr)
		logger := backend.Logger("HDWL")
		logger.SetLevel(btclog.LevelDebug)
		hdkeychain.UseLogger(logger)
		keypair.UseLogger(logger)
	}

	network, err := networkByName(cfg.Network)
	if err != nil {
		return err
	}

	seed, err := hex.DecodeString(cfg.Seed)
	if err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	master, err := hdkeychain.FromSeed(seed, network)
	if err != nil {
		return fmt.Errorf("derive master node: %w", err)
	}

	node, err := master.DerivePath(cfg.Path)
	if err != nil {
		return fmt.Errorf("derive path %q: %w", cfg.Path, err)
	}

	fmt.Printf("path:    %s\n", cfg.Path)
	fmt.Printf("depth:   %d\n", node.Depth())
	fmt.Printf("index:   %d\n", node.Index())
	fmt.Printf("xpub:    %s\n", node.Neuter().String())

	if node.IsNeutered() {
		fmt.Println("xprv:    <neutered, no private key>")
		fmt.Println("wif:     <neutered, no private key>")
		return nil
	}
	fmt.Printf("xprv:    %s\n", node.String())

	kp := node.KeyPair()
	if cfg.Uncompressed {
		privBytes, _ := kp.PrivateKeyBytes()
		kp, err = keypair.NewFromPrivateKeyBytes(privBytes, false, network)
		if err != nil {
			return fmt.Errorf("rederive uncompressed key pair: %w", err)
		}
	}

	wif, err := kp.ToWIF()
	if err != nil {
		return fmt.Errorf("encode WIF: %w", err)
	}
	fmt.Printf("wif:     %s\n", wif)
	fmt.Printf("address: %s\n", kp.Address())
	return nil
}

func networkByName(name string) (chaincfg.Params, error) {
	switch name {
	case "mainnet", "":
		return chaincfg.MainNetParams, nil
	case "testnet":
		return chaincfg.TestNetParams, nil
	default:
		return chaincfg.Params{}, fmt.Errorf("unknown network %q (want mainnet or testnet)", name)
	}
}
