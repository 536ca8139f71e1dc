// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
)

type config struct {
	Seed         string `long:"seed" description:"hex-encoded seed bytes" required:"true"`
	Path         string `long:"path" description:"BIP32 derivation path, e.g. m/44'/0'/0'" default:"m"`
	Network      string `long:"network" description:"mainnet or testnet" default:"mainnet"`
	Uncompressed bool   `long:"uncompressed" description:"use the uncompressed public key for WIF/address output"`
	Debug        bool   `long:"debug" description:"enable debug logging"`
}

func loadConfig() (*config, error) {
	cfg := &config{}
	parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	return cfg, nil
}
