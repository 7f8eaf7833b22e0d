// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/worldstate/muxdb"
	"github.com/vechain/worldstate/state"
	"github.com/vechain/worldstate/world"
)

func isTerminal(f *os.File) bool {
	return (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
}

func initLogger(ctx *cli.Context) {
	lvl := ethlog.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name))
	ethlog.SetDefault(ethlog.NewLogger(ethlog.NewTerminalHandlerWithLevel(os.Stderr, lvl, isTerminal(os.Stderr))))
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".statedb")
	}
	return ""
}

func openDB(ctx *cli.Context) (*muxdb.MuxDB, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}

	opts := muxdb.DefaultOptions
	opts.TrieNodeCacheSizeMB = ctx.Int(cacheFlag.Name)

	path := filepath.Join(dataDir, "main.db")
	logger.Debug("open database", "path", path, "cache", opts.TrieNodeCacheSizeMB)
	return muxdb.Open(path, &opts)
}

// openState opens the state at the root given by flag.
// The returned db should be closed by the caller.
func openState(ctx *cli.Context) (*muxdb.MuxDB, *state.State, error) {
	root, err := parseRoot(ctx.String(rootFlag.Name))
	if err != nil {
		return nil, nil, errors.Wrap(err, rootFlag.Name)
	}
	db, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	st, err := state.Open(db, root)
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrapf(err, "open state at %v", root)
	}
	return db, st, nil
}

func parseRoot(s string) (world.Bytes32, error) {
	if s == "" {
		return world.EmptyRoot, nil
	}
	return world.ParseBytes32(s)
}

// parseValue parses a decimal or 0x-prefixed hex amount.
func parseValue(s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return uint256.FromHex("0x" + s[2:])
	}
	return uint256.FromDecimal(s)
}

func parseStrategy(s string) (state.Strategy, error) {
	switch strings.ToLower(s) {
	case "", "raw":
		return state.Raw, nil
	case "chunked":
		return state.Chunked, nil
	default:
		return 0, errors.Errorf("unknown storage strategy %q", s)
	}
}
