// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the state database",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 64,
		Usage: "size of trie node cache in MiB",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	metricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "print collected metrics on exit",
	}
	allocFlag = cli.StringFlag{
		Name:  "alloc",
		Usage: "path to the YAML allocation file",
	}
	rootFlag = cli.StringFlag{
		Name:  "root",
		Usage: "state root to open, the empty root if omitted",
	}
	againstFlag = cli.StringFlag{
		Name:  "against",
		Usage: "state root to compare with, the empty root if omitted",
	}
	addrFlag = cli.StringSliceFlag{
		Name:  "addr",
		Usage: "account address to inspect, can be repeated",
	}
	slotFlag = cli.StringSliceFlag{
		Name:  "slot",
		Usage: "storage slot key to inspect, can be repeated",
	}
	strategyFlag = cli.StringFlag{
		Name:  "strategy",
		Value: "raw",
		Usage: "storage strategy of inspected slots (raw|chunked)",
	}
	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "sender address",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "recipient address",
	}
	valueFlag = cli.StringFlag{
		Name:  "value",
		Value: "0",
		Usage: "amount to transfer, decimal or 0x-prefixed hex",
	}
	gasFlag = cli.Uint64Flag{
		Name:  "gas",
		Value: 21000,
		Usage: "gas limit of the transfer",
	}
)
