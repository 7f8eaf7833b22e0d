// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/worldstate/log"
	"github.com/vechain/worldstate/metrics"
	"github.com/vechain/worldstate/runtime"
	"github.com/vechain/worldstate/state"
	"github.com/vechain/worldstate/world"
)

var (
	version   string
	gitCommit string
	logger    = log.WithContext("pkg", "statedb")
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "statedb"
	app.Usage = "Inspect and manipulate a world state database"
	app.Version = fullVersion()
	app.Flags = []cli.Flag{
		verbosityFlag,
		metricsFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		initLogger(ctx)
		if ctx.GlobalBool(metricsFlag.Name) {
			metrics.Enable()
		}
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		if ctx.GlobalBool(metricsFlag.Name) {
			return metrics.WriteTo(ctx.App.Writer)
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "init",
			Usage:  "apply an allocation to a state and commit it",
			Flags:  []cli.Flag{dataDirFlag, cacheFlag, rootFlag, allocFlag},
			Action: initAction,
		},
		{
			Name:   "inspect",
			Usage:  "print accounts and storage slots at a state root",
			Flags:  []cli.Flag{dataDirFlag, cacheFlag, rootFlag, addrFlag, slotFlag, strategyFlag},
			Action: inspectAction,
		},
		{
			Name:   "diff",
			Usage:  "compare accounts and storage slots between two state roots",
			Flags:  []cli.Flag{dataDirFlag, cacheFlag, rootFlag, againstFlag, addrFlag, slotFlag, strategyFlag},
			Action: diffAction,
		},
		{
			Name:   "transfer",
			Usage:  "transfer value between accounts and commit the state",
			Flags:  []cli.Flag{dataDirFlag, cacheFlag, rootFlag, fromFlag, toFlag, valueFlag, gasFlag},
			Action: transferAction,
		},
		{
			Name:   "compact",
			Usage:  "compact the underlying database",
			Flags:  []cli.Flag{dataDirFlag, cacheFlag},
			Action: compactAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	path := ctx.String(allocFlag.Name)
	if path == "" {
		return errors.Errorf("missing -%s", allocFlag.Name)
	}
	alloc, err := loadAllocFile(path)
	if err != nil {
		return err
	}

	db, st, err := openState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	defer st.Close()

	bar := pb.New(len(alloc.Accounts)).
		SetMaxWidth(90)
	if isTerminal(os.Stderr) {
		bar.Output = os.Stderr
	} else {
		bar.NotPrint = true
	}
	bar.Start()
	defer bar.Finish()

	if err := alloc.Apply(st, func() { bar.Increment() }); err != nil {
		return err
	}
	root, err := st.Commit()
	if err != nil {
		return errors.Wrap(err, "commit")
	}
	logger.Info("allocation committed", "accounts", len(alloc.Accounts), "root", root)
	fmt.Fprintln(ctx.App.Writer, root)
	return nil
}

// parseInspectFlags parses accounts and slots to inspect.
func parseInspectFlags(ctx *cli.Context) ([]world.Address, []world.Bytes32, state.Strategy, error) {
	strategy, err := parseStrategy(ctx.String(strategyFlag.Name))
	if err != nil {
		return nil, nil, 0, err
	}
	var (
		addrs []world.Address
		slots []world.Bytes32
	)
	for _, s := range ctx.StringSlice(addrFlag.Name) {
		addr, err := world.ParseAddress(s)
		if err != nil {
			return nil, nil, 0, errors.Wrapf(err, "address %q", s)
		}
		addrs = append(addrs, *addr)
	}
	for _, s := range ctx.StringSlice(slotFlag.Name) {
		slot, err := world.ParseBytes32(s)
		if err != nil {
			return nil, nil, 0, errors.Wrapf(err, "slot %q", s)
		}
		slots = append(slots, slot)
	}
	if len(addrs) == 0 {
		return nil, nil, 0, errors.Errorf("missing -%s", addrFlag.Name)
	}
	return addrs, slots, strategy, nil
}

func inspectAction(ctx *cli.Context) error {
	addrs, slots, strategy, err := parseInspectFlags(ctx)
	if err != nil {
		return err
	}

	db, st, err := openState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	defer st.Close()

	for _, addr := range addrs {
		if err := writeAccount(ctx.App.Writer, st, addr, slots, strategy); err != nil {
			return err
		}
	}
	return nil
}

func diffAction(ctx *cli.Context) error {
	addrs, slots, strategy, err := parseInspectFlags(ctx)
	if err != nil {
		return err
	}
	root, err := parseRoot(ctx.String(rootFlag.Name))
	if err != nil {
		return errors.Wrap(err, rootFlag.Name)
	}
	against, err := parseRoot(ctx.String(againstFlag.Name))
	if err != nil {
		return errors.Wrap(err, againstFlag.Name)
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	dump := func(root world.Bytes32) (string, error) {
		st, err := state.Open(db, root)
		if err != nil {
			return "", errors.Wrapf(err, "open state at %v", root)
		}
		defer st.Close()

		var buf strings.Builder
		for _, addr := range addrs {
			if err := writeAccount(&buf, st, addr, slots, strategy); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	a, err := dump(root)
	if err != nil {
		return err
	}
	b, err := dump(against)
	if err != nil {
		return err
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: root.String(),
		ToFile:   against.String(),
		Context:  1,
	})
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintln(ctx.App.Writer, "no difference")
		return nil
	}
	fmt.Fprint(ctx.App.Writer, diff)
	return nil
}

func writeAccount(w io.Writer, st *state.State, addr world.Address, slots []world.Bytes32, strategy state.Strategy) error {
	balance, err := st.GetBalance(addr)
	if err != nil {
		return err
	}
	nonce, err := st.GetNonce(addr)
	if err != nil {
		return err
	}
	codeHash, err := st.GetCodeHash(addr)
	if err != nil {
		return err
	}
	code, err := st.GetCode(addr)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%v\n", addr)
	fmt.Fprintf(w, "  balance:   %v\n", balance.Dec())
	fmt.Fprintf(w, "  nonce:     %v\n", nonce)
	fmt.Fprintf(w, "  code hash: %v\n", codeHash)
	fmt.Fprintf(w, "  code size: %v\n", len(code))
	for _, slot := range slots {
		value, err := st.GetStorage(addr, slot, strategy)
		if err != nil {
			return errors.Wrapf(err, "storage %v", slot)
		}
		fmt.Fprintf(w, "  %v: 0x%x\n", slot, value)
	}
	return nil
}

func transferAction(ctx *cli.Context) error {
	from, err := world.ParseAddress(ctx.String(fromFlag.Name))
	if err != nil {
		return errors.Wrap(err, fromFlag.Name)
	}
	to, err := world.ParseAddress(ctx.String(toFlag.Name))
	if err != nil {
		return errors.Wrap(err, toFlag.Name)
	}
	value, err := parseValue(ctx.String(valueFlag.Name))
	if err != nil {
		return errors.Wrap(err, valueFlag.Name)
	}

	db, st, err := openState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	defer st.Close()

	// the sender nonce is increased before execution
	nonce, err := st.GetNonce(*from)
	if err != nil {
		return err
	}
	if err := st.SetNonce(*from, nonce+1); err != nil {
		return err
	}
	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], nonce)
	txHash := world.Keccak256(from[:], nonceBytes[:])

	output, err := runtime.New(st, runtime.Builtin{}).Apply(&runtime.Invocation{
		From:      *from,
		To:        to,
		Value:     value,
		Gas:       ctx.Uint64(gasFlag.Name),
		TxContext: &runtime.TxContext{TxHash: txHash},
	})
	if err != nil {
		return err
	}
	logs, err := st.GetLogs(txHash)
	if err != nil {
		return err
	}
	logsRoot, err := st.LogsRoot(txHash)
	if err != nil {
		return err
	}
	root, err := st.Commit()
	if err != nil {
		return errors.Wrap(err, "commit")
	}

	if output.ExecutionError != "" {
		logger.Warn("transfer failed", "err", output.ExecutionError)
	} else {
		logger.Info("transfer done", "from", from, "to", to, "value", value.Dec())
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "tx:        %v\n", txHash)
	fmt.Fprintf(w, "used gas:  %v\n", output.UsedGas)
	fmt.Fprintf(w, "error:     %v\n", output.ExecutionError)
	fmt.Fprintf(w, "logs:      %v\n", len(logs))
	fmt.Fprintf(w, "logs root: %v\n", logsRoot)
	fmt.Fprintf(w, "root:      %v\n", root)
	return nil
}

func compactAction(ctx *cli.Context) error {
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	if err := db.Compact(); err != nil {
		return err
	}
	logger.Info("database compacted", "elapsed", time.Since(start))
	return nil
}
