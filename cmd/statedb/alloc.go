// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/worldstate/state"
	"github.com/vechain/worldstate/world"
)

// Alloc is the initial allocation of accounts, in YAML form:
//
//	accounts:
//	  "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed":
//	    balance: "1000000000000000000"
//	    nonce: 1
//	    code: "0x6000"
//	    strategy: chunked
//	    storage:
//	      "0x0000000000000000000000000000000000000000000000000000000000000001": "0x68656c6c6f"
type Alloc struct {
	Accounts map[string]AllocAccount `yaml:"accounts"`
}

// AllocAccount is an allocated account.
type AllocAccount struct {
	Balance  string            `yaml:"balance"`
	Nonce    uint64            `yaml:"nonce"`
	Code     string            `yaml:"code"`
	Strategy string            `yaml:"strategy"`
	Storage  map[string]string `yaml:"storage"`
}

func loadAllocFile(path string) (*Alloc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeAlloc(f)
}

func decodeAlloc(r io.Reader) (*Alloc, error) {
	var alloc Alloc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&alloc); err != nil {
		if err == io.EOF {
			return &alloc, nil
		}
		return nil, errors.Wrap(err, "decode alloc")
	}
	return &alloc, nil
}

// Apply writes the allocation into the state, in address order.
// The optional onApplied is called after each account.
func (a *Alloc) Apply(st *state.State, onApplied func()) error {
	keys := make([]string, 0, len(a.Accounts))
	for k := range a.Accounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		addr, err := world.ParseAddress(k)
		if err != nil {
			return errors.Wrapf(err, "account %q", k)
		}
		acc := a.Accounts[k]
		if err := acc.apply(st, *addr); err != nil {
			return errors.Wrapf(err, "account %v", addr)
		}
		if onApplied != nil {
			onApplied()
		}
	}
	return nil
}

func (acc *AllocAccount) apply(st *state.State, addr world.Address) error {
	if acc.Balance != "" {
		balance, err := parseValue(acc.Balance)
		if err != nil {
			return errors.Wrap(err, "balance")
		}
		if err := st.SetBalance(addr, balance); err != nil {
			return err
		}
	}
	if acc.Nonce != 0 {
		if err := st.SetNonce(addr, acc.Nonce); err != nil {
			return err
		}
	}
	if acc.Code != "" {
		code, err := hexutil.Decode(acc.Code)
		if err != nil {
			return errors.Wrap(err, "code")
		}
		if err := st.SetCode(addr, code); err != nil {
			return err
		}
	}

	strategy, err := parseStrategy(acc.Strategy)
	if err != nil {
		return err
	}
	for k, v := range acc.Storage {
		key, err := world.ParseBytes32(k)
		if err != nil {
			return errors.Wrapf(err, "storage key %q", k)
		}
		value, err := hexutil.Decode(v)
		if err != nil {
			return errors.Wrapf(err, "storage value of %v", key)
		}
		if err := st.SetStorage(addr, key, value, strategy); err != nil {
			return errors.Wrapf(err, "storage %v", key)
		}
	}
	return nil
}
