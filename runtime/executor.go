// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/vechain/worldstate/state"
	"github.com/vechain/worldstate/world"
)

// Result is the outcome of executing an invocation.
type Result struct {
	ReturnData      []byte
	ContractAddress *world.Address
	// LeftOverGas is the gas not consumed by the execution.
	LeftOverGas uint64
	// VMErr is the execution failure, if any. The runtime rolls back the
	// state changes when it's set.
	VMErr error
}

// Executor executes an invocation against the state.
// A returned error means the state itself failed, and aborts the call.
type Executor interface {
	Execute(st *state.State, inv *Invocation) (*Result, error)
}

// Builtin executes plain value transfers and contract deployments, with the
// gas rules of evm.Call and evm.Create. No intrinsic gas is charged.
// Calls to accounts with code fail with ErrCodeExecution.
type Builtin struct{}

var _ Executor = Builtin{}

// Execute implements Executor.
func (Builtin) Execute(st *state.State, inv *Invocation) (*Result, error) {
	value := inv.Value
	if value == nil {
		value = new(uint256.Int)
	}

	// the balance check fails before any gas is used
	ok, err := canTransfer(st, inv.From, value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Result{LeftOverGas: inv.Gas, VMErr: vm.ErrInsufficientBalance}, nil
	}

	if inv.To == nil {
		return create(st, inv.From, inv.Input, inv.Gas, value)
	}
	return call(st, inv.From, *inv.To, inv.Gas, value)
}

func call(st *state.State, from, to world.Address, gas uint64, value *uint256.Int) (*Result, error) {
	if err := transfer(st, from, to, value); err != nil {
		return nil, err
	}
	isContract, err := st.IsContract(to)
	if err != nil {
		return nil, err
	}
	if isContract {
		return &Result{VMErr: ErrCodeExecution}, nil
	}
	return &Result{LeftOverGas: gas}, nil
}

func create(st *state.State, from world.Address, code []byte, gas uint64, value *uint256.Int) (*Result, error) {
	// the caller has already increased its nonce for this invocation
	nonce, err := st.GetNonce(from)
	if err != nil {
		return nil, err
	}
	if nonce > 0 {
		nonce--
	}
	addr := world.CreateContractAddress(from, nonce)
	res := &Result{ContractAddress: &addr}

	codeHash, err := st.GetCodeHash(addr)
	if err != nil {
		return nil, err
	}
	addrNonce, err := st.GetNonce(addr)
	if err != nil {
		return nil, err
	}
	if addrNonce != 0 || codeHash != world.EmptyCodeHash {
		res.VMErr = vm.ErrContractAddressCollision
		return res, nil
	}

	if err := st.SetNonce(addr, 1); err != nil {
		return nil, err
	}
	if err := transfer(st, from, addr, value); err != nil {
		return nil, err
	}

	switch {
	case len(code) > params.MaxCodeSize:
		res.VMErr = vm.ErrMaxCodeSizeExceeded
		return res, nil
	case len(code) > 0 && code[0] == 0xef:
		// EIP-3541
		res.VMErr = vm.ErrInvalidCode
		return res, nil
	}
	deposit := uint64(len(code)) * params.CreateDataGas
	if gas < deposit {
		res.VMErr = vm.ErrCodeStoreOutOfGas
		return res, nil
	}
	if err := st.SetCode(addr, code); err != nil {
		return nil, err
	}
	res.LeftOverGas = gas - deposit
	return res, nil
}

func canTransfer(st *state.State, from world.Address, value *uint256.Int) (bool, error) {
	if value.IsZero() {
		return true, nil
	}
	balance, err := st.GetBalance(from)
	if err != nil {
		return false, err
	}
	return !balance.Lt(value), nil
}

// transfer moves value between accounts. The balance must have been checked.
func transfer(st *state.State, from, to world.Address, value *uint256.Int) error {
	if value.IsZero() {
		return nil
	}
	if err := st.SubBalance(from, value); err != nil {
		return err
	}
	return st.AddBalance(to, value)
}
