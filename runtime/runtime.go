// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/worldstate/log"
	"github.com/vechain/worldstate/state"
	"github.com/vechain/worldstate/world"
)

var logger = log.WithContext("pkg", "runtime")

// TxContext identifies the transaction an invocation belongs to.
type TxContext struct {
	TxHash  world.Bytes32
	TxIndex uint
}

// Invocation is a single call or contract creation.
type Invocation struct {
	From world.Address
	// To is nil for contract creation.
	To       *world.Address
	Value    *uint256.Int
	Input    []byte
	Gas      uint64
	GasPrice *uint256.Int
	// TxContext, if set, selects the transaction logs are recorded under.
	TxContext *TxContext
}

// Output is the outcome of Apply.
type Output struct {
	ExecutionError  string
	ReturnData      []byte
	ContractAddress *world.Address
	UsedGas         uint64
	Reverted        bool
}

// Runtime applies invocations to a state.
type Runtime struct {
	state    *state.State
	executor Executor
}

// New create a Runtime object.
func New(st *state.State, executor Executor) *Runtime {
	if executor == nil {
		executor = Builtin{}
	}
	return &Runtime{
		state:    st,
		executor: executor,
	}
}

// State returns the state the runtime applies to.
func (rt *Runtime) State() *state.State { return rt.state }

// Apply executes the invocation.
// Execution failures are reported in Output.ExecutionError, with all state
// changes made by the call rolled back. Errors are returned only when the
// state fails. UsedGas is the gas limit minus the gas the executor left over.
func (rt *Runtime) Apply(inv *Invocation) (*Output, error) {
	if inv == nil {
		return nil, errors.New("nil invocation")
	}
	if inv.Gas == 0 {
		clone := *inv
		clone.Gas = math.MaxInt64
		inv = &clone
	}

	if ctx := inv.TxContext; ctx != nil {
		if err := rt.state.SetTxContext(ctx.TxHash, ctx.TxIndex); err != nil {
			return nil, err
		}
	}

	// checkpoint to be reverted when execution failed.
	checkpoint, err := rt.state.Snapshot()
	if err != nil {
		return nil, err
	}

	res, err := rt.executor.Execute(rt.state, inv)
	if err != nil {
		if rerr := rt.state.RevertToSnapshot(checkpoint); rerr != nil {
			logger.Warn("failed to revert", "err", rerr)
		}
		return nil, errors.WithMessage(err, "execute")
	}

	output := &Output{
		ReturnData:      res.ReturnData,
		ContractAddress: res.ContractAddress,
		Reverted:        errors.Is(res.VMErr, vm.ErrExecutionReverted),
	}
	if res.VMErr != nil {
		if err := rt.state.RevertToSnapshot(checkpoint); err != nil {
			return nil, err
		}
		output.ExecutionError = res.VMErr.Error()
		logger.Debug("execution failed", "from", inv.From, "err", res.VMErr)
	}
	leftOver := res.LeftOverGas
	if leftOver > inv.Gas {
		leftOver = inv.Gas
	}
	output.UsedGas = inv.Gas - leftOver
	return output, nil
}
