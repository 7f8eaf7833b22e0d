// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/holiman/uint256"

	"github.com/vechain/worldstate/journal"
	"github.com/vechain/worldstate/world"
)

// undo records, one kind per mutable field.
type (
	balanceChange struct {
		s    *State
		obj  *stateObject
		prev *uint256.Int
	}
	nonceChange struct {
		s    *State
		obj  *stateObject
		prev uint64
	}
	codeChange struct {
		s             *State
		obj           *stateObject
		prevHash      world.Bytes32
		prevCode      []byte
		prevDirtyCode bool
	}
	storageChange struct {
		s     *State
		obj   *stateObject
		prevs []leaf
	}
	resetObjectChange struct {
		s    *State
		addr world.Address
		prev *stateObject
	}
	addLogChange struct {
		s      *State
		txHash world.Bytes32
	}
)

var (
	_ journal.Entry = (*balanceChange)(nil)
	_ journal.Entry = (*nonceChange)(nil)
	_ journal.Entry = (*codeChange)(nil)
	_ journal.Entry = (*storageChange)(nil)
	_ journal.Entry = (*resetObjectChange)(nil)
	_ journal.Entry = (*addLogChange)(nil)
)

func (c *balanceChange) Revert() {
	c.obj.data.Balance = c.prev
	c.s.markDirty(c.obj.addr)
}

func (c *nonceChange) Revert() {
	c.obj.data.Nonce = c.prev
	c.s.markDirty(c.obj.addr)
}

func (c *codeChange) Revert() {
	c.obj.data.CodeHash = c.prevHash
	c.obj.code = c.prevCode
	c.obj.dirtyCode = c.prevDirtyCode
	c.s.markDirty(c.obj.addr)
}

func (c *storageChange) Revert() {
	// leaves are restored in reverse, in case a key appears twice
	for i := len(c.prevs) - 1; i >= 0; i-- {
		c.obj.setStorage(c.prevs[i].key, c.prevs[i].val)
	}
	c.s.markDirty(c.obj.addr)
}

func (c *resetObjectChange) Revert() {
	c.s.objects[c.addr] = c.prev
	c.s.markDirty(c.addr)
}

func (c *addLogChange) Revert() {
	logs := c.s.logs[c.txHash]
	if len(logs) == 1 {
		delete(c.s.logs, c.txHash)
	} else {
		c.s.logs[c.txHash] = logs[:len(logs)-1]
	}
}
