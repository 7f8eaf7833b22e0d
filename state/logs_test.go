// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/worldstate/world"
)

func TestLogs(t *testing.T) {
	st := newState(t)
	tx1 := world.Bytes32{1}
	tx2 := world.Bytes32{2}
	addr := world.Address{9}
	topic := world.Keccak256([]byte("Transfer(address,address,uint256)"))

	logs, err := st.GetLogs(tx1)
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)

	require.NoError(t, st.SetTxContext(tx1, 0))
	require.NoError(t, st.AddLog(addr, []world.Bytes32{topic}, []byte("a")))
	require.NoError(t, st.AddLog(world.Address{8}, nil, []byte("b")))

	rev, _ := st.Snapshot()
	require.NoError(t, st.AddLog(addr, nil, []byte("reverted")))
	require.NoError(t, st.RevertToSnapshot(rev))

	require.NoError(t, st.SetTxContext(tx2, 1))
	require.NoError(t, st.AddLog(addr, nil, []byte("c")))

	// back to tx1, logs are appended
	require.NoError(t, st.SetTxContext(tx1, 0))
	require.NoError(t, st.AddLog(addr, nil, []byte("d")))

	logs, err = st.GetLogs(tx1)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	for i, data := range []string{"a", "b", "d"} {
		assert.Equal(t, []byte(data), logs[i].Data)
		assert.Equal(t, uint(i), logs[i].Index)
		assert.Equal(t, tx1, logs[i].TxHash)
		assert.Equal(t, uint(0), logs[i].TxIndex)
	}
	assert.Equal(t, addr, logs[0].Address)
	assert.Equal(t, world.Address{8}, logs[1].Address)
	assert.Equal(t, []world.Bytes32{topic}, logs[0].Topics)

	logs, _ = st.GetLogs(tx2)
	require.Len(t, logs, 1)
	assert.Equal(t, uint(1), logs[0].TxIndex)
	assert.Equal(t, uint(0), logs[0].Index)
}

func TestLogsRevertAll(t *testing.T) {
	st := newState(t)
	tx := world.Bytes32{1}

	rev, _ := st.Snapshot()
	require.NoError(t, st.SetTxContext(tx, 0))
	require.NoError(t, st.AddLog(world.Address{}, nil, nil))
	require.NoError(t, st.RevertToSnapshot(rev))

	logs, _ := st.GetLogs(tx)
	assert.Empty(t, logs)

	// index restarts
	require.NoError(t, st.AddLog(world.Address{}, nil, nil))
	logs, _ = st.GetLogs(tx)
	require.Len(t, logs, 1)
	assert.Equal(t, uint(0), logs[0].Index)
}

func TestLogsRoot(t *testing.T) {
	st := newState(t)
	tx := world.Bytes32{1}

	root, err := st.LogsRoot(tx)
	require.NoError(t, err)
	assert.Equal(t, world.EmptyRoot, root)

	require.NoError(t, st.SetTxContext(tx, 0))
	rev, err := st.Snapshot()
	require.NoError(t, err)
	require.NoError(t, st.AddLog(world.Address{1}, []world.Bytes32{{2}}, []byte("data")))

	root, err = st.LogsRoot(tx)
	require.NoError(t, err)
	assert.NotEqual(t, world.EmptyRoot, root)

	other := newState(t)
	require.NoError(t, other.SetTxContext(tx, 5))
	require.NoError(t, other.AddLog(world.Address{1}, []world.Bytes32{{2}}, []byte("data")))
	otherRoot, err := other.LogsRoot(tx)
	require.NoError(t, err)
	assert.Equal(t, root, otherRoot, "tx index is not part of the root")

	require.NoError(t, st.RevertToSnapshot(rev))
	root, err = st.LogsRoot(tx)
	require.NoError(t, err)
	assert.Equal(t, world.EmptyRoot, root)

	require.NoError(t, st.Close())
	_, err = st.LogsRoot(tx)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}
