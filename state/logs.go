// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/worldstate/trie"
	"github.com/vechain/worldstate/world"
)

// Log is an event emitted during a transaction.
type Log struct {
	Address world.Address
	Topics  []world.Bytes32
	Data    []byte

	TxHash  world.Bytes32
	TxIndex uint
	// Index is the position of the log in the transaction.
	Index uint
}

// SetTxContext sets the transaction which subsequent logs belong to.
// Logs already recorded under the transaction are kept.
func (s *State) SetTxContext(txHash world.Bytes32, txIndex uint) error {
	if s.closed {
		return ErrInvalidHandle
	}
	s.txHash, s.txIndex = txHash, txIndex
	return nil
}

// AddLog records a log under the current transaction.
func (s *State) AddLog(addr world.Address, topics []world.Bytes32, data []byte) error {
	if s.closed {
		return ErrInvalidHandle
	}
	logs := s.logs[s.txHash]
	log := &Log{
		Address: addr,
		Topics:  append([]world.Bytes32(nil), topics...),
		Data:    append([]byte(nil), data...),
		TxHash:  s.txHash,
		TxIndex: s.txIndex,
		Index:   uint(len(logs)),
	}
	s.logs[s.txHash] = append(logs, log)
	s.journal.Append(&addLogChange{s, s.txHash})
	return nil
}

// GetLogs returns logs recorded under the transaction, in emission order.
func (s *State) GetLogs(txHash world.Bytes32) ([]*Log, error) {
	if s.closed {
		return nil, ErrInvalidHandle
	}
	logs := s.logs[txHash]
	return append(make([]*Log, 0, len(logs)), logs...), nil
}

// LogsRoot returns the root hash of the logs recorded under the transaction.
// Each log is rlp encoded as [address, topics, data].
func (s *State) LogsRoot(txHash world.Bytes32) (world.Bytes32, error) {
	logs, err := s.GetLogs(txHash)
	if err != nil {
		return world.Bytes32{}, err
	}
	return trie.DeriveRoot(derivableLogs(logs)), nil
}

type derivableLogs []*Log

func (l derivableLogs) Len() int { return len(l) }

func (l derivableLogs) GetRlp(i int) []byte {
	data, err := rlp.EncodeToBytes([]any{l[i].Address, l[i].Topics, l[i].Data})
	if err != nil {
		panic(err)
	}
	return data
}
