// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"time"

	"github.com/holiman/uint256"
	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/worldstate/journal"
	"github.com/vechain/worldstate/log"
	"github.com/vechain/worldstate/metrics"
	"github.com/vechain/worldstate/muxdb"
	"github.com/vechain/worldstate/world"
)

const codeStoreName = "state.code"

var logger = log.WithContext("pkg", "state")

// State manages the world state.
//
// State is not safe for concurrent use. It doesn't own the db, which
// should be closed by the caller after the state closed.
type State struct {
	db      *muxdb.MuxDB
	trie    *muxdb.Trie                    // the accounts trie
	objects map[world.Address]*stateObject // cache of accounts trie
	dirties map[world.Address]struct{}     // accounts changed since last flush
	journal *journal.Journal               // undo records
	logs    map[world.Bytes32][]*Log       // logs by tx hash
	txHash  world.Bytes32
	txIndex uint
	closed  bool
}

// Open opens the state at root. A zero root or the empty root opens an
// empty state. It returns ErrStateNotFound if root was never committed.
func Open(db *muxdb.MuxDB, root world.Bytes32) (*State, error) {
	has, err := db.HasTrieNode(root)
	if err != nil {
		return nil, storageError(err, "open")
	}
	if !has {
		return nil, ErrStateNotFound
	}
	metricOpenStates().Add(1)
	return &State{
		db:      db,
		trie:    db.NewTrie(root),
		objects: make(map[world.Address]*stateObject),
		dirties: make(map[world.Address]struct{}),
		journal: journal.New(),
		logs:    make(map[world.Bytes32][]*Log),
	}, nil
}

// Close closes the state. Any later operation returns ErrInvalidHandle.
// It's safe to call Close more than once.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.objects, s.dirties, s.logs = nil, nil, nil
	s.trie, s.journal = nil, nil
	metricOpenStates().Add(-1)
	return nil
}

func (s *State) markDirty(addr world.Address) {
	s.dirties[addr] = struct{}{}
}

// getObject returns the cached object, or loads it from the accounts trie.
func (s *State) getObject(addr world.Address) (*stateObject, error) {
	if s.closed {
		return nil, ErrInvalidHandle
	}
	if obj, ok := s.objects[addr]; ok {
		metricStateAccess().AddWithLabel(1, accountCacheLabels)
		return obj, nil
	}
	a, err := loadAccount(s.trie, addr)
	if err != nil {
		return nil, wrapError(err, "load account")
	}
	metricStateAccess().AddWithLabel(1, accountTrieLabels)
	obj := newStateObject(s.db, addr, a)
	s.objects[addr] = obj
	return obj, nil
}

// wrapError keeps encoding errors, and wraps others as state access failure.
func wrapError(err error, msg string) error {
	if errors.Is(err, ErrEncoding) {
		return err
	}
	return storageError(err, msg)
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr world.Address) (*uint256.Int, error) {
	obj, err := s.getObject(addr)
	if err != nil {
		return nil, err
	}
	return obj.data.Balance.Clone(), nil
}

func (s *State) setBalance(obj *stateObject, balance *uint256.Int) {
	s.journal.Append(&balanceChange{s, obj, obj.data.Balance})
	obj.data.Balance = balance
	s.markDirty(obj.addr)
}

// SetBalance sets balance for the given address.
func (s *State) SetBalance(addr world.Address, balance *uint256.Int) error {
	obj, err := s.getObject(addr)
	if err != nil {
		return err
	}
	s.setBalance(obj, balance.Clone())
	return nil
}

// AddBalance adds amount to the balance of the given address.
func (s *State) AddBalance(addr world.Address, amount *uint256.Int) error {
	obj, err := s.getObject(addr)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(obj.data.Balance, amount)
	if overflow {
		return ErrBalanceOverflow
	}
	s.setBalance(obj, sum)
	return nil
}

// SubBalance subtracts amount from the balance of the given address.
// It fails with ErrInsufficientBalance rather than going below zero.
func (s *State) SubBalance(addr world.Address, amount *uint256.Int) error {
	obj, err := s.getObject(addr)
	if err != nil {
		return err
	}
	if obj.data.Balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	s.setBalance(obj, new(uint256.Int).Sub(obj.data.Balance, amount))
	return nil
}

// GetNonce returns the nonce of the given address.
func (s *State) GetNonce(addr world.Address) (uint64, error) {
	obj, err := s.getObject(addr)
	if err != nil {
		return 0, err
	}
	return obj.data.Nonce, nil
}

// SetNonce sets the nonce of the given address.
func (s *State) SetNonce(addr world.Address, nonce uint64) error {
	obj, err := s.getObject(addr)
	if err != nil {
		return err
	}
	s.journal.Append(&nonceChange{s, obj, obj.data.Nonce})
	obj.data.Nonce = nonce
	s.markDirty(addr)
	return nil
}

// GetCodeHash returns code hash for the given address.
// It's EmptyCodeHash for accounts without code.
func (s *State) GetCodeHash(addr world.Address) (world.Bytes32, error) {
	obj, err := s.getObject(addr)
	if err != nil {
		return world.Bytes32{}, err
	}
	return obj.data.CodeHash, nil
}

func (s *State) setCode(obj *stateObject, hash world.Bytes32, code []byte, dirtyCode bool) {
	s.journal.Append(&codeChange{s, obj, obj.data.CodeHash, obj.code, obj.dirtyCode})
	obj.data.CodeHash = hash
	obj.code = code
	obj.dirtyCode = dirtyCode
	s.markDirty(obj.addr)
}

// SetCodeHash sets the code hash for the given address, without the code.
// The zero hash is taken as EmptyCodeHash.
func (s *State) SetCodeHash(addr world.Address, hash world.Bytes32) error {
	obj, err := s.getObject(addr)
	if err != nil {
		return err
	}
	if hash.IsZero() {
		hash = world.EmptyCodeHash
	}
	s.setCode(obj, hash, nil, false)
	return nil
}

// GetCode returns code for the given address.
// A code hash without stored code, e.g. set by SetCodeHash, fails with ErrEncoding.
func (s *State) GetCode(addr world.Address) ([]byte, error) {
	obj, err := s.getObject(addr)
	if err != nil {
		return nil, err
	}
	code, err := obj.getCode()
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, pkgerrors.WithMessagef(ErrEncoding, "missing code %v", obj.data.CodeHash)
		}
		return nil, storageError(err, "load code")
	}
	return code, nil
}

// SetCode sets code for the given address, and updates the code hash.
// The code is saved into the code store on commit.
func (s *State) SetCode(addr world.Address, code []byte) error {
	obj, err := s.getObject(addr)
	if err != nil {
		return err
	}
	if len(code) == 0 {
		s.setCode(obj, world.EmptyCodeHash, nil, false)
		return nil
	}
	code = append([]byte(nil), code...)
	s.setCode(obj, world.Keccak256(code), code, true)
	return nil
}

// IsEmpty returns whether the account has zero nonce, zero balance and no code.
func (s *State) IsEmpty(addr world.Address) (bool, error) {
	obj, err := s.getObject(addr)
	if err != nil {
		return false, err
	}
	return obj.data.IsEmpty(), nil
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty.
func (s *State) Exists(addr world.Address) (bool, error) {
	empty, err := s.IsEmpty(addr)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// IsContract returns whether the account has code.
func (s *State) IsContract(addr world.Address) (bool, error) {
	hash, err := s.GetCodeHash(addr)
	if err != nil {
		return false, err
	}
	return hash != world.EmptyCodeHash, nil
}

// IsEOA returns whether the account is externally owned, i.e. has no code.
func (s *State) IsEOA(addr world.Address) (bool, error) {
	isContract, err := s.IsContract(addr)
	if err != nil {
		return false, err
	}
	return !isContract, nil
}

// DeleteAccount resets the account to the zero account, and drops its storage.
func (s *State) DeleteAccount(addr world.Address) error {
	prev, err := s.getObject(addr)
	if err != nil {
		return err
	}
	s.journal.Append(&resetObjectChange{s, addr, prev})
	s.objects[addr] = newStateObject(s.db, addr, emptyAccount())
	s.markDirty(addr)
	return nil
}

// setLeaves writes the leaves, recording their prior values in one undo record.
// Prior values are loaded before any leaf is written.
func (s *State) setLeaves(obj *stateObject, leaves []leaf) error {
	prevs := make([]leaf, 0, len(leaves))
	for _, l := range leaves {
		v, err := obj.getStorage(l.key)
		if err != nil {
			return wrapError(err, "load storage")
		}
		prevs = append(prevs, leaf{l.key, v})
	}
	s.journal.Append(&storageChange{s, obj, prevs})
	for _, l := range leaves {
		obj.setStorage(l.key, l.val)
	}
	s.markDirty(obj.addr)
	return nil
}

// chunkedLen reads the metadata leaf of a chunked value.
func (s *State) chunkedLen(obj *stateObject, key world.Bytes32) (uint64, error) {
	meta, err := obj.getStorage(key)
	if err != nil {
		return 0, wrapError(err, "load storage")
	}
	return decodeLengthWord(meta)
}

// GetStorage returns the value stored at key. A missing value is empty.
// A Raw value is returned as one word.
func (s *State) GetStorage(addr world.Address, key world.Bytes32, strategy Strategy) ([]byte, error) {
	obj, err := s.getObject(addr)
	if err != nil {
		return nil, err
	}
	switch strategy {
	case Raw:
		w, err := obj.getStorage(key)
		if err != nil {
			return nil, wrapError(err, "load storage")
		}
		if w.IsZero() {
			return []byte{}, nil
		}
		return w.Bytes(), nil
	case Chunked:
		n, err := s.chunkedLen(obj, key)
		if err != nil {
			return nil, err
		}
		// grown by append, the length word is not trusted for allocation
		value := make([]byte, 0, min(chunkCount(n), 64)*ChunkSize)
		for i := uint64(0); i < chunkCount(n); i++ {
			w, err := obj.getStorage(chunkKey(key, i))
			if err != nil {
				return nil, wrapError(err, "load storage")
			}
			value = append(value, w[:]...)
		}
		return value[:n], nil
	default:
		return nil, errors.New("state: unknown storage strategy " + strategy.String())
	}
}

// SetStorage stores value at key. An empty value removes the stored value.
// A Raw value must be at most one word.
func (s *State) SetStorage(addr world.Address, key world.Bytes32, value []byte, strategy Strategy) error {
	obj, err := s.getObject(addr)
	if err != nil {
		return err
	}
	switch strategy {
	case Raw:
		if len(value) > 32 {
			return ErrValueTooLong
		}
		return s.setLeaves(obj, []leaf{{key, world.BytesToBytes32(value)}})
	case Chunked:
		oldLen, err := s.chunkedLen(obj, key)
		if err != nil {
			return err
		}
		if uint64(len(value)) > maxChunkedLen {
			return ErrValueTooLong
		}
		return s.setLeaves(obj, chunkedLeaves(key, value, oldLen))
	default:
		return errors.New("state: unknown storage strategy " + strategy.String())
	}
}

// RemoveStorage removes the value stored at key, with all its chunks.
func (s *State) RemoveStorage(addr world.Address, key world.Bytes32, strategy Strategy) error {
	return s.SetStorage(addr, key, nil, strategy)
}

// Snapshot returns a new revision id, greater than any returned before.
func (s *State) Snapshot() (int, error) {
	if s.closed {
		return 0, ErrInvalidHandle
	}
	return s.journal.Snapshot(), nil
}

// RevertToSnapshot reverts all changes after the revision, and discards
// revisions taken after it. Revisions taken before the last commit are invalid.
func (s *State) RevertToSnapshot(rev int) error {
	if s.closed {
		return ErrInvalidHandle
	}
	if err := s.journal.RevertTo(rev); err != nil {
		if errors.Is(err, journal.ErrInvalidRevision) {
			return ErrInvalidSnapshot
		}
		return err
	}
	return nil
}

// IntermediateRoot flushes changes into the tries, and returns the root
// hash of the accounts trie. Nothing is written to the db.
func (s *State) IntermediateRoot() (world.Bytes32, error) {
	if s.closed {
		return world.Bytes32{}, ErrInvalidHandle
	}
	for addr := range s.dirties {
		obj := s.objects[addr]
		if err := obj.flush(); err != nil {
			return world.Bytes32{}, wrapError(err, "update storage trie")
		}
		if err := saveAccount(s.trie, addr, &obj.data); err != nil {
			return world.Bytes32{}, storageError(err, "update accounts trie")
		}
		delete(s.dirties, addr)
	}
	return s.trie.Hash(), nil
}

// Commit writes all changes into the db, and returns the new root.
// Reverting to revisions taken before Commit is not allowed.
// A failed Commit leaves the state as it was, so Commit can be retried.
func (s *State) Commit() (world.Bytes32, error) {
	startTime := time.Now()
	if _, err := s.IntermediateRoot(); err != nil {
		return world.Bytes32{}, err
	}

	batch := s.db.NewBatch()
	root, saved, err := s.commitInto(batch)
	nodes := batch.Len()
	if err == nil {
		if werr := batch.Write(); werr != nil {
			err = storageError(werr, "write batch")
		}
	}
	if err != nil {
		batch.Discard()
		return world.Bytes32{}, err
	}

	for _, obj := range s.objects {
		obj.trieDirty = false
	}
	for _, obj := range saved {
		obj.dirtyCode = false
		codeCache.Add(obj.data.CodeHash, obj.code)
	}
	s.journal.Seal()

	metricCommitCount().Add(1)
	metrics.ObserveSince(metricCommitDuration(), startTime)
	logger.Debug("state committed", "root", root, "nodes", nodes, "codes", len(saved), "elapsed", time.Since(startTime))
	return root, nil
}

// commitInto puts storage tries, new codes and the accounts trie into the
// batch. It returns the objects whose code was saved.
func (s *State) commitInto(batch *muxdb.Batch) (world.Bytes32, []*stateObject, error) {
	var (
		codes = batch.Store(codeStoreName)
		saved []*stateObject
	)
	for _, obj := range s.objects {
		if err := obj.commit(batch); err != nil {
			return world.Bytes32{}, nil, storageError(err, "commit storage trie")
		}
		if obj.dirtyCode {
			if err := codes.Put(obj.data.CodeHash[:], obj.code); err != nil {
				return world.Bytes32{}, nil, storageError(err, "save code")
			}
			saved = append(saved, obj)
		}
	}
	root, err := s.trie.Commit(batch)
	if err != nil {
		return world.Bytes32{}, nil, storageError(err, "commit accounts trie")
	}
	return root, saved, nil
}
