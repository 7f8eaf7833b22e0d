// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package muxdb

import (
	"time"

	"github.com/vechain/worldstate/kv"
	"github.com/vechain/worldstate/metrics"
)

// Batch collects trie nodes and named store entries, and writes them in
// one atomic bulk.
type Batch struct {
	db      *MuxDB
	bulk    kv.Bulk
	nodes   kv.Putter
	pending []nodeBlob
	undo    []func() // restores tries committed into the batch
	written bool
}

type nodeBlob struct {
	hash, blob []byte
}

// Store returns the putter to the named store, whose writes go into the batch.
func (b *Batch) Store(name string) kv.Putter {
	return kv.Bucket(string(namedStoreSpace) + name).NewPutter(b.bulk)
}

// Len returns the count of trie nodes in the batch.
func (b *Batch) Len() int {
	return len(b.pending)
}

// Write flushes the batch. Committed nodes are then added to the node cache.
// A batch can be written only once.
func (b *Batch) Write() error {
	if b.written {
		return nil
	}
	start := time.Now()
	if err := b.bulk.Write(); err != nil {
		return err
	}
	metrics.ObserveSince(metricBatchWrite(), start)
	b.written = true
	for _, n := range b.pending {
		b.db.cache.Add(n.hash, n.blob)
	}
	b.pending, b.undo = nil, nil
	return nil
}

// Discard abandons the batch if not yet written. Tries committed into it
// get back their dirty nodes, so that a later Commit writes them again.
func (b *Batch) Discard() {
	if b.written {
		return
	}
	for i := len(b.undo) - 1; i >= 0; i-- {
		b.undo[i]()
	}
	b.pending, b.undo = nil, nil
}

// nodeWriter writes trie nodes into the batch.
type nodeWriter Batch

func (w *nodeWriter) Put(hash, blob []byte) error {
	if err := w.nodes.Put(hash, blob); err != nil {
		return err
	}
	w.pending = append(w.pending, nodeBlob{hash, blob})
	return nil
}
