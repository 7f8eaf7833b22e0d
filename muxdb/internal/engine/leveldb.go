// Copyright (c) 2022 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/worldstate/kv"
	"github.com/vechain/worldstate/log"
	"github.com/vechain/worldstate/metrics"
)

// IdealBatchSize is the size a bulk grows to before it gets flushed,
// when auto flush enabled.
const IdealBatchSize = 128 * 1024

var (
	writeOpt = opt.WriteOptions{}
	readOpt  = opt.ReadOptions{}
	scanOpt  = opt.ReadOptions{DontFillCache: true}

	logger = log.WithContext("pkg", "engine")

	metricBulkWrite = metrics.LazyCounterVec("engine_bulk_write_count", []string{"result"})
	bulkOKLabels    = metrics.Labels{"result": "ok"}
	bulkErrLabels   = metrics.Labels{"result": "error"}
)

// OpenLevel opens or creates the leveldb at path.
// A corrupted db is recovered before use.
func OpenLevel(path string, options Options) (Engine, error) {
	ldbOpts := opt.Options{
		OpenFilesCacheCapacity: options.OpenFilesCacheCapacity,
		BlockCacheCapacity:     options.ReadCacheMB * opt.MiB,
		WriteBuffer:            options.WriteBufferMB * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
		BlockSize:              1024 * 32, // balance performance of point reads and compression ratio.
		CompactionTableSize:    4 * opt.MiB,
	}

	db, err := leveldb.OpenFile(path, &ldbOpts)
	if _, corrupted := err.(*dberrors.ErrCorrupted); corrupted {
		logger.Warn("database corrupted, try to recover", "path", path)
		db, err = leveldb.RecoverFile(path, &ldbOpts)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %v", path)
	}
	return newLevelEngine(db), nil
}

// NewMemLevel creates a leveldb engine on memory storage.
func NewMemLevel() Engine {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		// memory storage never fails to open
		panic(err)
	}
	return newLevelEngine(db)
}

type levelEngine struct {
	db      *leveldb.DB
	batches sync.Pool
}

func newLevelEngine(db *leveldb.DB) *levelEngine {
	return &levelEngine{
		db: db,
		batches: sync.Pool{
			New: func() any { return &leveldb.Batch{} },
		},
	}
}

func (e *levelEngine) Close() error {
	return e.db.Close()
}

func (e *levelEngine) IsNotFound(err error) bool {
	return err == leveldb.ErrNotFound
}

func (e *levelEngine) Get(key []byte) ([]byte, error) {
	val, err := e.db.Get(key, &readOpt)
	// val is []byte{} on error
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (e *levelEngine) Has(key []byte) (bool, error) {
	return e.db.Has(key, &readOpt)
}

func (e *levelEngine) Put(key, val []byte) error {
	return e.db.Put(key, val, &writeOpt)
}

func (e *levelEngine) Delete(key []byte) error {
	return e.db.Delete(key, &writeOpt)
}

func (e *levelEngine) Compact(r kv.Range) error {
	return e.db.CompactRange(util.Range(r))
}

func (e *levelEngine) Snapshot() kv.Snapshot {
	snap, err := e.db.GetSnapshot()
	if err != nil {
		return &struct {
			kv.GetFunc
			kv.HasFunc
			kv.IsNotFoundFunc
			kv.ReleaseFunc
		}{
			func([]byte) ([]byte, error) { return nil, err },
			func([]byte) (bool, error) { return false, err },
			e.IsNotFound,
			func() {},
		}
	}
	return &struct {
		kv.GetFunc
		kv.HasFunc
		kv.IsNotFoundFunc
		kv.ReleaseFunc
	}{
		func(key []byte) ([]byte, error) {
			val, err := snap.Get(key, &readOpt)
			if err != nil {
				return nil, err
			}
			return val, nil
		},
		func(key []byte) (bool, error) { return snap.Has(key, &readOpt) },
		e.IsNotFound,
		snap.Release,
	}
}

// Bulk returns a batched writer. Nothing reaches the db until Write is
// called, unless auto flush is enabled, in which case the batch is flushed
// every time it exceeds IdealBatchSize.
func (e *levelEngine) Bulk() kv.Bulk {
	var (
		batch     *leveldb.Batch
		autoFlush bool
	)

	flush := func(minSize int) error {
		if batch == nil || len(batch.Dump()) < minSize {
			return nil
		}
		if batch.Len() > 0 {
			if err := e.db.Write(batch, &writeOpt); err != nil {
				metricBulkWrite().AddWithLabel(1, bulkErrLabels)
				return err
			}
			metricBulkWrite().AddWithLabel(1, bulkOKLabels)
		}
		e.batches.Put(batch)
		batch = nil
		return nil
	}
	put := func(op func(b *leveldb.Batch)) error {
		if batch == nil {
			batch = e.batches.Get().(*leveldb.Batch)
			batch.Reset()
		}
		op(batch)
		if autoFlush {
			return flush(IdealBatchSize)
		}
		return nil
	}

	return &struct {
		kv.PutFunc
		kv.DeleteFunc
		kv.EnableAutoFlushFunc
		kv.WriteFunc
	}{
		func(key, val []byte) error {
			return put(func(b *leveldb.Batch) { b.Put(key, val) })
		},
		func(key []byte) error {
			return put(func(b *leveldb.Batch) { b.Delete(key) })
		},
		func() { autoFlush = true },
		func() error { return flush(0) },
	}
}

func (e *levelEngine) Iterate(r kv.Range) kv.Iterator {
	return e.db.NewIterator((*util.Range)(&r), &scanOpt)
}
