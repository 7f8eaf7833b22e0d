// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix that carves a logical store out of a shared one.
type Bucket string

var keyPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// withKey passes the prefixed key to fn. The key is pooled and must not be
// retained after fn returns.
func (b Bucket) withKey(key []byte, fn func(k []byte)) {
	k := keyPool.Get().(*[]byte)
	*k = append(append((*k)[:0], b...), key...)
	fn(*k)
	keyPool.Put(k)
}

// rangeOf maps r into the bucket. Returned slices are freshly allocated.
func (b Bucket) rangeOf(r Range) Range {
	prefixed := Range{Start: append([]byte(b), r.Start...)}
	if len(r.Limit) > 0 {
		prefixed.Limit = append([]byte(b), r.Limit...)
	} else {
		prefixed.Limit = util.BytesPrefix([]byte(b)).Limit
	}
	return prefixed
}

// NewGetter wraps src so that reads are confined to the bucket.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) (val []byte, err error) {
			b.withKey(key, func(k []byte) { val, err = src.Get(k) })
			return
		},
		func(key []byte) (has bool, err error) {
			b.withKey(key, func(k []byte) { has, err = src.Has(k) })
			return
		},
		src.IsNotFound,
	}
}

// NewPutter wraps src so that writes land in the bucket.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) (err error) {
			b.withKey(key, func(k []byte) { err = src.Put(k, val) })
			return
		},
		func(key []byte) (err error) {
			b.withKey(key, func(k []byte) { err = src.Delete(k) })
			return
		},
	}
}

func (b Bucket) newSnapshot(src Snapshot) Snapshot {
	return &struct {
		Getter
		ReleaseFunc
	}{b.NewGetter(src), src.Release}
}

func (b Bucket) newBulk(src Bulk) Bulk {
	return &struct {
		Putter
		EnableAutoFlushFunc
		WriteFunc
	}{b.NewPutter(src), src.EnableAutoFlush, src.Write}
}

func (b Bucket) newIterator(src Iterator) Iterator {
	return &struct {
		NextFunc
		KeyFunc
		ValueFunc
		ReleaseFunc
		ErrorFunc
	}{
		src.Next,
		func() []byte { return src.Key()[len(b):] },
		src.Value,
		src.Release,
		src.Error,
	}
}

// NewStore creates the bucket view of src.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		SnapshotFunc
		BulkFunc
		IterateFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		func() Snapshot { return b.newSnapshot(src.Snapshot()) },
		func() Bulk { return b.newBulk(src.Bulk()) },
		func(r Range) Iterator { return b.newIterator(src.Iterate(b.rangeOf(r))) },
	}
}
