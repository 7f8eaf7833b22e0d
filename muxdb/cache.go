// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package muxdb

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/qianbin/directcache"

	"github.com/vechain/worldstate/cache"
)

// nodeCache caches trie node blobs by node hash.
// A nil *nodeCache is valid and caches nothing.
type nodeCache struct {
	nodes       *directcache.Cache
	stats       cache.Stats
	lastLogTime atomic.Int64
}

// newNodeCache creates a node cache with the given size. It returns nil
// if size is not positive.
func newNodeCache(sizeMB int) *nodeCache {
	if sizeMB <= 0 {
		return nil
	}
	c := &nodeCache{
		nodes: directcache.New(sizeMB * 1024 * 1024),
	}
	c.lastLogTime.Store(time.Now().UnixNano())
	return c
}

func (c *nodeCache) log() {
	now := time.Now().UnixNano()
	last := c.lastLogTime.Swap(now)

	if now-last > int64(time.Second*20) {
		if changed, hit, miss := c.stats.Stats(); changed {
			logger.Info("node cache stats",
				"lookups", hit+miss,
				"hitrate", cache.HitRate(hit, miss),
			)
		}
	} else {
		c.lastLogTime.CompareAndSwap(now, last)
	}
}

// Add adds the encoded node into the cache.
func (c *nodeCache) Add(hash, blob []byte) {
	if c == nil {
		return
	}
	_ = c.nodes.Set(hash, blob)
}

// Get returns the cached node blob, or nil if missed.
// Peeking doesn't count in stats, and doesn't refresh the entry.
func (c *nodeCache) Get(hash []byte, peek bool) []byte {
	if c == nil {
		return nil
	}
	var blob []byte
	if c.nodes.AdvGet(hash, func(val []byte) {
		blob = slices.Clone(val)
	}, peek) && len(blob) > 0 {
		if !peek {
			metricCacheHitMiss().AddWithLabel(1, hitLabels)
			if c.stats.Hit()%2000 == 0 {
				c.log()
			}
		}
		return blob
	}
	if !peek {
		metricCacheHitMiss().AddWithLabel(1, missLabels)
		c.stats.Miss()
	}
	return nil
}
